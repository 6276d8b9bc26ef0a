package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/pfrederiksen/rpi-planner-data/internal/config"
	"github.com/pfrederiksen/rpi-planner-data/internal/logger"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// Flags shared by both tools
var (
	flagConfig string
	flagDebug  bool
	flagOut    string
	flagFormat string
)

// addCommonFlags registers --config and --debug (persistent, so the config
// subcommand sees them) and the --out/--format output flags.
func addCommonFlags(cmd *cobra.Command, outUsage string) {
	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default: rpi-data.yaml in . or ./config)")
	cmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&flagOut, "out", "", outUsage)
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Summary output format: text or json")
}

// setup loads configuration and installs the process logger. --debug overrides
// the configured level.
func setup(cmd *cobra.Command) (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level: %w", err)
	}
	if flagDebug {
		level = logger.LevelDebug
	}

	log := logger.NewWithFormat(level, cfg.Log.Format, cmd.ErrOrStderr())
	logger.SetDefault(log)
	return cfg, log, nil
}

// parseFormat validates the --format flag.
func parseFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
	return format, nil
}

// newConfigCmd prints the effective configuration as YAML.
func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return cfg.WriteYAML(cmd.OutOrStdout())
		},
	}
}

// Execute runs cmd, cancelling its context on interrupt. Errors are printed as
// "Error: <msg>" and exit with ExitError.
func Execute(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cmd.ExecuteContext(ctx)
	stop()

	logger.Default().Sync()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}
