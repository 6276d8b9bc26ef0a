// Package config loads settings for the rpi-courses and rpi-calendar tools.
//
// Precedence: environment (RPIDATA_*) > config file > defaults. The config file is
// optional; when no path is given, rpi-data.yaml is looked up in . and ./config.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to environment overrides, e.g. RPIDATA_COURSES_TERM.
const EnvPrefix = "RPIDATA"

// Config is the top-level configuration.
type Config struct {
	Courses  CoursesConfig  `mapstructure:"courses" yaml:"courses"`
	Calendar CalendarConfig `mapstructure:"calendar" yaml:"calendar"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// CoursesConfig controls the course pipeline.
type CoursesConfig struct {
	// Term is the QuACS semester code, e.g. 202509 for Fall 2025.
	Term string `mapstructure:"term" yaml:"term"`
	// DataRoot is the quacs-data checkout containing semester_data/<term>/.
	DataRoot string `mapstructure:"data_root" yaml:"data_root"`
	// OutDir receives rpi_courses_<term>.json.
	OutDir string `mapstructure:"out_dir" yaml:"out_dir"`
}

// CalendarConfig controls the calendar scraper.
type CalendarConfig struct {
	SourceURL string        `mapstructure:"source_url" yaml:"source_url"`
	UserAgent string        `mapstructure:"user_agent" yaml:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
	// OutDir overrides <repo_root>/Data when set.
	OutDir string `mapstructure:"out_dir" yaml:"out_dir"`
}

// LogConfig selects log level and encoder.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Defaults
const (
	DefaultTerm      = "202509"
	DefaultDataRoot  = "quacs-data"
	DefaultSourceURL = "https://registrar.rpi.edu/academic-calendar"
	DefaultUserAgent = "rpi-planner-data/1.0 (github.com/pfrederiksen/rpi-planner-data)"
	DefaultTimeout   = 30 * time.Second
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("courses.term", DefaultTerm)
	v.SetDefault("courses.data_root", DefaultDataRoot)
	v.SetDefault("courses.out_dir", ".")

	v.SetDefault("calendar.source_url", DefaultSourceURL)
	v.SetDefault("calendar.user_agent", DefaultUserAgent)
	v.SetDefault("calendar.timeout", DefaultTimeout.String())
	v.SetDefault("calendar.out_dir", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Load reads configuration from path (or the default search locations when path is
// empty) and the environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("rpi-data")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings both tools depend on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Courses.Term) == "" {
		return errors.New("invalid config: courses.term must not be empty")
	}
	if strings.TrimSpace(c.Calendar.SourceURL) == "" {
		return errors.New("invalid config: calendar.source_url must not be empty")
	}
	if c.Calendar.Timeout <= 0 {
		return fmt.Errorf("invalid config: calendar.timeout must be positive, got %s", c.Calendar.Timeout)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid config: log.format must be json or console, got %q", c.Log.Format)
	}
	return nil
}

// WriteYAML renders the configuration as YAML.
func (c *Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}
