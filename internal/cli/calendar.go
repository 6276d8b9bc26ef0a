package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pfrederiksen/rpi-planner-data/internal/calendar"
	"github.com/pfrederiksen/rpi-planner-data/internal/event"
	"github.com/pfrederiksen/rpi-planner-data/internal/logger"
	"github.com/pfrederiksen/rpi-planner-data/internal/scraper"
	"github.com/pfrederiksen/rpi-planner-data/internal/storage"
	"github.com/spf13/cobra"
)

var (
	flagAcademicYear int
	flagICS          string
)

// Titles sampled in the --debug spot-check, and how many hits to show for each.
var (
	spotCheckTitles = []string{"Spring Break-no classes", "GM Week", "Final Exams", "Reading/Study days"}
	spotCheckLimit  = 2
)

// NewCalendarCmd creates the rpi-calendar root command
func NewCalendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rpi-calendar",
		Short: "Scrape the RPI registrar academic calendar into JSON",
		Long: `Fetches the registrar's academic calendar page for one academic year and
writes Academic_calendar_<yy>.json: every dated event with semantic tags plus
the inferred start and end of fall and spring classes.`,
		Args:          cobra.NoArgs,
		RunE:          runCalendar,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().IntVar(&flagAcademicYear, "academic-year", 0, "Two-digit fall year, e.g. 25 for 2025-2026 (required)")
	cmd.Flags().StringVar(&flagICS, "ics", "", "Also write an iCalendar file to this path")
	addCommonFlags(cmd, "Output path (default: <repo_root>/Data/Academic_calendar_<yy>.json)")

	cmd.MarkFlagRequired("academic-year")

	cmd.AddCommand(newConfigCmd())
	return cmd
}

func runCalendar(cmd *cobra.Command, args []string) error {
	yy := flagAcademicYear
	if yy < 0 || yy > 99 {
		return fmt.Errorf("invalid --academic-year %d (must be 0..99)", yy)
	}

	format, err := parseFormat(flagFormat)
	if err != nil {
		return err
	}

	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	out := flagOut
	if out == "" {
		out, err = defaultCalendarPath(cfg.Calendar.OutDir, yy)
		if err != nil {
			return err
		}
	}
	out, err = absPath(out)
	if err != nil {
		return err
	}

	metrics := logger.NewMetrics()
	sc := scraper.New(
		scraper.WithURL(cfg.Calendar.SourceURL),
		scraper.WithUserAgent(cfg.Calendar.UserAgent),
		scraper.WithTimeout(cfg.Calendar.Timeout),
		scraper.WithLogger(log),
		scraper.WithMetrics(metrics),
	)

	log.Debug("fetching calendar", logger.Fields{"url": sc.SourceURL(), "academic_year": yy}, nil)

	doc, err := sc.Scrape(cmd.Context(), yy)
	if err != nil {
		return fmt.Errorf("scraping calendar: %w", err)
	}

	if err := storage.Save(out, doc); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}
	log.Debug("wrote calendar", logger.Fields{"path": out, "events": len(doc.Events)}, nil)

	result := &OutputResult{
		Tool:   "rpi-calendar",
		Output: out,
		Items:  len(doc.Events),
		Unit:   "events",
	}

	if flagICS != "" {
		icsPath, err := absPath(flagICS)
		if err != nil {
			return err
		}
		if err := writeICSFile(icsPath, doc); err != nil {
			return err
		}
		result.ICS = icsPath
		log.Debug("wrote ics", logger.Fields{"path": icsPath}, nil)
	}

	if log.Enabled(logger.LevelDebug) {
		spotCheck(log, doc)
		log.Debug("scrape summary", metrics.Snapshot().Fields(), nil)
	}

	return WriteOutput(cmd.OutOrStdout(), result, format)
}

// defaultCalendarPath is <outDir>/Academic_calendar_<yy>.json, or
// <repo_root>/Data/... when outDir is empty.
func defaultCalendarPath(outDir string, yy int) (string, error) {
	name := fmt.Sprintf("Academic_calendar_%02d.json", yy)
	if outDir != "" {
		return filepath.Join(outDir, name), nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return filepath.Join(findRepoRoot(cwd), "Data", name), nil
}

// findRepoRoot returns the nearest ancestor of start (inclusive) containing a
// .git entry, or start itself when there is none.
func findRepoRoot(start string) string {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}

func writeICSFile(path string, doc *event.Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := calendar.WriteICS(f, doc); err != nil {
		f.Close()
		return fmt.Errorf("writing ics: %w", err)
	}
	return f.Close()
}

// spotCheck logs the first few events matching each sample title.
func spotCheck(log *logger.Logger, doc *event.Document) {
	for _, title := range spotCheckTitles {
		hits := doc.FindAll(title)
		if len(hits) > spotCheckLimit {
			hits = hits[:spotCheckLimit]
		}
		for _, h := range hits {
			fields := logger.Fields{
				"query":     title,
				"title":     h.Title,
				"startDate": h.StartDate,
				"endDate":   h.EndDate,
			}
			if names := h.Tags.Names(); len(names) > 0 {
				fields["tags"] = names
			}
			log.Debug("spot check", fields, nil)
		}
	}
}
