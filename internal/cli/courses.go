package cli

import (
	"fmt"
	"path/filepath"

	"github.com/pfrederiksen/rpi-planner-data/internal/config"
	"github.com/pfrederiksen/rpi-planner-data/internal/course"
	"github.com/pfrederiksen/rpi-planner-data/internal/logger"
	"github.com/pfrederiksen/rpi-planner-data/internal/storage"
	"github.com/spf13/cobra"
)

var (
	flagTerm     string
	flagDataRoot string
)

// NewCoursesCmd creates the rpi-courses root command
func NewCoursesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rpi-courses",
		Short: "Merge QuACS catalog and schedule data into one course file",
		Long: `Reads catalog.json and courses.json from <data-root>/semester_data/<term>/
and writes rpi_courses_<term>.json: every course with its sections and meetings,
ready to be bundled into the planner app.`,
		Args:          cobra.NoArgs,
		RunE:          runCourses,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&flagTerm, "term", "", "Semester term code (default from config: "+config.DefaultTerm+")")
	cmd.Flags().StringVar(&flagDataRoot, "data-root", "", "quacs-data checkout (default from config: "+config.DefaultDataRoot+")")
	addCommonFlags(cmd, "Output path (default: <out_dir>/rpi_courses_<term>.json)")

	cmd.AddCommand(newConfigCmd())
	return cmd
}

func runCourses(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagFormat)
	if err != nil {
		return err
	}

	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	term := cfg.Courses.Term
	if flagTerm != "" {
		term = flagTerm
	}
	dataRoot := cfg.Courses.DataRoot
	if flagDataRoot != "" {
		dataRoot = flagDataRoot
	}

	store, err := storage.New(course.SemesterDir(dataRoot, term))
	if err != nil {
		return fmt.Errorf("opening semester data: %w", err)
	}

	log.Info("using catalog", logger.Fields{"path": store.Path(course.CatalogFile)})
	log.Info("using courses", logger.Fields{"path": store.Path(course.CoursesFile)})

	catalog := course.NewCatalog()
	if err := store.Load(course.CatalogFile, catalog); err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	var schools []course.School
	if err := store.Load(course.CoursesFile, &schools); err != nil {
		return fmt.Errorf("loading courses: %w", err)
	}

	doc := course.NewDocument(term, catalog, schools)

	out := flagOut
	if out == "" {
		out = filepath.Join(cfg.Courses.OutDir, course.OutputName(term))
	}
	out, err = absPath(out)
	if err != nil {
		return err
	}

	if err := storage.Save(out, doc); err != nil {
		return fmt.Errorf("writing courses: %w", err)
	}

	log.Debug("merged courses", logger.Fields{
		"term":         term,
		"catalog_keys": catalog.Len(),
		"schools":      len(schools),
		"courses":      len(doc.Courses),
	}, nil)

	return WriteOutput(cmd.OutOrStdout(), &OutputResult{
		Tool:   "rpi-courses",
		Output: out,
		Items:  len(doc.Courses),
		Unit:   "courses",
	}, format)
}

// absPath expands ~ and makes path absolute relative to the working directory.
func absPath(path string) (string, error) {
	expanded, err := storage.ExpandHome(path)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	return abs, nil
}
