package course

import "path/filepath"

// Input file names inside a QuACS semester directory
const (
	CatalogFile = "catalog.json"
	CoursesFile = "courses.json"
)

// SemesterDir returns <dataRoot>/semester_data/<term>.
func SemesterDir(dataRoot, term string) string {
	return filepath.Join(dataRoot, "semester_data", term)
}

// CatalogEntry carries the human-facing title and description of a course.
type CatalogEntry struct {
	Subj        string `json:"subj"`
	Crse        string `json:"crse"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// School is one element of courses.json.
type School struct {
	Name    string         `json:"name"`
	Courses []SourceCourse `json:"courses"`
}

// SourceCourse is a course as listed by the scheduling system.
type SourceCourse struct {
	Subj     string          `json:"subj"`
	Crse     string          `json:"crse"`
	Name     string          `json:"name"`
	Sections []SourceSection `json:"sections"`
}

// SourceSection is one scheduled section of a course.
type SourceSection struct {
	CRN        *int       `json:"crn"`
	Section    string     `json:"section"`
	Instructor string     `json:"instructor"`
	Timeslots  []Timeslot `json:"timeslots"`
}

// Timeslot is one meeting pattern. Times are military integers (930 = 09:30);
// absent times decode as nil.
type Timeslot struct {
	Days      []string `json:"days"`
	TimeStart *int     `json:"timeStart"`
	TimeEnd   *int     `json:"timeEnd"`
	Location  string   `json:"location"`
}
