package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pfrederiksen/rpi-planner-data/internal/course"
	"github.com/pfrederiksen/rpi-planner-data/internal/event"
	"github.com/spf13/cobra"
)

const testCalendarHTML = `<html><body>
<table>
	<tr><th>Date</th><th>Day</th><th>Event</th></tr>
	<tr><td>Sep 2</td><td>Tue</td><td>Fall 2025 Classes Begin</td></tr>
	<tr><td>Mar 9 - 13</td><td></td><td>Spring Break-no classes</td></tr>
	<tr><td>May 4 - 8</td><td></td><td>Final Exams</td></tr>
</table>
</body></html>`

// run executes cmd with args in an isolated working directory and returns
// stdout and stderr.
func run(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{" json ", FormatJSON, false},
		{"yaml", "", true},
	}

	for _, tt := range tests {
		got, err := parseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseFormat(%q) = %q, %v; want %q, wantErr %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestCoursesCmd(t *testing.T) {
	tmpDir := t.TempDir()
	chdir(t, tmpDir)

	semester := course.SemesterDir(filepath.Join(tmpDir, "quacs-data"), "202509")
	writeFile(t, filepath.Join(semester, course.CatalogFile),
		`{"CSCI-2300": {"subj":"CSCI","crse":"2300","name":"Intro to Algorithms"}}`)
	writeFile(t, filepath.Join(semester, course.CoursesFile), `[
		{"name": "Science", "courses": [
			{"subj": "CSCI", "crse": "2300", "name": "INTRO TO ALGORITHMS", "sections": [
				{"crn": 41234, "section": "01", "instructor": "Goldschmidt", "timeslots": [
					{"days": ["M", "R"], "timeStart": 930, "timeEnd": 1050, "location": "DCC 308"}
				]}
			]}
		]}
	]`)

	out := filepath.Join(tmpDir, "build", "courses.json")
	stdout, _, err := run(t, NewCoursesCmd(), "--data-root", "quacs-data", "--out", out, "--format", "json")
	if err != nil {
		t.Fatalf("rpi-courses error = %v", err)
	}

	var result OutputResult
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, stdout)
	}
	if result.Output != out || result.Items != 1 || result.Unit != "courses" {
		t.Errorf("result = %+v", result)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	var doc course.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if doc.Term != "202509" || len(doc.Courses) != 1 {
		t.Fatalf("doc = %+v", doc)
	}
	if m := doc.Courses[0].Sections[0].Meetings[0]; m.Start != "09:30" || m.End != "10:50" {
		t.Errorf("meeting = %+v, want 09:30-10:50", m)
	}
}

func TestCoursesCmd_DefaultOutput(t *testing.T) {
	tmpDir := t.TempDir()
	chdir(t, tmpDir)

	semester := course.SemesterDir("quacs-data", "202601")
	writeFile(t, filepath.Join(semester, course.CatalogFile), `{}`)
	writeFile(t, filepath.Join(semester, course.CoursesFile), `[]`)

	stdout, _, err := run(t, NewCoursesCmd(), "--term", "202601")
	if err != nil {
		t.Fatalf("rpi-courses error = %v", err)
	}

	want := filepath.Join(tmpDir, "rpi_courses_202601.json")
	if _, err := os.Stat(want); err != nil {
		t.Errorf("expected output at %s: %v", want, err)
	}
	if !strings.Contains(stdout, "Wrote ") || !strings.Contains(stdout, "(0 courses)") {
		t.Errorf("stdout = %q", stdout)
	}

	data, _ := os.ReadFile(want)
	if !strings.Contains(string(data), `"courses": []`) {
		t.Errorf("empty merge should write an empty array, got %s", data)
	}
}

func TestCoursesCmd_Errors(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		args    []string
		wantErr string
	}{
		{
			name:    "missing semester directory",
			args:    []string{"--data-root", "nowhere"},
			wantErr: "opening semester data",
		},
		{
			name:    "malformed catalog",
			files:   map[string]string{course.CatalogFile: `{"CSCI-2300":`, course.CoursesFile: `[]`},
			wantErr: "loading catalog",
		},
		{
			name:    "missing courses file",
			files:   map[string]string{course.CatalogFile: `{}`},
			wantErr: "loading courses",
		},
		{
			name:    "bad format",
			files:   map[string]string{course.CatalogFile: `{}`, course.CoursesFile: `[]`},
			args:    []string{"--format", "xml"},
			wantErr: "invalid format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			chdir(t, tmpDir)

			semester := course.SemesterDir("quacs-data", "202509")
			if err := os.MkdirAll(semester, 0755); err != nil {
				t.Fatal(err)
			}
			for name, content := range tt.files {
				writeFile(t, filepath.Join(semester, name), content)
			}

			_, _, err := run(t, NewCoursesCmd(), tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func newCalendarServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("academic_year") != "25" {
			t.Errorf("academic_year = %q, want 25", r.URL.Query().Get("academic_year"))
		}
		w.WriteHeader(status)
		w.Write([]byte(testCalendarHTML))
	}))
	t.Cleanup(server.Close)
	t.Setenv("RPIDATA_CALENDAR_SOURCE_URL", server.URL)
	return server
}

func TestCalendarCmd(t *testing.T) {
	server := newCalendarServer(t, http.StatusOK)

	repo := t.TempDir()
	if err := os.Mkdir(filepath.Join(repo, ".git"), 0755); err != nil {
		t.Fatal(err)
	}
	work := filepath.Join(repo, "Tools")
	if err := os.Mkdir(work, 0755); err != nil {
		t.Fatal(err)
	}
	chdir(t, work)

	icsPath := filepath.Join(repo, "Data", "calendar.ics")
	stdout, stderr, err := run(t, NewCalendarCmd(), "--academic-year", "25", "--ics", icsPath, "--debug")
	if err != nil {
		t.Fatalf("rpi-calendar error = %v\nstderr: %s", err, stderr)
	}

	out := filepath.Join(repo, "Data", "Academic_calendar_25.json")
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("expected output at %s: %v", out, err)
	}

	var doc event.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if doc.Source != server.URL || doc.AcademicYear != "2025" || len(doc.Events) != 3 {
		t.Errorf("doc = %+v", doc)
	}
	if doc.Terms.Fall.ClassesBegin == nil || *doc.Terms.Fall.ClassesBegin != "2025-09-02" {
		t.Errorf("fall.classesBegin = %v, want 2025-09-02", doc.Terms.Fall.ClassesBegin)
	}

	ics, err := os.ReadFile(icsPath)
	if err != nil {
		t.Fatalf("expected ics at %s: %v", icsPath, err)
	}
	if !strings.Contains(string(ics), "SUMMARY:Final Exams") {
		t.Errorf("ics missing Final Exams event:\n%s", ics)
	}

	if !strings.Contains(stdout, "(3 events)") || !strings.Contains(stdout, icsPath) {
		t.Errorf("stdout = %q", stdout)
	}
	for _, want := range []string{"spot check", "Spring Break-no classes", "scrape summary", "calendar.events"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("debug log missing %q", want)
		}
	}
}

func TestCalendarCmd_ExplicitOut(t *testing.T) {
	newCalendarServer(t, http.StatusOK)
	tmpDir := t.TempDir()
	chdir(t, tmpDir)

	out := filepath.Join(tmpDir, "cal.json")
	_, stderr, err := run(t, NewCalendarCmd(), "--academic-year", "25", "--out", out)
	if err != nil {
		t.Fatalf("rpi-calendar error = %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("expected output at %s: %v", out, err)
	}
	if strings.Contains(stderr, "spot check") {
		t.Error("spot check should only run with --debug")
	}
}

func TestCalendarCmd_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		args    []string
		wantErr string
	}{
		{"missing academic year", http.StatusOK, nil, "academic-year"},
		{"academic year too large", http.StatusOK, []string{"--academic-year", "100"}, "must be 0..99"},
		{"negative academic year", http.StatusOK, []string{"--academic-year=-1"}, "must be 0..99"},
		{"server error", http.StatusInternalServerError, []string{"--academic-year", "25"}, "unexpected status code: 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newCalendarServer(t, tt.status)
			tmpDir := t.TempDir()
			chdir(t, tmpDir)

			args := append(tt.args, "--out", filepath.Join(tmpDir, "out.json"))
			_, _, err := run(t, NewCalendarCmd(), args...)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
			if _, statErr := os.Stat(filepath.Join(tmpDir, "out.json")); statErr == nil {
				t.Error("no output should be written on error")
			}
		})
	}
}

func TestConfigCmd(t *testing.T) {
	tmpDir := t.TempDir()
	chdir(t, tmpDir)
	writeFile(t, filepath.Join(tmpDir, "custom.yaml"), "courses:\n  term: \"202601\"\n")

	stdout, _, err := run(t, NewCoursesCmd(), "config", "--config", filepath.Join(tmpDir, "custom.yaml"))
	if err != nil {
		t.Fatalf("config error = %v", err)
	}
	for _, want := range []string{"courses:", "term: \"202601\"", "source_url:", "log:"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("config output missing %q:\n%s", want, stdout)
		}
	}
}

func TestFindRepoRoot(t *testing.T) {
	repo := t.TempDir()
	if err := os.Mkdir(filepath.Join(repo, ".git"), 0755); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(repo, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	plain := t.TempDir()

	tests := []struct {
		name  string
		start string
		want  string
	}{
		{"repo root itself", repo, repo},
		{"nested directory", nested, repo},
		{"no repository", plain, plain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := findRepoRoot(tt.start); got != tt.want {
				t.Errorf("findRepoRoot(%q) = %q, want %q", tt.start, got, tt.want)
			}
		})
	}
}

func TestDefaultCalendarPath(t *testing.T) {
	got, err := defaultCalendarPath("/srv/data", 5)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/srv/data", "Academic_calendar_05.json"); got != want {
		t.Errorf("defaultCalendarPath() = %q, want %q", got, want)
	}
}

func TestWriteOutput(t *testing.T) {
	result := &OutputResult{Tool: "rpi-calendar", Output: "/tmp/a.json", ICS: "/tmp/a.ics", Items: 4, Unit: "events"}

	var text bytes.Buffer
	if err := WriteOutput(&text, result, FormatText); err != nil {
		t.Fatal(err)
	}
	if want := "Wrote /tmp/a.json (4 events)\nWrote /tmp/a.ics\n"; text.String() != want {
		t.Errorf("text = %q, want %q", text.String(), want)
	}

	var js bytes.Buffer
	if err := WriteOutput(&js, result, FormatJSON); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(js.String(), `"count": 4`) {
		t.Errorf("json = %s", js.String())
	}

	if err := WriteOutput(&text, result, OutputFormat("xml")); err == nil {
		t.Error("WriteOutput() expected error for unknown format")
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir(%q): %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore Chdir(%q): %v", old, err)
		}
	})
}
