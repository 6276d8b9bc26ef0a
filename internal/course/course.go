// Package course merges the QuACS catalog and scheduling data into the compact
// course list consumed by the planner app.
package course

import (
	"fmt"
	"strings"
)

// Course is one entry of the output course list.
type Course struct {
	Subject     string    `json:"subject"`
	Number      string    `json:"number"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Sections    []Section `json:"sections"`
}

// Section is one scheduled section of a course.
type Section struct {
	CRN        *int      `json:"crn"`
	Label      string    `json:"section"`
	Instructor string    `json:"instructor"`
	Meetings   []Meeting `json:"meetings"`
}

// Meeting is a valid timeslot: at least one day and both times known.
type Meeting struct {
	Days     []string `json:"days"`
	Start    string   `json:"start"`
	End      string   `json:"end"`
	Location string   `json:"location"`
}

// Document is the persisted course artifact.
type Document struct {
	Term    string   `json:"term"`
	Courses []Course `json:"courses"`
}

// Key returns the identifier shared by both sources, e.g. "CSCI-2300".
func Key(subj, crse string) string {
	return subj + "-" + crse
}

// OutputName returns the file name of the course document for term.
func OutputName(term string) string {
	return fmt.Sprintf("rpi_courses_%s.json", term)
}

// FormatMilitary renders a military time integer as "HH:MM" (930 → "09:30").
// Nil or negative input yields "".
func FormatMilitary(t *int) string {
	if t == nil || *t < 0 {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", *t/100, *t%100)
}

func fallbackTitle(subj, crse, name string) string {
	if title := strings.TrimSpace(name); title != "" {
		return title
	}
	return strings.TrimSpace(subj + " " + crse)
}

// NewDocument merges catalog and schools into a Document for term.
func NewDocument(term string, catalog *Catalog, schools []School) *Document {
	return &Document{
		Term:    term,
		Courses: Merge(catalog, schools),
	}
}

// Merge returns the union of catalog and scheduling courses. Catalog entries come
// first, in catalog file order; courses only known to the scheduling source follow in the
// order they are encountered. Sections always come from the scheduling source.
func Merge(catalog *Catalog, schools []School) []Course {
	var order []string
	byKey := make(map[string]*Course)

	for _, k := range catalog.Keys() {
		item, _ := catalog.Get(k)
		byKey[k] = &Course{
			Subject:     item.Subj,
			Number:      item.Crse,
			Title:       fallbackTitle(item.Subj, item.Crse, item.Name),
			Description: strings.TrimSpace(item.Description),
			Sections:    []Section{},
		}
		order = append(order, k)
	}

	for _, school := range schools {
		for _, sc := range school.Courses {
			k := Key(sc.Subj, sc.Crse)
			c, ok := byKey[k]
			if !ok {
				c = &Course{
					Subject:  sc.Subj,
					Number:   sc.Crse,
					Title:    fallbackTitle(sc.Subj, sc.Crse, sc.Name),
					Sections: []Section{},
				}
				byKey[k] = c
				order = append(order, k)
			}
			for _, ss := range sc.Sections {
				c.Sections = append(c.Sections, newSection(ss))
			}
		}
	}

	courses := make([]Course, 0, len(order))
	for _, k := range order {
		courses = append(courses, *byKey[k])
	}
	return courses
}

func newSection(ss SourceSection) Section {
	s := Section{
		CRN:        ss.CRN,
		Label:      strings.TrimSpace(ss.Section),
		Instructor: strings.TrimSpace(ss.Instructor),
		Meetings:   []Meeting{},
	}
	for _, ts := range ss.Timeslots {
		if m, ok := newMeeting(ts); ok {
			s.Meetings = append(s.Meetings, m)
		}
	}
	return s
}

// newMeeting drops timeslots without days or with an unknown start or end.
func newMeeting(ts Timeslot) (Meeting, bool) {
	start := FormatMilitary(ts.TimeStart)
	end := FormatMilitary(ts.TimeEnd)
	if len(ts.Days) == 0 || start == "" || end == "" {
		return Meeting{}, false
	}
	return Meeting{
		Days:     ts.Days,
		Start:    start,
		End:      end,
		Location: strings.TrimSpace(ts.Location),
	}, true
}
