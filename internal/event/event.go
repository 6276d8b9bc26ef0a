package event

import (
	"crypto/sha1"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO 8601 calendar-date layout used in every output document.
const DateLayout = "2006-01-02"

// GeneratedAtLayout formats Document.GeneratedAt, e.g. 2025-09-01T12:00:00+00:00.
const GeneratedAtLayout = "2006-01-02T15:04:05-07:00"

// Event is one row of the academic calendar.
type Event struct {
	Title     string  `json:"title"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	DOW       *string `json:"dow"`
	Tags      Tags    `json:"tags"`
}

// NewEvent builds an Event, inferring its tags from the title.
// dow should be empty when the row carries no usable day-of-week.
func NewEvent(title string, start, end time.Time, dow string) Event {
	evt := Event{
		Title:     title,
		StartDate: start.Format(DateLayout),
		EndDate:   end.Format(DateLayout),
		Tags:      InferTags(title),
	}
	if dow != "" {
		evt.DOW = &dow
	}
	return evt
}

// Start returns the parsed start date (UTC midnight).
func (e Event) Start() time.Time {
	t, _ := time.Parse(DateLayout, e.StartDate)
	return t
}

// End returns the parsed, inclusive end date (UTC midnight).
func (e Event) End() time.Time {
	t, _ := time.Parse(DateLayout, e.EndDate)
	return t
}

// ID returns a deterministic identifier derived from the start date and title.
func (e Event) ID() string {
	h := sha1.New()
	h.Write([]byte(e.StartDate + "|" + e.Title))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// TitleContains reports whether the lower-cased title contains substr
// (substr is lower-cased too).
func (e Event) TitleContains(substr string) bool {
	return strings.Contains(strings.ToLower(e.Title), strings.ToLower(substr))
}

// TermWindow bounds the class-meeting period of one semester. Nil means unknown.
type TermWindow struct {
	ClassesBegin *string `json:"classesBegin"`
	ClassesEnd   *string `json:"classesEnd"`
}

// Terms holds the fall and spring windows of one academic year.
type Terms struct {
	Fall   TermWindow `json:"fall"`
	Spring TermWindow `json:"spring"`
}

// Document is the persisted calendar artifact.
type Document struct {
	Source       string  `json:"source"`
	AcademicYear string  `json:"academicYear"`
	GeneratedAt  string  `json:"generatedAt"`
	Terms        Terms   `json:"terms"`
	Events       []Event `json:"events"`
}

// NewDocument assembles a Document, inferring term windows from events.
// generatedAt is converted to UTC and truncated to whole seconds.
func NewDocument(source string, year AcademicYear, generatedAt time.Time, events []Event) *Document {
	if events == nil {
		events = []Event{}
	}
	return &Document{
		Source:       source,
		AcademicYear: fmt.Sprintf("%d", year.Fall),
		GeneratedAt:  generatedAt.UTC().Truncate(time.Second).Format(GeneratedAtLayout),
		Terms:        InferTerms(events),
		Events:       events,
	}
}

// FindAll returns the events whose title contains substr, case-insensitively,
// in document order.
func (d *Document) FindAll(substr string) []Event {
	var hits []Event
	for _, e := range d.Events {
		if e.TitleContains(substr) {
			hits = append(hits, e)
		}
	}
	return hits
}
