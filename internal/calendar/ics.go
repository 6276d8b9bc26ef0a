package calendar

import (
	"fmt"
	"io"
	"strconv"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/pfrederiksen/rpi-planner-data/internal/event"
)

const (
	productID = "-//rpi-planner-data//Academic Calendar//EN"
	uidDomain = "registrar.rpi.edu"
)

// Build converts a calendar document into an iCalendar with one all-day VEVENT
// per event. DTEND is exclusive, so it is the day after the event's end date.
func Build(doc *event.Document) (*ics.Calendar, error) {
	stamp, err := time.Parse(event.GeneratedAtLayout, doc.GeneratedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing generatedAt: %w", err)
	}
	stamp = stamp.UTC()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(calendarName(doc.AcademicYear))

	for _, e := range doc.Events {
		start, end := e.Start(), e.End()
		if start.IsZero() || end.IsZero() {
			return nil, fmt.Errorf("event %q has invalid dates %s..%s", e.Title, e.StartDate, e.EndDate)
		}

		ve := cal.AddEvent(e.ID() + "@" + uidDomain)
		ve.SetDtStampTime(stamp)
		ve.SetAllDayStartAt(start)
		ve.SetAllDayEndAt(end.AddDate(0, 0, 1))
		ve.SetSummary(e.Title)
		for _, name := range e.Tags.Names() {
			ve.AddProperty(ics.ComponentPropertyCategories, name)
		}
	}

	return cal, nil
}

// GenerateICS renders the document as iCalendar text with CRLF line endings.
func GenerateICS(doc *event.Document) (string, error) {
	cal, err := Build(doc)
	if err != nil {
		return "", err
	}
	return cal.Serialize(ics.WithNewLineWindows), nil
}

// WriteICS writes the document as iCalendar text with CRLF line endings to w.
func WriteICS(w io.Writer, doc *event.Document) error {
	cal, err := Build(doc)
	if err != nil {
		return err
	}
	return cal.SerializeTo(w, ics.WithNewLineWindows)
}

// calendarName renders "Academic Calendar 2025-2026" from the fall year.
func calendarName(fall string) string {
	y, err := strconv.Atoi(fall)
	if err != nil {
		return "Academic Calendar"
	}
	return fmt.Sprintf("Academic Calendar %d-%d", y, y+1)
}
