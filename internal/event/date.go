package event

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// AcademicYear identifies a Fall + following Spring/Summer cycle.
type AcademicYear struct {
	Fall   int
	Spring int
}

// NewAcademicYear converts a two-digit year (25 → 2025-2026).
func NewAcademicYear(yy int) AcademicYear {
	fall := 2000 + yy
	return AcademicYear{Fall: fall, Spring: fall + 1}
}

// YearOf maps a month to its calendar year: August-December belong to the fall
// year, January-July to the spring year.
func (y AcademicYear) YearOf(m time.Month) int {
	if m >= time.August {
		return y.Fall
	}
	return y.Spring
}

var monthNames = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// ParseMonth looks up a month abbreviation or full name, case-insensitively.
func ParseMonth(s string) (time.Month, bool) {
	m, ok := monthNames[strings.ToLower(strings.TrimSpace(s))]
	return m, ok
}

var (
	crossMonthRange = regexp.MustCompile(`^([A-Za-z]{3,9})\s+(\d{1,2})\s*-\s*([A-Za-z]{3,9})\s+(\d{1,2})$`)
	sameMonthRange  = regexp.MustCompile(`^([A-Za-z]{3,9})\s+(\d{1,2})\s*-\s*(\d{1,2})$`)
	singleDate      = regexp.MustCompile(`^([A-Za-z]{3,9})\s+(\d{1,2})$`)
	bareDay         = regexp.MustCompile(`^\d{1,2}$`)
)

// ParseError reports a date cell that could not be interpreted.
type ParseError struct {
	Cell   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse date cell %q: %s", e.Cell, e.Reason)
}

// DateParser turns calendar date cells into start/end dates. It remembers the
// most recent month seen so a later cell holding only a day number can be
// resolved. Use one DateParser per scrape.
type DateParser struct {
	year         AcademicYear
	currentMonth time.Month // 0 until a month has been seen
}

// NewDateParser creates a parser for the given academic year.
func NewDateParser(year AcademicYear) *DateParser {
	return &DateParser{year: year}
}

// CurrentMonth returns the month carried forward from previous cells, or 0.
func (p *DateParser) CurrentMonth() time.Month {
	return p.currentMonth
}

// Parse interprets one date cell. Supported forms, first match wins:
//
//	"Dec 23 - Jan 9"   cross-month range, each side gets its own year
//	"Sep 25 - 26"      same-month range
//	"Sep 1"            single date
//	"14"               bare day in the current month
//
// On failure the parser state is left unchanged.
func (p *DateParser) Parse(cell string) (start, end time.Time, err error) {
	s := NormalizeSpace(cell)

	if m := crossMonthRange.FindStringSubmatch(s); m != nil {
		m1, ok1 := ParseMonth(m[1])
		m2, ok2 := ParseMonth(m[3])
		if !ok1 || !ok2 {
			return start, end, &ParseError{Cell: cell, Reason: "unrecognized month in date range"}
		}
		if start, err = p.date(cell, m1, m[2]); err != nil {
			return start, end, err
		}
		if end, err = p.date(cell, m2, m[4]); err != nil {
			return start, end, err
		}
		return p.finish(cell, start, end, m2)
	}

	if m := sameMonthRange.FindStringSubmatch(s); m != nil {
		mon, ok := ParseMonth(m[1])
		if !ok {
			return start, end, &ParseError{Cell: cell, Reason: "unrecognized month in date range"}
		}
		if start, err = p.date(cell, mon, m[2]); err != nil {
			return start, end, err
		}
		if end, err = p.date(cell, mon, m[3]); err != nil {
			return start, end, err
		}
		return p.finish(cell, start, end, mon)
	}

	if m := singleDate.FindStringSubmatch(s); m != nil {
		mon, ok := ParseMonth(m[1])
		if !ok {
			return start, end, &ParseError{Cell: cell, Reason: "unrecognized month in date"}
		}
		if start, err = p.date(cell, mon, m[2]); err != nil {
			return start, end, err
		}
		return p.finish(cell, start, start, mon)
	}

	if bareDay.MatchString(s) && p.currentMonth != 0 {
		if start, err = p.date(cell, p.currentMonth, s); err != nil {
			return start, end, err
		}
		return p.finish(cell, start, start, p.currentMonth)
	}

	return start, end, &ParseError{Cell: cell, Reason: "no known date format"}
}

func (p *DateParser) finish(cell string, start, end time.Time, month time.Month) (time.Time, time.Time, error) {
	if end.Before(start) {
		return time.Time{}, time.Time{}, &ParseError{Cell: cell, Reason: "range ends before it starts"}
	}
	p.currentMonth = month
	return start, end, nil
}

// date builds a UTC date, rejecting days that time.Date would roll over.
func (p *DateParser) date(cell string, m time.Month, day string) (time.Time, error) {
	d, err := strconv.Atoi(day)
	if err != nil {
		return time.Time{}, &ParseError{Cell: cell, Reason: "invalid day"}
	}
	y := p.year.YearOf(m)
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if t.Month() != m || t.Day() != d {
		return time.Time{}, &ParseError{Cell: cell, Reason: fmt.Sprintf("%s %d is not a valid date in %d", m, d, y)}
	}
	return t, nil
}

// NormalizeSpace collapses runs of whitespace (including non-breaking spaces) to a
// single space and trims the ends.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeDOW returns the day-of-week cell capitalized ("fri" → "Fri") when it is
// exactly three letters, and "" otherwise.
func NormalizeDOW(s string) string {
	s = NormalizeSpace(s)
	if len(s) != 3 {
		return ""
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return ""
		}
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
