package event

import "strings"

// TermRule selects the event whose start date fills one term boundary.
type TermRule struct {
	Name  string
	Match Predicate
	Set   func(*Terms, string)
}

// TermRules map title heuristics to term boundaries. The first matching event in
// document order wins.
var TermRules = []TermRule{
	{
		Name:  "fall.classesBegin",
		Match: ContainsAll("fall", "classes begin"),
		Set:   func(t *Terms, d string) { t.Fall.ClassesBegin = &d },
	},
	{
		Name:  "fall.classesEnd",
		Match: ContainsAll("last day of fall", "classes"),
		Set:   func(t *Terms, d string) { t.Fall.ClassesEnd = &d },
	},
	{
		Name:  "spring.classesBegin",
		Match: ContainsAll("spring", "classes begin"),
		Set:   func(t *Terms, d string) { t.Spring.ClassesBegin = &d },
	},
	{
		Name:  "spring.classesEnd",
		Match: ContainsAll("last day of spring", "classes"),
		Set:   func(t *Terms, d string) { t.Spring.ClassesEnd = &d },
	},
}

// InferTerms scans events in order and fills each boundary from the first match.
// Boundaries with no matching event stay nil.
func InferTerms(events []Event) Terms {
	var terms Terms
	for _, r := range TermRules {
		for _, e := range events {
			if r.Match(strings.ToLower(e.Title)) {
				r.Set(&terms, e.StartDate)
				break
			}
		}
	}
	return terms
}
