package event

import "strings"

// Tags are semantic flags derived from an event title.
type Tags struct {
	NoClasses   bool `json:"noClasses"`
	Holiday     bool `json:"holiday"`
	FollowDay   bool `json:"followDay"`
	Finals      bool `json:"finals"`
	ReadingDays bool `json:"readingDays"`
	Break       bool `json:"break"`
}

// Names lists the set flags using their JSON names, in declaration order.
func (t Tags) Names() []string {
	var names []string
	for _, f := range []struct {
		name string
		set  bool
	}{
		{"noClasses", t.NoClasses},
		{"holiday", t.Holiday},
		{"followDay", t.FollowDay},
		{"finals", t.Finals},
		{"readingDays", t.ReadingDays},
		{"break", t.Break},
	} {
		if f.set {
			names = append(names, f.name)
		}
	}
	return names
}

// Predicate reports whether a lower-cased title matches.
type Predicate func(title string) bool

// ContainsAny matches when the title contains at least one of subs.
func ContainsAny(subs ...string) Predicate {
	return func(title string) bool {
		for _, s := range subs {
			if strings.Contains(title, s) {
				return true
			}
		}
		return false
	}
}

// ContainsAll matches when the title contains every one of subs.
func ContainsAll(subs ...string) Predicate {
	return func(title string) bool {
		for _, s := range subs {
			if !strings.Contains(title, s) {
				return false
			}
		}
		return true
	}
}

// Either matches when any of preds matches.
func Either(preds ...Predicate) Predicate {
	return func(title string) bool {
		for _, p := range preds {
			if p(title) {
				return true
			}
		}
		return false
	}
}

// TagRule sets flags on Tags when its predicate matches.
type TagRule struct {
	Name  string
	Match Predicate
	Apply func(*Tags)
}

// TagRules are evaluated independently; several may fire for one title.
var TagRules = []TagRule{
	{
		Name:  "noClasses",
		Match: ContainsAny("no classes"),
		Apply: func(t *Tags) { t.NoClasses = true },
	},
	{
		Name:  "holiday",
		Match: ContainsAny("staff holiday", "holiday"),
		Apply: func(t *Tags) { t.Holiday = true },
	},
	{
		Name:  "followDay",
		Match: ContainsAll("follow a ", " class schedule"),
		Apply: func(t *Tags) { t.FollowDay = true },
	},
	{
		Name:  "finals",
		Match: ContainsAny("final exams"),
		Apply: func(t *Tags) { t.Finals = true },
	},
	{
		Name:  "readingDays",
		Match: ContainsAny("reading/study", "reading day", "study day"),
		Apply: func(t *Tags) { t.ReadingDays = true },
	},
	{
		Name:  "break",
		Match: Either(ContainsAny("break-no classes"), ContainsAll("break", "no classes")),
		Apply: func(t *Tags) {
			t.Break = true
			t.NoClasses = true
		},
	},
}

// InferTags applies TagRules to the lower-cased title.
func InferTags(title string) Tags {
	t := strings.ToLower(title)
	var tags Tags
	for _, r := range TagRules {
		if r.Match(t) {
			r.Apply(&tags)
		}
	}
	return tags
}
