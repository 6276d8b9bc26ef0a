// Package event models the academic calendar: dated events, their semantic tags,
// and the fall/spring term windows inferred from them.
//
// Date cells from the registrar's tables are interpreted by DateParser, which
// resolves each month to the fall or spring calendar year of the academic year
// and carries the last seen month across rows. Tags and term windows come from
// declarative substring rule tables (TagRules, TermRules) so heuristics can be
// added without touching control flow.
package event
