// Package predicate implements the track selection language used by job
// profiles.
//
// A Predicate is one of four kinds:
//   - none: every track matches
//   - index: the track's position (0-based, general track excluded) is in a set
//   - language: the track's language is in a set (ISO forms are equivalent)
//   - title: the track title satisfies a combination of contains/equals/regex rules
//
// Index and language predicates with an empty set match everything. Title
// rules are evaluated in two passes, literal rules then regex rules, and the
// two pass results are combined with AND. Within a pass the operator decides:
// "and" requires every rule, "or" requires one, "not" requires none. A pass
// with no rules is true.
//
// Regex rules must be compiled with Compile before Match is used; an
// uncompiled regex rule never matches.
package predicate
