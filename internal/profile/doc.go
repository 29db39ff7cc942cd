// Package profile loads job profiles: the TOML document describing one batch
// (where inputs and names come from, where outputs go) and every policy the
// pipeline applies to each file.
//
// Profiles follow the same Load, normalize, Validate flow as the application
// config. Validation compiles all predicates and substitution patterns, so a
// profile that loads successfully can be used without further error checks.
package profile
