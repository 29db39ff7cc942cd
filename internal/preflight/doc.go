// Package preflight provides readiness checks for the paths and tools a
// batch depends on.
//
// These checks run in two contexts:
//   - The run and file commands call RunAll before the first file is touched
//     and refuse to start when a required check fails.
//   - The check command renders every result, including optional tools, as
//     a table.
package preflight
