// Package mkvtoolnix wraps the mkvextract and mkvmerge command line tools.
//
// Both tools follow the mkvtoolnix exit code convention: 0 is success, 1
// means the run finished with warnings, and anything else is an error. The
// client maps that onto services.Outcome, logs warnings, and returns an
// error only for hard failures.
package mkvtoolnix
