// Package journal records batch runs and per-file outcomes in SQLite.
//
// Each batch writes one run row keyed by its UUID and one file row per
// processed input. The journal backs the history command and lets a rerun
// skip inputs that were already muxed to the same output.
//
// Schema changes bump schemaVersion in schema.go; users delete the database
// to adopt the new schema.
package journal
