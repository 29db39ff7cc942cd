// Package config loads, normalizes, and validates trackmux application
// settings.
//
// Application settings describe the machine rather than a job: where the
// mkvtoolnix, ffmpeg, and mediainfo binaries live, the temp root used for
// per-file working directories, logging, the run journal, and ntfy
// notifications. Job definitions live in the profile package.
package config
