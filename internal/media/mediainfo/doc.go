// Package mediainfo runs `mediainfo --Output=JSON` and converts its report
// into media.Track and media.Attachment values.
//
// Primary entry points:
//   - Inspect: executes the binary through a services.Runner and parses stdout
//   - Parse: decodes an already captured JSON report
package mediainfo
