// Package pipeline turns matched input files into remuxed outputs.
//
// A MediaFile walks a fixed sequence of stages: metadata inspection,
// attachment and track selection, extraction into a per-file temp
// directory, hook execution, audio conversion and the final mkvmerge
// invocation. Batch drives that sequence over the pairs produced by the
// matcher, records outcomes in the journal and sends notifications.
package pipeline
