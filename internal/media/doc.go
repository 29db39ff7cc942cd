// Package media holds the track and attachment model shared by the pipeline,
// the predicate engine, and the external tool adapters.
//
// Codec identifiers reported by the container are mapped once, at the
// metadata boundary, into the closed Codec enumeration; anything unmapped
// becomes CodecUnknown and the caller's policy decides whether that is fatal.
package media
