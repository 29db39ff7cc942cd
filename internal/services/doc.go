// Package services defines shared plumbing consumed by the pipeline and the
// external tool adapters.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, media file IDs, and stage names for
//     logging.
//   - Structured error markers plus the Wrap helper so callers can classify
//     failures with errors.Is.
//   - The Runner abstraction over subprocess execution and the three-valued
//     Outcome (success, soft failure, hard failure) used by every adapter.
//
// Adapters live in subpackages (mkvtoolnix, ffmpeg) and accept a Runner so
// tests can substitute the generated mock.
package services
