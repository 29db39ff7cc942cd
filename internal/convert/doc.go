// Package convert turns per-category conversion settings into encoder
// argument lists.
//
// Only audio conversion is implemented. Subtitle and video settings are
// accepted in the profile so they can be rejected with a clear error
// rather than silently ignored.
package convert
