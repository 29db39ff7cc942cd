// Package language compares and canonicalizes track language codes.
//
// Container metadata mixes ISO 639-1 ("ja"), ISO 639-2/T ("jpn") and
// ISO 639-2/B ("fre") forms. Equivalent treats all forms of one language as
// equal so a language filter written as "ja" still keeps a track tagged "jpn".
package language
