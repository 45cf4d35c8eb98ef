// Package language provides unified language code normalization.
//
// YouTube metadata reports languages inconsistently (ISO 639-1, BCP-47 tags
// like "en-US", occasionally full words). All conversions to the canonical
// ISO 639-1 form used in artifacts are consolidated here.
package language
