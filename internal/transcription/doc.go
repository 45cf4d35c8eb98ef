// Package transcription coordinates transcript acquisition for a video
// reference.
//
// Two strategies exist: structured captions (fast) and audio extraction
// followed by a transcription model (slow). The coordinator tries captions
// first and falls back to audio on any caption failure, folding the caption
// attempt's diagnostics into the final result so callers can see why the
// fast path was skipped even when the fallback succeeds.
//
// The caption source, audio source, and speech model are injected by the
// caller; this package owns only the sequencing and the audio lifecycle
// (ephemeral audio is deleted on every exit path).
package transcription
