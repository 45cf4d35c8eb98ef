// Package logging configures structured slog output for the ingestion
// pipeline.
//
// It provides JSON and console handlers, typed attribute helpers, and
// context-derived fields (run id, stage, correlation id) so every event a
// run emits can be correlated with the artifact it produced. Loggers are
// constructed once per process and threaded explicitly; nothing in this
// package keeps per-run global state.
package logging
