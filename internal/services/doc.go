// Package services defines shared utilities consumed by the pipeline stages
// and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, stage names, and correlation
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that translate failures
//     into the artifact's typed failure categories.
//
// Use these helpers when wiring new stage logic so operational behaviour
// (error classification, observability) stays uniform across the pipeline.
package services
