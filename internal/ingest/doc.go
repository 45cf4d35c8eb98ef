// Package ingest drives the ordered content-ingestion pipeline.
//
// Key responsibilities:
//   - The Stage contract every pipeline step conforms to, plus the scoped
//     timer stages use for execution timing.
//   - The diagnostics Collector, which accumulates one StageResult per
//     stage and synthesizes the artifact's diagnostics section.
//   - The Runner, which executes the fixed stage list over a shared
//     artifact, converts panics into structured failures, and always
//     returns an artifact no matter how many stages degrade.
//
// No business logic lives here. Stages are supplied by the stages package
// and invoked in strict declaration order; a failed stage never prevents
// later stages from running.
package ingest
