// Package stages contains the pipeline step implementations for content
// ingestion: input validation, metadata retrieval, transcript acquisition,
// and the two analysis passes.
//
// Each constructor returns an ingest.StageDefinition with its collaborators
// bound, so the command layer decides the wiring and the runner only sees
// the stage contract. Stages never abort the pipeline: anticipated failures
// become failed stage results with structured causes, and the artifact keeps
// everything written before the failure.
package stages
