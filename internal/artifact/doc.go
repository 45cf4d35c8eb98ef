// Package artifact defines the content object produced by an ingestion run
// and the result contracts every pipeline stage reports against.
//
// The artifact is a fixed tree: identity and source traceability, lossless
// raw extraction data, derived structure and semantics, and a diagnostics
// section synthesized from stage results. Identity and the source URL are
// set at construction and survive any downstream failure, so a run always
// has something auditable to hand back.
//
// StageResult, StageFailure, and Diagnostics are value objects. They are
// created once per stage invocation and never mutated afterwards.
package artifact
