package constants

// JobStatus is the canonical status for rows in extract_jobs.
type JobStatus string

// Stable values (store these exact strings in the catalog).
const (
	JobStatusRunning   JobStatus = "RUNNING"   // in progress
	JobStatusSucceeded JobStatus = "SUCCEEDED" // recipe validated and written
	JobStatusFailed    JobStatus = "FAILED"    // terminal failure
)

// Stage names a pipeline step; recorded in the catalog and surfaced in
// per-document failure reports.
type Stage string

const (
	StageTextExtract Stage = "text_extract"
	StagePrompt      Stage = "prompt"
	StageComplete    Stage = "complete"
	StageParse       Stage = "parse"
	StageValidate    Stage = "validate"
	StageWrite       Stage = "write"
)
