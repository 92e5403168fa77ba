package constants

// JobStatus is the canonical status for rows in extract_jobs.
type JobStatus string

// Stable values (store these exact strings in DB).
const (
	JobStatusQueued    JobStatus = "QUEUED"     // queued for processing
	JobStatusRunning   JobStatus = "RUNNING"    // in progress
	JobStatusExtracted JobStatus = "EXTRACT_OK" // tokens read and fields extracted
	JobStatusFailed    JobStatus = "FAILED"     // terminal failure
)
