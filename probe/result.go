package probe

import "time"

// Outcome is the terminal state of one repository.
type Outcome int

const (
	// OutcomeDone means the repository was scanned and reconciled.
	OutcomeDone Outcome = iota
	// OutcomeSkipped means no pipeline files were found.
	OutcomeSkipped
	// OutcomeAcquireFailed means no working copy could be obtained.
	OutcomeAcquireFailed
	// OutcomeDiscoverFailed means the working copy could not be searched.
	OutcomeDiscoverFailed
	// OutcomeReadFailed means a pipeline file could not be read. Sightings
	// from files read before it are kept; reconcile did not run.
	OutcomeReadFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDone:
		return "done"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeAcquireFailed:
		return "acquire-failed"
	case OutcomeDiscoverFailed:
		return "discover-failed"
	case OutcomeReadFailed:
		return "read-failed"
	default:
		return "unknown"
	}
}

// RepoResult summarizes one repository's processing.
type RepoResult struct {
	RepoID    string
	Index     int
	Total     int
	LocalPath string
	Outcome   Outcome
	Err       error

	Files        int
	Tasks        int
	Invalid      int
	Unconfigured int
	Missing      int
	Duration     time.Duration
}
