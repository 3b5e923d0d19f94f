package jobs

import "time"

// State is the lifecycle state of a job.
//
// NOTE: These values are persisted in status.json and are part of the
// stable on-disk contract.
type State string

const (
	StateQueued  State = "queued"
	StateRunning State = "running"
	StateDone    State = "done"
	StateError   State = "error"
)

// Terminal reports whether no further transition can occur.
func (s State) Terminal() bool {
	return s == StateDone || s == StateError
}

// Status is the persisted job status document.
//
// Invariants: state=done implies progress=100 and a persisted result;
// progress is monotonically non-decreasing within one job's lifetime.
type Status struct {
	State    State  `json:"state"`
	Progress int    `json:"progress"`
	Message  string `json:"message"`
}

// Job identifies one submitted document. Immutable once created.
type Job struct {
	JobID     string    `json:"job_id"`
	Filename  string    `json:"filename"`
	InputPath string    `json:"input_path"`
	CreatedAt time.Time `json:"created_at"`
}

// Progress milestones observed during a run. Ordering matters; values are
// strictly increasing so progress stays monotonic.
const (
	progressPreparing  = 5
	progressConverting = 15
	progressExtracting = 35
	progressLexicon    = 55
	progressNouns      = 70
	progressSaving     = 90
	progressTerminal   = 100
)
