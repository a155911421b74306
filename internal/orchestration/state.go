package orchestration

import "github.com/agbru/secretsanta/internal/delivery"

// Phase is the submission lifecycle stage.
type Phase int

const (
	// Idle means nothing is in flight and no banner is shown.
	Idle Phase = iota
	// Invalid means a selection or submission was rejected locally.
	Invalid
	// Pending means a request is in flight.
	Pending
	// Succeeded means the last request was generated and delivered.
	Succeeded
	// Failed means the last request ended in an error.
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Invalid:
		return "invalid"
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable view of the orchestrator state. Only the payload
// matching Phase is meaningful: Reason for Invalid, Message for Failed and
// Outcome for Succeeded.
type Snapshot struct {
	Phase   Phase
	Reason  string
	Message string
	Outcome delivery.GenerationOutcome

	EmployeesFile string
	LastYearFile  string

	// Seq increases by one on every published transition.
	Seq uint64
}

// Busy reports whether a request is in flight.
func (s Snapshot) Busy() bool { return s.Phase == Pending }

// Ready reports whether both files are selected. Slots only accept named
// files, so a non-empty name marks a populated slot.
func (s Snapshot) Ready() bool { return s.EmployeesFile != "" && s.LastYearFile != "" }

// CanSubmit reports whether a submit action should be offered.
func (s Snapshot) CanSubmit() bool { return !s.Busy() && s.Ready() }
