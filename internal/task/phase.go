package task

import "fmt"

// Phase is the closed set of states the poller distinguishes.
type Phase int

const (
	PhaseUnknown Phase = iota
	PhaseRunning
	PhaseSucceeded
	PhaseCancelled
)

// Wire status values reported by Task/Detail.
const (
	StatusQueue            = "task_queue"
	StatusAccept           = "task_accept"
	StatusAssign           = "task_assign"
	StatusPreprocessStart  = "task_preprocess_start"
	StatusPreprocessEnd    = "task_preprocess_end"
	StatusStart            = "task_start"
	StatusOutput           = "task_output"
	StatusPostprocessStart = "task_postprocess_start"
	StatusEnd              = "task_end"
	StatusPostprocessEnd   = "task_postprocess_end"
	StatusCancel           = "task_cancel"
)

var phases = map[string]Phase{
	StatusQueue:            PhaseRunning,
	StatusAccept:           PhaseRunning,
	StatusAssign:           PhaseRunning,
	StatusPreprocessStart:  PhaseRunning,
	StatusPreprocessEnd:    PhaseRunning,
	StatusStart:            PhaseRunning,
	StatusOutput:           PhaseRunning,
	StatusPostprocessStart: PhaseRunning,
	// task_end precedes postprocessing; outputs are not final yet.
	StatusEnd:            PhaseRunning,
	StatusPostprocessEnd: PhaseSucceeded,
	StatusCancel:         PhaseCancelled,
}

// Classify maps a wire status to its phase. Unrecognized values are
// PhaseUnknown, which callers treat as non-terminal.
func Classify(status string) Phase {
	if p, ok := phases[status]; ok {
		return p
	}
	return PhaseUnknown
}

// IsTerminal reports whether the server will not update the task further.
func (p Phase) IsTerminal() bool {
	switch p {
	case PhaseSucceeded, PhaseCancelled:
		return true
	case PhaseRunning, PhaseUnknown:
		return false
	default:
		return false
	}
}

func (p Phase) String() string {
	switch p {
	case PhaseUnknown:
		return "unknown"
	case PhaseRunning:
		return "running"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}
