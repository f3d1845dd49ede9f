package enquire

// Status describes where a prompt is in its lifecycle.
type Status string

// Lifecycle statuses reported by Prompt.Status.
const (
	StatusPending    Status = "pending"
	StatusCompleting Status = "completing"
	StatusAnswered   Status = "answered"
	StatusCancelled  Status = "cancelled"
)

// State is the mutable record of one run.
//
// The engine owns the only live instance. Callers receive copies through
// Prompt.State and the state notification, so mutating a returned State has
// no effect on the prompt.
type State struct {
	RunID     string // Identifier of the current run, empty before the first run
	Listening bool   // True while the input listener is attached
	Rendered  bool   // True once any frame has been written
	Terminal  string // Exact bytes of the frame currently on screen

	Answered   bool // Set once by Submit
	Cancelled  bool // Set once by Cancel
	Closed     bool // Set once by close
	Completing bool // Transient: validation in flight before answering

	Value  any    // Working value, copied into the result on submit
	Input  string // Text typed so far
	Error  string // Last error or help message shown in the frame
	Reason error  // Cancellation reason

	Rows int // Cached row count override
	Cols int // Cached column count override
}

// status derives the lifecycle status from the underlying flags.
func (s *State) status() Status {
	switch {
	case s.Cancelled:
		return StatusCancelled
	case s.Completing:
		return StatusCompleting
	case s.Answered:
		return StatusAnswered
	default:
		return StatusPending
	}
}

// settled reports whether the run reached a final status.
func (s *State) settled() bool {
	return s.Answered || s.Cancelled
}

// isMeaningful reports whether v carries an answer worth keeping.
func isMeaningful(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	default:
		return true
	}
}
