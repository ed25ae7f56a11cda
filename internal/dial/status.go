package dial

import "github.com/looplab/fsm"

// Status is the lifecycle state of one outbound call attempt sequence.
type Status string

const (
	// StatusPending means an attempt is queued or in flight, not yet ringing.
	StatusPending Status = "pending"
	// StatusConnected means the outbound call is ringing.
	StatusConnected Status = "connected"
	// StatusAnswered means the remote side went off hook.
	StatusAnswered Status = "answered"
	// StatusFailed means the last attempt failed. Retryable until the
	// attempt budget is spent, terminal afterwards.
	StatusFailed Status = "failed"
	// StatusStopped means the call ended. Terminal: later transport errors
	// trigger no further attempts.
	StatusStopped Status = "stopped"
)

// IsTerminal reports whether the status admits no further call activity.
// Failed is only terminal once the attempt budget is exhausted, which the
// tracker checks separately.
func (s Status) IsTerminal() bool {
	return s == StatusStopped
}

// Status machine events.
const (
	eventConnect = "connect"
	eventAnswer  = "answer"
	eventStop    = "stop"
	eventFail    = "fail"
	eventRedial  = "redial"
)

// newStatusMachine builds the outbound status machine. Stopped has no
// outgoing transitions, so post-stop events are rejected by the FSM rather
// than guarded ad hoc at every call site.
func newStatusMachine() *fsm.FSM {
	return fsm.NewFSM(
		string(StatusPending),
		fsm.Events{
			{Name: eventConnect, Src: []string{string(StatusPending)}, Dst: string(StatusConnected)},
			{Name: eventAnswer, Src: []string{string(StatusPending), string(StatusConnected)}, Dst: string(StatusAnswered)},
			{Name: eventStop, Src: []string{string(StatusPending), string(StatusConnected), string(StatusAnswered)}, Dst: string(StatusStopped)},
			{Name: eventFail, Src: []string{string(StatusPending), string(StatusConnected), string(StatusAnswered), string(StatusFailed)}, Dst: string(StatusFailed)},
			{Name: eventRedial, Src: []string{string(StatusFailed)}, Dst: string(StatusPending)},
		},
		fsm.Callbacks{},
	)
}
