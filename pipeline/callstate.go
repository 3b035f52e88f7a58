package pipeline

// callState tracks one outbound call through the retry lifecycle:
//
//	Initial -> Retried -> (Succeeded | Failed)
//
// The transitions make "retry at most once" structural: markRetried reports
// false for any state but Initial, so a second 401 can never re-enter the
// renewal branch for the same call.
type callState uint8

const (
	callInitial callState = iota
	callRetried
	callSucceeded
	callFailed
)

func (s callState) String() string {
	switch s {
	case callInitial:
		return "initial"
	case callRetried:
		return "retried"
	case callSucceeded:
		return "succeeded"
	case callFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// call carries the state machine alongside one outbound request. Calls are
// confined to the goroutine driving the request; no locking.
type call struct {
	state callState
}

// markRetried transitions Initial -> Retried, reporting whether the
// transition was taken.
func (c *call) markRetried() bool {
	if c.state != callInitial {
		return false
	}
	c.state = callRetried
	return true
}

// settle moves the call to its terminal state. Settling an already terminal
// call is a no-op.
func (c *call) settle(ok bool) {
	if c.state == callSucceeded || c.state == callFailed {
		return
	}
	if ok {
		c.state = callSucceeded
	} else {
		c.state = callFailed
	}
}
