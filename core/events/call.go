package events

import "time"

const (
	// KindCallConnecting identifies the start of a transport dial.
	KindCallConnecting Kind = "call.connecting"
	// KindCallConnected identifies a completed setup handshake.
	KindCallConnected Kind = "call.connected"
	// KindCallEnded identifies a finalized call.
	KindCallEnded Kind = "call.ended"
	// KindCallFailed identifies a terminal call failure.
	KindCallFailed Kind = "call.failed"
)

// CallConnecting marks the start of a transport dial for a call.
type CallConnecting struct {
	Base
	CallID string
}

// NewCallConnecting creates a call connecting event.
func NewCallConnecting(callID string) CallConnecting {
	return CallConnecting{Base: NewBase(KindCallConnecting), CallID: callID}
}

// CallConnected marks a completed setup handshake; audio transmission is
// unlocked from this point on.
type CallConnected struct {
	Base
	CallID string
}

// NewCallConnected creates a call connected event.
func NewCallConnected(callID string) CallConnected {
	return CallConnected{Base: NewBase(KindCallConnected), CallID: callID}
}

// CallEnded marks call finalization and carries the computed duration.
type CallEnded struct {
	Base
	CallID   string
	Duration time.Duration
}

// NewCallEnded creates a call ended event.
func NewCallEnded(callID string, duration time.Duration) CallEnded {
	return CallEnded{Base: NewBase(KindCallEnded), CallID: callID, Duration: duration}
}

// CallFailed marks a terminal transport or device failure. Reason is the
// user-facing actionable description, not a raw error dump.
type CallFailed struct {
	Base
	CallID string
	Reason string
}

// NewCallFailed creates a call failed event.
func NewCallFailed(callID, reason string) CallFailed {
	return CallFailed{Base: NewBase(KindCallFailed), CallID: callID, Reason: reason}
}
