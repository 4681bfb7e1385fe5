// Package session implements the real-time voice call pipeline: audio
// ingress encoding, the duplex dialogue transport, ordered audio playback,
// dual-channel transcript assembly, call lifecycle, and the critic-driven
// lesson loop that rewrites the next call's operating instructions.
package session

import (
	"encoding/json"
	"time"
)

type Role string

const (
	RoleCaller   Role = "caller"
	RoleOperator Role = "operator"
)

// TranscriptMessage is one finalized utterance in the call log. Immutable
// once appended.
type TranscriptMessage struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type CallStatus string

const (
	StatusLive  CallStatus = "live"
	StatusEnded CallStatus = "ended"
)

// CallSession is the record of one call. Messages are append-only and
// ordered by arrival, not by source timestamps: network reordering between
// the caller and operator streams is possible and accepted.
type CallSession struct {
	CallID    string              `json:"call_id"`
	StartTime time.Time           `json:"start_time"`
	EndTime   *time.Time          `json:"end_time,omitempty"`
	Messages  []TranscriptMessage `json:"messages"`
	Status    CallStatus          `json:"status"`
}

// Duration reports the elapsed call time, live or final.
func (s CallSession) Duration() time.Duration {
	if s.StartTime.IsZero() {
		return 0
	}
	if s.EndTime != nil {
		return s.EndTime.Sub(s.StartTime)
	}
	return time.Since(s.StartTime)
}

// ExportJSON renders the session as a stable JSON document for the UI's
// on-demand export.
func (s CallSession) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
