// Package events defines the call lifecycle event vocabulary delivered by
// the voice transport, plus the envelope format used on the gateway wire.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Name identifies a transport lifecycle event.
type Name string

const (
	// DialInReady fires when the inbound SIP endpoints are registered and the
	// room can receive a forwarded call.
	DialInReady Name = "dialin-ready"
	// DialInConnected fires when an inbound call is connected to the room.
	DialInConnected Name = "dialin-connected"
	// DialInStopped fires when an inbound call ends.
	DialInStopped Name = "dialin-stopped"
	// DialInError fires when the inbound call fails.
	DialInError Name = "dialin-error"
	// DialInWarning fires for non-fatal inbound call conditions.
	DialInWarning Name = "dialin-warning"
	// FirstParticipantJoined fires when the first remote participant joins.
	FirstParticipantJoined Name = "first-participant-joined"

	// DialOutConnected fires when an outbound call starts ringing.
	DialOutConnected Name = "dialout-connected"
	// DialOutAnswered fires when an outbound call goes off hook.
	DialOutAnswered Name = "dialout-answered"
	// DialOutStopped fires when an outbound call ends.
	DialOutStopped Name = "dialout-stopped"
	// DialOutError fires when an outbound call attempt fails.
	DialOutError Name = "dialout-error"
	// DialOutWarning fires for non-fatal outbound call conditions.
	DialOutWarning Name = "dialout-warning"
)

// DialIn reports whether the event belongs to the inbound call lifecycle.
func (n Name) DialIn() bool {
	switch n {
	case DialInReady, DialInConnected, DialInStopped, DialInError, DialInWarning, FirstParticipantJoined:
		return true
	}
	return false
}

// DialOut reports whether the event belongs to the outbound call lifecycle.
func (n Name) DialOut() bool {
	switch n {
	case DialOutConnected, DialOutAnswered, DialOutStopped, DialOutError, DialOutWarning:
		return true
	}
	return false
}

// Payload carries the event-specific fields the gateway attaches to a
// lifecycle event. Fields not relevant to a given event are left empty.
type Payload struct {
	// SessionID is the transport session the event pertains to. Dial-out
	// events carry the outbound call session here.
	SessionID string `json:"sessionId,omitempty"`
	// ParticipantID identifies the joined participant for
	// first-participant-joined events.
	ParticipantID string `json:"participantId,omitempty"`
	// SIPURI is the registered SIP endpoint announced on dialin-ready.
	SIPURI string `json:"sipUri,omitempty"`
	// Code is the gateway error or warning code, if any.
	Code string `json:"code,omitempty"`
	// Message is a human-readable error or warning description.
	Message string `json:"message,omitempty"`
}

// Envelope is a single lifecycle event as framed on the gateway websocket.
type Envelope struct {
	// EventID is a unique identifier for this event instance.
	EventID string `json:"event_id"`
	// Name identifies the event.
	Name Name `json:"event"`
	// Time is when the event occurred.
	Time time.Time `json:"event_time"`
	// Payload carries the event-specific fields.
	Payload Payload `json:"payload"`
}

// New builds an envelope with a fresh event ID and the current time.
func New(name Name, payload Payload) Envelope {
	return Envelope{
		EventID: uuid.New().String(),
		Name:    name,
		Time:    time.Now().UTC(),
		Payload: payload,
	}
}

// Decode parses an envelope from its wire encoding.
func Decode(data []byte) (Envelope, error) {
	var evt Envelope
	if err := json.Unmarshal(data, &evt); err != nil {
		return Envelope{}, fmt.Errorf("events: decode envelope: %w", err)
	}
	if evt.Name == "" {
		return Envelope{}, fmt.Errorf("events: envelope missing event name")
	}
	return evt, nil
}

// Subject returns the log/metrics subject for the event.
// Example: "hotline.calls.sess-123.dialout-answered".
func (e Envelope) Subject() string {
	session := e.Payload.SessionID
	if session == "" {
		session = "-"
	}
	return fmt.Sprintf("%s.%s.%s", SubjectCalls, session, e.Name)
}
