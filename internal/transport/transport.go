// Package transport abstracts the realtime voice transport: lifecycle event
// delivery and the call-control requests the trackers issue against it.
package transport

import (
	"context"

	"github.com/sebas/hotline/internal/events"
)

// Handler processes a single lifecycle event. Handlers for one transport are
// invoked sequentially, one event at a time.
type Handler func(ctx context.Context, evt events.Envelope)

// DialOutRequest contains the destination for a start-dialout request.
// Exactly one of PhoneNumber or SIPURI is set; CallerID is only valid
// together with PhoneNumber.
type DialOutRequest struct {
	PhoneNumber string `json:"phoneNumber,omitempty"`
	CallerID    string `json:"callerId,omitempty"`
	SIPURI      string `json:"sipUri,omitempty"`
}

// Transport is the consumed transport capability.
type Transport interface {
	// On registers a handler for a named lifecycle event. Multiple handlers
	// may be registered for the same event.
	On(name events.Name, h Handler)

	// StartDialOut asks the transport to begin an outbound call.
	StartDialOut(ctx context.Context, req DialOutRequest) error

	// CaptureParticipantTranscription asks the transport to start
	// transcribing the given participant or session. Fire-and-forget: the
	// transcription stream itself is consumed by the pipeline, not here.
	CaptureParticipantTranscription(ctx context.Context, id string) error
}
