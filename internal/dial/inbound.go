package dial

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sebas/hotline/internal/events"
	"github.com/sebas/hotline/internal/metrics"
	"github.com/sebas/hotline/internal/transport"
)

// SessionCanceller terminates the owning voice pipeline session.
type SessionCanceller interface {
	Cancel()
}

// InboundTracker reacts to the inbound call lifecycle. It has no retry
// logic: inbound calls are not redialed. Its one active duty is cancelling
// the session when the transport reports a dial-in error.
type InboundTracker struct {
	transport transport.Transport
	session   SessionCanceller
	log       *slog.Logger

	cancelOnce sync.Once
}

// NewInboundTracker registers the dial-in event handlers on the transport.
func NewInboundTracker(tr transport.Transport, session SessionCanceller) *InboundTracker {
	t := &InboundTracker{
		transport: tr,
		session:   session,
		log:       slog.With("component", "dialin"),
	}
	t.registerHandlers()
	t.log.Info("Initialized inbound tracker")
	return t
}

func (t *InboundTracker) registerHandlers() {
	t.transport.On(events.DialInReady, func(ctx context.Context, evt events.Envelope) {
		// The SIP endpoints are registered. Forwarding the carrier call to
		// the announced sip_uri is the telephony provider's job.
		t.log.Debug("Dial-in ready", "sip_uri", evt.Payload.SIPURI)
	})

	t.transport.On(events.DialInConnected, func(ctx context.Context, evt events.Envelope) {
		t.log.Debug("Dial-in connected", "session_id", evt.Payload.SessionID)
	})

	t.transport.On(events.DialInStopped, func(ctx context.Context, evt events.Envelope) {
		t.log.Debug("Dial-in stopped", "session_id", evt.Payload.SessionID)
	})

	t.transport.On(events.DialInError, func(ctx context.Context, evt events.Envelope) {
		t.log.Error("Dial-in error, cancelling session",
			"code", evt.Payload.Code, "message", evt.Payload.Message)
		t.cancelOnce.Do(func() {
			metrics.SessionCancels.Inc()
			t.session.Cancel()
		})
	})

	t.transport.On(events.DialInWarning, func(ctx context.Context, evt events.Envelope) {
		t.log.Warn("Dial-in warning", "code", evt.Payload.Code, "message", evt.Payload.Message)
	})

	t.transport.On(events.FirstParticipantJoined, func(ctx context.Context, evt events.Envelope) {
		t.log.Info("First participant joined", "participant_id", evt.Payload.ParticipantID)
		if err := t.transport.CaptureParticipantTranscription(ctx, evt.Payload.ParticipantID); err != nil {
			t.log.Warn("Transcription capture request failed",
				"participant_id", evt.Payload.ParticipantID, "error", err)
			return
		}
		metrics.TranscriptionCaptures.Inc()
	})
}
