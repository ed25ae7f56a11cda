package dial

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/looplab/fsm"

	"github.com/sebas/hotline/internal/events"
	"github.com/sebas/hotline/internal/metrics"
	"github.com/sebas/hotline/internal/transport"
)

// DefaultMaxAttempts is the attempt budget for one outbound destination.
const DefaultMaxAttempts = 5

// OutboundTracker drives a single outbound destination to completion or
// attempt exhaustion. One tracker is created per destination; each owns its
// own attempt count and status.
type OutboundTracker struct {
	transport transport.Transport
	setting   Setting
	log       *slog.Logger

	maxAttempts int
	machine     *fsm.FSM

	mu          sync.Mutex
	attempts    int
	dialing     bool
	retryQueued bool
}

// OutboundOption configures an OutboundTracker.
type OutboundOption func(*OutboundTracker)

// WithMaxAttempts overrides the attempt budget. Values below 1 are ignored.
func WithMaxAttempts(n int) OutboundOption {
	return func(t *OutboundTracker) {
		if n >= 1 {
			t.maxAttempts = n
		}
	}
}

// NewOutboundTracker validates the setting, registers the dial-out event
// handlers on the transport and returns the tracker. The first call attempt
// is not issued until Start.
func NewOutboundTracker(tr transport.Transport, setting Setting, opts ...OutboundOption) (*OutboundTracker, error) {
	if tr == nil {
		return nil, fmt.Errorf("dial: transport is required")
	}
	if err := setting.Validate(); err != nil {
		return nil, err
	}

	t := &OutboundTracker{
		transport:   tr,
		setting:     setting,
		maxAttempts: DefaultMaxAttempts,
		machine:     newStatusMachine(),
		log:         slog.With("component", "dialout", "destination", setting.Destination()),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.registerHandlers()

	t.log.Info("Initialized outbound tracker", "max_attempts", t.maxAttempts)
	return t, nil
}

// Status returns the current call status.
func (t *OutboundTracker) Status() Status {
	return Status(t.machine.Current())
}

// Attempts returns the number of attempts begun so far.
func (t *OutboundTracker) Attempts() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.attempts
}

// Start begins the next outbound call attempt. Past the attempt budget it
// marks the tracker failed and does nothing further. A request failure is
// absorbed: the status moves to failed and no error is returned; observe
// the outcome via Status.
//
// Start never recurses. Errors delivered while an attempt is in flight are
// queued and drained by the explicit retry loop below, so a transport that
// reports errors during StartDialOut cannot grow the call stack.
func (t *OutboundTracker) Start(ctx context.Context) {
	t.mu.Lock()
	if t.dialing {
		t.retryQueued = true
		t.mu.Unlock()
		return
	}
	t.dialing = true
	t.retryQueued = false
	t.mu.Unlock()

	for t.attemptOnce(ctx) {
		t.mu.Lock()
		if !t.retryQueued {
			t.dialing = false
			t.mu.Unlock()
			return
		}
		t.retryQueued = false
		t.mu.Unlock()
	}

	t.mu.Lock()
	t.dialing = false
	t.retryQueued = false
	t.mu.Unlock()
}

// attemptOnce issues one outbound call request. It reports whether the
// request was submitted and later error events may queue a retry.
func (t *OutboundTracker) attemptOnce(ctx context.Context) bool {
	t.mu.Lock()
	t.attempts++
	attempt := t.attempts
	t.mu.Unlock()

	if attempt > t.maxAttempts {
		t.log.Error("Max dial-out attempts reached", "max_attempts", t.maxAttempts)
		metrics.DialOutFailures.WithLabelValues(metrics.ReasonExhausted).Inc()
		t.advance(eventFail)
		return false
	}

	// A retry re-arms the machine from failed back to pending.
	if t.Status() == StatusFailed {
		t.advance(eventRedial)
	}

	t.log.Debug("Dial-out attempt", "attempt", attempt, "max_attempts", t.maxAttempts)
	metrics.DialOutAttempts.Inc()

	if err := t.transport.StartDialOut(ctx, t.setting.Request()); err != nil {
		t.log.Error("Error starting dialout", "error", err)
		metrics.DialOutFailures.WithLabelValues(metrics.ReasonRequest).Inc()
		t.advance(eventFail)
		return false
	}
	return true
}

func (t *OutboundTracker) registerHandlers() {
	t.transport.On(events.DialOutConnected, func(ctx context.Context, evt events.Envelope) {
		if t.advance(eventConnect) {
			t.log.Debug("Dial-out connected", "session_id", evt.Payload.SessionID)
		}
	})

	t.transport.On(events.DialOutAnswered, func(ctx context.Context, evt events.Envelope) {
		if !t.advance(eventAnswer) {
			return
		}
		t.log.Debug("Dial-out answered", "session_id", evt.Payload.SessionID)
		// Capture transcription only; the user speaks first, so no context
		// frame is queued here.
		if err := t.transport.CaptureParticipantTranscription(ctx, evt.Payload.SessionID); err != nil {
			t.log.Warn("Transcription capture request failed", "session_id", evt.Payload.SessionID, "error", err)
			return
		}
		metrics.TranscriptionCaptures.Inc()
	})

	t.transport.On(events.DialOutStopped, func(ctx context.Context, evt events.Envelope) {
		if t.advance(eventStop) {
			t.log.Debug("Dial-out stopped", "session_id", evt.Payload.SessionID)
		}
	})

	t.transport.On(events.DialOutError, func(ctx context.Context, evt events.Envelope) {
		if t.Status().IsTerminal() {
			t.log.Debug("Ignoring dial-out error after stop", "code", evt.Payload.Code)
			return
		}
		t.advance(eventFail)
		metrics.DialOutFailures.WithLabelValues(metrics.ReasonTransport).Inc()

		t.mu.Lock()
		exhausted := t.attempts > t.maxAttempts
		t.mu.Unlock()
		if exhausted {
			t.log.Error("Dial-out error after attempt budget spent",
				"code", evt.Payload.Code, "message", evt.Payload.Message)
			return
		}

		t.log.Error("Dial-out error, retrying",
			"code", evt.Payload.Code, "message", evt.Payload.Message)
		t.Start(ctx)
	})

	t.transport.On(events.DialOutWarning, func(ctx context.Context, evt events.Envelope) {
		t.log.Warn("Dial-out warning", "code", evt.Payload.Code, "message", evt.Payload.Message)
	})
}

// advance applies a status machine event. It reports whether the machine
// accepted it; self-transitions count as accepted.
func (t *OutboundTracker) advance(event string) bool {
	err := t.machine.Event(context.Background(), event)
	if err == nil {
		return true
	}
	var noTransition fsm.NoTransitionError
	if errors.As(err, &noTransition) {
		return true
	}
	t.log.Debug("Status transition rejected", "event", event, "status", t.machine.Current())
	return false
}
