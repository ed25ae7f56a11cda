package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sebas/hotline/internal/events"
)

// Verify interface compliance at compile time.
var _ Transport = (*Daily)(nil)

// Gateway control actions.
const (
	actionStartDialOut         = "start-dialout"
	actionCaptureTranscription = "capture-transcription"
)

const defaultWriteTimeout = 10 * time.Second

// DailyConfig holds Daily gateway connection settings.
type DailyConfig struct {
	// RoomURL is the websocket URL of the room's event gateway.
	RoomURL string
	// APIKey authenticates the connection (sent as a Bearer token).
	APIKey string
	// WriteTimeout bounds each control-message write. Zero means the
	// default of 10s.
	WriteTimeout time.Duration
	// Dialer overrides the websocket dialer (used in tests).
	Dialer *websocket.Dialer
}

// Daily is a Transport backed by a Daily-style room gateway: lifecycle
// events arrive as JSON envelopes on a websocket, and call-control requests
// are sent as JSON action messages on the same connection. Media never
// flows through this client; the pipeline framework owns the audio path.
type Daily struct {
	conn     *websocket.Conn
	registry *Registry

	writeTimeout time.Duration
	writeMu      sync.Mutex

	closeOnce sync.Once
	done      chan struct{}
}

// actionMessage is the wire format for control requests sent to the gateway.
type actionMessage struct {
	Action    string          `json:"action"`
	DialOut   *DialOutRequest `json:"dialOut,omitempty"`
	SessionID string          `json:"sessionId,omitempty"`
}

// DialDaily connects to the room gateway and starts the event read loop.
// Handlers registered via On receive events until the connection closes.
func DialDaily(ctx context.Context, cfg DailyConfig) (*Daily, error) {
	if cfg.RoomURL == "" {
		return nil, fmt.Errorf("transport: room URL is required")
	}

	dialer := cfg.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}

	header := http.Header{}
	if cfg.APIKey != "" {
		header.Set("Authorization", "Bearer "+cfg.APIKey)
	}

	conn, resp, err := dialer.DialContext(ctx, cfg.RoomURL, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("transport: dial %s: %w (status %s)", cfg.RoomURL, err, resp.Status)
		}
		return nil, fmt.Errorf("transport: dial %s: %w", cfg.RoomURL, err)
	}

	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}

	d := &Daily{
		conn:         conn,
		registry:     NewRegistry(),
		writeTimeout: writeTimeout,
		done:         make(chan struct{}),
	}
	go d.readLoop(ctx)

	slog.Info("Connected to room gateway", "url", cfg.RoomURL)
	return d, nil
}

// On registers a handler for the named lifecycle event.
func (d *Daily) On(name events.Name, h Handler) {
	d.registry.On(name, h)
}

// StartDialOut sends a start-dialout request for the given destination.
// The outcome of the call itself is reported through dialout-* events;
// an error here means the request could not be submitted.
func (d *Daily) StartDialOut(ctx context.Context, req DialOutRequest) error {
	msg := actionMessage{Action: actionStartDialOut, DialOut: &req}
	if err := d.send(ctx, msg); err != nil {
		return fmt.Errorf("transport: start dialout: %w", err)
	}
	return nil
}

// CaptureParticipantTranscription requests transcription capture for the
// given participant or session.
func (d *Daily) CaptureParticipantTranscription(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("transport: capture transcription: empty participant id")
	}
	msg := actionMessage{Action: actionCaptureTranscription, SessionID: id}
	if err := d.send(ctx, msg); err != nil {
		return fmt.Errorf("transport: capture transcription: %w", err)
	}
	return nil
}

// Done is closed when the event read loop exits, whether from Close or a
// connection failure.
func (d *Daily) Done() <-chan struct{} {
	return d.done
}

// Close shuts the gateway connection down. Safe to call more than once.
func (d *Daily) Close() error {
	d.closeOnce.Do(func() {
		d.writeMu.Lock()
		deadline := time.Now().Add(d.writeTimeout)
		_ = d.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		d.writeMu.Unlock()
		_ = d.conn.Close()
	})
	return nil
}

func (d *Daily) send(ctx context.Context, msg actionMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.writeMu.Lock()
	defer d.writeMu.Unlock()
	_ = d.conn.SetWriteDeadline(time.Now().Add(d.writeTimeout))
	return d.conn.WriteJSON(msg)
}

// readLoop decodes event envelopes off the websocket and dispatches them
// sequentially until the connection closes.
func (d *Daily) readLoop(ctx context.Context) {
	defer close(d.done)
	for {
		_, data, err := d.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("Gateway connection lost", "error", err)
			} else {
				slog.Debug("Gateway connection closed")
			}
			return
		}

		evt, err := events.Decode(data)
		if err != nil {
			slog.Warn("Dropping malformed gateway event", "error", err)
			continue
		}
		d.registry.Dispatch(ctx, evt)
	}
}
