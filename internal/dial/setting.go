// Package dial tracks the lifecycle of inbound and outbound phone calls on
// a realtime voice transport.
package dial

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/emiago/sipgo/sip"
	"github.com/nyaruka/phonenumbers"

	"github.com/sebas/hotline/internal/transport"
)

var (
	// ErrNoDestination is returned when a setting carries neither a phone
	// number nor a SIP URI.
	ErrNoDestination = errors.New("dial: setting requires phoneNumber or sipUri")
	// ErrAmbiguousDestination is returned when a setting carries both a
	// phone number and a SIP URI.
	ErrAmbiguousDestination = errors.New("dial: setting must not carry both phoneNumber and sipUri")
	// ErrCallerIDWithoutNumber is returned when callerId is set on a
	// SIP URI destination.
	ErrCallerIDWithoutNumber = errors.New("dial: callerId requires phoneNumber")
)

// Setting describes one outbound destination: either a phone number with an
// optional caller ID, or a SIP URI.
type Setting struct {
	PhoneNumber string `json:"phoneNumber,omitempty"`
	CallerID    string `json:"callerId,omitempty"`
	SIPURI      string `json:"sipUri,omitempty"`
}

// Validate checks that exactly one destination form is present and that the
// destination parses.
func (s Setting) Validate() error {
	switch {
	case s.PhoneNumber == "" && s.SIPURI == "":
		return ErrNoDestination
	case s.PhoneNumber != "" && s.SIPURI != "":
		return ErrAmbiguousDestination
	}

	if s.PhoneNumber != "" {
		if _, err := phonenumbers.Parse(s.PhoneNumber, ""); err != nil {
			return fmt.Errorf("dial: invalid phoneNumber %q: %w", s.PhoneNumber, err)
		}
		if s.CallerID != "" {
			if _, err := phonenumbers.Parse(s.CallerID, ""); err != nil {
				return fmt.Errorf("dial: invalid callerId %q: %w", s.CallerID, err)
			}
		}
		return nil
	}

	if s.CallerID != "" {
		return ErrCallerIDWithoutNumber
	}
	var uri sip.Uri
	if err := sip.ParseUri(s.SIPURI, &uri); err != nil {
		return fmt.Errorf("dial: invalid sipUri %q: %w", s.SIPURI, err)
	}
	return nil
}

// Request maps the setting onto the transport's dial-out request. Exactly
// one destination form is populated.
func (s Setting) Request() transport.DialOutRequest {
	if s.PhoneNumber != "" {
		return transport.DialOutRequest{
			PhoneNumber: s.PhoneNumber,
			CallerID:    s.CallerID,
		}
	}
	return transport.DialOutRequest{SIPURI: s.SIPURI}
}

// Destination returns the dialed endpoint for log context.
func (s Setting) Destination() string {
	if s.PhoneNumber != "" {
		return s.PhoneNumber
	}
	return s.SIPURI
}

// ParseSettings decodes a JSON dial-out settings list and validates every
// entry. Returns the settings or the first validation failure.
func ParseSettings(data []byte) ([]Setting, error) {
	var settings []Setting
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("dial: parse settings: %w", err)
	}
	for i, s := range settings {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("dial: settings[%d]: %w", i, err)
		}
	}
	return settings, nil
}
