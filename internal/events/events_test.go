package events

import (
	"encoding/json"
	"testing"
)

func TestEventSubjectNaming(t *testing.T) {
	event := New(DialOutAnswered, Payload{SessionID: "call-123"})

	expected := "hotline.calls.call-123.dialout-answered"
	if got := event.Subject(); got != expected {
		t.Errorf("Subject() = %q, want %q", got, expected)
	}
}

func TestEventSubjectWithoutSession(t *testing.T) {
	event := New(DialInReady, Payload{SIPURI: "sip:room@gateway"})

	expected := "hotline.calls.-.dialin-ready"
	if got := event.Subject(); got != expected {
		t.Errorf("Subject() = %q, want %q", got, expected)
	}
}

func TestCallSubjectHelpers(t *testing.T) {
	if got := CallSubject("abc-123", DialOutError); got != "hotline.calls.abc-123.dialout-error" {
		t.Errorf("CallSubject() = %q", got)
	}
	if got := SessionSubject("sess-1", "cancelled"); got != "hotline.sessions.sess-1.cancelled" {
		t.Errorf("SessionSubject() = %q", got)
	}
}

func TestEnvelopeJSON(t *testing.T) {
	event := New(DialOutAnswered, Payload{SessionID: "abc", Code: "200"})

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	// Verify key wire fields are present
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	if m["event"] != "dialout-answered" {
		t.Errorf("event = %v, want dialout-answered", m["event"])
	}
	if m["event_id"] == "" || m["event_id"] == nil {
		t.Error("event_id missing")
	}
	payload, ok := m["payload"].(map[string]interface{})
	if !ok {
		t.Fatalf("payload missing: %v", m)
	}
	if payload["sessionId"] != "abc" {
		t.Errorf("payload.sessionId = %v, want abc", payload["sessionId"])
	}
}

func TestDecode(t *testing.T) {
	wire := []byte(`{"event_id":"e1","event":"dialout-error","payload":{"sessionId":"s1","code":"486","message":"busy"}}`)

	evt, err := Decode(wire)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if evt.Name != DialOutError {
		t.Errorf("Name = %q, want %q", evt.Name, DialOutError)
	}
	if evt.Payload.Code != "486" {
		t.Errorf("Payload.Code = %q, want 486", evt.Payload.Code)
	}
}

func TestDecodeRejectsBadInput(t *testing.T) {
	if _, err := Decode([]byte(`not json`)); err == nil {
		t.Error("Decode() accepted malformed JSON")
	}
	if _, err := Decode([]byte(`{"payload":{}}`)); err == nil {
		t.Error("Decode() accepted envelope without event name")
	}
}

func TestNameClassification(t *testing.T) {
	dialIn := []Name{DialInReady, DialInConnected, DialInStopped, DialInError, DialInWarning, FirstParticipantJoined}
	for _, n := range dialIn {
		if !n.DialIn() || n.DialOut() {
			t.Errorf("%q should classify as dial-in only", n)
		}
	}

	dialOut := []Name{DialOutConnected, DialOutAnswered, DialOutStopped, DialOutError, DialOutWarning}
	for _, n := range dialOut {
		if !n.DialOut() || n.DialIn() {
			t.Errorf("%q should classify as dial-out only", n)
		}
	}
}
