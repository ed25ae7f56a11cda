package events

import "fmt"

// Subject naming conventions.
//
// Hierarchy:
//   hotline.calls.<session_id>.<event_name>  - Per-call lifecycle events
//   hotline.sessions.<session_id>.cancelled  - Pipeline session cancellation
//
// Wildcard subscriptions:
//   hotline.calls.>                          - All call events
//   hotline.calls.*.dialout-error            - All dial-out errors

const (
	// SubjectPrefix is the root of all hotline subjects
	SubjectPrefix = "hotline"

	// SubjectCalls groups call lifecycle events
	SubjectCalls = SubjectPrefix + ".calls"

	// SubjectSessions groups pipeline session events
	SubjectSessions = SubjectPrefix + ".sessions"
)

// CallSubject builds a subject for a specific call event.
// Example: CallSubject("abc-123", DialOutAnswered) => "hotline.calls.abc-123.dialout-answered"
func CallSubject(sessionID string, name Name) string {
	return fmt.Sprintf("%s.%s.%s", SubjectCalls, sessionID, name)
}

// SessionSubject builds a subject for pipeline session events.
// Example: SessionSubject("sess-123", "cancelled") => "hotline.sessions.sess-123.cancelled"
func SessionSubject(sessionID string, event string) string {
	return fmt.Sprintf("%s.%s.%s", SubjectSessions, sessionID, event)
}

// Subject patterns for common consumer configurations
var (
	// PatternAllCalls matches all call events
	PatternAllCalls = SubjectCalls + ".>"

	// PatternDialOutErrors matches all dial-out error events
	PatternDialOutErrors = SubjectCalls + ".*." + string(DialOutError)
)
