// Package metrics exposes Prometheus instrumentation for call tracking.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Failure reasons for DialOutFailures.
const (
	ReasonRequest   = "request"   // start-dialout request could not be submitted
	ReasonTransport = "transport" // transport reported a dialout-error event
	ReasonExhausted = "exhausted" // attempt budget spent
)

var (
	// DialOutAttempts counts outbound call requests issued.
	DialOutAttempts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "hotline",
		Name:      "dialout_attempts_total",
		Help:      "Outbound call requests issued to the transport.",
	})

	// DialOutFailures counts dial-out failures by reason.
	DialOutFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hotline",
		Name:      "dialout_failures_total",
		Help:      "Dial-out failures by reason.",
	}, []string{"reason"})

	// TranscriptionCaptures counts transcription-capture requests.
	TranscriptionCaptures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "hotline",
		Name:      "transcription_captures_total",
		Help:      "Transcription-capture requests issued to the transport.",
	})

	// SessionCancels counts pipeline session cancellations.
	SessionCancels = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "hotline",
		Name:      "session_cancels_total",
		Help:      "Voice pipeline sessions cancelled.",
	})
)

func init() {
	prometheus.MustRegister(
		DialOutAttempts,
		DialOutFailures,
		TranscriptionCaptures,
		SessionCancels,
	)
}

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
