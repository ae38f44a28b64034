package probe

import (
	"context"
	"fmt"
)

// Kind says how a probe ended.
type Kind int

const (
	// Up: request completed with status < 400.
	Up Kind = iota
	// Degraded: request completed with status >= 400. Still reachable, but
	// counted as down for availability purposes.
	Degraded
	// Down: request did not complete.
	Down
)

// Reason classifies why a Down probe failed.
type Reason int

const (
	ReasonTimeout Reason = iota
	ReasonConnection
	ReasonTLS
	ReasonOther
)

// Outcome is the classified result of a single probe.
// StatusCode and LatencyMS are set iff the request completed (Up or Degraded);
// Reason is meaningful only for Down.
type Outcome struct {
	Kind       Kind    `json:"kind"`
	StatusCode int     `json:"status_code,omitempty"`
	LatencyMS  float64 `json:"latency_ms,omitempty"`
	Reason     Reason  `json:"reason,omitempty"`
}

// Checker performs a single health check against a target URL.
// The context bounds the whole request, timeout included.
type Checker interface {
	Check(ctx context.Context, target string) Outcome
}

// Completed reports whether a response was received at all.
func (o Outcome) Completed() bool { return o.Kind != Down }

// IsUp is the availability flag: status code < 400.
func (o Outcome) IsUp() bool { return o.Kind == Up }

// StatusLabel renders the display status. Completed requests always read
// "UP (<code>)" even when the code is >= 400; the row coloring, not the
// label, carries availability.
func (o Outcome) StatusLabel() string {
	if o.Completed() {
		return fmt.Sprintf("UP (%d)", o.StatusCode)
	}
	switch o.Reason {
	case ReasonTimeout:
		return "DOWN (Timeout)"
	case ReasonConnection:
		return "DOWN (Connection Error)"
	case ReasonTLS:
		return "DOWN (SSL Error)"
	default:
		return "DOWN (Unknown Error)"
	}
}

// LatencyLabel renders the response time, "N/A" when no response arrived.
func (o Outcome) LatencyLabel() string {
	if !o.Completed() {
		return "N/A"
	}
	return fmt.Sprintf("%.0fms", o.LatencyMS)
}
