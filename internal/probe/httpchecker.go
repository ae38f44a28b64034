package probe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"net/http"
	"syscall"
	"time"
)

type HTTPChecker struct {
	Client *http.Client
}

// NewHTTPChecker builds a checker with no client-level timeout; the per-probe
// deadline comes from the Check context so the caller stays in control.
func NewHTTPChecker() *HTTPChecker {
	return &HTTPChecker{
		Client: &http.Client{},
	}
}

// Check issues one GET, following redirects, and classifies the result.
// Latency is measured up to headers/status being available; the body is not
// waited for. Exactly one attempt — the next round is the retry.
func (h *HTTPChecker) Check(ctx context.Context, target string) Outcome {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Outcome{Kind: Down, Reason: ReasonOther}
	}

	start := time.Now()
	resp, err := h.Client.Do(req)
	latency := time.Since(start).Seconds() * 1000
	if err != nil {
		return Outcome{Kind: Down, Reason: classify(err)}
	}
	defer resp.Body.Close()

	kind := Up
	if resp.StatusCode >= 400 {
		kind = Degraded
	}
	return Outcome{Kind: kind, StatusCode: resp.StatusCode, LatencyMS: latency}
}

// classify maps a transport error to a down reason. Timeout wins over the
// rest: a handshake that times out is a timeout, not a TLS failure.
func classify(err error) Reason {
	if isTimeout(err) {
		return ReasonTimeout
	}
	if isTLS(err) {
		return ReasonTLS
	}
	if isConnection(err) {
		return ReasonConnection
	}
	return ReasonOther
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func isTLS(err error) bool {
	var (
		verifyErr   *tls.CertificateVerificationError
		recordErr   tls.RecordHeaderError
		unknownAuth x509.UnknownAuthorityError
		hostErr     x509.HostnameError
		invalidErr  x509.CertificateInvalidError
	)
	return errors.As(err, &verifyErr) ||
		errors.As(err, &recordErr) ||
		errors.As(err, &unknownAuth) ||
		errors.As(err, &hostErr) ||
		errors.As(err, &invalidErr)
}

func isConnection(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
