// Package netprobe answers one question: does this machine currently
// appear to have network access? The chain consults it before spending
// a cache write on a result that may be stale synthetic data.
package netprobe

import (
	"context"
	"net"
	"time"
)

// Probe reports whether the network is believed reachable. Answers are
// best-effort; a false positive only costs a failed fetch attempt.
type Probe interface {
	Online(ctx context.Context) bool
}

// DialProbe checks reachability by opening a TCP connection to a
// well-known host.
type DialProbe struct {
	Addr    string
	Timeout time.Duration
}

// NewDialProbe returns a probe against a public DNS endpoint with a
// short timeout.
func NewDialProbe() *DialProbe {
	return &DialProbe{Addr: "1.1.1.1:443", Timeout: 2 * time.Second}
}

func (p *DialProbe) Online(ctx context.Context) bool {
	d := net.Dialer{Timeout: p.Timeout}
	conn, err := d.DialContext(ctx, "tcp", p.Addr)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// Static always answers the same; used in tests and to force offline mode.
type Static bool

func (s Static) Online(context.Context) bool { return bool(s) }
