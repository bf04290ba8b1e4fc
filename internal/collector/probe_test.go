package collector

import (
	"net"
	"testing"
	"time"

	"github.com/perkola/pzwatch/internal/domain"
)

func TestProbePortOpen(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	if got := ProbePort(ln.Addr().String(), time.Second); got != domain.ProbeOpen {
		t.Fatalf("probe = %q, want %q", got, domain.ProbeOpen)
	}
}

func TestProbePortClosed(t *testing.T) {
	// Nothing listens on port 1
	if got := ProbePort("127.0.0.1:1", time.Second); got != domain.ProbeClosed {
		t.Fatalf("probe = %q, want %q", got, domain.ProbeClosed)
	}
}
