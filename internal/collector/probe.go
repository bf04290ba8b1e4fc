package collector

import (
	"errors"
	"net"
	"time"

	"github.com/perkola/pzwatch/internal/domain"
)

// ProbePort dials addr over TCP with a bounded timeout and classifies
// the result. A refused or otherwise failed dial is closed, an expired
// dial is timeout.
func ProbePort(addr string, timeout time.Duration) string {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		var nerr net.Error
		if errors.As(err, &nerr) && nerr.Timeout() {
			return domain.ProbeTimeout
		}
		return domain.ProbeClosed
	}
	conn.Close()
	return domain.ProbeOpen
}
