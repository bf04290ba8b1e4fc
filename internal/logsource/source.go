// Package logsource provides append-only access to a game server's
// console log, locally or over FTP. Readers are stateless: every call
// opens the source fresh, so a rotated or replaced log is always picked
// up on the next poll.
package logsource

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
)

// Source is an append-only view of a console log.
type Source interface {
	// Name identifies the source for offset bookkeeping and logging.
	Name() string
	// ReadFrom returns all bytes appended at or after offset, plus the
	// base offset the data actually starts at. The base equals offset
	// unless the source shrank (rotation/truncation), in which case the
	// read restarts from zero.
	ReadFrom(offset int64) (data []byte, base int64, err error)
	// ModTime returns the source's last modification time.
	ModTime() (time.Time, error)
	// Tail returns up to n trailing lines in chronological order.
	Tail(n int) ([]string, error)
}

// OpenReader opens a whole log file for replay, transparently
// decompressing gzip archives by filename.
func OpenReader(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("opening gzip log %s: %w", path, err)
	}
	return &gzipReadCloser{zr: zr, f: f}, nil
}

type gzipReadCloser struct {
	zr *gzip.Reader
	f  *os.File
}

func (g *gzipReadCloser) Read(p []byte) (int, error) { return g.zr.Read(p) }

func (g *gzipReadCloser) Close() error {
	zerr := g.zr.Close()
	ferr := g.f.Close()
	if zerr != nil {
		return zerr
	}
	return ferr
}

// splitTailLines breaks a raw byte chunk into lines for Tail, dropping
// the leading line when the chunk started mid-file (it may be partial).
func splitTailLines(data []byte, droppedLeading bool, n int) []string {
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		if i == 0 && droppedLeading {
			continue
		}
		if line != "" {
			out = append(out, line)
		}
	}
	if len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}
