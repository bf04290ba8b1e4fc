package logsource

import (
	"fmt"
	"io"
	"time"

	"github.com/jlaffaye/ftp"
)

// tailFetchBytes bounds how much of the remote log a Tail call fetches.
const tailFetchBytes = 64 * 1024

// FTPSource reads the console log from the game host's FTP service.
// Every call dials a fresh control connection, mirroring the stateless
// file source; at poll cadence this is cheap and avoids half-dead
// sessions after host restarts.
type FTPSource struct {
	addr     string
	user     string
	password string
	path     string
	timeout  time.Duration
}

// NewFTPSource creates an FTP-backed log source for the given remote
// file path.
func NewFTPSource(addr, user, password, path string, timeout time.Duration) *FTPSource {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &FTPSource{addr: addr, user: user, password: password, path: path, timeout: timeout}
}

// Name returns the remote path prefixed with the host for offset keys.
func (s *FTPSource) Name() string { return "ftp://" + s.addr + s.path }

func (s *FTPSource) dial() (*ftp.ServerConn, error) {
	conn, err := ftp.Dial(s.addr, ftp.DialWithTimeout(s.timeout))
	if err != nil {
		return nil, fmt.Errorf("ftp dial %s: %w", s.addr, err)
	}
	if err := conn.Login(s.user, s.password); err != nil {
		conn.Quit()
		return nil, fmt.Errorf("ftp login: %w", err)
	}
	return conn, nil
}

// ReadFrom fetches only the appended byte range using REST+RETR. A
// remote file smaller than the offset restarts the read from zero.
func (s *FTPSource) ReadFrom(offset int64) ([]byte, int64, error) {
	conn, err := s.dial()
	if err != nil {
		return nil, offset, err
	}
	defer conn.Quit()

	size, err := conn.FileSize(s.path)
	if err != nil {
		return nil, offset, fmt.Errorf("ftp size %s: %w", s.path, err)
	}

	base := offset
	if size < offset {
		base = 0
	}
	if size == base {
		return nil, base, nil
	}

	resp, err := conn.RetrFrom(s.path, uint64(base))
	if err != nil {
		return nil, base, fmt.Errorf("ftp retr %s from %d: %w", s.path, base, err)
	}
	data, err := io.ReadAll(resp)
	resp.Close()
	if err != nil {
		return nil, base, fmt.Errorf("ftp read %s: %w", s.path, err)
	}
	return data, base, nil
}

// ModTime asks the server for the file's modification time (MDTM).
func (s *FTPSource) ModTime() (time.Time, error) {
	conn, err := s.dial()
	if err != nil {
		return time.Time{}, err
	}
	defer conn.Quit()

	t, err := conn.GetTime(s.path)
	if err != nil {
		return time.Time{}, fmt.Errorf("ftp mdtm %s: %w", s.path, err)
	}
	return t, nil
}

// Tail fetches a bounded trailing chunk and returns its last n lines.
func (s *FTPSource) Tail(n int) ([]string, error) {
	conn, err := s.dial()
	if err != nil {
		return nil, err
	}
	defer conn.Quit()

	size, err := conn.FileSize(s.path)
	if err != nil {
		return nil, fmt.Errorf("ftp size %s: %w", s.path, err)
	}
	if size == 0 {
		return []string{}, nil
	}

	start := size - tailFetchBytes
	if start < 0 {
		start = 0
	}

	resp, err := conn.RetrFrom(s.path, uint64(start))
	if err != nil {
		return nil, fmt.Errorf("ftp retr %s from %d: %w", s.path, start, err)
	}
	data, err := io.ReadAll(resp)
	resp.Close()
	if err != nil {
		return nil, fmt.Errorf("ftp read %s: %w", s.path, err)
	}

	return splitTailLines(data, start > 0, n), nil
}
