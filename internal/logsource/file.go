package logsource

import (
	"fmt"
	"io"
	"os"
	"time"
)

// FileSource reads the console log from the local filesystem. It holds
// no open file descriptor, so rename-style rotation never pins a stale
// inode between polls.
type FileSource struct {
	path string
}

// NewFileSource creates a file-backed log source.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name returns the file path.
func (s *FileSource) Name() string { return s.path }

// ReadFrom returns bytes appended since offset. A file smaller than the
// offset means the log was truncated or replaced; reading restarts from
// the beginning.
func (s *FileSource) ReadFrom(offset int64) ([]byte, int64, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, offset, fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, offset, fmt.Errorf("stat log file: %w", err)
	}

	base := offset
	if stat.Size() < offset {
		base = 0
	}
	if stat.Size() == base {
		return nil, base, nil
	}

	buf := make([]byte, stat.Size()-base)
	if _, err := f.ReadAt(buf, base); err != nil && err != io.EOF {
		return nil, base, fmt.Errorf("reading log file: %w", err)
	}
	return buf, base, nil
}

// ModTime returns the file's modification time.
func (s *FileSource) ModTime() (time.Time, error) {
	stat, err := os.Stat(s.path)
	if err != nil {
		return time.Time{}, fmt.Errorf("stat log file: %w", err)
	}
	return stat.ModTime(), nil
}

// Tail reads the last n lines by scanning the file backwards in fixed
// blocks, so a large log is never loaded whole.
func (s *FileSource) Tail(n int) ([]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat log file: %w", err)
	}

	fileSize := stat.Size()
	if fileSize == 0 {
		return []string{}, nil
	}

	const blockSize = 4096
	var lines []string
	var partial string
	position := fileSize

	for position > 0 && len(lines) < n {
		readSize := int64(blockSize)
		if readSize > position {
			readSize = position
		}
		position -= readSize

		buf := make([]byte, readSize)
		if _, err := f.ReadAt(buf, position); err != nil && err != io.EOF {
			return nil, fmt.Errorf("reading block: %w", err)
		}

		// Process block backwards
		content := string(buf) + partial
		partial = ""

		for i := len(content) - 1; i >= 0; i-- {
			if content[i] == '\n' {
				line := trimCR(content[i+1:])
				if line != "" {
					lines = append(lines, line)
					if len(lines) >= n {
						break
					}
				}
				content = content[:i]
			}
		}

		// Remaining content is an incomplete line from the previous block
		if len(lines) < n {
			partial = content
		}
	}

	if partial != "" && len(lines) < n {
		lines = append(lines, trimCR(partial))
	}

	// Reverse to chronological order
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}

	return lines, nil
}

func trimCR(line string) string {
	if len(line) > 0 && line[len(line)-1] == '\r' {
		return line[:len(line)-1]
	}
	return line
}
