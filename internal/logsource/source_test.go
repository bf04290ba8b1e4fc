package logsource

import (
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func TestOpenReaderPlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old-console.txt")
	if err := os.WriteFile(path, []byte("line one\nline two\n"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	r, err := OpenReader(path)
	if err != nil {
		t.Fatalf("OpenReader returned error: %v", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "line one\nline two\n" {
		t.Fatalf("unexpected content: %q", data)
	}
}

func TestOpenReaderGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old-console.txt.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create file: %v", err)
	}
	zw := gzip.NewWriter(f)
	if _, err := zw.Write([]byte("compressed line\n")); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	f.Close()

	r, err := OpenReader(path)
	if err != nil {
		t.Fatalf("OpenReader returned error: %v", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if string(data) != "compressed line\n" {
		t.Fatalf("unexpected content: %q", data)
	}
}

func TestOpenReaderMissingFile(t *testing.T) {
	if _, err := OpenReader(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSplitTailLines(t *testing.T) {
	data := []byte("cut-off tail\nalpha\r\nbeta\ngamma\n")

	// A mid-file chunk drops its first, possibly partial line
	lines := splitTailLines(data, true, 10)
	if !reflect.DeepEqual(lines, []string{"alpha", "beta", "gamma"}) {
		t.Fatalf("splitTailLines = %v", lines)
	}

	// A whole-file chunk keeps the leading line and honors n
	lines = splitTailLines(data, false, 2)
	if !reflect.DeepEqual(lines, []string{"beta", "gamma"}) {
		t.Fatalf("splitTailLines = %v", lines)
	}
}
