package scriptable

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuildStdinSourceVariants(t *testing.T) {
	r, closer, err := buildStdinSource([]string{"a", "b"})
	if err != nil {
		t.Fatalf("buildStdinSource([]string) err = %v", err)
	}
	if closer != nil {
		t.Fatalf("buildStdinSource([]string) closer = %v, want nil", closer)
	}
	b, _ := io.ReadAll(r)
	if string(b) != "a\nb\n" {
		t.Fatalf("content = %q", b)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "in.txt")
	if err := os.WriteFile(path, []byte("file content"), 0o644); err != nil {
		t.Fatal(err)
	}
	r, closer, err = buildStdinSource(FilePath(path))
	if err != nil {
		t.Fatalf("buildStdinSource(FilePath) err = %v", err)
	}
	defer closer.Close()
	b, _ = io.ReadAll(r)
	if string(b) != "file content" {
		t.Fatalf("content = %q", b)
	}

	if _, _, err := buildStdinSource(42); err != ErrInvalidArgument {
		t.Fatalf("buildStdinSource(int) err = %v, want ErrInvalidArgument", err)
	}
}

func TestLineCollectorBuffersPartialLine(t *testing.T) {
	var lines []string
	w := &lineCollector{target: &lines}
	w.Write([]byte("one\ntwo"))
	if len(lines) != 1 || lines[0] != "one" {
		t.Fatalf("lines after partial write = %v", lines)
	}
	w.Close()
	if len(lines) != 2 || lines[1] != "two" {
		t.Fatalf("lines after Close = %v", lines)
	}
}

func TestLineCollectorTrimsCR(t *testing.T) {
	var lines []string
	w := &lineCollector{target: &lines}
	w.Write([]byte("one\r\n"))
	w.Close()
	if len(lines) != 1 || lines[0] != "one" {
		t.Fatalf("lines = %v", lines)
	}
}

func TestRuneCollectorAccumulates(t *testing.T) {
	var runes []rune
	w := &runeCollector{target: &runes}
	w.Write([]byte("hi"))
	w.Close()
	if string(runes) != "hi" {
		t.Fatalf("runes = %q", string(runes))
	}
}

func TestBuildStdoutSinkFilePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	w, closer, err := buildStdoutSink(FilePath(path))
	if err != nil {
		t.Fatalf("buildStdoutSink(FilePath) err = %v", err)
	}
	io.WriteString(w, "written")
	closer.Close()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(b)) != "written" {
		t.Fatalf("file content = %q", b)
	}
}
