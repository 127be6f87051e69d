package controller

import (
	"bufio"
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
)

var errDiskFull = errors.New("no space left on device")

// limitedFile accepts writes until limit bytes are stored, then rejects
// every write that would exceed it without storing any of it.
type limitedFile struct {
	bytes.Buffer
	limit int
}

func (f *limitedFile) Write(p []byte) (int, error) {
	if f.Len()+len(p) > f.limit {
		return 0, errDiskFull
	}
	return f.Buffer.Write(p)
}

func (f *limitedFile) Close() error { return nil }

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan %s: %v", path, err)
	}
	return lines
}

func splitFields(line string) []string {
	return strings.Split(line, ", ")
}

func assertNotExist(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("%s: expected no file, stat err = %v", path, err)
	}
}
