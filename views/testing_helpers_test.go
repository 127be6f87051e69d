package views

import (
	"bytes"
	"errors"
)

var errDiskFull = errors.New("no space left on device")

// limitedFile accepts writes until limit bytes are stored, then rejects
// every write that would exceed it without storing any of it.
type limitedFile struct {
	bytes.Buffer
	limit  int
	closed bool
}

func (f *limitedFile) Write(p []byte) (int, error) {
	if f.Len()+len(p) > f.limit {
		return 0, errDiskFull
	}
	return f.Buffer.Write(p)
}

func (f *limitedFile) Close() error {
	f.closed = true
	return nil
}
