package controller

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"dataset-logger/models"
	"dataset-logger/utils"
	"dataset-logger/views"
)

var (
	// ErrOpen is returned when a channel file cannot be created. The channel
	// stays unopened and the next save tries again.
	ErrOpen = errors.New("dataset: open channel")

	// ErrWrite is returned when an append to an open channel fails. The
	// record does not consume a sequence number. The failure is sticky:
	// the buffered writer keeps the error, so every later save on that
	// channel fails too. Only a failed open is retried.
	ErrWrite = errors.New("dataset: write record")

	// ErrClosed is returned by saves after Close.
	ErrClosed = errors.New("dataset: closed")
)

// channel is one lazily opened record file and its sequence counter.
// mu guards the whole open-then-append path.
type channel struct {
	mu     sync.Mutex
	kind   views.Channel
	writer *views.RecordWriter
	seq    uint64
	closed bool
}

// Dataset writes motion and stream records of one run to text files under
// outdir. Nothing is created until the first save on a channel; a channel
// that is never used leaves no file behind.
//
// Each channel serialises its own saves, so the two channels may be fed
// from different goroutines.
type Dataset struct {
	outdir string
	opts   views.WriterOptions
	open   views.Opener

	motion channel
	stream channel
}

// NewDataset prepares a dataset rooted at outdir. Floats get at least
// models.DefaultMinDecimals fractional digits whatever cfg says. It does not
// touch the filesystem; outdir and outdir/left must exist before the first save on
// the respective channel.
func NewDataset(outdir string, cfg utils.DatasetConfig) *Dataset {
	decimals := cfg.MinDecimals
	if decimals < models.DefaultMinDecimals {
		decimals = models.DefaultMinDecimals
	}
	return &Dataset{
		outdir: outdir,
		opts: views.WriterOptions{
			BufferSize:       cfg.BufferSizeKB * 1024,
			FlushEveryRecord: cfg.FlushEveryRecord,
			Format:           models.NumberFormat{MinDecimals: decimals},
		},
		open:   views.CreateFile,
		motion: channel{kind: views.ChannelMotion},
		stream: channel{kind: views.ChannelStream},
	}
}

// OutDir returns the run directory.
func (ds *Dataset) OutDir() string {
	return ds.outdir
}

// SaveMotionData appends one line to motion.txt.
func (ds *Dataset) SaveMotionData(d *models.MotionData) error {
	if d == nil {
		return fmt.Errorf("%w: nil motion data", ErrWrite)
	}
	return ds.save(&ds.motion, d)
}

// SaveStreamData appends one line to left/stream.txt.
func (ds *Dataset) SaveStreamData(d *models.StreamData) error {
	if d == nil {
		return fmt.Errorf("%w: nil stream data", ErrWrite)
	}
	return ds.save(&ds.stream, d)
}

// MotionCount returns the number of motion records written so far.
func (ds *Dataset) MotionCount() uint64 {
	return ds.motion.count()
}

// StreamCount returns the number of stream records written so far.
func (ds *Dataset) StreamCount() uint64 {
	return ds.stream.count()
}

func (ds *Dataset) save(ch *channel, rec models.RowWriter) error {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	if ch.closed {
		return fmt.Errorf("%s: %w", ch.kind, ErrClosed)
	}

	w, err := ds.acquire(ch)
	if err != nil {
		return err
	}

	if err := w.WriteRecord(ch.seq, rec); err != nil {
		return fmt.Errorf("%w: %s seq %d: %w", ErrWrite, ch.kind, ch.seq, err)
	}
	ch.seq++
	return nil
}

// acquire returns the channel's writer, opening the file and writing its
// header on first use. Must be called with ch.mu held.
func (ds *Dataset) acquire(ch *channel) (*views.RecordWriter, error) {
	if ch.writer != nil {
		return ch.writer, nil
	}

	path := filepath.Join(ds.outdir, ch.kind.RelPath())
	w, err := views.NewRecordWriter(ds.open, path, ch.kind.Header(), ds.opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOpen, ch.kind, err)
	}

	ch.writer = w
	ch.seq = 0
	utils.L().Debug("dataset: %s channel opened at %s", ch.kind, path)
	return w, nil
}

func (ch *channel) count() uint64 {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return ch.seq
}

// Flush pushes buffered lines of every open channel to disk.
func (ds *Dataset) Flush() error {
	var errs []error
	for _, ch := range []*channel{&ds.motion, &ds.stream} {
		ch.mu.Lock()
		if ch.writer != nil {
			if err := ch.writer.Flush(); err != nil {
				errs = append(errs, fmt.Errorf("flush %s: %w", ch.kind, err))
			}
		}
		ch.mu.Unlock()
	}
	return errors.Join(errs...)
}

// Close flushes and closes every channel that was opened. Unopened channels
// are left alone. Further saves fail with ErrClosed; calling Close again is
// a no-op.
func (ds *Dataset) Close() error {
	var errs []error
	for _, ch := range []*channel{&ds.motion, &ds.stream} {
		ch.mu.Lock()
		if ch.writer != nil {
			if err := ch.writer.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", ch.kind, err))
			}
			ch.writer = nil
		}
		ch.closed = true
		ch.mu.Unlock()
	}
	return errors.Join(errs...)
}
