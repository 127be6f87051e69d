package views

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"dataset-logger/models"
)

// Opener creates the file behind a RecordWriter. Production uses CreateFile;
// tests substitute writers that fail on demand.
type Opener func(path string) (io.WriteCloser, error)

// CreateFile creates or truncates path for writing.
func CreateFile(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// WriterOptions tune one RecordWriter.
type WriterOptions struct {
	BufferSize       int // bytes; <= 0 selects 64 KB
	FlushEveryRecord bool
	Format           models.NumberFormat
}

// RecordWriter appends delimited text lines to a single dataset file.
//
// It is not safe for concurrent use; the owning channel serialises access.
// With FlushEveryRecord a line only counts as written once it reached the
// file, so a failed append never leaves a half-accounted record behind.
type RecordWriter struct {
	file  io.WriteCloser
	buf   *bufio.Writer
	opts  WriterOptions
	lines uint64
}

// NewRecordWriter opens path and writes the header line. On any failure
// the file is closed and no writer is returned.
func NewRecordWriter(open Opener, path string, header []string, opts WriterOptions) (*RecordWriter, error) {
	if open == nil {
		open = CreateFile
	}
	f, err := open(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}

	if opts.BufferSize <= 0 {
		opts.BufferSize = 64 * 1024
	}

	w := &RecordWriter{
		file: f,
		buf:  bufio.NewWriterSize(f, opts.BufferSize),
		opts: opts,
	}

	if err := w.writeLine(header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write header %s: %w", path, err)
	}
	return w, nil
}

// WriteRecord appends one line: seq followed by the record's fields.
func (w *RecordWriter) WriteRecord(seq uint64, rec models.RowWriter) error {
	row := rec.Row(w.opts.Format)
	fields := make([]string, 0, len(row)+1)
	fields = append(fields, strconv.FormatUint(seq, 10))
	fields = append(fields, row...)

	if err := w.writeLine(fields); err != nil {
		return err
	}
	w.lines++
	return nil
}

func (w *RecordWriter) writeLine(fields []string) error {
	if _, err := w.buf.WriteString(models.JoinFields(fields)); err != nil {
		return err
	}
	if w.opts.FlushEveryRecord {
		return w.buf.Flush()
	}
	return nil
}

// Lines returns the number of data lines written (excludes header).
func (w *RecordWriter) Lines() uint64 {
	return w.lines
}

// Flush pushes buffered lines to the file.
func (w *RecordWriter) Flush() error {
	return w.buf.Flush()
}

// Close flushes remaining data and closes the file. The file is closed even
// when the flush fails.
func (w *RecordWriter) Close() error {
	flushErr := w.buf.Flush()
	closeErr := w.file.Close()
	return errors.Join(flushErr, closeErr)
}
