// internal/writers/sink.go
package writers

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"sync"
	"syscall"

	"clrgen/internal/clr"
)

// Records are rendered into pooled buffers outside the lock.
var bufPool = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

// Sink serializes corrected reads from many workers. Each record is rendered
// into a private buffer, then written with a single call under the lock, so
// records never interleave.
type Sink struct {
	enc Encoder

	mu  sync.Mutex
	w   *bufio.Writer
	n   int
	err error
}

// NewSink returns a Sink writing format to w. Formats with a header line get
// it written first.
func NewSink(w io.Writer, format string) (*Sink, error) {
	enc, header, err := Lookup(format)
	if err != nil {
		return nil, err
	}
	s := &Sink{enc: enc, w: bufio.NewWriterSize(w, 256<<10)}
	if header != "" {
		_, s.err = s.w.WriteString(header + "\n")
	}
	return s, nil
}

// Write renders and appends one record. After the first write error every
// call returns that error.
func (s *Sink) Write(cr clr.CorrectedRead) error {
	buf := bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufPool.Put(buf)

	if err := s.enc(buf, cr); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if _, err := s.w.Write(buf.Bytes()); err != nil {
		s.err = err
		return err
	}
	s.n++
	return nil
}

// Records reports how many records were written.
func (s *Sink) Records() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}

// Flush writes any buffered data to the underlying writer.
func (s *Sink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.err = s.w.Flush()
	return s.err
}

// IsBrokenPipe reports whether err means the reader went away (for example
// "clrgen ... | head"). Commands treat it as a clean exit.
func IsBrokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe)
}
