package tiffio

import (
	"io"
	"sync"

	"github.com/pkg/errors"
)

// BytesSource is a Source over an in-memory buffer, used by tests and by
// callers that already hold the whole TIFF (e.g. pulled from a pipe-like
// descriptor ahead of time, per spec §3's "pipe-like descriptors that
// support seek").
type BytesSource struct {
	data []byte

	mu  sync.Mutex
	pos int64
}

// NewBytesSource wraps data without copying it.
func NewBytesSource(data []byte) *BytesSource {
	return &BytesSource{data: data}
}

func (s *BytesSource) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errors.New("tiffio: negative ReadAt offset")
	}
	if off >= int64(len(s.data)) {
		return 0, io.EOF
	}
	n := copy(p, s.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (s *BytesSource) Seek(offset int64, whence int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch whence {
	case io.SeekStart:
		s.pos = offset
	case io.SeekCurrent:
		s.pos += offset
	case io.SeekEnd:
		s.pos = int64(len(s.data)) + offset
	}
	return s.pos, nil
}

func (s *BytesSource) Tell() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos, nil
}

// Minimise is a no-op: there is no file descriptor behind an in-memory
// buffer to release.
func (s *BytesSource) Minimise() error { return nil }

func (s *BytesSource) Close() error { return nil }
