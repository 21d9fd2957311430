package tiffio

import (
	"os"
	"sync"

	"github.com/pkg/errors"
)

// FileSource is a Source backed by an *os.File, reopened lazily after a
// Minimise call. Grounded on the teacher's reader.go, which opens its TIFF
// input with a plain *os.File behind the container library.
type FileSource struct {
	path string

	mu  sync.RWMutex
	f   *os.File // nil once Minimise has released it
	pos int64    // logical cursor, valid whether or not f is open
}

// OpenFile opens path for reading.
func OpenFile(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "tiffio: open file source")
	}
	return &FileSource{path: path, f: f}, nil
}

func (s *FileSource) ReadAt(p []byte, off int64) (int, error) {
	s.mu.RLock()
	if s.f != nil {
		defer s.mu.RUnlock()
		return s.f.ReadAt(p, off)
	}
	s.mu.RUnlock()

	if err := s.reopen(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.f.ReadAt(p, off)
}

func (s *FileSource) Seek(offset int64, whence int) (int64, error) {
	s.mu.RLock()
	f := s.f
	s.mu.RUnlock()

	if f == nil {
		if err := s.reopen(); err != nil {
			return 0, err
		}
		s.mu.RLock()
		f = s.f
		s.mu.RUnlock()
	}

	n, err := f.Seek(offset, whence)
	if err == nil {
		s.mu.Lock()
		s.pos = n
		s.mu.Unlock()
	}
	return n, err
}

func (s *FileSource) Tell() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pos, nil
}

// Minimise closes the underlying file descriptor, retaining the logical
// seek position so a subsequent Seek/ReadAt reopens it transparently.
func (s *FileSource) Minimise() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

func (s *FileSource) reopen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f != nil {
		return nil
	}
	f, err := os.Open(s.path)
	if err != nil {
		return errors.Wrap(err, "tiffio: reopen minimised file source")
	}
	if s.pos != 0 {
		if _, err := f.Seek(s.pos, os.SEEK_SET); err != nil {
			f.Close()
			return errors.Wrap(err, "tiffio: restore seek position")
		}
	}
	s.f = f
	return nil
}

func (s *FileSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}
