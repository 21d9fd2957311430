package tiffio

import (
	"sync"

	"golang.org/x/exp/mmap"

	"github.com/coretiff/tiffcore/tifferr"
)

// MMapSource is a Source backed by a memory-mapped file, grounded on
// Echoflaresat-spacecam's model.LoadTexture, which opens its TIFF input
// with golang.org/x/exp/mmap.Open rather than a plain *os.File so
// concurrent tile workers fault pages in independently without a shared
// read cursor.
type MMapSource struct {
	r *mmap.ReaderAt

	mu  sync.Mutex
	pos int64
}

// OpenMMap memory-maps path for reading.
func OpenMMap(path string) (*MMapSource, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, tifferr.WrapRead(err, "tiffio: mmap open")
	}
	return &MMapSource{r: r}, nil
}

func (s *MMapSource) ReadAt(p []byte, off int64) (int, error) {
	return s.r.ReadAt(p, off)
}

func (s *MMapSource) Seek(offset int64, whence int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch whence {
	case 0:
		s.pos = offset
	case 1:
		s.pos += offset
	case 2:
		s.pos = int64(s.r.Len()) + offset
	}
	return s.pos, nil
}

func (s *MMapSource) Tell() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos, nil
}

// Minimise is a no-op: a memory mapping has no per-read file descriptor to
// release the way a plain *os.File does, and unmapping here would
// invalidate any in-flight tile worker's reads.
func (s *MMapSource) Minimise() error {
	return nil
}

func (s *MMapSource) Close() error {
	return s.r.Close()
}
