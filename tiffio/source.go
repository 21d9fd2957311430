// Package tiffio implements the byte-addressable Source abstraction this
// module reads TIFF directories from (spec §3: "a byte stream supporting
// read, seek, tell, and a cooperative 'minimise' hint that releases file
// descriptors while retaining logical position"). Grounded on
// Echoflaresat-spacecam's texture.Texture, which owns its TIFF bytes behind
// an io.ReaderAt backed by either an *os.File or golang.org/x/exp/mmap.
package tiffio

import "io"

// Source is what internal/container.Open and the rest of the engine read
// TIFF bytes through. Implementations own the underlying file descriptor
// or memory mapping for their lifetime; the core holds a strong reference
// to a Source, never copies its bytes wholesale.
type Source interface {
	io.ReaderAt
	io.Seeker

	// Tell reports the current logical seek position, independent of
	// whether the underlying descriptor is presently open.
	Tell() (int64, error)

	// Minimise asks the Source to release any held OS file descriptor
	// while preserving Tell's logical position, so the next ReadAt/Seek
	// transparently reopens it. Called by the core only when the current
	// directory is not tiled (spec §4.7): tiled decodes may run from
	// arbitrary worker goroutines and must not have their descriptor
	// dropped mid-flight.
	Minimise() error

	// Close releases the Source permanently. Idempotent.
	Close() error
}
