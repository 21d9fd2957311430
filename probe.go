package tiffcore

import (
	"github.com/coretiff/tiffcore/internal/container"
	"github.com/coretiff/tiffcore/internal/headerread"
	"github.com/coretiff/tiffcore/tiffio"
)

// Probe reports whether source looks like a TIFF this core can open at
// all: its byte-order marker parses and directory 0's header passes the
// sanity-check matrix. It never returns an error; a false result means
// "don't bother calling Read", not a specific failure reason.
func Probe(source tiffio.Source) bool {
	c, err := container.Open(source)
	if err != nil {
		return false
	}
	defer c.Close()

	_, err = headerread.Read(c, false)
	return err == nil
}

// ProbeTiled is Probe plus a check that directory 0 is tile-organized,
// spec §6's "probe_tiled" entry point.
func ProbeTiled(source tiffio.Source) bool {
	c, err := container.Open(source)
	if err != nil {
		return false
	}
	defer c.Close()

	h, err := headerread.Read(c, false)
	if err != nil {
		return false
	}
	return h.Tiled
}
