// Package weengine dispatches a raw, still-compressed tile or strip to the
// matching self-decompressing Tile Engine (spec §3 "we_decompress"):
// internal/jpegtile for JPEG and internal/jp2ktile for the JPEG-2000
// variants. It is the single place both internal/stripreader and
// internal/tilereader call after releasing the container lock, so the two
// readers' self-decompress branches stay identical.
package weengine

import (
	"github.com/coretiff/tiffcore/compression"
	"github.com/coretiff/tiffcore/directory"
	"github.com/coretiff/tiffcore/internal/jp2ktile"
	"github.com/coretiff/tiffcore/internal/jpegtile"
	"github.com/coretiff/tiffcore/photometric"
	"github.com/coretiff/tiffcore/tifferr"
)

// Decode decompresses a single raw tile/strip's bytes into interleaved
// 8-bit samples, returning the band count the decoder produced.
func Decode(h *directory.Header, raw []byte) ([]byte, int, error) {
	switch h.Compression {
	case compression.JPEG:
		out, _, _, err := jpegtile.Decode(raw, h.Photometric)
		if err != nil {
			return nil, 0, err
		}
		bands := 3
		if h.Photometric == photometric.BlackIsZero || h.Photometric == photometric.WhiteIsZero {
			bands = 1
		}
		return out, bands, nil

	case compression.JP2KYCC, compression.JP2KRGB, compression.JP2KLossy:
		out, _, _, bands, err := jp2ktile.Decode(raw)
		if err != nil {
			return nil, 0, err
		}
		return out, bands, nil

	default:
		return nil, 0, &tifferr.Unsupported{Reason: "no tile engine wired for this compression"}
	}
}
