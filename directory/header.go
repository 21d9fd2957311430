// Package directory holds the per-page TIFF Header produced by the Header
// Reader (spec §4.1) and the Container contract (spec §6) the Header
// Reader, Tile Reader, and Strip Reader all depend on. The concrete
// container implementation (an IFD walker) lives in internal/container;
// this package only describes the shape every component agrees on.
package directory

import (
	"encoding/binary"

	"github.com/coretiff/tiffcore/compression"
	"github.com/coretiff/tiffcore/inkset"
	"github.com/coretiff/tiffcore/photometric"
	"github.com/coretiff/tiffcore/planarconfig"
	"github.com/coretiff/tiffcore/sampleformat"
)

// ExtraSampleKind classifies a sample beyond the base photometric channels.
// Only AssocAlpha triggers unpremultiply; Unspecified and UnassocAlpha are
// both treated as "not associated alpha" (see DESIGN.md Open Question #2).
type ExtraSampleKind int

const (
	ExtraUnspecified  ExtraSampleKind = 0
	ExtraAssocAlpha   ExtraSampleKind = 1
	ExtraUnassocAlpha ExtraSampleKind = 2
)

// ResolutionUnit mirrors the TIFF ResolutionUnit tag (296).
type ResolutionUnit int

const (
	ResolutionNone    ResolutionUnit = 1
	ResolutionInch    ResolutionUnit = 2
	ResolutionCM      ResolutionUnit = 3
)

// Header is the fully populated per-directory description produced by the
// Header Reader (spec §3 "Directory Header").
type Header struct {
	ByteOrder binary.ByteOrder

	Width, Height int

	SamplesPerPixel int
	BitsPerSample   []int // one entry per sample, but baseline TIFF keeps them identical
	Photometric     photometric.Interpretation
	InkSet          inkset.Type
	SampleFormat    sampleformat.Type
	PlanarSeparate  bool
	Orientation     int
	OrientationRaw  int
	Compression     compression.Type

	Tiled bool

	// Tiled geometry.
	TileWidth, TileHeight int
	TileSize, TileRowSize int

	// Stripped geometry.
	RowsPerStrip     int
	StripSize        int
	ScanlineSize     int
	NumberOfStrips   int
	ReadScanlinewise bool
	ReadHeight       int
	ReadSize         int

	AlphaBand      int // -1 = none
	ExtraSampleKind []ExtraSampleKind

	SubifdCount int

	Stonits float64 // LOGLUV calibration, default 1.0

	WeDecompress bool
	ReadAsRGBA   bool

	ImageDescription string

	ResolutionX, ResolutionY float64
	ResolutionUnit           ResolutionUnit

	ICCProfile []byte
	XMPPacket  []byte
	IPTCBlock  []byte
	Photoshop  []byte

	ChromaSubsampleH, ChromaSubsampleV int

	// ColorMap holds the raw PALETTE colormap tag values (three
	// 1<<bits_per_sample-length arrays of R, G, B concatenated), read
	// eagerly at header-parse time the way ICCProfile/XMPPacket are.
	ColorMap []uint64
}

// HasAlpha reports whether any band carries alpha (any ExtraSample kind),
// as opposed to specifically associated alpha.
func (h *Header) HasAlpha() bool {
	return h.AlphaBand >= 0
}

// AssociatedAlpha reports whether AlphaBand (if any) is premultiplied.
func (h *Header) AssociatedAlpha() bool {
	if h.AlphaBand < 0 {
		return false
	}
	idx := h.AlphaBand - (h.SamplesPerPixel - len(h.ExtraSampleKind))
	if idx < 0 || idx >= len(h.ExtraSampleKind) {
		return false
	}
	return h.ExtraSampleKind[idx] == ExtraAssocAlpha
}

// BitsPerSample0 returns the first sample's bit depth, the common case of
// every kernel except the rare mixed-depth image this decoder rejects.
func (h *Header) BitsPerSample0() int {
	if len(h.BitsPerSample) == 0 {
		return 0
	}
	return h.BitsPerSample[0]
}

// ResolutionPixelsPerMM converts XResolution/YResolution to pixels per
// millimetre per spec §6: inch -> /25.4, cm -> /10, none -> 1.0.
func (h *Header) ResolutionPixelsPerMM() (x, y float64, err error) {
	var factor float64
	switch h.ResolutionUnit {
	case ResolutionInch:
		factor = 1.0 / 25.4
	case ResolutionCM:
		factor = 1.0 / 10.0
	case ResolutionNone:
		return 1.0, 1.0, nil
	default:
		return 0, 0, &unknownResolutionUnit{h.ResolutionUnit}
	}
	return h.ResolutionX * factor, h.ResolutionY * factor, nil
}

type unknownResolutionUnit struct{ unit ResolutionUnit }

func (e *unknownResolutionUnit) Error() string {
	return "directory: unknown resolution unit"
}

// Equal implements the multi-page comparison of spec §4.6: width, height,
// samples_per_pixel, bits_per_sample, photometric_interpretation,
// sample_format, compression, planar_separate, tiled, orientation must all
// match; tiled pages additionally compare tile dimensions, stripped pages
// compare read geometry. It returns ("", true) on match or a human-readable
// mismatch reason.
func (h *Header) Equal(o *Header) (reason string, ok bool) {
	switch {
	case h.Width != o.Width:
		return "width differs", false
	case h.Height != o.Height:
		return "height differs", false
	case h.SamplesPerPixel != o.SamplesPerPixel:
		return "samples_per_pixel differs", false
	case h.BitsPerSample0() != o.BitsPerSample0():
		return "bits_per_sample differs", false
	case h.Photometric != o.Photometric:
		return "photometric_interpretation differs", false
	case h.SampleFormat != o.SampleFormat:
		return "sample_format differs", false
	case h.Compression != o.Compression:
		return "compression differs", false
	case h.PlanarSeparate != o.PlanarSeparate:
		return "planar_separate differs", false
	case h.Tiled != o.Tiled:
		return "tiled differs", false
	case h.Orientation != o.Orientation:
		return "orientation differs", false
	}
	if h.Tiled {
		if h.TileWidth != o.TileWidth || h.TileHeight != o.TileHeight {
			return "tile dimensions differ", false
		}
		return "", true
	}
	if h.ReadHeight != o.ReadHeight || h.ReadSize != o.ReadSize || h.NumberOfStrips != o.NumberOfStrips {
		return "strip read geometry differs", false
	}
	return "", true
}

// PlanarConfig reports the tag-level planar configuration implied by
// PlanarSeparate, for components (e.g. the IFD parser) that want the raw
// enum rather than the derived boolean.
func (h *Header) PlanarConfig() planarconfig.Type {
	if h.PlanarSeparate {
		return planarconfig.Separate
	}
	return planarconfig.Contig
}
