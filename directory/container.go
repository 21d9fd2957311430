package directory

import "github.com/coretiff/tiffcore/tifftag"

// Field is a single decoded IFD tag value. TIFF tags may carry short, long,
// rational, or ASCII payloads; Field keeps the raw uint64 words (rationals
// packed as denominator<<32|numerator) plus the optional ASCII/byte-blob
// form.
type Field struct {
	Values []uint64
	Bytes  []byte // set for ASCII/UNDEFINED fields (ICC/XMP/IPTC/Photoshop/description)
}

// Int returns the first value truncated to int, or def if the field is empty.
func (f Field) Int(def int) int {
	if len(f.Values) == 0 {
		return def
	}
	return int(f.Values[0])
}

// Ints returns every value truncated to int.
func (f Field) Ints() []int {
	out := make([]int, len(f.Values))
	for i, v := range f.Values {
		out[i] = int(v)
	}
	return out
}

// Rational decodes the index'th value as a packed rational (see Field docs)
// and returns numerator/denominator as a float64.
func (f Field) Rational(index int) float64 {
	if index >= len(f.Values) {
		return 0
	}
	packed := f.Values[index]
	num := int32(packed & 0xFFFFFFFF)
	den := int32(packed >> 32)
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// Container is the contract this decoder expects from the upstream TIFF
// container parser (spec §6) — out of scope to implement fully, but
// described here as the seam the Header/Tile/Strip Readers program
// against. internal/container ships a minimal IFD walker implementing it.
type Container interface {
	// SetDirectory switches the active page (0-based). Re-entrant: calling
	// it with the already-active page is a cheap no-op.
	SetDirectory(page int) error

	// SetSubDirectory switches into a child IFD addressed by byte offset,
	// as found in the SubIFDs tag of the current directory.
	SetSubDirectory(offset uint64) error

	// Field looks up a tag on the current directory. ok is false if absent.
	Field(tag tifftag.Tag) (Field, bool)

	// NumPages reports how many top-level directories the source holds.
	NumPages() int

	IsTiled() bool
	TileSize() int
	TileRowSize() int
	StripSize() int
	ScanlineSize() int
	NumberOfStrips() int
	ComputeTile(x, y int) int

	// ReadEncodedStrip decodes strip fully (container-driven decompression).
	ReadEncodedStrip(strip int, buf []byte) (int, error)

	// ReadRawStrip reads strip's raw (possibly compressed) bytes, used by
	// the self-decompress paths (JPEG/JPEG-2000) so the bytes can be handed
	// to the decoder outside the container lock.
	ReadRawStrip(strip int, buf []byte) (int, error)

	// ReadScanline decodes exactly one row into buf (used when
	// read_scanlinewise is set).
	ReadScanline(buf []byte, row int) error

	// ReadRawTile reads tile's raw (possibly compressed) bytes, used by the
	// self-decompress paths (JPEG/JPEG-2000) so the bytes can be handed to
	// the decoder outside the container lock.
	ReadRawTile(tile int, buf []byte) (int, error)

	// ReadTile decodes tile (x,y) fully (container-driven decompression).
	ReadTile(buf []byte, x, y int) (int, error)

	RGBAImageOK() bool
	// ReadRGBATile decodes the tile at (x,y) through the RGBA fallback
	// path; rows arrive bottom-to-top per spec §4.4 and must be flipped.
	ReadRGBATile(x, y int, buf []byte) error
	// ReadRGBAStrip decodes one strip through the RGBA fallback path.
	ReadRGBAStrip(strip int, buf []byte) error

	Close() error
}
