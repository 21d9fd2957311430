// Package compression defines constants for TIFF compression methods
// as used in TIFF tag 259 (Compression). These values map directly to
// standard TIFF specification compression types plus the SGI LogLuv and
// JPEG-2000 supplements this decoder self-decompresses.
//
// This package is used to interpret the Compression tag in TIFF image headers.
// It supports both modern and legacy methods like Deflate, PackBits, and Fax encodings.
package compression

import "fmt"

// Type represents a TIFF compression method as defined by the TIFF spec.
type Type int

const (
	// Unknown represents an undefined or unsupported compression type.
	Unknown Type = -1

	// None means no compression.
	None Type = 1

	// CCITT is CCITT 1D Group 3 compression.
	CCITT Type = 2

	// G3 is Group 3 Fax compression (2D encoding).
	G3 Type = 3

	// G4 is Group 4 Fax compression.
	G4 Type = 4

	// LZW is Lempel-Ziv-Welch compression.
	LZW Type = 5

	// JPEGOld is the original JPEG compression (deprecated, decoded via the RGBA fallback).
	JPEGOld Type = 6

	// JPEG is modern JPEG compression.
	JPEG Type = 7

	// Deflate is zlib-style Deflate compression (RFC 1951).
	Deflate Type = 8

	// PackBits is a simple byte-oriented run-length encoding.
	PackBits Type = 32773

	// DeflateOld is an older value used for Deflate, superseded by Deflate.
	DeflateOld Type = 32946

	// SGILogRLE is the SGI LogLuv run-length encoding used for LOGLUV images.
	SGILogRLE Type = 34676

	// SGILog24Packed is the packed 24-bit SGI LogLuv encoding.
	SGILog24Packed Type = 34677

	// JP2KYCC is JPEG-2000 compression with a YCbCr-coded codestream.
	JP2KYCC Type = 33003

	// JP2KRGB is JPEG-2000 compression with an RGB-coded codestream.
	JP2KRGB Type = 33005

	// JP2KLossy is lossy JPEG-2000 compression (single or multi-band, no colorspace transform).
	JP2KLossy Type = 34892
)

// String returns a readable name for the compression type.
func (c Type) String() string {
	switch c {
	case Unknown:
		return "Unknown"
	case None:
		return "None"
	case CCITT:
		return "CCITT"
	case G3:
		return "G3Fax"
	case G4:
		return "G4Fax"
	case LZW:
		return "LZW"
	case JPEGOld:
		return "JPEGOld"
	case JPEG:
		return "JPEG"
	case Deflate:
		return "Deflate"
	case PackBits:
		return "PackBits"
	case DeflateOld:
		return "DeflateOld"
	case SGILogRLE:
		return "SGILogRLE"
	case SGILog24Packed:
		return "SGILog24Packed"
	case JP2KYCC:
		return "JP2K_YCC"
	case JP2KRGB:
		return "JP2K_RGB"
	case JP2KLossy:
		return "JP2K_Lossy"
	default:
		return fmt.Sprintf("CompressionType(%d)", int(c))
	}
}

// SelfDecompresses reports whether this module decompresses the pixel data
// itself (as opposed to delegating to a container-library path) for the
// given compression, assuming a JPEG engine is present.
func (c Type) SelfDecompresses() bool {
	switch c {
	case JPEG, JP2KYCC, JP2KRGB, JP2KLossy:
		return true
	default:
		return false
	}
}

// IsLogLuvFamily reports whether c is one of the two SGI LogLuv encodings.
func (c Type) IsLogLuvFamily() bool {
	return c == SGILogRLE || c == SGILog24Packed
}
