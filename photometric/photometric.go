// Package photometric defines TIFF PhotometricInterpretation tag values.
// These specify how pixel values are to be interpreted and displayed.
//
// This corresponds to TIFF tag 262.
// Reference: https://www.awaresystems.be/imaging/tiff/tifftags/photometricinterpretation.html
package photometric

import "fmt"

// Interpretation represents a TIFF PhotometricInterpretation value.
// It defines the color space and pixel layout of the image.
type Interpretation int

const (
	// Unknown indicates an undefined or unrecognized photometric interpretation.
	Unknown Interpretation = -1

	// WhiteIsZero (0), aka MINISWHITE: 0 is interpreted as white, max value as black.
	WhiteIsZero Interpretation = 0

	// BlackIsZero (1), aka MINISBLACK: 0 is black, max value is white.
	BlackIsZero Interpretation = 1

	// RGB (2) means image pixels are stored as RGB triplets.
	RGB Interpretation = 2

	// Paletted (3) means pixel values are indexes into a color lookup table.
	Paletted Interpretation = 3

	// TransMask (4) is a transparency mask, black pixels are transparent.
	TransMask Interpretation = 4

	// Separated (5) is a generic ink-separated image; InkSet distinguishes CMYK.
	Separated Interpretation = 5

	// YCbCr (6) means image uses YCbCr color encoding (common in JPEGs).
	YCbCr Interpretation = 6

	// CIELab (8) means image uses the CIE L*a*b* color space.
	CIELab Interpretation = 8

	// LogL (32844) is the CIE Log2(L) grayscale HDR encoding.
	LogL Interpretation = 32844

	// LogLuv (32845) is the CIE Log2(L)(u',v') HDR encoding.
	LogLuv Interpretation = 32845
)

// String returns the symbolic name of the photometric interpretation.
func (p Interpretation) String() string {
	switch p {
	case WhiteIsZero:
		return "MinIsWhite"
	case BlackIsZero:
		return "MinIsBlack"
	case RGB:
		return "RGB"
	case Paletted:
		return "Palette"
	case TransMask:
		return "TransMask"
	case Separated:
		return "Separated"
	case YCbCr:
		return "YCbCr"
	case CIELab:
		return "CIELab"
	case LogL:
		return "LogL"
	case LogLuv:
		return "LogLuv"
	case Unknown:
		return "Unknown"
	default:
		return fmt.Sprintf("Interpretation(%d)", int(p))
	}
}

// IsMinIs reports whether p is one of the two grayscale polarities
// (MINISWHITE / MINISBLACK) addressed by the bit-expand and greyscale kernels.
func (p Interpretation) IsMinIs() bool {
	return p == WhiteIsZero || p == BlackIsZero
}
