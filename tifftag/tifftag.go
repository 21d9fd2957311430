// Package tifftag defines known TIFF tag identifiers used in image metadata.
// These tag constants correspond to the TIFF 6.0 specification and supplements,
// including common fields such as ImageWidth, Compression, and TileOffsets.
//
// For reference, see:
// https://www.loc.gov/preservation/digital/formats/content/tiff_tags.shtml
package tifftag

import "fmt"

// Tag represents a TIFF field tag number.
// These are used to identify metadata entries in TIFF image headers.
type Tag uint16

const (
	// NewSubFileType distinguishes a primary image from a thumbnail/mask.
	NewSubFileType Tag = 254

	// ImageWidth specifies the number of columns (pixels) in the image.
	ImageWidth Tag = 256

	// ImageLength specifies the number of rows (pixels) in the image.
	ImageLength Tag = 257

	// BitsPerSample defines the number of bits per image component.
	BitsPerSample Tag = 258

	// Compression defines the compression scheme used on the image data.
	Compression Tag = 259

	// PhotometricInterpretation defines how pixel values should be interpreted.
	PhotometricInterpretation Tag = 262

	// ImageDescription is a short free-text description of the image.
	ImageDescription Tag = 270

	// StripOffsets contains the offsets to image data strips.
	StripOffsets Tag = 273

	// Orientation describes the row/column orientation of the stored image.
	Orientation Tag = 274

	// SamplesPerPixel defines the number of components per pixel.
	SamplesPerPixel Tag = 277

	// RowsPerStrip specifies how many rows are in each strip.
	RowsPerStrip Tag = 278

	// StripByteCounts contains the byte size of each strip.
	StripByteCounts Tag = 279

	// XResolution is the number of pixels per ResolutionUnit in the width direction.
	XResolution Tag = 282

	// YResolution is the number of pixels per ResolutionUnit in the height direction.
	YResolution Tag = 283

	// PlanarConfiguration specifies whether components are stored together or separately.
	PlanarConfiguration Tag = 284

	// ResolutionUnit specifies the unit for XResolution/YResolution.
	ResolutionUnit Tag = 296

	// Predictor describes the mathematical predictor applied before compression.
	Predictor Tag = 317

	// ColorMap is the RGB lookup table for PALETTE images.
	ColorMap Tag = 320

	// TileWidth defines the width of a tile in pixels.
	TileWidth Tag = 322

	// TileLength defines the height of a tile in pixels.
	TileLength Tag = 323

	// TileOffsets contains the offsets to each tile.
	TileOffsets Tag = 324

	// TileByteCounts contains the byte size of each tile.
	TileByteCounts Tag = 325

	// SubIFDs holds offsets of child IFDs under this directory.
	SubIFDs Tag = 330

	// InkSet distinguishes CMYK from other SEPARATED ink sets.
	InkSet Tag = 332

	// ExtraSamples classifies samples beyond the base photometric channels.
	ExtraSamples Tag = 338

	// SampleFormat specifies how sample values should be interpreted (uint/int/float).
	SampleFormat Tag = 339

	// YCbCrSubSampling holds the horizontal/vertical chroma subsampling factors.
	YCbCrSubSampling Tag = 530

	// IPTC is an embedded IPTC metadata block (the canonical tag).
	IPTC Tag = 33723

	// Photoshop is an embedded Photoshop image-resource block.
	Photoshop Tag = 34377

	// ICCProfile is an embedded ICC color profile blob.
	ICCProfile Tag = 34675

	// Stonits is the LOGLUV calibration factor (radiance per unit pixel value).
	Stonits Tag = 37439

	// XMP is an embedded XMP metadata packet.
	XMP Tag = 700

	// IPTCNAA is the historical misspelled alias some writers used for IPTC.
	IPTCNAA Tag = 33723
)

// String returns a human-readable name for the TIFF tag.
// If the tag is unknown, it returns a formatted numeric identifier.
func (t Tag) String() string {
	switch t {
	case NewSubFileType:
		return "NewSubFileType"
	case ImageWidth:
		return "ImageWidth"
	case ImageLength:
		return "ImageLength"
	case BitsPerSample:
		return "BitsPerSample"
	case Compression:
		return "Compression"
	case PhotometricInterpretation:
		return "PhotometricInterpretation"
	case ImageDescription:
		return "ImageDescription"
	case StripOffsets:
		return "StripOffsets"
	case Orientation:
		return "Orientation"
	case SamplesPerPixel:
		return "SamplesPerPixel"
	case RowsPerStrip:
		return "RowsPerStrip"
	case StripByteCounts:
		return "StripByteCounts"
	case XResolution:
		return "XResolution"
	case YResolution:
		return "YResolution"
	case PlanarConfiguration:
		return "PlanarConfiguration"
	case ResolutionUnit:
		return "ResolutionUnit"
	case Predictor:
		return "Predictor"
	case ColorMap:
		return "ColorMap"
	case TileWidth:
		return "TileWidth"
	case TileLength:
		return "TileLength"
	case TileOffsets:
		return "TileOffsets"
	case TileByteCounts:
		return "TileByteCounts"
	case SubIFDs:
		return "SubIFDs"
	case InkSet:
		return "InkSet"
	case ExtraSamples:
		return "ExtraSamples"
	case SampleFormat:
		return "SampleFormat"
	case YCbCrSubSampling:
		return "YCbCrSubSampling"
	case IPTC:
		return "IPTC"
	case Photoshop:
		return "Photoshop"
	case ICCProfile:
		return "ICCProfile"
	case Stonits:
		return "Stonits"
	case XMP:
		return "XMP"
	default:
		return fmt.Sprintf("Tag(%d)", uint16(t))
	}
}
