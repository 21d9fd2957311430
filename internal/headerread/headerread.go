// Package headerread implements the Header Reader (spec §4.1): it pulls a
// directory.Container's tags for the currently selected directory, applies
// defaults, runs the sanity-check matrix, classifies tiled vs stripped
// layout, and derives the strip read mode. Grounded in the teacher's
// impl/header.go parseTiffHeader, generalized per original_source's
// rtiff_header_read/rtiff_set_page/rtiff_set_decode_format.
package headerread

import (
	"encoding/binary"
	"math"

	"github.com/coretiff/tiffcore/compression"
	"github.com/coretiff/tiffcore/directory"
	"github.com/coretiff/tiffcore/inkset"
	"github.com/coretiff/tiffcore/photometric"
	"github.com/coretiff/tiffcore/sampleformat"
	"github.com/coretiff/tiffcore/tifferr"
	"github.com/coretiff/tiffcore/tifftag"
)

// HasJPEGEngine reports whether this build can self-decompress JPEG tiles.
// This module always ships the JPEG Tile Engine, so it is a constant; it is
// consulted in one place, decideSelfDecompress, the way rtiff_set_page
// checks a compile-time engine flag, so the decision is easy to find and
// override in a build that strips the engine out.
const HasJPEGEngine = true

// Read builds a Header from the container's currently selected directory.
// unlimited mirrors the read() entry point's same-named option (spec §6):
// when true, the tile/strip block-size and tile-dimension sanity caps
// below are skipped for inputs the caller already trusts.
func Read(c directory.Container, unlimited bool) (*directory.Header, error) {
	h := &directory.Header{ByteOrder: byteOrderOf(c)}

	wf, ok := c.Field(tifftag.ImageWidth)
	if !ok {
		return nil, &tifferr.MissingField{Field: "ImageWidth"}
	}
	h.Width = wf.Int(0)
	hf, ok := c.Field(tifftag.ImageLength)
	if !ok {
		return nil, &tifferr.MissingField{Field: "ImageLength"}
	}
	h.Height = hf.Int(0)
	if h.Width <= 0 {
		return nil, &tifferr.OutOfRange{Field: "width", Value: int64(h.Width)}
	}
	if h.Height <= 0 {
		return nil, &tifferr.OutOfRange{Field: "height", Value: int64(h.Height)}
	}

	if sf, ok := c.Field(tifftag.SamplesPerPixel); ok {
		h.SamplesPerPixel = sf.Int(1)
	} else {
		h.SamplesPerPixel = 1
	}
	if h.SamplesPerPixel < 1 || h.SamplesPerPixel > 10000 {
		return nil, &tifferr.OutOfRange{Field: "samples_per_pixel", Value: int64(h.SamplesPerPixel)}
	}

	if bf, ok := c.Field(tifftag.BitsPerSample); ok {
		h.BitsPerSample = bf.Ints()
	} else {
		h.BitsPerSample = []int{1}
	}
	for _, bps := range h.BitsPerSample {
		switch bps {
		case 1, 2, 4, 8, 16, 32, 64, 128:
		default:
			return nil, &tifferr.OutOfRange{Field: "bits_per_sample", Value: int64(bps)}
		}
		if bps != h.BitsPerSample[0] {
			return nil, &tifferr.Unsupported{Reason: "mixed bits_per_sample across samples"}
		}
	}

	if pf, ok := c.Field(tifftag.PhotometricInterpretation); ok {
		h.Photometric = photometric.Interpretation(pf.Int(int(photometric.BlackIsZero)))
	} else {
		return nil, &tifferr.MissingField{Field: "PhotometricInterpretation"}
	}

	if isf, ok := c.Field(tifftag.InkSet); ok {
		h.InkSet = inkset.Type(isf.Int(int(inkset.CMYK)))
	} else {
		h.InkSet = inkset.Unknown
	}

	if sff, ok := c.Field(tifftag.SampleFormat); ok {
		h.SampleFormat = sampleformat.Type(sff.Int(int(sampleformat.UInt))).Normalize()
	} else {
		h.SampleFormat = sampleformat.UInt
	}

	if pc, ok := c.Field(tifftag.PlanarConfiguration); ok {
		h.PlanarSeparate = pc.Int(1) == 2
	}

	h.OrientationRaw = 1
	if of, ok := c.Field(tifftag.Orientation); ok {
		h.OrientationRaw = of.Int(1)
	}
	h.Orientation = h.OrientationRaw
	if h.Orientation < 1 || h.Orientation > 8 {
		h.Orientation = 1
	}

	if cf, ok := c.Field(tifftag.Compression); ok {
		h.Compression = compression.Type(cf.Int(int(compression.None)))
	} else {
		h.Compression = compression.None
	}

	if idf, ok := c.Field(tifftag.ImageDescription); ok {
		h.ImageDescription = string(idf.Bytes)
	}
	if icc, ok := c.Field(tifftag.ICCProfile); ok {
		h.ICCProfile = icc.Bytes
	}
	if xmp, ok := c.Field(tifftag.XMP); ok {
		h.XMPPacket = xmp.Bytes
	}
	if iptc, ok := c.Field(tifftag.IPTC); ok {
		h.IPTCBlock = iptc.Bytes
	}
	if ps, ok := c.Field(tifftag.Photoshop); ok {
		h.Photoshop = ps.Bytes
	}
	if cm, ok := c.Field(tifftag.ColorMap); ok {
		h.ColorMap = cm.Values
	}

	h.ResolutionUnit = directory.ResolutionInch
	if ru, ok := c.Field(tifftag.ResolutionUnit); ok {
		h.ResolutionUnit = directory.ResolutionUnit(ru.Int(int(directory.ResolutionInch)))
	}
	if xr, ok := c.Field(tifftag.XResolution); ok {
		h.ResolutionX = xr.Rational(0)
	}
	if yr, ok := c.Field(tifftag.YResolution); ok {
		h.ResolutionY = yr.Rational(0)
	}

	h.SubifdCount = 0
	if sub, ok := c.Field(tifftag.SubIFDs); ok {
		h.SubifdCount = len(sub.Values)
	}

	h.Stonits = 1.0
	isLogLuv := h.Photometric == photometric.LogL || h.Photometric == photometric.LogLuv
	if st, ok := c.Field(tifftag.Stonits); ok && isLogLuv {
		v := math.Float64frombits(st.Values[0])
		if v != 0 {
			h.Stonits = v
		}
	}

	h.AlphaBand = -1
	if es, ok := c.Field(tifftag.ExtraSamples); ok {
		h.ExtraSampleKind = make([]directory.ExtraSampleKind, len(es.Values))
		for i, v := range es.Values {
			kind := directory.ExtraSampleKind(v)
			h.ExtraSampleKind[i] = kind
			if kind == directory.ExtraAssocAlpha && h.AlphaBand < 0 {
				h.AlphaBand = h.SamplesPerPixel - len(es.Values) + i
			} else if kind == directory.ExtraAssocAlpha {
				// Ambiguous second associated-alpha band: the first stays
				// AlphaBand. No warning is emitted for it.
			}
		}
	}

	h.ChromaSubsampleH, h.ChromaSubsampleV = 1, 1
	if ss, ok := c.Field(tifftag.YCbCrSubSampling); ok && len(ss.Values) >= 2 {
		h.ChromaSubsampleH = int(ss.Values[0])
		h.ChromaSubsampleV = int(ss.Values[1])
	}

	h.Tiled = c.IsTiled()
	if h.Tiled {
		if err := readTiledGeometry(c, h, unlimited); err != nil {
			return nil, err
		}
	} else {
		if err := readStrippedGeometry(c, h, unlimited); err != nil {
			return nil, err
		}
	}

	h.ReadAsRGBA = decideRGBAFallback(h)
	h.WeDecompress = decideSelfDecompress(h)

	if h.Photometric == photometric.Paletted && len(h.ColorMap) == 0 {
		return nil, &tifferr.BadColormap{}
	}

	if min := minSamplesFor(h.Photometric); h.SamplesPerPixel < min {
		return nil, &tifferr.OutOfRange{Field: "samples_per_pixel", Value: int64(h.SamplesPerPixel)}
	}

	if h.Photometric == photometric.LogL || h.Photometric == photometric.LogLuv {
		if !h.Compression.IsLogLuvFamily() {
			return nil, &tifferr.Unsupported{Reason: "LOGLUV/LogL requires SGILogRLE or SGILog24Packed compression"}
		}
	}

	if h.ChromaSubsampleH != 1 || h.ChromaSubsampleV != 1 {
		if h.Compression != compression.JPEG {
			if !canFallbackToRGBA(h) {
				return nil, &tifferr.Unsupported{Reason: "chroma-subsampled YCbCr without JPEG compression"}
			}
			h.ReadAsRGBA = true
		}
	}

	if h.ReadAsRGBA {
		applyRGBARewrite(h)
	}

	return h, nil
}

func byteOrderOf(c directory.Container) binary.ByteOrder {
	if b, ok := c.(interface{ ByteOrder() binary.ByteOrder }); ok {
		return b.ByteOrder()
	}
	return nil
}

func readTiledGeometry(c directory.Container, h *directory.Header, unlimited bool) error {
	tw, ok := c.Field(tifftag.TileWidth)
	if !ok {
		return &tifferr.MissingField{Field: "TileWidth"}
	}
	th, ok := c.Field(tifftag.TileLength)
	if !ok {
		return &tifferr.MissingField{Field: "TileLength"}
	}
	h.TileWidth = tw.Int(0)
	h.TileHeight = th.Int(0)

	if h.TileWidth%16 != 0 || h.TileHeight%16 != 0 {
		return &tifferr.OutOfRange{Field: "tile_width/tile_height", Value: int64(h.TileWidth)}
	}
	if !unlimited {
		maxTile := maxInt(8192, roundUp256(2*maxInt(h.Width, h.Height)))
		if h.TileWidth > maxTile || h.TileHeight > maxTile {
			return &tifferr.OutOfRange{Field: "tile_width/tile_height", Value: int64(h.TileWidth)}
		}
	}

	if h.PlanarSeparate {
		return &tifferr.Unsupported{Reason: "tiled planar-separate"}
	}

	h.TileRowSize = c.TileRowSize()
	h.TileSize = c.TileSize()
	if !unlimited {
		const maxBlock = 100 * 1024 * 1024
		if h.TileSize > maxBlock || h.TileRowSize > maxBlock {
			return &tifferr.OutOfRange{Field: "tile_size", Value: int64(h.TileSize)}
		}
	}
	return nil
}

func readStrippedGeometry(c directory.Container, h *directory.Header, unlimited bool) error {
	rps := h.Height
	if rf, ok := c.Field(tifftag.RowsPerStrip); ok {
		rps = rf.Int(h.Height)
	}
	if rps < 1 {
		rps = 1
	}
	if rps > h.Height {
		rps = h.Height
	}
	h.RowsPerStrip = rps

	h.ScanlineSize = c.ScanlineSize()
	h.StripSize = c.StripSize()
	h.NumberOfStrips = c.NumberOfStrips()

	if !unlimited {
		const maxBlock = 100 * 1024 * 1024
		if h.StripSize > maxBlock {
			return &tifferr.OutOfRange{Field: "strip_size", Value: int64(h.StripSize)}
		}
	}

	h.ReadScanlinewise = h.RowsPerStrip > 128 &&
		!h.PlanarSeparate &&
		h.Photometric != photometric.YCbCr &&
		!h.ReadAsRGBA

	if h.PlanarSeparate {
		h.ReadScanlinewise = false
	}

	if h.ReadScanlinewise {
		h.ReadHeight = 1
		h.ReadSize = h.ScanlineSize
	} else {
		h.ReadHeight = h.RowsPerStrip
		h.ReadSize = h.StripSize
	}
	return nil
}

func decideRGBAFallback(h *directory.Header) bool {
	if h.Compression == compression.JPEGOld {
		return true
	}
	return false
}

func canFallbackToRGBA(h *directory.Header) bool {
	return h.SamplesPerPixel >= 1 && h.BitsPerSample0() == 8
}

func decideSelfDecompress(h *directory.Header) bool {
	switch h.Compression {
	case compression.JPEG:
		return HasJPEGEngine
	case compression.JP2KYCC, compression.JP2KRGB, compression.JP2KLossy:
		return true
	default:
		return false
	}
}

// applyRGBARewrite rewrites the header so downstream observers see an RGBA
// image, per spec §3: "read_as_rgba ⇒ the header is rewritten... RGB
// photometric, 4 samples, 8 bits, UINT, planar-contig."
func applyRGBARewrite(h *directory.Header) {
	h.Photometric = photometric.RGB
	h.SamplesPerPixel = 4
	h.BitsPerSample = []int{8, 8, 8, 8}
	h.SampleFormat = sampleformat.UInt
	h.PlanarSeparate = false
}

// minSamplesFor returns the lowest samples_per_pixel a photometric
// interpretation can be decoded with, so a short directory fails here with
// OutOfRange instead of driving a kernel past the end of a pixel's samples.
func minSamplesFor(p photometric.Interpretation) int {
	switch p {
	case photometric.RGB, photometric.CIELab, photometric.YCbCr:
		return 3
	case photometric.Paletted:
		return 1
	default:
		return 1
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func roundUp256(v int) int {
	return ((v + 255) / 256) * 256
}
