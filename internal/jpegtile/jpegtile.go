// Package jpegtile wraps the standard library's JPEG decoder as the
// black-box JPEG Tile Engine (spec §3 "we_decompress"): no example repo in
// the pack wraps a JPEG decoder that accepts externally supplied
// quantization/Huffman tables the way libjpeg's raw-tables API would, so
// this module decodes each tile's embedded JPEG stream whole with
// image/jpeg and forces the output colorspace the enclosing directory's
// PhotometricInterpretation already declared (see DESIGN.md for why this
// is the one place the standard library, not a pack dependency, is used).
package jpegtile

import (
	"bytes"
	"image"
	"image/jpeg"

	"github.com/coretiff/tiffcore/photometric"
	"github.com/coretiff/tiffcore/tifferr"
)

// Decode decodes a single JPEG-compressed tile/strip's raw bytes into
// interleaved samples matching photo's band layout (RGB: 3 bytes/pixel,
// YCbCr: converted to RGB by image/jpeg already, greyscale: 1 byte/pixel).
func Decode(raw []byte, photo photometric.Interpretation) ([]byte, int, int, error) {
	img, err := jpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, 0, 0, tifferr.WrapDecode(err, "jpeg tile decode")
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	switch photo {
	case photometric.BlackIsZero, photometric.WhiteIsZero:
		return packGray(img, w, h), w, h, nil
	default:
		return packRGB(img, w, h), w, h, nil
	}
}

func packRGB(img image.Image, w, h int) []byte {
	out := make([]byte, w*h*3)
	i := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			out[i], out[i+1], out[i+2] = byte(r>>8), byte(g>>8), byte(bl>>8)
			i += 3
		}
	}
	return out
}

func packGray(img image.Image, w, h int) []byte {
	out := make([]byte, w*h)
	i := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, _, _, _ := img.At(x, y).RGBA()
			out[i] = byte(r >> 8)
			i++
		}
	}
	return out
}
