// Package jp2ktile wraps github.com/mrjoshuak/go-jpeg2000 as the black-box
// JPEG-2000 Tile Engine (spec §3 "we_decompress") for the JP2K_YCC,
// JP2K_RGB, and JP2K_LOSSY compression variants. Grounded in the teacher's
// compression dispatch shape (impl/header.go's compression switch), the
// JPEG-2000 codestream decode itself is entirely delegated to the library.
package jp2ktile

import (
	"bytes"
	"image"
	"image/color"

	jpeg2000 "github.com/mrjoshuak/go-jpeg2000"

	"github.com/coretiff/tiffcore/tifferr"
)

// Decode decodes a single JPEG-2000 codestream tile/strip into interleaved
// 8-bit samples, band count inferred from the decoded image's color model
// (JP2K_LOSSY codestreams may carry a single luma component; JP2K_YCC and
// JP2K_RGB are always 3-band).
func Decode(raw []byte) ([]byte, int, int, int, error) {
	img, err := jpeg2000.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, 0, 0, 0, tifferr.WrapDecode(err, "jpeg2000 tile decode")
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	bands := bandsOf(img)

	out := make([]byte, w*h*bands)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if bands == 1 {
				out[i] = byte(r >> 8)
				i++
				continue
			}
			out[i], out[i+1], out[i+2] = byte(r>>8), byte(g>>8), byte(bl>>8)
			i += 3
		}
	}
	return out, w, h, bands, nil
}

func bandsOf(img image.Image) int {
	switch img.ColorModel() {
	case color.GrayModel, color.Gray16Model:
		return 1
	default:
		return 3
	}
}
