package kernel

import "github.com/coretiff/tiffcore/tifferr"

// PaletteLUT is the resolved RGB lookup table for a PALETTE image, built
// once per directory load from the raw ColorMap tag (spec §4.4). Grounded
// on the teacher's palette handling in impl/header.go, generalized with the
// 8-bit-vs-16-bit detection and mono collapse original_source performs in
// rtiff_set_header.
type PaletteLUT struct {
	RGB8 [][3]uint8
	Mono bool
}

// BuildPaletteLUT decodes the raw ColorMap tag (three 1<<bps-length arrays
// of R, G, B concatenated) into an 8-bit RGB LUT. The TIFF spec mandates
// 16-bit entries, but many writers emit 8-bit values in the low byte; this
// is detected by scanning every channel for a non-zero high byte and, if
// none is found, taking the low byte directly instead of scaling down.
func BuildPaletteLUT(raw []uint64, bitsPerSample int) (*PaletteLUT, error) {
	n := 1 << uint(bitsPerSample)
	if len(raw) != 3*n {
		return nil, &tifferr.BadColormap{}
	}

	eightBit := true
	for _, v := range raw {
		if v&0xFF00 != 0 {
			eightBit = false
			break
		}
	}

	lut := &PaletteLUT{RGB8: make([][3]uint8, n)}
	mono := true
	for i := 0; i < n; i++ {
		var r, g, b uint8
		if eightBit {
			r, g, b = uint8(raw[i]), uint8(raw[n+i]), uint8(raw[2*n+i])
		} else {
			r, g, b = uint8(raw[i]>>8), uint8(raw[n+i]>>8), uint8(raw[2*n+i]>>8)
		}
		lut.RGB8[i] = [3]uint8{r, g, b}
		if r != g || g != b {
			mono = false
		}
	}
	lut.Mono = mono
	return lut, nil
}

// Bands returns 1 for a mono LUT, 3 otherwise (spec P3).
func (l *PaletteLUT) Bands() int {
	if l.Mono {
		return 1
	}
	return 3
}
