// Package kernel implements the unpacking kernels of spec §4.3: the
// per-scanline transforms that turn raw (post-decompression) bytes into the
// canonical output pixel layout the Pipeline Selector described. Grounded in
// the teacher's per-format decode switch in impl/header.go and impl/tiled.go,
// with the LAB/LogLuv math generalized from mdouchement-tiff's
// decode_logl.go/decode_logluv.go and hdrtool's LAB handling.
package kernel

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mdouchement/hdr/format"
	"github.com/x448/float16"

	"github.com/coretiff/tiffcore/tifferr"
)

// D65 illuminant coefficients applied to the raw LogLuv→XYZ decode, per
// spec §4.3 "multiply each of the first three floats by D65 illuminant
// coefficients (0.9504, 1.0, 1.0888)".
var d65 = [3]float64{0.9504, 1.0, 1.0888}

// LABPack emits 4 bytes per pixel (L, a, b, 0) from 8-bit CIELab samples,
// dropping any extra samples. The a/b bytes pass through unchanged (their
// signed encoding is the TIFF wire format already).
func LABPack(dst, src []byte, nPixels, samplesPerPixel int) {
	for i := 0; i < nPixels; i++ {
		s := src[i*samplesPerPixel:]
		d := dst[i*4:]
		d[0], d[1], d[2], d[3] = s[0], s[1], s[2], 0
	}
}

// LABAlpha converts 8-bit CIELab (+ extra samples) to 16-bit LABS: L' =
// round(p*32767/255); a'/b' = p<<8 treated as signed int16; any further
// extra band is byte-doubled (p<<8)|p. bands is samples_per_pixel.
func LABAlpha(dst, src []byte, nPixels, bands int) {
	for i := 0; i < nPixels; i++ {
		s := src[i*bands:]
		d := dst[i*bands*2:]

		l16 := int16(math.Round(float64(s[0]) * 32767.0 / 255.0))
		putI16(d[0:2], l16)

		for b := 1; b < bands && b < 3; b++ {
			v := int16(int8(s[b])) << 8
			putI16(d[b*2:b*2+2], v)
		}
		for b := 3; b < bands; b++ {
			v := (uint16(s[b]) << 8) | uint16(s[b])
			putU16(d[b*2:b*2+2], v)
		}
	}
}

// LAB16 converts 16-bit CIELab: L' = p>>1 treated as signed; other bands
// pass through as signed 16-bit values already on the wire.
func LAB16(dst, src []byte, nPixels, bands int) {
	for i := 0; i < nPixels; i++ {
		s := src[i*bands*2:]
		d := dst[i*bands*2:]

		l := getU16(s[0:2])
		putI16(d[0:2], int16(l>>1))
		for b := 1; b < bands; b++ {
			copy(d[b*2:b*2+2], s[b*2:b*2+2])
		}
	}
}

// LogLuv decodes SGI LogLuv-encoded pixels (4 raw bytes each) to XYZ
// float32 triplets, applying the D65 remap. Extra bands beyond the first
// three are normalized byte values passed through as float32. Decode math
// delegates to mdouchement/hdr/format.LogLuvToXYZ, the same call
// mdouchement-tiff's decode_logluv.go makes.
func LogLuv(dst, src []byte, nPixels, bands int, stonits float64) {
	const rawBytes = 4
	for i := 0; i < nPixels; i++ {
		s := src[i*rawBytes:]
		x, y, z := format.LogLuvToXYZ(s[0], s[1], s[2], s[3])
		x *= d65[0] * stonits
		y *= d65[1] * stonits
		z *= d65[2] * stonits

		d := dst[i*bands*4:]
		putF32(d[0:4], float32(x))
		putF32(d[4:8], float32(y))
		putF32(d[8:12], float32(z))

		for b := 3; b < bands; b++ {
			putF32(d[b*4:b*4+4], float32(s[b])/255.0)
		}
	}
}

// BitExpand unpacks 1/2/4-bit MSB-first samples into one 8-bit byte per
// sample, replicating bits to fill the byte (1-bit: 0/255; 2-bit:
// multiples of 85; 4-bit: multiples of 17). When minIsWhite is set the
// source is inverted before expansion (spec P2).
func BitExpand(dst, src []byte, nPixels, bitsPerSample int, minIsWhite bool) error {
	switch bitsPerSample {
	case 1, 2, 4:
	default:
		return &tifferr.Unsupported{Reason: "bit-expand kernel requires bits_per_sample in {1,2,4}"}
	}
	perByte := 8 / bitsPerSample
	mask := byte(1<<uint(bitsPerSample)) - 1
	multiplier := 255 / mask

	for i := 0; i < nPixels; i++ {
		byteIdx := i / perByte
		within := i % perByte
		b := src[byteIdx]
		if minIsWhite {
			b ^= 0xFF
		}
		shift := uint(8 - bitsPerSample*(within+1))
		val := (b >> shift) & mask
		dst[i] = val * multiplier
	}
	return nil
}

// MaxU8, MaxU16, MaxU32 are the inversion ceilings Greyscale uses for
// MINISWHITE polarity flips.
const (
	MaxU8  = 0xFF
	MaxU16 = 0xFFFF
	MaxU32 = 0xFFFFFFFF
)

// ElementSize is the kind of element Greyscale inverts, matching
// pipeline.ElementFormat's unsigned-integer members.
type ElementSize int

const (
	ElementU8 ElementSize = iota
	ElementU16
	ElementU32
	ElementOther // signed, float, or complex: never inverted
)

// Greyscale copies bands unchanged except, when elem is an unsigned
// integer format and minIsWhite is set, the first band is inverted by
// MAX-p. 16-bit IEEE float input must already have been half-expanded to
// F32 by HalfFloatExpand before this runs.
func Greyscale(dst, src []byte, nPixels, bands int, elem ElementSize, elemBytes int, minIsWhite bool) {
	stride := bands * elemBytes
	copy(dst[:nPixels*stride], src[:nPixels*stride])
	if !minIsWhite {
		return
	}
	for i := 0; i < nPixels; i++ {
		base := i * stride
		switch elem {
		case ElementU8:
			dst[base] = MaxU8 - dst[base]
		case ElementU16:
			v := getU16(dst[base : base+2])
			putU16(dst[base:base+2], MaxU16-v)
		case ElementU32:
			v := getU32(dst[base : base+4])
			putU32(dst[base:base+4], MaxU32-v)
		}
	}
}

// Palette maps indices (packed bits, 8-bit, or 16-bit depending on
// bitsPerSample) through lut, emitting lut.Bands() bytes per pixel. Extra
// samples beyond the index pass through unchanged immediately after the RGB
// (or mono) bytes.
func Palette(dst, src []byte, nPixels, bitsPerSample, extraSampleBytes int, lut *PaletteLUT) error {
	outBands := lut.Bands()
	writePixel := func(idx int, d []byte) {
		rgb := lut.RGB8[idx]
		if lut.Mono {
			d[0] = rgb[0]
		} else {
			d[0], d[1], d[2] = rgb[0], rgb[1], rgb[2]
		}
	}

	switch {
	case bitsPerSample < 8:
		perByte := 8 / bitsPerSample
		mask := byte(1<<uint(bitsPerSample)) - 1
		for i := 0; i < nPixels; i++ {
			byteIdx := i / perByte
			within := i % perByte
			shift := uint(8 - bitsPerSample*(within+1))
			idx := int((src[byteIdx] >> shift) & mask)
			if idx >= len(lut.RGB8) {
				return &tifferr.OutOfRange{Field: "palette index", Value: int64(idx)}
			}
			writePixel(idx, dst[i*outBands:])
		}
	case bitsPerSample == 8:
		for i := 0; i < nPixels; i++ {
			idx := int(src[i*(1+extraSampleBytes)])
			if idx >= len(lut.RGB8) {
				return &tifferr.OutOfRange{Field: "palette index", Value: int64(idx)}
			}
			d := dst[i*(outBands+extraSampleBytes):]
			writePixel(idx, d)
			copy(d[outBands:outBands+extraSampleBytes], src[i*(1+extraSampleBytes)+1:i*(1+extraSampleBytes)+1+extraSampleBytes])
		}
	case bitsPerSample == 16:
		stride := 2 + extraSampleBytes
		for i := 0; i < nPixels; i++ {
			idx := int(getU16(src[i*stride : i*stride+2]))
			if idx >= len(lut.RGB8) {
				return &tifferr.OutOfRange{Field: "palette index", Value: int64(idx)}
			}
			d := dst[i*(outBands+extraSampleBytes):]
			writePixel(idx, d)
			copy(d[outBands:outBands+extraSampleBytes], src[i*stride+2:i*stride+2+extraSampleBytes])
		}
	default:
		return &tifferr.Unsupported{Reason: "palette kernel requires bits_per_sample in {1,2,4,8,16}"}
	}
	return nil
}

// Copy passes raw bytes straight through, the kernel used for every
// (photometric, bps, sample_format) combination not otherwise claimed.
func Copy(dst, src []byte, nPixels, bytesPerPixel int) {
	copy(dst[:nPixels*bytesPerPixel], src[:nPixels*bytesPerPixel])
}

// HalfFloatExpand converts packed IEEE-754 binary16 samples to float32,
// delegating the bit math to github.com/x448/float16 rather than hand
// rolling the sign/exponent/mantissa decomposition.
func HalfFloatExpand(dst, src []byte, nPixels, bands int) {
	for i := 0; i < nPixels*bands; i++ {
		bits := getU16(src[i*2 : i*2+2])
		f := float16.Frombits(bits).Float32()
		putF32(dst[i*4:i*4+4], f)
	}
}

// Unpremultiply divides every color band by the associated alpha band,
// undoing premultiplication for callers that requested straight alpha.
// Grounded in original_source's rtiff_unpremultiply; gated by the header's
// AssociatedAlpha() per the Open Question resolution in DESIGN.md. Only
// unsigned 8-bit output is supported; other element formats are a no-op.
func Unpremultiply(buf []byte, nPixels, bands, alphaBand int) {
	if alphaBand < 0 || alphaBand >= bands {
		return
	}
	for i := 0; i < nPixels; i++ {
		base := i * bands
		a := buf[base+alphaBand]
		if a == 0 || a == 0xFF {
			continue
		}
		for b := 0; b < bands; b++ {
			if b == alphaBand {
				continue
			}
			v := int(buf[base+b]) * 0xFF / int(a)
			if v > 0xFF {
				v = 0xFF
			}
			buf[base+b] = byte(v)
		}
	}
}

// CrossCheckLAB converts an (L, a, b) triplet (TIFF-scale: L in 0..100, a/b
// in -128..127) to sRGB via go-colorful's Lab type. The kernel tests use it
// to check that a neutral Lab triplet comes out grey; no test compares its
// result with the output of LABPack, LABAlpha or LAB16.
func CrossCheckLAB(l, a, b float64) (r, g, bl uint8) {
	return colorful.Lab(l/100, a/128, b/128).Clamped().RGB255()
}

func getU16(b []byte) uint16    { return uint16(b[0])<<8 | uint16(b[1]) }
func putU16(b []byte, v uint16) { b[0], b[1] = byte(v>>8), byte(v) }
func putI16(b []byte, v int16)  { putU16(b, uint16(v)) }
func getU32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
func putU32(b []byte, v uint32) {
	b[0], b[1], b[2], b[3] = byte(v>>24), byte(v>>16), byte(v>>8), byte(v)
}
func putF32(b []byte, v float32) {
	putU32(b, math.Float32bits(v))
}
