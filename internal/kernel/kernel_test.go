package kernel_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coretiff/tiffcore/internal/kernel"
)

func TestBitExpandReplicatesBitsAcrossByte(t *testing.T) {
	// 1-bit: 0b1011_0000 over 8 pixels -> 255,0,255,255,0,0,0,0
	src := []byte{0xB0}
	dst := make([]byte, 8)
	require.NoError(t, kernel.BitExpand(dst, src, 8, 1, false))
	assert.Equal(t, []byte{255, 0, 255, 255, 0, 0, 0, 0}, dst)
}

func TestBitExpandInvertsOnMinIsWhite(t *testing.T) {
	src := []byte{0x00}
	dst := make([]byte, 8)
	require.NoError(t, kernel.BitExpand(dst, src, 8, 1, true))
	for _, v := range dst {
		assert.Equal(t, byte(255), v)
	}
}

func TestBitExpandTwoBitMultiplesOf85(t *testing.T) {
	// 0b00_01_10_11 -> values 0,1,2,3 scaled by 85 -> 0,85,170,255
	src := []byte{0x1B}
	dst := make([]byte, 4)
	require.NoError(t, kernel.BitExpand(dst, src, 4, 2, false))
	assert.Equal(t, []byte{0, 85, 170, 255}, dst)
}

func TestBitExpandRejectsUnsupportedWidth(t *testing.T) {
	err := kernel.BitExpand(make([]byte, 1), make([]byte, 1), 1, 3, false)
	assert.Error(t, err)
}

func TestGreyscaleInvertsOnlyWhenMinIsWhite(t *testing.T) {
	src := []byte{10, 200}
	dst := make([]byte, 2)
	kernel.Greyscale(dst, src, 2, 1, kernel.ElementU8, 1, false)
	assert.Equal(t, src, dst)

	dst2 := make([]byte, 2)
	kernel.Greyscale(dst2, src, 2, 1, kernel.ElementU8, 1, true)
	assert.Equal(t, []byte{245, 55}, dst2)
}

func TestPaletteCollapsesToMonoWhenRGBChannelsMatch(t *testing.T) {
	raw := make([]uint64, 3*4)
	for i := 0; i < 4; i++ {
		v := uint64(i * 50)
		raw[i], raw[4+i], raw[8+i] = v, v, v
	}
	lut, err := kernel.BuildPaletteLUT(raw, 2)
	require.NoError(t, err)
	require.True(t, lut.Mono)
	assert.Equal(t, 1, lut.Bands())

	src := []byte{0x1B} // indices 0,1,2,3
	dst := make([]byte, 4)
	require.NoError(t, kernel.Palette(dst, src, 4, 2, 0, lut))
	assert.Equal(t, []byte{0, 50, 100, 150}, dst)
}

func TestPaletteKeepsThreeBandsWhenChannelsDiffer(t *testing.T) {
	raw := make([]uint64, 3*2)
	raw[0], raw[2], raw[4] = 10, 20, 30 // index 0: r=10 g=20 b=30
	raw[1], raw[3], raw[5] = 40, 40, 40 // index 1: mono
	lut, err := kernel.BuildPaletteLUT(raw, 1)
	require.NoError(t, err)
	require.False(t, lut.Mono)
	assert.Equal(t, 3, lut.Bands())

	src := []byte{0x40} // pixel 0 -> index 0, pixel 1 -> index 1
	dst := make([]byte, 6)
	require.NoError(t, kernel.Palette(dst, src, 2, 1, 0, lut))
	assert.Equal(t, []byte{10, 20, 30, 40, 40, 40}, dst)
}

func TestPaletteRejectsOutOfRangeIndex(t *testing.T) {
	lut := &kernel.PaletteLUT{RGB8: [][3]uint8{{1, 2, 3}}}
	err := kernel.Palette(make([]byte, 3), []byte{5}, 1, 8, 0, lut)
	assert.Error(t, err)
}

func TestLABAlphaScalesLightnessTo16Bit(t *testing.T) {
	src := []byte{255, 0, 0}
	dst := make([]byte, 6)
	kernel.LABAlpha(dst, src, 1, 3)
	l := uint16(dst[0])<<8 | uint16(dst[1])
	assert.Equal(t, uint16(32767), l)
}

func TestHalfFloatExpandWidensToFloat32(t *testing.T) {
	// 0x3C00 is binary16 for 1.0
	src := []byte{0x3C, 0x00}
	dst := make([]byte, 4)
	kernel.HalfFloatExpand(dst, src, 1, 1)
	f := math.Float32frombits(binary.BigEndian.Uint32(dst))
	assert.Equal(t, float32(1.0), f)
}

func TestUnpremultiplyDividesOutAssociatedAlpha(t *testing.T) {
	// one pixel, RGBA, color premultiplied by alpha=128 (~0.5)
	buf := []byte{64, 64, 64, 128}
	kernel.Unpremultiply(buf, 1, 4, 3)
	assert.Equal(t, byte(127), buf[0])
	assert.Equal(t, byte(128), buf[3])
}

func TestUnpremultiplyLeavesOpaqueAndTransparentPixelsAlone(t *testing.T) {
	buf := []byte{10, 20, 30, 0xFF, 1, 2, 3, 0}
	kernel.Unpremultiply(buf, 2, 4, 3)
	assert.Equal(t, []byte{10, 20, 30, 0xFF, 1, 2, 3, 0}, buf)
}

func TestCrossCheckLABMapsNeutralLabToGrey(t *testing.T) {
	// mid-grey in CIELab (L=53.585, a=0, b=0) is approximately sRGB grey.
	r, g, b := kernel.CrossCheckLAB(53.585, 0, 0)
	assert.InDelta(t, int(r), int(g), 2)
	assert.InDelta(t, int(g), int(b), 2)
}
