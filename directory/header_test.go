package directory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coretiff/tiffcore/compression"
	"github.com/coretiff/tiffcore/directory"
	"github.com/coretiff/tiffcore/photometric"
	"github.com/coretiff/tiffcore/sampleformat"
)

func baseHeader() *directory.Header {
	return &directory.Header{
		Width: 64, Height: 32,
		SamplesPerPixel: 3,
		BitsPerSample:   []int{8, 8, 8},
		Photometric:     photometric.RGB,
		SampleFormat:    sampleformat.UInt,
		Compression:     compression.None,
		Tiled:           false,
		ReadHeight:      32,
		ReadSize:        64 * 32 * 3,
		NumberOfStrips:  1,
	}
}

func TestHeaderEqualMatch(t *testing.T) {
	a, b := baseHeader(), baseHeader()
	reason, ok := a.Equal(b)
	assert.True(t, ok)
	assert.Empty(t, reason)
}

func TestHeaderEqualWidthDiffers(t *testing.T) {
	a, b := baseHeader(), baseHeader()
	b.Width = 128
	reason, ok := a.Equal(b)
	assert.False(t, ok)
	assert.Equal(t, "width differs", reason)
}

func TestHeaderEqualTiledDimensionsDiffer(t *testing.T) {
	a, b := baseHeader(), baseHeader()
	a.Tiled, b.Tiled = true, true
	a.TileWidth, a.TileHeight = 256, 256
	b.TileWidth, b.TileHeight = 128, 128
	reason, ok := a.Equal(b)
	assert.False(t, ok)
	assert.Equal(t, "tile dimensions differ", reason)
}

func TestHeaderEqualStripGeometryDiffers(t *testing.T) {
	a, b := baseHeader(), baseHeader()
	b.ReadSize = a.ReadSize + 1
	reason, ok := a.Equal(b)
	assert.False(t, ok)
	assert.Equal(t, "strip read geometry differs", reason)
}

func TestBitsPerSample0Empty(t *testing.T) {
	h := &directory.Header{}
	assert.Equal(t, 0, h.BitsPerSample0())
}

func TestResolutionPixelsPerMM(t *testing.T) {
	h := baseHeader()
	h.ResolutionX, h.ResolutionY = 300, 300
	h.ResolutionUnit = directory.ResolutionInch

	x, y, err := h.ResolutionPixelsPerMM()
	assert.NoError(t, err)
	assert.InDelta(t, 300/25.4, x, 1e-9)
	assert.InDelta(t, 300/25.4, y, 1e-9)
}

func TestResolutionPixelsPerMMNone(t *testing.T) {
	h := baseHeader()
	h.ResolutionUnit = directory.ResolutionNone

	x, y, err := h.ResolutionPixelsPerMM()
	assert.NoError(t, err)
	assert.Equal(t, 1.0, x)
	assert.Equal(t, 1.0, y)
}

func TestResolutionPixelsPerMMUnknownUnit(t *testing.T) {
	h := baseHeader()
	h.ResolutionUnit = directory.ResolutionUnit(99)

	_, _, err := h.ResolutionPixelsPerMM()
	assert.Error(t, err)
}

func TestHasAlphaAndAssociatedAlpha(t *testing.T) {
	h := baseHeader()
	h.SamplesPerPixel = 4
	h.BitsPerSample = []int{8, 8, 8, 8}
	h.AlphaBand = 3
	h.ExtraSampleKind = []directory.ExtraSampleKind{directory.ExtraAssocAlpha}

	assert.True(t, h.HasAlpha())
	assert.True(t, h.AssociatedAlpha())
}

func TestAssociatedAlphaFalseWhenUnassociated(t *testing.T) {
	h := baseHeader()
	h.SamplesPerPixel = 4
	h.BitsPerSample = []int{8, 8, 8, 8}
	h.AlphaBand = 3
	h.ExtraSampleKind = []directory.ExtraSampleKind{directory.ExtraUnassocAlpha}

	assert.True(t, h.HasAlpha())
	assert.False(t, h.AssociatedAlpha())
}
