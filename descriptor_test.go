package tiffcore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coretiff/tiffcore/directory"
)

func TestNewDescriptorCarriesMetadataThrough(t *testing.T) {
	h := &directory.Header{
		Width: 8, Height: 4,
		SamplesPerPixel: 3,
		BitsPerSample:   []int{8, 8, 8},
		ResolutionUnit:  directory.ResolutionCM,
		ResolutionX:     100, ResolutionY: 100,
		ImageDescription: "test image",
		IPTCBlock:        []byte{1, 2, 3},
		SubifdCount:      2,
	}

	d := newDescriptor(h, 5, 2, 16)

	assert.Equal(t, 8, d.Width)
	assert.Equal(t, 16, d.Height) // stitched, not single-page
	assert.Equal(t, 4, d.PageHeight)
	assert.Equal(t, 5, d.NPages)
	assert.Equal(t, 2, d.NSubifds)
	assert.Equal(t, "test image", d.ImageDescription)
	assert.Equal(t, []byte{1, 2, 3}, d.IPTCBlock)
	assert.Equal(t, []byte{1, 2, 3}, d.IPTCBlockLegacy)
	assert.NoError(t, d.ResolutionPixelsPerMMErr)
	assert.InDelta(t, 10.0, d.ResolutionPixelsPerMM[0], 1e-9)
	assert.Same(t, h, d.Header())
}

func TestNewDescriptorUnknownResolutionUnit(t *testing.T) {
	h := &directory.Header{Width: 1, Height: 1, ResolutionUnit: directory.ResolutionUnit(42)}

	d := newDescriptor(h, 1, 0, 1)
	assert.Error(t, d.ResolutionPixelsPerMMErr)
}
