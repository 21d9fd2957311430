package tiffcore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coretiff/tiffcore/directory"
	"github.com/coretiff/tiffcore/internal/pipeline"
	"github.com/coretiff/tiffcore/internal/tilereader"
	"github.com/coretiff/tiffcore/tifferr"
	"github.com/coretiff/tiffcore/tifftag"
)

// fakeContainer is a minimal directory.Container stub: it reports every
// field as absent and never actually decodes anything, enough to exercise
// Image's own routing/sticky-failure logic without needing real pixel data.
type fakeContainer struct {
	closed bool
}

func (f *fakeContainer) SetDirectory(page int) error        { return nil }
func (f *fakeContainer) SetSubDirectory(offset uint64) error { return nil }
func (f *fakeContainer) Field(tag tifftag.Tag) (directory.Field, bool) {
	return directory.Field{}, false
}
func (f *fakeContainer) NumPages() int                                  { return 1 }
func (f *fakeContainer) IsTiled() bool                                  { return false }
func (f *fakeContainer) TileSize() int                                  { return 0 }
func (f *fakeContainer) TileRowSize() int                               { return 0 }
func (f *fakeContainer) StripSize() int                                 { return 0 }
func (f *fakeContainer) ScanlineSize() int                              { return 0 }
func (f *fakeContainer) NumberOfStrips() int                            { return 0 }
func (f *fakeContainer) ComputeTile(x, y int) int                       { return 0 }
func (f *fakeContainer) ReadEncodedStrip(strip int, buf []byte) (int, error) { return 0, nil }
func (f *fakeContainer) ReadRawStrip(strip int, buf []byte) (int, error)     { return 0, nil }
func (f *fakeContainer) ReadScanline(buf []byte, row int) error              { return nil }
func (f *fakeContainer) ReadRawTile(tile int, buf []byte) (int, error)       { return 0, nil }
func (f *fakeContainer) ReadTile(buf []byte, x, y int) (int, error)          { return 0, nil }
func (f *fakeContainer) RGBAImageOK() bool                                  { return false }
func (f *fakeContainer) ReadRGBATile(x, y int, buf []byte) error            { return nil }
func (f *fakeContainer) ReadRGBAStrip(strip int, buf []byte) error          { return nil }
func (f *fakeContainer) Close() error {
	f.closed = true
	return nil
}

func newTestImage(tiled bool) (*Image, *fakeContainer) {
	h := &directory.Header{Width: 4, Height: 2, Tiled: tiled, TileWidth: 4, TileHeight: 2}
	c := &fakeContainer{}
	return &Image{
		Descriptor: newDescriptor(h, 1, 0, h.Height),
		c:          c,
		h:          h,
		kid:        pipeline.KernelCopy,
		dsc:        pipeline.Descriptor{Bands: 1, Format: pipeline.FormatU8},
		pageBase:   0,
		numPages:   1,
	}, c
}

func TestImageReadRowOnTiledImageIsUnsupportedAndSticky(t *testing.T) {
	img, _ := newTestImage(true)

	err := img.ReadRow(0, make([]byte, 4))
	assert.Error(t, err)
	var unsupported *tifferr.Unsupported
	assert.ErrorAs(t, err, &unsupported)

	// A second call, even a well-formed one, must now fail sticky.
	err = img.ReadRegion(context.Background(), tilereader.Rect{Width: 4, Height: 2}, make([]byte, 32), 0)
	var failed *tifferr.AlreadyFailed
	assert.ErrorAs(t, err, &failed)
}

func TestImageReadRegionOnStrippedImageIsUnsupported(t *testing.T) {
	img, _ := newTestImage(false)

	err := img.ReadRegion(context.Background(), tilereader.Rect{}, nil, 0)
	var unsupported *tifferr.Unsupported
	assert.ErrorAs(t, err, &unsupported)
}

func TestImageReadRowOutOfOrderIsSticky(t *testing.T) {
	img, _ := newTestImage(false)
	img.stripped = nil // force lazy (re)build path

	err := img.ReadRow(1, make([]byte, 4))
	assert.Error(t, err)
	var outOfOrder *tifferr.OutOfOrderRead
	assert.ErrorAs(t, err, &outOfOrder)

	err = img.ReadRow(0, make([]byte, 4))
	var failed *tifferr.AlreadyFailed
	assert.ErrorAs(t, err, &failed)
}

func TestImageCloseIsIdempotent(t *testing.T) {
	img, c := newTestImage(false)

	assert.NoError(t, img.Close())
	assert.True(t, c.closed)
	assert.NoError(t, img.Close())
}
