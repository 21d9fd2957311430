package pageverify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coretiff/tiffcore/directory"
	"github.com/coretiff/tiffcore/internal/pageverify"
	"github.com/coretiff/tiffcore/photometric"
	"github.com/coretiff/tiffcore/tifferr"
	"github.com/coretiff/tiffcore/tifftag"
)

// pagedContainer serves one tag set per directory index, switched by
// SetDirectory, enough to exercise the Multi-page Verifier's page-walk
// and Header.Equal comparison.
type pagedContainer struct {
	dirs    []map[tifftag.Tag]directory.Field
	current int
}

func (c *pagedContainer) SetDirectory(page int) error {
	if page < 0 || page >= len(c.dirs) {
		return assertErr{"directory out of range"}
	}
	c.current = page
	return nil
}
func (c *pagedContainer) SetSubDirectory(uint64) error { return nil }
func (c *pagedContainer) Field(tag tifftag.Tag) (directory.Field, bool) {
	f, ok := c.dirs[c.current][tag]
	return f, ok
}
func (c *pagedContainer) NumPages() int                               { return len(c.dirs) }
func (c *pagedContainer) IsTiled() bool                                { return false }
func (c *pagedContainer) TileSize() int                                { return 0 }
func (c *pagedContainer) TileRowSize() int                             { return 0 }
func (c *pagedContainer) StripSize() int                               { return 400 }
func (c *pagedContainer) ScanlineSize() int                            { return 400 }
func (c *pagedContainer) NumberOfStrips() int                          { return 1 }
func (c *pagedContainer) ComputeTile(x, y int) int                     { return 0 }
func (c *pagedContainer) ReadEncodedStrip(int, []byte) (int, error)    { return 0, nil }
func (c *pagedContainer) ReadRawStrip(int, []byte) (int, error)        { return 0, nil }
func (c *pagedContainer) ReadScanline([]byte, int) error               { return nil }
func (c *pagedContainer) ReadRawTile(int, []byte) (int, error)         { return 0, nil }
func (c *pagedContainer) ReadTile([]byte, int, int) (int, error)       { return 0, nil }
func (c *pagedContainer) RGBAImageOK() bool                            { return false }
func (c *pagedContainer) ReadRGBATile(int, int, []byte) error          { return nil }
func (c *pagedContainer) ReadRGBAStrip(int, []byte) error              { return nil }
func (c *pagedContainer) Close() error                                 { return nil }

type assertErr struct{ msg string }

func (e assertErr) Error() string { return e.msg }

func page(width, height int) map[tifftag.Tag]directory.Field {
	return map[tifftag.Tag]directory.Field{
		tifftag.ImageWidth:               {Values: []uint64{uint64(width)}},
		tifftag.ImageLength:              {Values: []uint64{uint64(height)}},
		tifftag.SamplesPerPixel:          {Values: []uint64{1}},
		tifftag.BitsPerSample:            {Values: []uint64{8}},
		tifftag.PhotometricInterpretation: {Values: []uint64{uint64(photometric.BlackIsZero)}},
		tifftag.RowsPerStrip:             {Values: []uint64{uint64(height)}},
	}
}

func TestVerifyAgreeingPagesStitch(t *testing.T) {
	c := &pagedContainer{dirs: []map[tifftag.Tag]directory.Field{page(10, 4), page(10, 4), page(10, 4)}}

	res, err := pageverify.Verify(c, 0, 3, false)
	assert.NoError(t, err)
	assert.Equal(t, 10, res.Header.Width)
	assert.Equal(t, 12, res.StitchedRows)
}

func TestVerifyMismatchedWidthFails(t *testing.T) {
	c := &pagedContainer{dirs: []map[tifftag.Tag]directory.Field{page(10, 4), page(20, 4)}}

	_, err := pageverify.Verify(c, 0, 2, false)
	var mismatch *tifferr.PageMismatch
	assert.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 1, mismatch.Page)
	assert.Equal(t, "width differs", mismatch.Reason)
}

func TestVerifySinglePageDefaultsNTo1(t *testing.T) {
	c := &pagedContainer{dirs: []map[tifftag.Tag]directory.Field{page(10, 4)}}

	res, err := pageverify.Verify(c, 0, 0, false)
	assert.NoError(t, err)
	assert.Equal(t, 4, res.StitchedRows)
}
