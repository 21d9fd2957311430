package headerread_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coretiff/tiffcore/directory"
	"github.com/coretiff/tiffcore/internal/headerread"
	"github.com/coretiff/tiffcore/photometric"
	"github.com/coretiff/tiffcore/tifferr"
	"github.com/coretiff/tiffcore/tifftag"
)

// fieldContainer is a directory.Container stub driven entirely by a tag
// map, enough to exercise the Header Reader's tag-pulling and
// sanity-check logic without a real IFD walker.
type fieldContainer struct {
	fields   map[tifftag.Tag]directory.Field
	tiled    bool
	tileSize int
	stripSize int
}

func (c *fieldContainer) Field(tag tifftag.Tag) (directory.Field, bool) {
	f, ok := c.fields[tag]
	return f, ok
}
func (c *fieldContainer) SetDirectory(int) error        { return nil }
func (c *fieldContainer) SetSubDirectory(uint64) error   { return nil }
func (c *fieldContainer) NumPages() int                  { return 1 }
func (c *fieldContainer) IsTiled() bool                  { return c.tiled }
func (c *fieldContainer) TileSize() int                  { return c.tileSize }
func (c *fieldContainer) TileRowSize() int                { return c.tileSize }
func (c *fieldContainer) StripSize() int                  { return c.stripSize }
func (c *fieldContainer) ScanlineSize() int               { return c.stripSize }
func (c *fieldContainer) NumberOfStrips() int             { return 1 }
func (c *fieldContainer) ComputeTile(x, y int) int        { return 0 }
func (c *fieldContainer) ReadEncodedStrip(int, []byte) (int, error) { return 0, nil }
func (c *fieldContainer) ReadRawStrip(int, []byte) (int, error)     { return 0, nil }
func (c *fieldContainer) ReadScanline([]byte, int) error            { return nil }
func (c *fieldContainer) ReadRawTile(int, []byte) (int, error)      { return 0, nil }
func (c *fieldContainer) ReadTile([]byte, int, int) (int, error)    { return 0, nil }
func (c *fieldContainer) RGBAImageOK() bool                         { return false }
func (c *fieldContainer) ReadRGBATile(int, int, []byte) error       { return nil }
func (c *fieldContainer) ReadRGBAStrip(int, []byte) error           { return nil }
func (c *fieldContainer) Close() error                               { return nil }

func baseContainer() *fieldContainer {
	return &fieldContainer{
		stripSize: 400,
		fields: map[tifftag.Tag]directory.Field{
			tifftag.ImageWidth:                 {Values: []uint64{100}},
			tifftag.ImageLength:                {Values: []uint64{4}},
			tifftag.SamplesPerPixel:             {Values: []uint64{1}},
			tifftag.BitsPerSample:               {Values: []uint64{8}},
			tifftag.PhotometricInterpretation:   {Values: []uint64{uint64(photometric.BlackIsZero)}},
			tifftag.RowsPerStrip:                {Values: []uint64{4}},
		},
	}
}

func TestReadMissingWidthFails(t *testing.T) {
	c := baseContainer()
	delete(c.fields, tifftag.ImageWidth)

	_, err := headerread.Read(c, false)
	var missing *tifferr.MissingField
	assert.ErrorAs(t, err, &missing)
	assert.Equal(t, "ImageWidth", missing.Field)
}

func TestReadStrippedBaseline(t *testing.T) {
	h, err := headerread.Read(baseContainer(), false)
	assert.NoError(t, err)
	assert.Equal(t, 100, h.Width)
	assert.Equal(t, 4, h.Height)
	assert.False(t, h.Tiled)
	assert.Equal(t, 4, h.RowsPerStrip)
	assert.Equal(t, 1.0, h.Stonits)
}

func TestReadStripSizeCapRejectsOversizedBlockUnlessUnlimited(t *testing.T) {
	c := baseContainer()
	c.stripSize = 200 * 1024 * 1024

	_, err := headerread.Read(c, false)
	var oor *tifferr.OutOfRange
	assert.ErrorAs(t, err, &oor)

	h, err := headerread.Read(c, true)
	assert.NoError(t, err)
	assert.Equal(t, 200*1024*1024, h.StripSize)
}

func TestReadTiledDimensionsMustBeMultipleOf16(t *testing.T) {
	c := baseContainer()
	c.tiled = true
	c.fields[tifftag.TileWidth] = directory.Field{Values: []uint64{100}}
	c.fields[tifftag.TileLength] = directory.Field{Values: []uint64{100}}

	_, err := headerread.Read(c, false)
	var oor *tifferr.OutOfRange
	assert.ErrorAs(t, err, &oor)
}

func TestReadPalettedWithoutColorMapFails(t *testing.T) {
	c := baseContainer()
	c.fields[tifftag.PhotometricInterpretation] = directory.Field{Values: []uint64{uint64(photometric.Paletted)}}

	_, err := headerread.Read(c, false)
	var bad *tifferr.BadColormap
	assert.ErrorAs(t, err, &bad)
}
