package stripreader_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coretiff/tiffcore/directory"
	"github.com/coretiff/tiffcore/internal/kernel"
	"github.com/coretiff/tiffcore/internal/pipeline"
	"github.com/coretiff/tiffcore/internal/stripreader"
	"github.com/coretiff/tiffcore/tifferr"
	"github.com/coretiff/tiffcore/tifftag"
)

// stubContainer serves a single-strip, one-band image: 2 rows x 4 columns,
// 1 byte per pixel, all from one strip (RowsPerStrip >= Height).
type stubContainer struct {
	strip []byte
}

func (s *stubContainer) SetDirectory(int) error        { return nil }
func (s *stubContainer) SetSubDirectory(uint64) error   { return nil }
func (s *stubContainer) Field(tifftag.Tag) (directory.Field, bool) {
	return directory.Field{}, false
}
func (s *stubContainer) NumPages() int            { return 1 }
func (s *stubContainer) IsTiled() bool            { return false }
func (s *stubContainer) TileSize() int            { return 0 }
func (s *stubContainer) TileRowSize() int         { return 0 }
func (s *stubContainer) StripSize() int           { return len(s.strip) }
func (s *stubContainer) ScanlineSize() int        { return 4 }
func (s *stubContainer) NumberOfStrips() int      { return 1 }
func (s *stubContainer) ComputeTile(x, y int) int { return 0 }

func (s *stubContainer) ReadEncodedStrip(strip int, buf []byte) (int, error) {
	n := copy(buf, s.strip)
	return n, nil
}
func (s *stubContainer) ReadRawStrip(strip int, buf []byte) (int, error) {
	n := copy(buf, s.strip)
	return n, nil
}
func (s *stubContainer) ReadScanline(buf []byte, row int) error { return nil }
func (s *stubContainer) ReadRawTile(tile int, buf []byte) (int, error) {
	return 0, nil
}
func (s *stubContainer) ReadTile(buf []byte, x, y int) (int, error) { return 0, nil }
func (s *stubContainer) RGBAImageOK() bool                         { return false }
func (s *stubContainer) ReadRGBATile(x, y int, buf []byte) error   { return nil }
func (s *stubContainer) ReadRGBAStrip(strip int, buf []byte) error { return nil }
func (s *stubContainer) Close() error                              { return nil }

func newHeader() *directory.Header {
	return &directory.Header{
		Width: 4, Height: 2,
		SamplesPerPixel: 1,
		BitsPerSample:   []int{8},
		RowsPerStrip:    2,
		ScanlineSize:    4,
		ReadSize:        8,
		NumberOfStrips:  1,
	}
}

func TestStripReaderReadsRowsInOrder(t *testing.T) {
	h := newHeader()
	c := &stubContainer{strip: []byte{1, 2, 3, 4, 5, 6, 7, 8}}
	r := stripreader.New(c, h, pipeline.KernelCopy, pipeline.Descriptor{Bands: 1, Format: pipeline.FormatU8}, (*kernel.PaletteLUT)(nil))

	dst := make([]byte, 4)
	assert.NoError(t, r.ReadRow(0, dst))
	assert.Equal(t, []byte{1, 2, 3, 4}, dst)

	assert.NoError(t, r.ReadRow(1, dst))
	assert.Equal(t, []byte{5, 6, 7, 8}, dst)
}

func TestStripReaderRejectsOutOfOrderRead(t *testing.T) {
	h := newHeader()
	c := &stubContainer{strip: make([]byte, 8)}
	r := stripreader.New(c, h, pipeline.KernelCopy, pipeline.Descriptor{Bands: 1, Format: pipeline.FormatU8}, (*kernel.PaletteLUT)(nil))

	err := r.ReadRow(1, make([]byte, 4))
	var outOfOrder *tifferr.OutOfOrderRead
	assert.ErrorAs(t, err, &outOfOrder)
	assert.Equal(t, 1, outOfOrder.Requested)
	assert.Equal(t, 0, outOfOrder.Expected)
}
