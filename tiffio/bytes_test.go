package tiffio_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coretiff/tiffcore/tiffio"
)

func TestBytesSourceReadAt(t *testing.T) {
	src := tiffio.NewBytesSource([]byte("tiff header bytes"))

	buf := make([]byte, 6)
	n, err := src.ReadAt(buf, 0)
	assert.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, "tiff h", string(buf))
}

func TestBytesSourceReadAtPastEnd(t *testing.T) {
	src := tiffio.NewBytesSource([]byte("abc"))

	buf := make([]byte, 4)
	n, err := src.ReadAt(buf, 1)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "bc", string(buf[:n]))
}

func TestBytesSourceReadAtOutOfRange(t *testing.T) {
	src := tiffio.NewBytesSource([]byte("abc"))

	buf := make([]byte, 1)
	_, err := src.ReadAt(buf, 10)
	assert.ErrorIs(t, err, io.EOF)
}

func TestBytesSourceSeekAndTell(t *testing.T) {
	src := tiffio.NewBytesSource([]byte("0123456789"))

	off, err := src.Seek(4, io.SeekStart)
	assert.NoError(t, err)
	assert.Equal(t, int64(4), off)

	pos, err := src.Tell()
	assert.NoError(t, err)
	assert.Equal(t, int64(4), pos)

	off, err = src.Seek(2, io.SeekCurrent)
	assert.NoError(t, err)
	assert.Equal(t, int64(6), off)

	off, err = src.Seek(-1, io.SeekEnd)
	assert.NoError(t, err)
	assert.Equal(t, int64(9), off)
}

func TestBytesSourceMinimiseAndCloseAreNoops(t *testing.T) {
	src := tiffio.NewBytesSource([]byte("data"))
	assert.NoError(t, src.Minimise())

	buf := make([]byte, 4)
	_, err := src.ReadAt(buf, 0)
	assert.NoError(t, err)

	assert.NoError(t, src.Close())
}
