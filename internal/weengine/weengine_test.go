package weengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coretiff/tiffcore/compression"
	"github.com/coretiff/tiffcore/directory"
	"github.com/coretiff/tiffcore/internal/weengine"
	"github.com/coretiff/tiffcore/tifferr"
)

func TestDecodeUnsupportedCompressionErrors(t *testing.T) {
	h := &directory.Header{Compression: compression.Deflate}

	_, _, err := weengine.Decode(h, []byte{0x00})
	var unsupported *tifferr.Unsupported
	assert.ErrorAs(t, err, &unsupported)
}
