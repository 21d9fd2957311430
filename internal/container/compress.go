package container

import (
	"bufio"
	"bytes"
	"io"

	"github.com/pkg/errors"
)

// unpackBits decodes PackBits-compressed data. The control/run-length
// algorithm is grounded in github.com/mdouchement/tiff/compress.go's
// unpackBits.
func unpackBits(raw []byte) ([]byte, error) {
	br := bufio.NewReader(bytes.NewReader(raw))
	buf := make([]byte, 128)
	dst := make([]byte, 0, len(raw)*2)

	for {
		b, err := br.ReadByte()
		if err != nil {
			if err == io.EOF {
				return dst, nil
			}
			return nil, errors.Wrap(err, "unpackBits")
		}
		code := int(int8(b))
		switch {
		case code >= 0:
			n, err := io.ReadFull(br, buf[:code+1])
			if err != nil {
				return nil, errors.Wrap(err, "unpackBits literal run")
			}
			dst = append(dst, buf[:n]...)
		case code == -128:
			// no-op
		default:
			rep, err := br.ReadByte()
			if err != nil {
				return nil, errors.Wrap(err, "unpackBits replicate run")
			}
			for j := 0; j < 1-code; j++ {
				buf[j] = rep
			}
			dst = append(dst, buf[:1-code]...)
		}
	}
}

// unRLE decodes the SGI LogLuv run-length scheme: each of bytesPerPixel
// byte-planes is encoded separately per row (a run-length byte followed by
// either one repeated value or that many literal values). Grounded in
// github.com/mdouchement/tiff/compress.go's unRLE.
func unRLE(raw []byte, blockWidth, blockHeight, bytesPerPixel int) ([]byte, error) {
	br := bufio.NewReader(bytes.NewReader(raw))
	dst := make([]byte, blockWidth*blockHeight*bytesPerPixel)

	for row := 0; row < blockHeight; row++ {
		rowOffset := row * blockWidth * bytesPerPixel

		for channel := 0; channel < bytesPerPixel; channel++ {
			offset := rowOffset + channel
			remaining := blockWidth

			for remaining > 0 {
				b, err := br.ReadByte()
				if err != nil {
					return nil, errors.Wrap(err, "unRLE control byte")
				}

				if b&0x80 != 0 {
					runLength := int(b) - 128 + 2
					remaining -= runLength
					val, err := br.ReadByte()
					if err != nil {
						return nil, errors.Wrap(err, "unRLE run value")
					}
					for ; runLength > 0; runLength-- {
						dst[offset] = val
						offset += bytesPerPixel
					}
				} else {
					runLength := int(b)
					remaining -= runLength
					for ; runLength > 0; runLength-- {
						val, err := br.ReadByte()
						if err != nil {
							return nil, errors.Wrap(err, "unRLE literal value")
						}
						dst[offset] = val
						offset += bytesPerPixel
					}
				}
			}
		}
	}

	return dst, nil
}
