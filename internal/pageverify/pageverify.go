// Package pageverify implements the Multi-page Verifier (spec §4.6): when a
// caller asks to treat pages [page, page+n) as one stitched image, every
// page's header must agree with page 0's geometry. Grounded in the
// teacher's multi-page walk in impl/header.go's directory-count handling,
// generalized per original_source's page-equality checks in
// rtiff_set_page.
package pageverify

import (
	"github.com/coretiff/tiffcore/directory"
	"github.com/coretiff/tiffcore/internal/headerread"
	"github.com/coretiff/tiffcore/tifferr"
)

// Result is the outcome of stitching [page, page+n) into one logical image:
// the first page's Header (used for everything but geometry) and the
// combined height, n times the single-page height (spec P5).
type Result struct {
	Header       *directory.Header
	StitchedRows int
}

// Verify switches c through directories [page, page+n), reads each header,
// and confirms pages [page+1, page+n) agree with page's geometry via
// Header.Equal. It returns a tifferr.PageMismatch on the first divergence.
// unlimited is forwarded to the Header Reader for every page (spec §6).
func Verify(c directory.Container, page, n int, unlimited bool) (*Result, error) {
	if n < 1 {
		n = 1
	}

	if err := c.SetDirectory(page); err != nil {
		return nil, tifferr.WrapRead(err, "set directory for page verification")
	}
	base, err := headerread.Read(c, unlimited)
	if err != nil {
		return nil, err
	}

	for k := 1; k < n; k++ {
		if err := c.SetDirectory(page + k); err != nil {
			return nil, &tifferr.PageMismatch{Page: page + k, Reason: "directory does not exist"}
		}
		h, err := headerread.Read(c, unlimited)
		if err != nil {
			return nil, err
		}
		if reason, ok := base.Equal(h); !ok {
			return nil, &tifferr.PageMismatch{Page: page + k, Reason: reason}
		}
	}

	if err := c.SetDirectory(page); err != nil {
		return nil, tifferr.WrapRead(err, "restore directory after page verification")
	}

	return &Result{Header: base, StitchedRows: base.Height * n}, nil
}
