package tiffcore

import (
	"context"
	"sync"

	"github.com/coretiff/tiffcore/directory"
	"github.com/coretiff/tiffcore/internal/kernel"
	"github.com/coretiff/tiffcore/internal/pipeline"
	"github.com/coretiff/tiffcore/internal/stripreader"
	"github.com/coretiff/tiffcore/internal/tilereader"
	"github.com/coretiff/tiffcore/tifferr"
)

// Image is read's result (spec §6): a pull-based pixel stream over either a
// single directory or N pages stitched together. Exactly one of the
// stripped or tiled access patterns is live for a given Image, matching
// whichever layout the underlying directory uses.
type Image struct {
	Descriptor *ImageDescriptor

	c   directory.Container
	h   *directory.Header
	kid pipeline.KernelID
	dsc pipeline.Descriptor
	lut *kernel.PaletteLUT

	pageBase int
	numPages int

	tiled *tilereader.Reader

	mu       sync.Mutex
	stripped *stripreader.Reader
	curPage  int // relative to pageBase, only meaningful for stripped images
	nextRow  int // next row this Image expects via ReadRow, across all pages

	closeOnce sync.Once
	failed    bool
}

// failIf records err as the sticky failure (spec §7/§9: "once a read
// fails, the image is marked failed and every subsequent call fails
// immediately without touching the container again") and returns it
// unchanged, so callers can write `return img.failIf(err)`.
func (img *Image) failIf(err error) error {
	if err != nil {
		img.mu.Lock()
		img.failed = true
		img.mu.Unlock()
	}
	return err
}

func (img *Image) checkFailed() error {
	img.mu.Lock()
	defer img.mu.Unlock()
	if img.failed {
		return &tifferr.AlreadyFailed{}
	}
	return nil
}

// ReadRow pulls exactly one row of a stripped image, in strictly
// increasing row order across the whole stitched image (spec P6). Rows
// are delivered in the kernel's output pixel format; dst must have
// capacity for Descriptor.Width output pixels.
func (img *Image) ReadRow(y int, dst []byte) error {
	if err := img.checkFailed(); err != nil {
		return err
	}
	if img.h.Tiled {
		return img.failIf(&tifferr.Unsupported{Reason: "ReadRow on a tiled image"})
	}

	img.mu.Lock()
	defer img.mu.Unlock()

	if y != img.nextRow {
		return img.failIfLocked(&tifferr.OutOfOrderRead{Requested: y, Expected: img.nextRow})
	}

	page := y / img.h.Height
	localY := y % img.h.Height
	if img.stripped == nil || page != img.curPage {
		if err := img.c.SetDirectory(img.pageBase + page); err != nil {
			return img.failIfLocked(tifferr.WrapRead(err, "switch directory for stitched row"))
		}
		img.stripped = stripreader.New(img.c, img.h, img.kid, img.dsc, img.lut)
		img.curPage = page
	}

	if err := img.stripped.ReadRow(localY, dst); err != nil {
		return img.failIfLocked(err)
	}
	img.nextRow++
	return nil
}

// ReadRegion pulls an arbitrary output rectangle of a tiled image; rect.Y
// may span multiple stitched pages. Concurrent calls are safe (spec §5).
func (img *Image) ReadRegion(ctx context.Context, rect tilereader.Rect, dst []byte, stride int) error {
	if err := img.checkFailed(); err != nil {
		return err
	}
	if !img.h.Tiled {
		return img.failIf(&tifferr.Unsupported{Reason: "ReadRegion on a stripped image"})
	}
	return img.failIf(img.tiled.ReadRegion(ctx, rect, dst, stride))
}

// failIfLocked is failIf for call sites already holding img.mu.
func (img *Image) failIfLocked(err error) error {
	if err != nil {
		img.failed = true
	}
	return err
}

// Close releases the underlying container. It is idempotent: a second
// Close is a no-op returning nil (spec §9: "Close may fire twice").
func (img *Image) Close() error {
	var err error
	img.closeOnce.Do(func() {
		err = img.c.Close()
	})
	return err
}
