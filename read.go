package tiffcore

import (
	"github.com/coretiff/tiffcore/directory"
	"github.com/coretiff/tiffcore/internal/container"
	"github.com/coretiff/tiffcore/internal/headerread"
	"github.com/coretiff/tiffcore/internal/pageverify"
	"github.com/coretiff/tiffcore/internal/pipeline"
	"github.com/coretiff/tiffcore/internal/stripreader"
	"github.com/coretiff/tiffcore/internal/tilereader"
	"github.com/coretiff/tiffcore/tifferr"
	"github.com/coretiff/tiffcore/tiffio"
	"github.com/coretiff/tiffcore/tifftag"
)

// resolved bundles what ReadHeader and Read both need after opening the
// container and settling on a page (or page range, or subifd).
type resolved struct {
	c        directory.Container
	h        *directory.Header
	nPages   int
	pageBase int
	numPages int
	stitched int
}

func resolve(source tiffio.Source, opts Options) (*resolved, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	c, err := container.Open(source)
	if err != nil {
		return nil, tifferr.WrapRead(err, "open container")
	}

	res, err := resolveWithContainer(c, opts)
	if err != nil {
		c.Close()
		return nil, err
	}
	return res, nil
}

func resolveWithContainer(c directory.Container, opts Options) (*resolved, error) {
	nPages := c.NumPages()

	if opts.Subifd != NoSubifd {
		if err := c.SetDirectory(opts.Page); err != nil {
			return nil, tifferr.WrapRead(err, "set directory")
		}
		parent, err := headerread.Read(c, opts.Unlimited)
		if err != nil {
			return nil, err
		}
		if opts.Subifd >= parent.SubifdCount {
			return nil, &tifferr.SubifdOutOfRange{Requested: opts.Subifd, Count: parent.SubifdCount}
		}
		sub, ok := c.Field(tifftag.SubIFDs)
		if !ok || opts.Subifd >= len(sub.Values) {
			return nil, &tifferr.SubifdOutOfRange{Requested: opts.Subifd, Count: parent.SubifdCount}
		}
		if err := c.SetSubDirectory(sub.Values[opts.Subifd]); err != nil {
			return nil, tifferr.WrapRead(err, "enter subifd")
		}
		h, err := headerread.Read(c, opts.Unlimited)
		if err != nil {
			return nil, err
		}
		return &resolved{c: c, h: h, nPages: nPages, pageBase: opts.Page, numPages: 1, stitched: h.Height}, nil
	}

	n := opts.N
	if n == AllRemainingPages {
		n = nPages - opts.Page
	}
	if n < 1 {
		n = 1
	}

	vr, err := pageverify.Verify(c, opts.Page, n, opts.Unlimited)
	if err != nil {
		return nil, err
	}
	return &resolved{c: c, h: vr.Header, nPages: nPages, pageBase: opts.Page, numPages: n, stitched: vr.StitchedRows}, nil
}

func applyAutorotate(h *directory.Header) {
	if h.Orientation < 5 || h.Orientation > 8 {
		return
	}
	h.Width, h.Height = h.Height, h.Width
	h.Orientation = 1
}

// ReadHeader opens source and returns its metadata without allocating a
// pixel reader, spec §6's read_header entry point. The container is
// closed before returning; callers that also want pixels should call Read
// instead (it keeps the container open for the lifetime of the Image).
func ReadHeader(source tiffio.Source, opts Options) (*ImageDescriptor, error) {
	res, err := resolve(source, opts)
	if err != nil {
		return nil, err
	}
	defer res.c.Close()

	if opts.Autorotate {
		applyAutorotate(res.h)
	}

	if !res.h.Tiled {
		if err := source.Minimise(); err != nil {
			return nil, tifferr.WrapRead(err, "minimise source")
		}
	}

	nSubifds := res.h.SubifdCount
	return newDescriptor(res.h, res.nPages, nSubifds, res.stitched), nil
}

// Read opens source and returns a live pixel stream plus its metadata,
// spec §6's read entry point. Close the returned Image when done.
func Read(source tiffio.Source, opts Options) (*Image, error) {
	res, err := resolve(source, opts)
	if err != nil {
		return nil, err
	}

	if opts.Autorotate {
		applyAutorotate(res.h)
	}

	kid, dsc, lut, err := pipeline.Select(res.h)
	if err != nil {
		res.c.Close()
		return nil, err
	}

	img := &Image{
		Descriptor: newDescriptor(res.h, res.nPages, res.h.SubifdCount, res.stitched),
		c:          res.c,
		h:          res.h,
		kid:        kid,
		dsc:        dsc,
		lut:        lut,
		pageBase:   res.pageBase,
		numPages:   res.numPages,
	}

	if res.h.Tiled {
		if err := res.c.SetDirectory(res.pageBase); err != nil {
			res.c.Close()
			return nil, tifferr.WrapRead(err, "set directory")
		}
		img.tiled = tilereader.New(res.c, res.h, kid, dsc, lut, res.pageBase, res.numPages, opts.MaxTileWorkers)
		return img, nil
	}

	if err := res.c.SetDirectory(res.pageBase); err != nil {
		res.c.Close()
		return nil, tifferr.WrapRead(err, "set directory")
	}
	img.stripped = stripreader.New(res.c, res.h, kid, dsc, lut)
	img.curPage = 0
	return img, nil
}
