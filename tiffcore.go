// Package tiffcore decodes baseline and extended TIFF directories into a
// uniform pull-based pixel stream: one row at a time for stripped images,
// one arbitrary rectangle at a time for tiled ones. It does not decode
// arbitrary TIFFs end-to-end the way golang.org/x/image/tiff or the
// teacher's own package does with an eager image.Image; instead it models
// the on-demand, page-aware, concurrency-tiered access pattern described in
// DESIGN.md, built from internal/headerread, internal/pipeline,
// internal/stripreader and internal/tilereader.
package tiffcore

import "github.com/coretiff/tiffcore/tifferr"

// FailPolicy names when a warning from the container library escalates to
// a hard error (spec §6/§7). Options.validate does not check it and no
// decode path reads it: this package emits no warnings, so every policy
// decodes the same way.
type FailPolicy int

const (
	// FailOnNone never escalates warnings; only errors fail the decode.
	FailOnNone FailPolicy = iota
	// FailOnTruncated escalates warnings about truncated data.
	FailOnTruncated
	// FailOnError is the default libtiff-equivalent policy.
	FailOnError
	// FailOnWarning escalates every warning to an error.
	FailOnWarning
)

// AllRemainingPages is the N sentinel meaning "every page from Page to the
// end of the file", per spec §6 ("n ... or the sentinel 'all remaining'").
const AllRemainingPages = 0

// NoSubifd is the Subifd sentinel meaning "read the top-level directory",
// spec §6's "subifd ∈ [−1 = none, subifd_count−1]".
const NoSubifd = -1

// Options parameterizes ReadHeader and Read, mirroring spec §6's
// read_header/read entry points.
type Options struct {
	// Page is the first top-level directory to read, in [0, 1e6].
	Page int
	// N is how many consecutive pages to stitch into one image, in
	// [1, 1e6], or AllRemainingPages to read every page from Page onward.
	N int
	// Autorotate consumes the Orientation tag here: width/height are
	// swapped for a 90/270-degree orientation and the reported
	// orientation is normalized to 1 (top-left), rather than left for the
	// caller to apply. The pixel stream itself is still delivered in the
	// file's physical row/column order; this only affects the metadata
	// the caller sees.
	Autorotate bool
	// Subifd selects a child directory under Page, or NoSubifd for the
	// top-level directory. Mutually exclusive with N > 1.
	Subifd int
	// FailOn is the warning-escalation policy. It is carried on Options
	// only; ReadHeader and Read do not consult it (see FailPolicy).
	FailOn FailPolicy
	// Unlimited disables the tile/strip block-size sanity caps for inputs
	// the caller already trusts (spec §6).
	Unlimited bool
	// MaxTileWorkers bounds the tiled path's worker pool; 0 uses
	// internal/tilereader.DefaultMaxWorkers.
	MaxTileWorkers int
}

const (
	maxPage = 1_000_000
	maxN    = 1_000_000
)

func (o Options) validate() error {
	if o.Page < 0 || o.Page > maxPage {
		return &tifferr.OutOfRange{Field: "page", Value: int64(o.Page)}
	}
	if o.N < 0 || o.N > maxN {
		return &tifferr.OutOfRange{Field: "n", Value: int64(o.N)}
	}
	if o.Subifd < NoSubifd {
		return &tifferr.OutOfRange{Field: "subifd", Value: int64(o.Subifd)}
	}
	if o.Subifd != NoSubifd && o.N > 1 {
		return &tifferr.Unsupported{Reason: "multi-page stitching with subifd selection"}
	}
	return nil
}
