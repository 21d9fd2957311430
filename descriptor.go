package tiffcore

import "github.com/coretiff/tiffcore/directory"

// ImageDescriptor is read_header's result (spec §6): every metadata field a
// caller needs before deciding whether, and how, to pull pixels, with no
// pixel buffer allocated yet.
type ImageDescriptor struct {
	Width, Height int
	Tiled         bool

	SamplesPerPixel int
	BitsPerSample   int
	Orientation     int
	OrientationRaw  int

	NPages     int
	NSubifds   int
	PageHeight int // single-page height when stitching N>1 pages

	ResolutionUnit           directory.ResolutionUnit
	ResolutionPixelsPerMM    [2]float64
	ResolutionPixelsPerMMErr error // set if ResolutionUnit is unrecognized

	ImageDescription string
	ICCProfile       []byte
	XMPPacket        []byte
	IPTCBlock        []byte
	// IPTCBlockLegacy is the same bytes as IPTCBlock, attached under the
	// historical misspelled tag name for compatibility (spec §6, §9).
	IPTCBlockLegacy []byte
	Photoshop       []byte

	// Stonits is the LOGLUV calibration constant, 1.0 for non-LOGLUV images.
	Stonits float64

	header *directory.Header
}

// Header exposes the full decoded header, for callers that need fields
// ImageDescriptor doesn't surface individually (ColorMap, chroma
// subsampling, ExtraSamples classification, and so on).
func (d *ImageDescriptor) Header() *directory.Header { return d.header }

func newDescriptor(h *directory.Header, nPages, nSubifds, stitchedRows int) *ImageDescriptor {
	ppmmX, ppmmY, err := h.ResolutionPixelsPerMM()
	d := &ImageDescriptor{
		Width:                    h.Width,
		Height:                   stitchedRows,
		Tiled:                    h.Tiled,
		SamplesPerPixel:          h.SamplesPerPixel,
		BitsPerSample:            h.BitsPerSample0(),
		Orientation:              h.Orientation,
		OrientationRaw:           h.OrientationRaw,
		NPages:                   nPages,
		NSubifds:                 nSubifds,
		PageHeight:               h.Height,
		ResolutionUnit:           h.ResolutionUnit,
		ResolutionPixelsPerMM:    [2]float64{ppmmX, ppmmY},
		ResolutionPixelsPerMMErr: err,
		ImageDescription:         h.ImageDescription,
		ICCProfile:               h.ICCProfile,
		XMPPacket:                h.XMPPacket,
		IPTCBlock:                h.IPTCBlock,
		IPTCBlockLegacy:          h.IPTCBlock,
		Photoshop:                h.Photoshop,
		Stonits:                  h.Stonits,
		header:                   h,
	}
	return d
}
