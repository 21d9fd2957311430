// Package tifferr defines the typed error kinds this decoder raises (§7 of
// the design). Each kind is a distinct Go type so callers can discriminate
// with errors.As; causes from I/O or sub-decoders are attached with
// github.com/pkg/errors so the chain survives across package boundaries,
// mirroring how github.com/mdouchement/tiff's test harness wraps errors.
package tifferr

import (
	"fmt"

	"github.com/pkg/errors"
)

// MissingField reports that a required tag was absent and had no default.
type MissingField struct {
	Field string
}

func (e *MissingField) Error() string {
	return fmt.Sprintf("tiff: missing required field %q", e.Field)
}

// OutOfRange reports that a numeric field fell outside its sanity bounds.
type OutOfRange struct {
	Field string
	Value int64
}

func (e *OutOfRange) Error() string {
	return fmt.Sprintf("tiff: field %q out of range (got %d)", e.Field, e.Value)
}

// Unsupported reports a combination of fields this decoder cannot unpack.
type Unsupported struct {
	Reason string
}

func (e *Unsupported) Error() string {
	return fmt.Sprintf("tiff: unsupported: %s", e.Reason)
}

// SubifdOutOfRange reports a requested subifd index beyond subifd_count.
type SubifdOutOfRange struct {
	Requested, Count int
}

func (e *SubifdOutOfRange) Error() string {
	return fmt.Sprintf("tiff: subifd %d requested, only %d present", e.Requested, e.Count)
}

// BadColormap reports that the palette kernel was selected but the
// ColorMap tag is absent.
type BadColormap struct{}

func (e *BadColormap) Error() string { return "tiff: palette photometric but ColorMap tag missing" }

// PageMismatch reports that page k's header diverges from page 0 during
// multi-page verification.
type PageMismatch struct {
	Page   int
	Reason string
}

func (e *PageMismatch) Error() string {
	return fmt.Sprintf("tiff: page %d does not match page 0's geometry: %s", e.Page, e.Reason)
}

// OutOfOrderRead reports that the sequential strip generator was asked for
// a row other than its current watermark.
type OutOfOrderRead struct {
	Requested, Expected int
}

func (e *OutOfOrderRead) Error() string {
	return fmt.Sprintf("tiff: out-of-order strip read: requested row %d, expected %d", e.Requested, e.Expected)
}

// AlreadyFailed reports that a prior read on this Image already failed;
// per the sticky-failure discipline, every call after the first failure
// returns this without touching the container again.
type AlreadyFailed struct{}

func (e *AlreadyFailed) Error() string { return "tiff: image already failed on a prior read" }

// DecodeError reports that the container or a sub-decoder (JPEG/JPEG-2000)
// failed to produce pixels.
type DecodeError struct {
	Cause error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("tiff: decode failed: %v", e.Cause) }
func (e *DecodeError) Unwrap() error { return e.Cause }

// ReadError reports an I/O failure from the underlying source.
type ReadError struct {
	Cause error
}

func (e *ReadError) Error() string { return fmt.Sprintf("tiff: read failed: %v", e.Cause) }
func (e *ReadError) Unwrap() error { return e.Cause }

// WrapRead wraps a raw I/O error as a ReadError with a contextual message.
func WrapRead(err error, context string) error {
	if err == nil {
		return nil
	}
	return &ReadError{Cause: errors.Wrap(err, context)}
}

// WrapDecode wraps a sub-decoder failure as a DecodeError with a contextual message.
func WrapDecode(err error, context string) error {
	if err == nil {
		return nil
	}
	return &DecodeError{Cause: errors.Wrap(err, context)}
}
