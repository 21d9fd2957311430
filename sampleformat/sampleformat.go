// Package sampleformat defines the TIFF SampleFormat tag values (tag 339),
// following the sibling enum packages (tifftag, photometric, compression,
// planarconfig) in layout and style.
package sampleformat

import "fmt"

// Type represents the TIFF SampleFormat field (tag 339).
type Type int

const (
	// Unknown indicates the tag was absent; callers should coerce to UInt.
	Unknown Type = -1

	// UInt (1) is unsigned integer data. This is also the default when the
	// tag is absent, and VOID (4) is coerced to it.
	UInt Type = 1

	// Int (2) is two's-complement signed integer data.
	Int Type = 2

	// IEEEFP (3) is IEEE-754 floating point data.
	IEEEFP Type = 3

	// ComplexIEEEFP (6) is complex IEEE-754 floating point data (paired real/imaginary).
	ComplexIEEEFP Type = 6

	// Void (4) is untyped data; this decoder coerces it to UInt.
	Void Type = 4
)

// Normalize coerces VOID and an absent/unknown tag to UInt, matching the
// TIFF 6.0 baseline reader behavior this decoder follows.
func (t Type) Normalize() Type {
	switch t {
	case Void, Unknown:
		return UInt
	default:
		return t
	}
}

// String returns a human-readable name for the sample format.
func (t Type) String() string {
	switch t {
	case Unknown:
		return "Unknown"
	case UInt:
		return "UInt"
	case Int:
		return "Int"
	case IEEEFP:
		return "IEEEFP"
	case ComplexIEEEFP:
		return "ComplexIEEEFP"
	case Void:
		return "Void"
	default:
		return fmt.Sprintf("SampleFormat(%d)", int(t))
	}
}
