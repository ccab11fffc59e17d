package domain

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// BytesPerKiB is the number of bytes in one kibibyte
const BytesPerKiB = 1024

// SizeUnit selects how a size is displayed
type SizeUnit int

const (
	SizeUnitBytes SizeUnit = iota
	SizeUnitKibibytes
)

// String returns the unit label used in headers and machine output
func (u SizeUnit) String() string {
	switch u {
	case SizeUnitBytes:
		return "bytes"
	case SizeUnitKibibytes:
		return "KiB"
	default:
		return "unknown"
	}
}

// IsValid reports whether u is one of the recognized units
func (u SizeUnit) IsValid() bool {
	return u == SizeUnitBytes || u == SizeUnitKibibytes
}

// UnitFor maps the size_in_bytes option to a display unit
func UnitFor(sizeInBytes bool) SizeUnit {
	if sizeInBytes {
		return SizeUnitBytes
	}
	return SizeUnitKibibytes
}

// SizeValue is an immutable byte count paired with a display unit.
// The count is always held in bytes; the unit only affects presentation.
type SizeValue struct {
	bytes int64
	unit  SizeUnit
}

// NewSizeValue creates a size from a byte count
func NewSizeValue(bytes int64, unit SizeUnit) (SizeValue, error) {
	if !unit.IsValid() {
		return SizeValue{}, NewInvalidUnitError(unit)
	}
	if bytes < 0 {
		return SizeValue{}, NewValidationError("size cannot be negative")
	}
	return SizeValue{bytes: bytes, unit: unit}, nil
}

// Bytes returns the canonical byte count
func (v SizeValue) Bytes() int64 {
	return v.bytes
}

// KiB returns the size in kibibytes without rounding
func (v SizeValue) KiB() float64 {
	return float64(v.bytes) / BytesPerKiB
}

// Unit returns the display unit
func (v SizeValue) Unit() SizeUnit {
	return v.unit
}

// Value returns the size expressed in its display unit
func (v SizeValue) Value() float64 {
	if v.unit == SizeUnitBytes {
		return float64(v.bytes)
	}
	return v.KiB()
}

// Add returns the sum of two sizes, keeping the receiver's unit
func (v SizeValue) Add(other SizeValue) SizeValue {
	return SizeValue{bytes: v.bytes + other.bytes, unit: v.unit}
}

// Formatted renders the size with thousands separators: whole bytes, or KiB
// rounded to two decimals.
func (v SizeValue) Formatted() string {
	return formatSize(v.bytes, v.unit, false)
}

// FormatDelta renders a signed byte difference in the given unit, e.g. "+1,024"
// or "-0.50". A zero delta renders without a sign.
func FormatDelta(deltaBytes int64, unit SizeUnit) string {
	return formatSize(deltaBytes, unit, true)
}

func formatSize(bytes int64, unit SizeUnit, signed bool) string {
	p := message.NewPrinter(language.English)
	sign := ""
	if signed && bytes > 0 {
		sign = "+"
	}
	if unit == SizeUnitBytes {
		return sign + p.Sprintf("%d", bytes)
	}
	return sign + p.Sprintf("%.2f", float64(bytes)/BytesPerKiB)
}
