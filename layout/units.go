package layout

import (
	"strconv"
	"strings"
)

// This file defines unit-safe lengths used by scene scripts. Layout itself always works in
// surface pixels at 96 dpi.

// Unit represents the original unit of a length value as written in a script.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers, treated as pixels for absolute lengths
	UnitPX               // pixels
	UnitPT               // points
	UnitMM               // millimeters
	UnitIN               // inches
)

// Conversion constants to pixels.
const (
	PxPerIn = 96.0
	PxPerPt = PxPerIn / 72.0
	PxPerMM = PxPerIn / 25.4
)

// String returns the short suffix for a Unit value.
func (u Unit) String() string {
	switch u {
	case UnitPX:
		return "px"
	case UnitPT:
		return "pt"
	case UnitMM:
		return "mm"
	case UnitIN:
		return "in"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// Px converts the length to pixels.
func (l Length) Px() float64 {
	switch l.Unit {
	case UnitPT:
		return l.Value * PxPerPt
	case UnitMM:
		return l.Value * PxPerMM
	case UnitIN:
		return l.Value * PxPerIn
	default:
		return l.Value
	}
}

// Pt converts the length to points.
func (l Length) Pt() float64 { return l.Px() / PxPerPt }

var unitSuffixes = []struct {
	s string
	u Unit
}{{"px", UnitPX}, {"pt", UnitPT}, {"mm", UnitMM}, {"in", UnitIN}}

// ParseLength parses "12pt", "50px", "3mm" or a bare number.
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	unit := UnitNone
	for _, suf := range unitSuffixes {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			v = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return Length{}, err
	}
	return Length{Value: f, Unit: unit}, nil
}

// LineHeightKind distinguishes factor-based vs absolute line-height specification.
type LineHeightKind int

const (
	LineHeightAbsolute LineHeightKind = iota
	LineHeightFactor
)

// LineHeightSpec is either a factor of the font size (e.g. 1.5x) or an absolute length (e.g. 24px).
type LineHeightSpec struct {
	Kind   LineHeightKind `json:"kind"`
	Factor float64        `json:"factor,omitempty"`
	Len    Length         `json:"len,omitempty"`
}

// ParseLineHeight accepts "1.5x" or any value ParseLength accepts.
func ParseLineHeight(value string) (LineHeightSpec, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if f, ok := strings.CutSuffix(v, "x"); ok {
		factor, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return LineHeightSpec{}, err
		}
		return LineHeightSpec{Kind: LineHeightFactor, Factor: factor}, nil
	}
	l, err := ParseLength(v)
	if err != nil {
		return LineHeightSpec{}, err
	}
	return LineHeightSpec{Kind: LineHeightAbsolute, Len: l}, nil
}

// Resolve computes the line height in pixels for the given font size.
func (s LineHeightSpec) Resolve(fontSize Length) float64 {
	switch s.Kind {
	case LineHeightFactor:
		return fontSize.Px() * s.Factor
	default:
		return s.Len.Px()
	}
}
