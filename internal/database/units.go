package database

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnitConversion is returned when values cannot be converted between two
// units of measure.
var ErrUnitConversion = errors.New("unsupported unit conversion")

// unit is an affine map onto the base unit of its dimension:
// base = value*scale + offset.
type unit struct {
	dimension     string
	scale, offset float64
}

var units = map[string]unit{
	"degc": {"temperature", 1, 0},
	"degf": {"temperature", 5.0 / 9, -32 * 5.0 / 9},
	"k":    {"temperature", 1, -273.15},

	"pa":   {"pressure", 1, 0},
	"kpa":  {"pressure", 1e3, 0},
	"bar":  {"pressure", 1e5, 0},
	"mbar": {"pressure", 1e2, 0},
	"psi":  {"pressure", 6894.757293168, 0},

	"m3/s":  {"volume flow", 1, 0},
	"m3/h":  {"volume flow", 1.0 / 3600, 0},
	"l/s":   {"volume flow", 1e-3, 0},
	"l/min": {"volume flow", 1e-3 / 60, 0},

	"kg/s": {"mass flow", 1, 0},
	"kg/h": {"mass flow", 1.0 / 3600, 0},
	"t/h":  {"mass flow", 1.0 / 3.6, 0},

	"w":  {"power", 1, 0},
	"kw": {"power", 1e3, 0},
	"mw": {"power", 1e6, 0},

	"%":        {"ratio", 1, 0},
	"fraction": {"ratio", 100, 0},
}

// conversion maps values from one unit onto another. The zero value is the
// identity.
type conversion struct {
	scale, offset float64
	set           bool
}

func newConversion(from, to string) (conversion, error) {
	f, t := strings.ToLower(strings.TrimSpace(from)), strings.ToLower(strings.TrimSpace(to))
	if f == t || f == "" || t == "" {
		return conversion{}, nil
	}
	uf, okf := units[f]
	ut, okt := units[t]
	if !okf || !okt || uf.dimension != ut.dimension {
		return conversion{}, fmt.Errorf("%w: %s to %s", ErrUnitConversion, from, to)
	}
	// to = (from*sf + of - ot) / st
	return conversion{
		scale:  uf.scale / ut.scale,
		offset: (uf.offset - ut.offset) / ut.scale,
		set:    true,
	}, nil
}

func (c conversion) identity() bool { return !c.set }

func (c conversion) apply(v float64) float64 {
	if !c.set {
		return v
	}
	return v*c.scale + c.offset
}

func (c conversion) invert(v float64) float64 {
	if !c.set {
		return v
	}
	return (v - c.offset) / c.scale
}
