package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Orientation is the stall angle relative to the aisle, in degrees.
type Orientation int

const (
	Deg0  Orientation = 0  // Parallel parking
	Deg60 Orientation = 60 // Angled parking
	Deg90 Orientation = 90 // Perpendicular parking
)

// Orientations lists the supported angles in ascending order.
var Orientations = []Orientation{Deg0, Deg60, Deg90}

// Normalize maps any unsupported angle to Deg0.
func (o Orientation) Normalize() Orientation {
	switch o {
	case Deg60, Deg90:
		return o
	default:
		return Deg0
	}
}

func (o Orientation) String() string {
	return fmt.Sprintf("%d°", int(o.Normalize()))
}

// ParseOrientation accepts "0", "60", "90", optionally suffixed with "°",
// "deg" or "degrees".
func ParseOrientation(s string) (Orientation, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, suffix := range []string{"degrees", "deg", "°"} {
		v = strings.TrimSuffix(v, suffix)
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return Deg0, fmt.Errorf("invalid orientation %q: %w", s, err)
	}
	o := Orientation(n)
	if o.Normalize() != o {
		return Deg0, fmt.Errorf("unsupported orientation %d, use 0, 60 or 90", n)
	}
	return o, nil
}
