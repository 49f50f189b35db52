package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/piwi3910/LotLayout/internal/geometry"
)

// ErrNegativeDimension is returned when a dimension value is below zero.
var ErrNegativeDimension = errors.New("dimension must not be negative")

// Dimension tag names, in the order they are usually written in a dimension file.
const (
	TagEntryWidthMin   = "ENTRY WIDTH MIN"
	TagClearanceMin    = "ENTRY CLEARANCE MIN"
	TagAngle0Width     = "ANGLE0 WIDTH"
	TagAngle0Length    = "ANGLE0 LENGTH"
	TagAngle0SpaceMin  = "ANGLE0 SPACE MIN"
	TagAngle90Width    = "ANGLE90 WIDTH"
	TagAngle90Depth    = "ANGLE90 DEPTH"
	TagAngle90SpaceMin = "ANGLE90 SPACE MIN"
	TagAngle60Width    = "ANGLE60 WIDTH"
	TagAngle60Depth    = "ANGLE60 DEPTH"
	TagAngle60SpaceMin = "ANGLE60 SPACE MIN"
)

// DimensionTags lists every required tag.
var DimensionTags = []string{
	TagEntryWidthMin, TagClearanceMin,
	TagAngle0Width, TagAngle0Length, TagAngle0SpaceMin,
	TagAngle90Width, TagAngle90Depth, TagAngle90SpaceMin,
	TagAngle60Width, TagAngle60Depth, TagAngle60SpaceMin,
}

// Dimensions holds the stall and access rules, all in metres.
type Dimensions struct {
	EntryWidthMin float64 `json:"entry_width_min"` // Narrowest allowed entrance or exit
	ClearanceMin  float64 `json:"clearance_min"`   // Gap kept between stalls and access edges

	Angle0Width    float64 `json:"angle0_width"`     // Parallel stall, across the kerb
	Angle0Length   float64 `json:"angle0_length"`    // Parallel stall, along the kerb
	Angle0SpaceMin float64 `json:"angle0_space_min"` // Aisle in front of parallel stalls

	Angle90Width    float64 `json:"angle90_width"`
	Angle90Depth    float64 `json:"angle90_depth"`
	Angle90SpaceMin float64 `json:"angle90_space_min"`

	Angle60Width    float64 `json:"angle60_width"`
	Angle60Depth    float64 `json:"angle60_depth"`
	Angle60SpaceMin float64 `json:"angle60_space_min"`
}

// DefaultDimensions returns typical values for a public car park.
func DefaultDimensions() Dimensions {
	return Dimensions{
		EntryWidthMin:   3.0,
		ClearanceMin:    1.0,
		Angle0Width:     2.5,
		Angle0Length:    6.0,
		Angle0SpaceMin:  3.5,
		Angle90Width:    2.5,
		Angle90Depth:    5.0,
		Angle90SpaceMin: 6.0,
		Angle60Width:    2.5,
		Angle60Depth:    5.5,
		Angle60SpaceMin: 4.5,
	}
}

// DimensionField pairs a tag with its current value.
type DimensionField struct {
	Tag   string  `json:"tag"`
	Value float64 `json:"value"`
}

func (d *Dimensions) field(tag string) *float64 {
	switch tag {
	case TagEntryWidthMin:
		return &d.EntryWidthMin
	case TagClearanceMin:
		return &d.ClearanceMin
	case TagAngle0Width:
		return &d.Angle0Width
	case TagAngle0Length:
		return &d.Angle0Length
	case TagAngle0SpaceMin:
		return &d.Angle0SpaceMin
	case TagAngle90Width:
		return &d.Angle90Width
	case TagAngle90Depth:
		return &d.Angle90Depth
	case TagAngle90SpaceMin:
		return &d.Angle90SpaceMin
	case TagAngle60Width:
		return &d.Angle60Width
	case TagAngle60Depth:
		return &d.Angle60Depth
	case TagAngle60SpaceMin:
		return &d.Angle60SpaceMin
	}
	return nil
}

// Set stores v under tag. It returns false for an unknown tag.
func (d *Dimensions) Set(tag string, v float64) bool {
	f := d.field(tag)
	if f == nil {
		return false
	}
	*f = v
	return true
}

// Lookup returns the value stored under tag.
func (d Dimensions) Lookup(tag string) (float64, bool) {
	f := d.field(tag)
	if f == nil {
		return 0, false
	}
	return *f, true
}

// Fields returns every tag with its value, in DimensionTags order.
func (d Dimensions) Fields() []DimensionField {
	out := make([]DimensionField, len(DimensionTags))
	for i, tag := range DimensionTags {
		v, _ := d.Lookup(tag)
		out[i] = DimensionField{Tag: tag, Value: v}
	}
	return out
}

// Validate returns ErrNegativeDimension naming the first negative field.
func (d Dimensions) Validate() error {
	for _, f := range d.Fields() {
		if f.Value < 0 || math.IsNaN(f.Value) {
			return fmt.Errorf("%w: %s = %g", ErrNegativeDimension, f.Tag, f.Value)
		}
	}
	return nil
}

// NewDimensions validates d and returns it.
func NewDimensions(d Dimensions) (Dimensions, error) {
	if err := d.Validate(); err != nil {
		return Dimensions{}, err
	}
	return d, nil
}

// Shear returns how far, in metres, an angled stall leans over its depth.
func (d Dimensions) Shear() float64 {
	return d.Angle60Depth / math.Tan(math.Pi/3)
}

// Footprint is the unrotated rectangle reserved for one stall, in pixels.
// StepX is how far the scan advances after placing a stall, StepY how far it
// advances after a row that placed at least one.
type Footprint struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	StepX  int     `json:"step_x"`
	StepY  int     `json:"step_y"`
	Shear  float64 `json:"shear"`
}

// Footprint derives the stall footprint for orientation o. The height
// includes the manoeuvring space; the 60° width includes the shear, which
// is taken back off the horizontal step so neighbouring stalls nest.
func (d Dimensions) Footprint(o Orientation) Footprint {
	var w, h, shear float64
	switch o.Normalize() {
	case Deg60:
		shear = d.Shear()
		w = shear + d.Angle60Width
		h = d.Angle60Depth + d.Angle60SpaceMin
	case Deg90:
		w = d.Angle90Width
		h = d.Angle90Depth + d.Angle90SpaceMin
	default:
		w = d.Angle0Length
		h = d.Angle0Width + d.Angle0SpaceMin
	}
	f := Footprint{
		Width:  geometry.ToPixels(w),
		Height: geometry.ToPixels(h),
		Shear:  geometry.ToPixels(shear),
	}
	f.StepX = int(f.Width)
	if f.Shear > 0 {
		f.StepX = int(float64(f.StepX) - f.Shear)
	}
	f.StepY = int(f.Height)
	return f
}

// Area returns the footprint area in square pixels.
func (f Footprint) Area() float64 {
	return f.Width * f.Height
}

// StallArea returns the area of one stall, manoeuvring space excluded, in
// square metres.
func (d Dimensions) StallArea(o Orientation) float64 {
	switch o.Normalize() {
	case Deg60:
		return d.Angle60Width * d.Angle60Depth
	case Deg90:
		return d.Angle90Width * d.Angle90Depth
	default:
		return d.Angle0Length * d.Angle0Width
	}
}
