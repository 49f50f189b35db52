package model

import (
	"errors"
	"math"
	"testing"

	"github.com/piwi3910/LotLayout/internal/geometry"
)

func TestDimensions_SetLookupFields(t *testing.T) {
	var d Dimensions
	for i, tag := range DimensionTags {
		if !d.Set(tag, float64(i+1)) {
			t.Fatalf("Set(%q) returned false", tag)
		}
	}
	if d.Set("ANGLE45 WIDTH", 1) {
		t.Error("expected unknown tag to be rejected")
	}

	fields := d.Fields()
	if len(fields) != 11 {
		t.Fatalf("expected 11 fields, got %d", len(fields))
	}
	for i, f := range fields {
		if f.Tag != DimensionTags[i] || f.Value != float64(i+1) {
			t.Errorf("field %d: got %s=%g", i, f.Tag, f.Value)
		}
	}
	if d.Angle60SpaceMin != 11 {
		t.Errorf("expected ANGLE60 SPACE MIN to map to Angle60SpaceMin, got %g", d.Angle60SpaceMin)
	}
}

func TestDimensions_Validate(t *testing.T) {
	if err := DefaultDimensions().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	d := DefaultDimensions()
	d.Angle90Depth = -0.5
	_, err := NewDimensions(d)
	if !errors.Is(err, ErrNegativeDimension) {
		t.Fatalf("expected ErrNegativeDimension, got %v", err)
	}

	zero := Dimensions{}
	if _, err := NewDimensions(zero); err != nil {
		t.Errorf("all-zero dimensions are non-negative: %v", err)
	}
}

func TestFootprint_Angle0(t *testing.T) {
	d := Dimensions{Angle0Length: 2, Angle0Width: 2, Angle0SpaceMin: 1}
	f := d.Footprint(Deg0)
	if f.Width != 50 || f.Height != 75 {
		t.Errorf("expected 50x75, got %gx%g", f.Width, f.Height)
	}
	if f.StepX != 50 || f.StepY != 75 {
		t.Errorf("expected steps 50/75, got %d/%d", f.StepX, f.StepY)
	}
	if f.Shear != 0 {
		t.Errorf("expected no shear, got %g", f.Shear)
	}
}

func TestFootprint_Angle90(t *testing.T) {
	d := Dimensions{Angle90Width: 2.5, Angle90Depth: 5, Angle90SpaceMin: 6}
	f := d.Footprint(Deg90)
	if f.Width != 62.5 || f.Height != 275 {
		t.Errorf("expected 62.5x275, got %gx%g", f.Width, f.Height)
	}
	if f.StepX != 62 {
		t.Errorf("expected step truncated to 62, got %d", f.StepX)
	}
}

func TestFootprint_Angle60StepRemovesShear(t *testing.T) {
	d := Dimensions{Angle60Width: 2.5, Angle60Depth: 5, Angle60SpaceMin: 1}
	f := d.Footprint(Deg60)

	shear := 5 / math.Tan(math.Pi/3) * geometry.PixelsPerMetre
	if math.Abs(f.Shear-shear) > 1e-9 {
		t.Errorf("expected shear %g px, got %g", shear, f.Shear)
	}
	if math.Abs(f.Width-(shear+62.5)) > 1e-9 {
		t.Errorf("expected raw width %g, got %g", shear+62.5, f.Width)
	}
	if f.Height != 150 {
		t.Errorf("expected height 150, got %g", f.Height)
	}
	// int(134.67) = 134, then int(134 - 72.17) = 61.
	if f.StepX != 61 {
		t.Errorf("expected horizontal step 61, got %d", f.StepX)
	}
	if f.StepX == int(f.Width) {
		t.Error("angled step must be narrower than the raw footprint width")
	}
}

func TestFootprint_UnknownOrientationFallsBackToAngle0(t *testing.T) {
	d := DefaultDimensions()
	if d.Footprint(Orientation(45)) != d.Footprint(Deg0) {
		t.Error("expected unknown orientation to use the 0° footprint")
	}
}

func TestStallArea(t *testing.T) {
	d := DefaultDimensions()
	if got := d.StallArea(Deg90); got != 12.5 {
		t.Errorf("expected 12.5 m², got %g", got)
	}
	if got := d.StallArea(Deg0); got != 15 {
		t.Errorf("expected 15 m², got %g", got)
	}
}

func TestParseOrientation(t *testing.T) {
	tests := []struct {
		in      string
		want    Orientation
		wantErr bool
	}{
		{"0", Deg0, false},
		{"60", Deg60, false},
		{" 90deg", Deg90, false},
		{"60°", Deg60, false},
		{"90 degrees", Deg90, false},
		{"45", Deg0, true},
		{"steep", Deg0, true},
	}
	for _, tt := range tests {
		got, err := ParseOrientation(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOrientation(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOrientation(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOrientation_Normalize(t *testing.T) {
	if Orientation(30).Normalize() != Deg0 {
		t.Error("expected 30 to normalise to 0")
	}
	if Deg60.String() != "60°" {
		t.Errorf("unexpected string %q", Deg60.String())
	}
	if Orientation(120).String() != "0°" {
		t.Errorf("unexpected string %q", Orientation(120).String())
	}
}
