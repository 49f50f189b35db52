package engine

import (
	"fmt"

	"github.com/dhconnelly/rtreego"
	"github.com/piwi3910/LotLayout/internal/geometry"
	"github.com/piwi3910/LotLayout/internal/model"
)

// ViolationKind classifies a rule broken by a placed stall.
type ViolationKind string

const (
	ViolationOutside   ViolationKind = "outside"   // A corner lies outside the boundary polygon
	ViolationContact   ViolationKind = "contact"   // A boundary segment touches the stall
	ViolationClearance ViolationKind = "clearance" // An access segment is inside the clearance margin
	ViolationOverlap   ViolationKind = "overlap"   // Two stalls claim the same space
)

// Violation describes one broken rule.
type Violation struct {
	Kind    ViolationKind `json:"kind"`
	Index   int           `json:"index"`           // Placement index
	Other   int           `json:"other,omitempty"` // Segment index, or the other placement for overlaps
	Message string        `json:"message"`
}

func (v Violation) String() string {
	return v.Message
}

// slot is the integer scan cell claimed by a placement. Adjacent footprints
// with a fractional width share less than a pixel, so overlaps are judged on
// slots rather than on raw footprints.
type slot struct {
	index  int
	rect   geometry.Rect
	bounds rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (s *slot) Bounds() rtreego.Rect {
	return s.bounds
}

func newSlot(i int, r geometry.Rect) (*slot, error) {
	bounds, err := rtreego.NewRect(rtreego.Point{r.X, r.Y}, []float64{r.W, r.H})
	if err != nil {
		return nil, err
	}
	return &slot{index: i, rect: r, bounds: bounds}, nil
}

// Audit re-checks a layout against b and the planner's dimensions: every
// stall must be inside the polygon, untouched by the boundary, clear of
// access segments, and must not overlap another stall.
func (p *Planner) Audit(layout model.Layout, b *model.Boundary) []Violation {
	snap := b.Snapshot()
	s := scan{
		poly:      snap.Polygon(),
		segments:  snap.Segments(),
		clearance: geometry.ToPixels(p.Dimensions.ClearanceMin),
		mode:      p.clearanceMode(),
	}
	f := layout.Footprint

	var out []Violation
	for i, pl := range layout.Placements {
		r := pl.Rect(f)
		for _, c := range r.Corners() {
			if !s.poly.Contains(c) {
				out = append(out, Violation{
					Kind:    ViolationOutside,
					Index:   i,
					Message: fmt.Sprintf("stall %d: corner (%g, %g) is outside the boundary", i, c.X, c.Y),
				})
				break
			}
		}
		cr := clearanceRect(r, s.clearance, s.mode)
		for si, seg := range s.segments {
			switch {
			case seg.IntersectsRect(r):
				out = append(out, Violation{
					Kind:    ViolationContact,
					Index:   i,
					Other:   si,
					Message: fmt.Sprintf("stall %d touches %s segment %d", i, seg.Type, si),
				})
			case seg.Type != model.EdgeBorder && seg.IntersectsRect(cr):
				out = append(out, Violation{
					Kind:    ViolationClearance,
					Index:   i,
					Other:   si,
					Message: fmt.Sprintf("stall %d is within the clearance of %s segment %d", i, seg.Type, si),
				})
			}
		}
	}
	return append(out, overlaps(layout)...)
}

// Audit checks layout with a planner built from dims.
func Audit(layout model.Layout, b *model.Boundary, dims model.Dimensions) []Violation {
	p := New(dims)
	p.Clearance = layout.Clearance
	return p.Audit(layout, b)
}

// overlaps indexes every placement slot in an R-tree and reports each pair
// whose interiors intersect, once, lower index first.
func overlaps(layout model.Layout) []Violation {
	f := layout.Footprint
	w, h := float64(f.StepX), float64(f.StepY)
	if w <= 0 || h <= 0 {
		return nil
	}

	tree := rtreego.NewTree(2, 25, 50)
	slots := make([]*slot, 0, len(layout.Placements))
	for i, pl := range layout.Placements {
		sl, err := newSlot(i, geometry.Rect{X: pl.Position.X, Y: pl.Position.Y, W: w, H: h})
		if err != nil {
			continue
		}
		tree.Insert(sl)
		slots = append(slots, sl)
	}

	var out []Violation
	for _, sl := range slots {
		for _, hit := range tree.SearchIntersect(sl.bounds) {
			other := hit.(*slot)
			if other.index <= sl.index || !sl.rect.Overlaps(other.rect) {
				continue
			}
			out = append(out, Violation{
				Kind:    ViolationOverlap,
				Index:   sl.index,
				Other:   other.index,
				Message: fmt.Sprintf("stalls %d and %d overlap", sl.index, other.index),
			})
		}
	}
	return out
}
