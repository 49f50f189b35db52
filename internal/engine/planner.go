package engine

import (
	"github.com/piwi3910/LotLayout/internal/geometry"
	"github.com/piwi3910/LotLayout/internal/model"
)

// Planner fills a car park boundary with stalls using a greedy scan.
type Planner struct {
	Dimensions model.Dimensions
	Clearance  model.ClearanceMode
}

func New(dims model.Dimensions) *Planner {
	return &Planner{Dimensions: dims, Clearance: model.ClearanceTopLeft}
}

// Generate places stalls of orientation o inside b and returns them in scan
// order. The boundary must already be closed and carry an entrance and an
// exit; see model.ValidateBoundary.
func Generate(b *model.Boundary, dims model.Dimensions, o model.Orientation) []model.Placement {
	return New(dims).Plan(b, o).Placements
}

// Plan runs the scan for orientation o over a snapshot of b.
//
// Rows are scanned top to bottom and each row left to right, starting one
// pixel inside the polygon's bounding box. A valid candidate is recorded and
// the scan jumps ahead by the footprint step; an invalid one moves on by one
// pixel. A row that placed anything gives up its last stall and the scan
// drops by the footprint height, otherwise by one pixel.
func (p *Planner) Plan(b *model.Boundary, o model.Orientation) model.Layout {
	o = o.Normalize()
	snap := b.Snapshot()
	f := p.Dimensions.Footprint(o)

	layout := model.NewLayout(o, f, nil)
	layout.Clearance = p.clearanceMode()
	if f.Width <= 0 || f.Height <= 0 {
		return layout
	}

	s := scan{
		poly:      snap.Polygon(),
		segments:  snap.Segments(),
		clearance: geometry.ToPixels(p.Dimensions.ClearanceMin),
		mode:      layout.Clearance,
	}
	bounds := s.poly.Bounds()
	stepX := max(f.StepX, 1)
	stepY := max(f.StepY, 1)

	var placements []model.Placement
	ymove := 1
	for i := 1; float64(i) < bounds.H; i += ymove {
		placed := false
		xmove := 1
		for j := 1; float64(j) < bounds.W; j += xmove {
			pos := geometry.Pt(bounds.X+float64(j), bounds.Y+float64(i))
			r := geometry.Rect{X: pos.X, Y: pos.Y, W: f.Width, H: f.Height}
			if s.fits(r) {
				placements = append(placements, model.Placement{Position: pos})
				xmove = stepX
				placed = true
			} else {
				xmove = 1
			}
		}
		if placed {
			placements = placements[:len(placements)-1]
			ymove = stepY
		} else {
			ymove = 1
		}
	}

	if placements != nil {
		layout.Placements = placements
	}
	return layout
}

func (p *Planner) clearanceMode() model.ClearanceMode {
	if p.Clearance == model.ClearanceSymmetric {
		return model.ClearanceSymmetric
	}
	return model.ClearanceTopLeft
}

// scan holds the read-only state shared by every candidate of one run.
type scan struct {
	poly      geometry.Polygon
	segments  []model.BoundarySegment
	clearance float64
	mode      model.ClearanceMode
}

// fits reports whether a stall at r is inside the polygon, touches no
// boundary segment, and keeps its clearance from every non-border segment.
func (s *scan) fits(r geometry.Rect) bool {
	if !s.poly.ContainsRect(r) {
		return false
	}
	cr := clearanceRect(r, s.clearance, s.mode)
	for _, seg := range s.segments {
		if seg.IntersectsRect(r) {
			return false
		}
		if seg.Type != model.EdgeBorder && seg.IntersectsRect(cr) {
			return false
		}
	}
	return true
}

// clearanceRect grows r by d according to mode.
func clearanceRect(r geometry.Rect, d float64, mode model.ClearanceMode) geometry.Rect {
	if mode == model.ClearanceSymmetric {
		return r.Expand(d)
	}
	return r.ExpandTopLeft(d)
}
