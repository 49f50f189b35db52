package geometry

// Outcode bits describing where a point lies relative to a rectangle.
const (
	outLeft   = 1
	outTop    = 2
	outRight  = 4
	outBottom = 8
)

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.W }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.H }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Corners returns the top-left, top-right, bottom-left and bottom-right corners.
func (r Rect) Corners() [4]Point {
	return [4]Point{
		{X: r.X, Y: r.Y},
		{X: r.MaxX(), Y: r.Y},
		{X: r.X, Y: r.MaxY()},
		{X: r.MaxX(), Y: r.MaxY()},
	}
}

// Contains reports whether p lies inside the half-open rectangle
// [X, X+W) x [Y, Y+H).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X < r.MaxX() && p.Y < r.MaxY()
}

// ExpandTopLeft grows the rectangle by d on its top and left sides only.
// The bottom and right edges stay where they were.
func (r Rect) ExpandTopLeft(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, W: r.W + d, H: r.H + d}
}

// Expand grows the rectangle by d on every side.
func (r Rect) Expand(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, W: r.W + 2*d, H: r.H + 2*d}
}

// Overlaps reports whether two rectangles share interior area. Rectangles that
// only touch along an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.MaxX() && o.X < r.MaxX() &&
		r.Y < o.MaxY() && o.Y < r.MaxY()
}

// outcode classifies p against the closed rectangle. A rectangle with no
// width (or height) reports every point as outside on both horizontal (or
// vertical) sides.
func (r Rect) outcode(x, y float64) int {
	out := 0
	if r.W <= 0 {
		out |= outLeft | outRight
	} else if x < r.X {
		out |= outLeft
	} else if x > r.MaxX() {
		out |= outRight
	}
	if r.H <= 0 {
		out |= outTop | outBottom
	} else if y < r.Y {
		out |= outTop
	} else if y > r.MaxY() {
		out |= outBottom
	}
	return out
}

// IntersectsSegment reports whether the segment crosses or touches the closed
// rectangle, including its interior. The first endpoint is clipped toward the
// rectangle one side at a time until it is either inside or both endpoints are
// known to be outside on a common side.
func (r Rect) IntersectsSegment(s Segment) bool {
	x1, y1 := s.A.X, s.A.Y
	x2, y2 := s.B.X, s.B.Y

	out2 := r.outcode(x2, y2)
	if out2 == 0 {
		return true
	}
	for {
		out1 := r.outcode(x1, y1)
		if out1 == 0 {
			return true
		}
		if out1&out2 != 0 {
			return false
		}
		if out1&(outLeft|outRight) != 0 {
			x := r.X
			if out1&outRight != 0 {
				x += r.W
			}
			y1 = y1 + (x-x1)*(y2-y1)/(x2-x1)
			x1 = x
		} else {
			y := r.Y
			if out1&outBottom != 0 {
				y += r.H
			}
			x1 = x1 + (y-y1)*(x2-x1)/(y2-y1)
			y1 = y
		}
	}
}
