package geometry

import "math"

// Segment is a straight line between two points.
type Segment struct {
	A Point `json:"a"`
	B Point `json:"b"`
}

// Seg is shorthand for a segment between (x1, y1) and (x2, y2).
func Seg(x1, y1, x2, y2 float64) Segment {
	return Segment{A: Point{X: x1, Y: y1}, B: Point{X: x2, Y: y2}}
}

// Length returns the Euclidean length of the segment.
func (s Segment) Length() float64 {
	return s.A.Coord().Minus(s.B.Coord()).Magnitude()
}

// DistanceTo returns the minimum distance from p to any point of the segment.
func (s Segment) DistanceTo(p Point) float64 {
	d := s.B.Coord().Minus(s.A.Coord())
	v := p.Coord().Minus(s.A.Coord())

	dot := v.X*d.X + v.Y*d.Y
	var projSq float64
	if dot > 0 {
		v = d.Minus(v)
		dot = v.X*d.X + v.Y*d.Y
		if dot > 0 {
			projSq = dot * dot / (d.X*d.X + d.Y*d.Y)
		}
	}
	lenSq := v.X*v.X + v.Y*v.Y - projSq
	if lenSq < 0 {
		return 0
	}
	return math.Sqrt(lenSq)
}

// Intersects reports whether two segments cross or touch, including collinear
// overlap.
func (s Segment) Intersects(o Segment) bool {
	return relativeCCW(s.A, s.B, o.A)*relativeCCW(s.A, s.B, o.B) <= 0 &&
		relativeCCW(o.A, o.B, s.A)*relativeCCW(o.A, o.B, s.B) <= 0
}

// IntersectsRect reports whether the segment crosses or touches r.
func (s Segment) IntersectsRect(r Rect) bool {
	return r.IntersectsSegment(s)
}

// relativeCCW returns -1, 0 or 1 depending on which side of the directed line
// a->b the point p lies. Collinear points beyond either end of the segment get
// a non-zero result so that disjoint collinear segments do not intersect.
func relativeCCW(a, b, p Point) int {
	x2, y2 := b.X-a.X, b.Y-a.Y
	px, py := p.X-a.X, p.Y-a.Y
	ccw := px*y2 - py*x2
	if ccw == 0 {
		ccw = px*x2 + py*y2
		if ccw > 0 {
			px -= x2
			py -= y2
			ccw = px*x2 + py*y2
			if ccw < 0 {
				ccw = 0
			}
		}
	}
	switch {
	case ccw < 0:
		return -1
	case ccw > 0:
		return 1
	default:
		return 0
	}
}
