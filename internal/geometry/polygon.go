package geometry

import (
	"math"

	"github.com/jbeda/geom"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Polygon is a closed polygon on the integer pixel lattice. Vertices are
// truncated to integers when the polygon is built, and the last vertex
// implicitly connects back to the first.
type Polygon struct {
	xs []int
	ys []int
}

// NewPolygon builds a polygon from the given vertices.
func NewPolygon(points []Point) Polygon {
	p := Polygon{
		xs: make([]int, len(points)),
		ys: make([]int, len(points)),
	}
	for i, pt := range points {
		p.xs[i] = int(pt.X)
		p.ys[i] = int(pt.Y)
	}
	return p
}

// Len returns the number of vertices.
func (p Polygon) Len() int { return len(p.xs) }

// Vertices returns the polygon's vertices.
func (p Polygon) Vertices() []Point {
	pts := make([]Point, len(p.xs))
	for i := range p.xs {
		pts[i] = Point{X: float64(p.xs[i]), Y: float64(p.ys[i])}
	}
	return pts
}

// Bounds returns the smallest integer rectangle enclosing every vertex.
// An empty polygon has empty bounds at the origin.
func (p Polygon) Bounds() Rect {
	if len(p.xs) == 0 {
		return Rect{}
	}
	minX, minY := p.xs[0], p.ys[0]
	maxX, maxY := minX, minY
	for i := 1; i < len(p.xs); i++ {
		minX = min(minX, p.xs[i])
		maxX = max(maxX, p.xs[i])
		minY = min(minY, p.ys[i])
		maxY = max(maxY, p.ys[i])
	}
	return Rect{
		X: float64(minX),
		Y: float64(minY),
		W: float64(maxX - minX),
		H: float64(maxY - minY),
	}
}

// Extent returns the bounds as a geom.Rect.
func (p Polygon) Extent() geom.Rect {
	b := p.Bounds()
	return geom.Rect{
		Min: geom.Coord{X: b.X, Y: b.Y},
		Max: geom.Coord{X: b.MaxX(), Y: b.MaxY()},
	}
}

// Contains reports whether (x, y) is inside the polygon using the even-odd
// rule. Insideness on the boundary follows the usual scan-line fill
// convention: a point on a left or top edge is inside, a point on a right or
// bottom edge is not. Points outside the half-open bounds are never inside.
func (p Polygon) Contains(pt Point) bool {
	n := len(p.xs)
	if n <= 2 || !p.Bounds().Contains(pt) {
		return false
	}
	x, y := pt.X, pt.Y
	hits := 0
	lastx, lasty := p.xs[n-1], p.ys[n-1]
	for i := 0; i < n; i++ {
		curx, cury := p.xs[i], p.ys[i]
		hit := crosses(x, y, curx, cury, lastx, lasty)
		lastx, lasty = curx, cury
		if hit {
			hits++
		}
	}
	return hits&1 != 0
}

// crosses reports whether a ray cast from (x, y) toward negative x crosses
// the edge from (lastx, lasty) to (curx, cury).
func crosses(x, y float64, curx, cury, lastx, lasty int) bool {
	if cury == lasty {
		return false
	}
	var leftx int
	if curx < lastx {
		if x >= float64(lastx) {
			return false
		}
		leftx = curx
	} else {
		if x >= float64(curx) {
			return false
		}
		leftx = lastx
	}

	var test1, test2 float64
	if cury < lasty {
		if y < float64(cury) || y >= float64(lasty) {
			return false
		}
		if x < float64(leftx) {
			return true
		}
		test1 = x - float64(curx)
		test2 = y - float64(cury)
	} else {
		if y < float64(lasty) || y >= float64(cury) {
			return false
		}
		if x < float64(leftx) {
			return true
		}
		test1 = x - float64(lastx)
		test2 = y - float64(lasty)
	}
	return test1 < test2/float64(lasty-cury)*float64(lastx-curx)
}

// ContainsRect reports whether all four corners of r are inside the polygon.
func (p Polygon) ContainsRect(r Rect) bool {
	for _, c := range r.Corners() {
		if !p.Contains(c) {
			return false
		}
	}
	return true
}

// Ring returns the polygon as a closed orb ring.
func (p Polygon) Ring() orb.Ring {
	ring := make(orb.Ring, 0, len(p.xs)+1)
	for i := range p.xs {
		ring = append(ring, orb.Point{float64(p.xs[i]), float64(p.ys[i])})
	}
	if len(ring) > 0 {
		ring = append(ring, ring[0])
	}
	return ring
}

// Area returns the enclosed area in square pixels.
func (p Polygon) Area() float64 {
	if len(p.xs) < 3 {
		return 0
	}
	return math.Abs(planar.Area(orb.Polygon{p.Ring()}))
}
