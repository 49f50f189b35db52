// Package geometry provides the planar primitives used by the stall placement
// engine: points, axis-aligned rectangles, line segments and polygons.
//
// All coordinates are in pixel units. PixelsPerMetre is the single conversion
// factor between the metric dimension rules and the drawing plane.
package geometry

import (
	"math"

	"github.com/jbeda/geom"
)

// PixelsPerMetre converts metres to pixel units (one grid cell is one metre).
const PixelsPerMetre = 25.0

// GridSize is the snapping step for boundary endpoints (one grid dot is 0.2 m).
const GridSize = 5.0

// Point is a 2D coordinate in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Coord returns the point as a geom.Coord.
func (p Point) Coord() geom.Coord {
	return geom.Coord{X: p.X, Y: p.Y}
}

// DistanceTo returns the Euclidean distance between two points.
func (p Point) DistanceTo(q Point) float64 {
	return p.Coord().DistanceFrom(q.Coord())
}

// Snap quantizes the point to the grid by truncating each coordinate toward
// zero to a multiple of GridSize.
func (p Point) Snap() Point {
	return Point{
		X: p.X - math.Mod(p.X, GridSize),
		Y: p.Y - math.Mod(p.Y, GridSize),
	}
}

// ToPixels converts a length in metres to pixels.
func ToPixels(metres float64) float64 {
	return metres * PixelsPerMetre
}

// ToMetres converts a length in pixels to metres.
func ToMetres(px float64) float64 {
	return px / PixelsPerMetre
}
