package model

import (
	"github.com/piwi3910/LotLayout/internal/geometry"
)

// StallOutline returns the closed outline of the stall placed at pos, for
// drawing. The manoeuvring space below the stall is not part of the outline.
// Angled stalls are drawn as a parallelogram whose top edge is shifted right
// by the shear.
func StallOutline(pos geometry.Point, dims Dimensions, o Orientation) []geometry.Point {
	x, y := pos.X, pos.Y
	switch o.Normalize() {
	case Deg60:
		shear := geometry.ToPixels(dims.Shear())
		w := geometry.ToPixels(dims.Angle60Width)
		h := geometry.ToPixels(dims.Angle60Depth)
		return []geometry.Point{
			geometry.Pt(x+shear, y),
			geometry.Pt(x+shear+w, y),
			geometry.Pt(x+w, y+h),
			geometry.Pt(x, y+h),
		}
	case Deg90:
		return rectOutline(x, y, geometry.ToPixels(dims.Angle90Width), geometry.ToPixels(dims.Angle90Depth))
	default:
		return rectOutline(x, y, geometry.ToPixels(dims.Angle0Length), geometry.ToPixels(dims.Angle0Width))
	}
}

func rectOutline(x, y, w, h float64) []geometry.Point {
	return []geometry.Point{
		geometry.Pt(x, y),
		geometry.Pt(x+w, y),
		geometry.Pt(x+w, y+h),
		geometry.Pt(x, y+h),
	}
}

// OutlineBounds returns the axis-aligned bounds of an outline.
func OutlineBounds(pts []geometry.Point) geometry.Rect {
	if len(pts) == 0 {
		return geometry.Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return geometry.Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}
