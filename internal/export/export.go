// Package export writes planned car parks to files: a PDF report, stall
// label sheets, an Excel schedule, a DXF drawing and a PNG preview.
package export

import (
	"errors"
	"fmt"

	"github.com/piwi3910/LotLayout/internal/geometry"
	"github.com/piwi3910/LotLayout/internal/model"
)

// ErrNoLayout is returned when a project has not been planned yet.
var ErrNoLayout = errors.New("project has no layout to export")

// rgb is a drawing color shared by the PDF and PNG renderers.
type rgb struct {
	R, G, B uint8
}

// edgeColors follows the drawing convention for boundary edges.
var edgeColors = map[model.EdgeType]rgb{
	model.EdgeBorder:       {0, 0, 0},
	model.EdgeEntrance:     {0, 188, 212},
	model.EdgeExit:         {255, 152, 0},
	model.EdgeEntranceExit: {76, 175, 80},
	model.EdgeCollision:    {244, 67, 54},
}

var (
	stallColor = rgb{33, 150, 243}
	gridColor  = rgb{220, 220, 220}
)

func edgeColor(t model.EdgeType) rgb {
	if c, ok := edgeColors[t]; ok {
		return c
	}
	return edgeColors[model.EdgeBorder]
}

// StallInfo describes one placed stall in metres, for labels and schedules.
type StallInfo struct {
	Label       string  `json:"label"`
	Number      int     `json:"number"`
	Row         int     `json:"row"`
	X           float64 `json:"x_m"`
	Y           float64 `json:"y_m"`
	Orientation int     `json:"orientation"`
	Width       float64 `json:"width_m"`
	Depth       float64 `json:"depth_m"`
}

// CollectStalls numbers the stalls of a layout in scan order. Stalls sharing
// a y coordinate share a row number.
func CollectStalls(layout model.Layout, dims model.Dimensions) []StallInfo {
	w, d := stallSize(dims, layout.Orientation)
	out := make([]StallInfo, 0, len(layout.Placements))

	row := 0
	lastY := 0.0
	for i, p := range layout.Placements {
		if i == 0 || p.Position.Y != lastY {
			row++
			lastY = p.Position.Y
		}
		out = append(out, StallInfo{
			Label:       fmt.Sprintf("P-%03d", i+1),
			Number:      i + 1,
			Row:         row,
			X:           geometry.ToMetres(p.Position.X),
			Y:           geometry.ToMetres(p.Position.Y),
			Orientation: int(layout.Orientation.Normalize()),
			Width:       w,
			Depth:       d,
		})
	}
	return out
}

// stallSize returns the painted width and depth of one stall in metres.
func stallSize(dims model.Dimensions, o model.Orientation) (float64, float64) {
	switch o.Normalize() {
	case model.Deg60:
		return dims.Angle60Width, dims.Angle60Depth
	case model.Deg90:
		return dims.Angle90Width, dims.Angle90Depth
	default:
		return dims.Angle0Length, dims.Angle0Width
	}
}

// Summary is the one-line result statement printed on reports and previews.
func Summary(layout model.Layout) string {
	return fmt.Sprintf("%d parks were deemed to fit within the defined area at %d°.",
		layout.Count(), int(layout.Orientation.Normalize()))
}

// layoutOf returns the project's layout or ErrNoLayout.
func layoutOf(proj model.Project) (model.Layout, error) {
	if proj.Result == nil {
		return model.Layout{}, ErrNoLayout
	}
	return *proj.Result, nil
}

// drawingBounds covers the boundary and every stall outline, in pixels.
func drawingBounds(proj model.Project, layout model.Layout) geometry.Rect {
	pts := proj.Boundary.Points()
	for _, p := range layout.Placements {
		pts = append(pts, model.StallOutline(p.Position, proj.Dimensions, layout.Orientation)...)
	}
	return model.OutlineBounds(pts)
}
