package export

import (
	"fmt"
	"strings"

	"github.com/piwi3910/LotLayout/internal/geometry"
	"github.com/piwi3910/LotLayout/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
)

const stallLayer = "STALLS"

var layerColors = map[model.EdgeType]color.ColorNumber{
	model.EdgeBorder:       color.White,
	model.EdgeEntrance:     color.Cyan,
	model.EdgeExit:         color.ColorNumber(30),
	model.EdgeEntranceExit: color.Green,
}

// edgeLayer names the DXF layer holding edges of type t. Collision edges
// are drawn as border.
func edgeLayer(t model.EdgeType) string {
	if _, ok := layerColors[t]; !ok {
		t = model.EdgeBorder
	}
	return strings.ToUpper(t.String())
}

// ExportDXF writes the boundary and stall outlines as LINE entities in
// metres with the y axis pointing up. Boundary edges sit on a layer named
// after their type, so the drawing imports back as the same boundary.
func ExportDXF(path string, proj model.Project) error {
	layout, err := layoutOf(proj)
	if err != nil {
		return err
	}

	d := dxf.NewDrawing()
	for _, t := range []model.EdgeType{model.EdgeBorder, model.EdgeEntrance, model.EdgeExit, model.EdgeEntranceExit} {
		if _, err := d.AddLayer(edgeLayer(t), layerColors[t], dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", edgeLayer(t), err)
		}
	}
	if _, err := d.AddLayer(stallLayer, color.Blue, dxf.DefaultLineType, false); err != nil {
		return fmt.Errorf("failed to add layer %s: %w", stallLayer, err)
	}

	top := model.OutlineBounds(proj.Boundary.Points()).MaxY()
	line := func(a, b geometry.Point) error {
		_, err := d.Line(
			geometry.ToMetres(a.X), geometry.ToMetres(top-a.Y), 0,
			geometry.ToMetres(b.X), geometry.ToMetres(top-b.Y), 0,
		)
		return err
	}

	for i, s := range proj.Boundary.Segments() {
		if err := d.ChangeLayer(edgeLayer(s.Type)); err != nil {
			return fmt.Errorf("failed to select layer for segment %d: %w", i, err)
		}
		if err := line(s.A, s.B); err != nil {
			return fmt.Errorf("failed to draw segment %d: %w", i, err)
		}
	}

	if err := d.ChangeLayer(stallLayer); err != nil {
		return fmt.Errorf("failed to select stall layer: %w", err)
	}
	for i, p := range layout.Placements {
		outline := model.StallOutline(p.Position, proj.Dimensions, layout.Orientation)
		for j := range outline {
			if err := line(outline[j], outline[(j+1)%len(outline)]); err != nil {
				return fmt.Errorf("failed to draw stall %d: %w", i+1, err)
			}
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}
