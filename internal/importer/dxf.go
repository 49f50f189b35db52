package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/LotLayout/internal/geometry"
	"github.com/piwi3910/LotLayout/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
	"github.com/yofu/dxf/table"
)

// edge is one straight piece of a DXF drawing. Its type comes from the
// layer it was drawn on.
type edge struct {
	start geometry.Point
	end   geometry.Point
	kind  model.EdgeType
}

// loop is a closed chain of edges; kinds[i] belongs to the edge leaving pts[i].
type loop struct {
	pts   []geometry.Point
	kinds []model.EdgeType
}

// ImportDXF imports a boundary from a DXF drawing in metres. LINE and
// LWPOLYLINE entities are chained into closed outlines and the largest one
// is used. Entities on a layer named after an edge type (ENTRANCE, EXIT,
// ENTRANCE_EXIT, ...) produce edges of that type; any other layer is border.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var edges []edge
	curved := 0
	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			kind := layerEdgeType(e.Layer())
			pts := make([]geometry.Point, len(e.Vertices))
			for i, v := range e.Vertices {
				pts[i] = geometry.Pt(v[0], v[1])
			}
			for _, b := range e.Bulges {
				if math.Abs(b) > 1e-9 {
					curved++
					break
				}
			}
			for i := 0; i+1 < len(pts); i++ {
				edges = append(edges, edge{start: pts[i], end: pts[i+1], kind: kind})
			}
			if e.Closed && len(pts) > 2 {
				edges = append(edges, edge{start: pts[len(pts)-1], end: pts[0], kind: kind})
			}

		case *entity.Line:
			edges = append(edges, edge{
				start: geometry.Pt(e.Start[0], e.Start[1]),
				end:   geometry.Pt(e.End[0], e.End[1]),
				kind:  layerEdgeType(e.Layer()),
			})

		case *entity.Arc, *entity.Circle:
			curved++

		default:
			// Unsupported entity types are silently skipped
		}
	}
	if curved > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d curved entities approximated by straight edges or skipped", curved))
	}

	loops := chainEdges(edges, 0.01)
	if len(loops) == 0 {
		result.Errors = append(result.Errors, "No closed outline found in DXF file")
		return result
	}
	if len(loops) > 1 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Found %d closed outlines, using the largest", len(loops)))
	}

	outline := toScreen(loops[0].pts)
	b, warnings, errMsg := buildBoundary(outline, loops[0].kinds)
	result.Warnings = append(result.Warnings, warnings...)
	if errMsg != "" {
		result.Errors = append(result.Errors, errMsg)
		return result
	}
	result.Boundary = b
	return result
}

// layerEdgeType maps a layer's name to an edge type, defaulting to border.
func layerEdgeType(layer *table.Layer) model.EdgeType {
	if layer == nil {
		return model.EdgeBorder
	}
	t, err := model.ParseEdgeType(layer.Name())
	if err != nil || t == model.EdgeCollision {
		return model.EdgeBorder
	}
	return t
}

// toScreen flips the drawing's upward y axis to the downward screen axis and
// moves the outline's bounding box to the origin.
func toScreen(pts []geometry.Point) []geometry.Point {
	bounds := model.OutlineBounds(pts)
	out := make([]geometry.Point, len(pts))
	for i, p := range pts {
		out[i] = geometry.Pt(p.X-bounds.X, bounds.MaxY()-p.Y)
	}
	return out
}

// chainEdges connects edges end to end into closed loops, largest area
// first. tolerance is the maximum distance between endpoints considered
// connected. Chains that do not close are dropped.
func chainEdges(edges []edge, tolerance float64) []loop {
	if len(edges) == 0 {
		return nil
	}

	used := make([]bool, len(edges))
	var loops []loop

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		first := edges[startIdx]
		pts := []geometry.Point{first.start, first.end}
		kinds := []model.EdgeType{first.kind}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := pts[len(pts)-1]

			for i, e := range edges {
				if used[i] {
					continue
				}
				if tail.DistanceTo(e.start) <= tolerance {
					pts = append(pts, e.end)
				} else if tail.DistanceTo(e.end) <= tolerance {
					pts = append(pts, e.start)
				} else {
					continue
				}
				kinds = append(kinds, e.kind)
				used[i] = true
				changed = true
				break
			}
		}

		if len(pts) < 4 || pts[0].DistanceTo(pts[len(pts)-1]) > tolerance {
			continue
		}
		loops = append(loops, loop{pts: pts[:len(pts)-1], kinds: kinds})
	}

	sort.SliceStable(loops, func(i, j int) bool {
		return geometry.NewPolygon(loops[i].pts).Area() > geometry.NewPolygon(loops[j].pts).Area()
	})
	return loops
}
