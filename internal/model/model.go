package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/piwi3910/LotLayout/internal/geometry"
)

// EdgeType tags a boundary segment with its role in the car park outline.
type EdgeType int

const (
	EdgeBorder       EdgeType = iota // Plain wall or kerb
	EdgeEntrance                     // Vehicles enter here
	EdgeExit                         // Vehicles leave here
	EdgeEntranceExit                 // Two-way access
	EdgeCollision                    // Transient: an in-progress segment that crosses the outline
)

func (t EdgeType) String() string {
	switch t {
	case EdgeEntrance:
		return "entrance"
	case EdgeExit:
		return "exit"
	case EdgeEntranceExit:
		return "entrance_exit"
	case EdgeCollision:
		return "collision"
	default:
		return "border"
	}
}

// Valid reports whether t is one of the five known edge types.
func (t EdgeType) Valid() bool {
	return t >= EdgeBorder && t <= EdgeCollision
}

// IsEntrance reports whether vehicles can enter through an edge of this type.
func (t EdgeType) IsEntrance() bool {
	return t == EdgeEntrance || t == EdgeEntranceExit
}

// IsExit reports whether vehicles can leave through an edge of this type.
func (t EdgeType) IsExit() bool {
	return t == EdgeExit || t == EdgeEntranceExit
}

// IsAccess reports whether the edge is any kind of entrance or exit.
func (t EdgeType) IsAccess() bool {
	return t.IsEntrance() || t.IsExit()
}

// ParseEdgeType accepts the names produced by String plus a few common
// abbreviations. Matching is case-insensitive.
func ParseEdgeType(s string) (EdgeType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "border", "boundary", "wall", "b":
		return EdgeBorder, nil
	case "entrance", "entry", "ent", "in":
		return EdgeEntrance, nil
	case "exit", "out":
		return EdgeExit, nil
	case "entrance_exit", "entrance-exit", "entexit", "both", "access":
		return EdgeEntranceExit, nil
	case "collision":
		return EdgeCollision, nil
	}
	return EdgeBorder, fmt.Errorf("unknown edge type %q", s)
}

func (t EdgeType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *EdgeType) UnmarshalText(b []byte) error {
	parsed, err := ParseEdgeType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// BoundarySegment is one grid-snapped edge of the car park outline.
type BoundarySegment struct {
	geometry.Segment
	Type EdgeType `json:"type"`
}

// NewSegment snaps both endpoints to the drawing grid.
func NewSegment(a, b geometry.Point, t EdgeType) BoundarySegment {
	return BoundarySegment{
		Segment: geometry.Segment{A: a.Snap(), B: b.Snap()},
		Type:    t,
	}
}

// LengthMetres returns the segment length in metres.
func (s BoundarySegment) LengthMetres() float64 {
	return geometry.ToMetres(s.Length())
}

// Boundary is the ordered sequence of segments outlining a car park. The
// polygon it describes is formed from the first endpoint of each segment.
type Boundary struct {
	segments []BoundarySegment
}

// NewBoundary builds a boundary from segments, snapping every endpoint.
func NewBoundary(segs ...BoundarySegment) *Boundary {
	b := &Boundary{}
	b.Replace(segs)
	return b
}

// BoundaryFromPoints closes the given vertices into a boundary. types[i]
// tags the segment that starts at pts[i]; missing entries default to
// EdgeBorder.
func BoundaryFromPoints(pts []geometry.Point, types []EdgeType) *Boundary {
	b := &Boundary{}
	n := len(pts)
	for i := 0; i < n; i++ {
		t := EdgeBorder
		if i < len(types) {
			t = types[i]
		}
		b.Append(NewSegment(pts[i], pts[(i+1)%n], t))
	}
	return b
}

// Len returns the number of segments.
func (b *Boundary) Len() int { return len(b.segments) }

// Segment returns the i-th segment.
func (b *Boundary) Segment(i int) BoundarySegment { return b.segments[i] }

// Segments returns a copy of the segment list.
func (b *Boundary) Segments() []BoundarySegment {
	out := make([]BoundarySegment, len(b.segments))
	copy(out, b.segments)
	return out
}

// Snapshot returns an independent copy that later mutations of b do not affect.
func (b *Boundary) Snapshot() Boundary {
	return Boundary{segments: b.Segments()}
}

// Append snaps s and adds it to the end of the boundary.
func (b *Boundary) Append(s BoundarySegment) {
	b.segments = append(b.segments, NewSegment(s.A, s.B, s.Type))
}

// RemoveLast drops the last segment. It returns false if the boundary was empty.
func (b *Boundary) RemoveLast() bool {
	if len(b.segments) == 0 {
		return false
	}
	b.segments = b.segments[:len(b.segments)-1]
	return true
}

// Replace discards all segments and stores segs, snapped.
func (b *Boundary) Replace(segs []BoundarySegment) {
	b.segments = make([]BoundarySegment, 0, len(segs))
	for _, s := range segs {
		b.Append(s)
	}
}

// Clear removes every segment.
func (b *Boundary) Clear() {
	b.segments = nil
}

// SetEdgeType re-tags segment i. Unknown types and out-of-range indices are
// ignored.
func (b *Boundary) SetEdgeType(i int, t EdgeType) {
	if !t.Valid() || i < 0 || i >= len(b.segments) {
		return
	}
	b.segments[i].Type = t
}

// SetEdgeTypeChecked re-tags segment i, enforcing the minimum entry width:
// an entrance or exit must be at least EntryWidthMin long, a two-way access
// twice that. Border is always allowed.
func (b *Boundary) SetEdgeTypeChecked(i int, t EdgeType, dims Dimensions) error {
	if i < 0 || i >= len(b.segments) {
		return fmt.Errorf("%w: %d of %d", ErrSegmentIndex, i, len(b.segments))
	}
	if !t.Valid() {
		return fmt.Errorf("invalid edge type %d", int(t))
	}
	length := b.segments[i].LengthMetres()
	var need float64
	switch t {
	case EdgeEntrance, EdgeExit:
		need = dims.EntryWidthMin
	case EdgeEntranceExit:
		need = dims.EntryWidthMin * 2
	}
	if need > length {
		return fmt.Errorf("%w: %s needs %.2f m, segment is %.2f m", ErrSegmentTooShort, t, need, length)
	}
	b.segments[i].Type = t
	return nil
}

// Points returns the first endpoint of every segment, in order.
func (b *Boundary) Points() []geometry.Point {
	pts := make([]geometry.Point, len(b.segments))
	for i, s := range b.segments {
		pts[i] = s.A
	}
	return pts
}

// Polygon builds the closed polygon described by the boundary.
func (b *Boundary) Polygon() geometry.Polygon {
	return geometry.NewPolygon(b.Points())
}

// HasEntrance reports whether at least one segment admits vehicles.
func (b *Boundary) HasEntrance() bool {
	for _, s := range b.segments {
		if s.Type.IsEntrance() {
			return true
		}
	}
	return false
}

// HasExit reports whether at least one segment lets vehicles out.
func (b *Boundary) HasExit() bool {
	for _, s := range b.segments {
		if s.Type.IsExit() {
			return true
		}
	}
	return false
}

// Closed reports whether consecutive segments share endpoints and the last
// segment ends where the first begins.
func (b *Boundary) Closed() bool {
	n := len(b.segments)
	if n < 3 {
		return false
	}
	for i := 0; i < n; i++ {
		if b.segments[i].B != b.segments[(i+1)%n].A {
			return false
		}
	}
	return true
}

// PerimeterMetres returns the total length of all segments in metres.
func (b *Boundary) PerimeterMetres() float64 {
	var total float64
	for _, s := range b.segments {
		total += s.LengthMetres()
	}
	return total
}

type boundaryJSON struct {
	Segments []BoundarySegment `json:"segments"`
}

func (b Boundary) MarshalJSON() ([]byte, error) {
	segs := b.segments
	if segs == nil {
		segs = []BoundarySegment{}
	}
	return json.Marshal(boundaryJSON{Segments: segs})
}

func (b *Boundary) UnmarshalJSON(data []byte) error {
	var raw boundaryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.Replace(raw.Segments)
	return nil
}

// ClearanceMode selects how the clearance margin is applied around a stall.
type ClearanceMode string

const (
	// ClearanceTopLeft grows the stall rectangle up and left only.
	ClearanceTopLeft ClearanceMode = "top_left"
	// ClearanceSymmetric grows the stall rectangle on all four sides.
	ClearanceSymmetric ClearanceMode = "symmetric"
)

// ParseClearanceMode returns ClearanceTopLeft for anything it does not recognise.
func ParseClearanceMode(s string) ClearanceMode {
	if ClearanceMode(strings.ToLower(strings.TrimSpace(s))) == ClearanceSymmetric {
		return ClearanceSymmetric
	}
	return ClearanceTopLeft
}

// Placement is one generated stall: the top-left corner of its footprint in
// pixels and its rotation in radians.
type Placement struct {
	Position geometry.Point `json:"position"`
	Angle    float64        `json:"angle"`
}

// Rect returns the footprint rectangle occupied by the placement.
func (p Placement) Rect(f Footprint) geometry.Rect {
	return geometry.Rect{X: p.Position.X, Y: p.Position.Y, W: f.Width, H: f.Height}
}

// Layout is the result of one planning run.
type Layout struct {
	ID          string        `json:"id"`
	Orientation Orientation   `json:"orientation"`
	Clearance   ClearanceMode `json:"clearance"`
	Footprint   Footprint     `json:"footprint"`
	Placements  []Placement   `json:"placements"`
}

// NewLayout wraps placements produced for orientation o.
func NewLayout(o Orientation, f Footprint, placements []Placement) Layout {
	if placements == nil {
		placements = []Placement{}
	}
	return Layout{
		ID:          uuid.New().String()[:8],
		Orientation: o,
		Clearance:   ClearanceTopLeft,
		Footprint:   f,
		Placements:  placements,
	}
}

// Count returns the number of stalls.
func (l Layout) Count() int { return len(l.Placements) }

// Rects returns the footprint rectangle of every placement.
func (l Layout) Rects() []geometry.Rect {
	out := make([]geometry.Rect, len(l.Placements))
	for i, p := range l.Placements {
		out[i] = p.Rect(l.Footprint)
	}
	return out
}

// Project ties everything together for save/load.
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Boundary    Boundary      `json:"boundary"`
	Dimensions  Dimensions    `json:"dimensions"`
	Orientation Orientation   `json:"orientation"`
	Clearance   ClearanceMode `json:"clearance"`
	Result      *Layout       `json:"result,omitempty"`
}

func NewProject() Project {
	return Project{
		ID:          uuid.New().String()[:8],
		Name:        "Untitled",
		Dimensions:  DefaultDimensions(),
		Orientation: Deg90,
		Clearance:   ClearanceTopLeft,
	}
}
