// Package sketch is a headless model of drawing a car park outline one
// click at a time, with an elastic line following the pointer.
package sketch

import (
	"errors"
	"fmt"

	"github.com/piwi3910/LotLayout/internal/engine"
	"github.com/piwi3910/LotLayout/internal/geometry"
	"github.com/piwi3910/LotLayout/internal/model"
)

// TagRadius is how close, in pixels, a tag click must be to a segment.
const TagRadius = 5.0

var (
	// ErrOpen is returned when an operation needs a closed outline.
	ErrOpen = errors.New("sketch is not closed")
	// ErrClosed is returned when an operation needs an open outline.
	ErrClosed = errors.New("sketch is closed")
)

// Status classifies the elastic line against the committed segments.
type Status int

const (
	NoCollision Status = iota
	Collision
	Closeable
)

func (s Status) String() string {
	switch s {
	case Collision:
		return "collision"
	case Closeable:
		return "closeable"
	default:
		return "ok"
	}
}

// Sketch tracks committed segments, the elastic line and whether the
// outline has been closed. The zero value is an empty, open sketch.
type Sketch struct {
	boundary model.Boundary
	rubber   *model.BoundarySegment
	closed   bool
}

func New() *Sketch {
	return &Sketch{}
}

// Closed reports whether the outline has been closed.
func (s *Sketch) Closed() bool { return s.closed }

// Len returns the number of committed segments.
func (s *Sketch) Len() int { return s.boundary.Len() }

// Boundary returns a snapshot of the committed segments.
func (s *Sketch) Boundary() model.Boundary {
	return s.boundary.Snapshot()
}

// Rubber returns the elastic line, tagged EdgeCollision when it crosses the
// outline. It returns false before the first click and once closed.
func (s *Sketch) Rubber() (model.BoundarySegment, bool) {
	if s.rubber == nil || s.closed {
		return model.BoundarySegment{}, false
	}
	return *s.rubber, true
}

// Probe moves the free end of the elastic line to p and classifies it.
// It has no effect on a closed sketch or before the first click.
func (s *Sketch) Probe(p geometry.Point) Status {
	if s.closed || s.rubber == nil {
		return NoCollision
	}
	*s.rubber = model.NewSegment(s.rubber.A, p, model.EdgeBorder)
	st := s.check()
	if st == Collision {
		s.rubber.Type = model.EdgeCollision
	}
	return st
}

// check classifies the elastic line. Crossing any committed segment other
// than the first and last is a collision, as is ending on the last segment.
// Crossing the first segment is a collision unless the line ends on the
// outline's starting point, which makes it closeable.
func (s *Sketch) check() Status {
	n := s.boundary.Len()
	if n == 0 {
		return NoCollision
	}
	line := s.rubber.Segment
	st := NoCollision
	for i := 1; i < n-1; i++ {
		if line.Intersects(s.boundary.Segment(i).Segment) {
			st = Collision
		}
	}
	if s.boundary.Segment(n-1).DistanceTo(line.B) == 0 {
		st = Collision
	}
	if st == NoCollision && n > 1 {
		first := s.boundary.Segment(0)
		if line.Intersects(first.Segment) {
			st = Collision
		}
		if line.B.DistanceTo(first.A) < 1 {
			st = Closeable
		}
	}
	return st
}

// Click handles a click at p on an open sketch. The elastic line is
// committed and a new one started at p when it collides with nothing; the
// outline is closed when the line ends on its starting point. Colliding
// clicks and zero-length lines are ignored. The returned status is the
// classification of the line at p.
func (s *Sketch) Click(p geometry.Point) (Status, error) {
	if s.closed {
		return NoCollision, ErrClosed
	}
	if s.rubber == nil {
		start := model.NewSegment(p, p, model.EdgeBorder)
		s.rubber = &start
		return NoCollision, nil
	}

	st := s.Probe(p)
	if s.rubber.Length() == 0 {
		return st, nil
	}
	switch st {
	case NoCollision:
		s.boundary.Append(*s.rubber)
		next := model.NewSegment(p, p, model.EdgeBorder)
		s.rubber = &next
	case Closeable:
		s.boundary.Append(*s.rubber)
		s.closed = true
	}
	return st, nil
}

// Undo removes the last committed segment and reopens the outline. The
// elastic line restarts from the end of the new last segment. Undoing the
// only segment resets the sketch.
func (s *Sketch) Undo() bool {
	n := s.boundary.Len()
	if n == 0 {
		return false
	}
	if n == 1 {
		s.Clear()
		return true
	}
	s.boundary.RemoveLast()
	end := s.boundary.Segment(n - 2).B
	next := model.NewSegment(end, end, model.EdgeBorder)
	s.rubber = &next
	s.closed = false
	return true
}

// Clear discards everything.
func (s *Sketch) Clear() {
	s.boundary.Clear()
	s.rubber = nil
	s.closed = false
}

// Tag re-tags the first committed segment within TagRadius of p, applying
// the minimum entry width from dims. It returns the index of the segment,
// or -1 when no segment is near enough.
func (s *Sketch) Tag(p geometry.Point, t model.EdgeType, dims model.Dimensions) (int, error) {
	if !s.closed {
		return -1, ErrOpen
	}
	if t == model.EdgeCollision || !t.Valid() {
		return -1, fmt.Errorf("cannot tag a segment as %s", t)
	}
	for i := 0; i < s.boundary.Len(); i++ {
		if s.boundary.Segment(i).DistanceTo(p) <= TagRadius {
			return i, s.boundary.SetEdgeTypeChecked(i, t, dims)
		}
	}
	return -1, nil
}

// Plan validates the closed outline and runs the planner over it.
func (s *Sketch) Plan(p *engine.Planner, o model.Orientation) (model.Layout, error) {
	if !s.closed {
		return model.Layout{}, fmt.Errorf("%w: finish the outline first", model.ErrBoundaryNotClosed)
	}
	b := s.Boundary()
	if err := model.ValidateBoundary(&b); err != nil {
		return model.Layout{}, err
	}
	return p.Plan(&b, o), nil
}
