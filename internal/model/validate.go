package model

import (
	"errors"
	"fmt"
)

// Boundary validation errors. ValidateBoundary wraps them with detail.
var (
	ErrBoundaryNotClosed = errors.New("boundary is not closed")
	ErrCollisionSegment  = errors.New("boundary contains a colliding segment")
	ErrNoEntrance        = errors.New("boundary has no entrance")
	ErrNoExit            = errors.New("boundary has no exit")
	ErrSegmentTooShort   = errors.New("segment is shorter than the minimum entry width")
	ErrSegmentIndex      = errors.New("segment index out of range")
)

// ValidateBoundary checks that b can be handed to the planner: it must be
// closed, free of collision-tagged segments, and have at least one way in
// and one way out.
func ValidateBoundary(b *Boundary) error {
	n := b.Len()
	if n < 3 {
		return fmt.Errorf("%w: %d segments, need at least 3", ErrBoundaryNotClosed, n)
	}
	for i := 0; i < n; i++ {
		cur, next := b.Segment(i), b.Segment((i+1)%n)
		if cur.B != next.A {
			return fmt.Errorf("%w: segment %d ends at (%g, %g) but segment %d starts at (%g, %g)",
				ErrBoundaryNotClosed, i, cur.B.X, cur.B.Y, (i+1)%n, next.A.X, next.A.Y)
		}
	}
	for i, s := range b.segments {
		if s.Type == EdgeCollision {
			return fmt.Errorf("%w: segment %d", ErrCollisionSegment, i)
		}
	}
	if !b.HasEntrance() {
		return ErrNoEntrance
	}
	if !b.HasExit() {
		return ErrNoExit
	}
	return nil
}
