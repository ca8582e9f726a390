// Package input holds the external signals the frame loop consumes: a
// normalized pointer with an activity flag and a scroll offset.
package input

import (
	"math"
	"sync"
	"time"
)

// Pointer is a viewport-normalized pointer position.
type Pointer struct {
	X, Y   float64
	Active bool
}

// Neutral is the pointer used when no pointer signal is available.
func Neutral() Pointer { return Pointer{X: 0.5, Y: 0.5} }

// Sanitize clamps the position into [0,1], replacing non-finite values with
// the viewport center.
func (p Pointer) Sanitize() Pointer {
	p.X = unit(p.X)
	p.Y = unit(p.Y)
	return p
}

func unit(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0.5
	}
	return math.Max(0, math.Min(1, v))
}

// Tracker derives pointer activity from move events: the pointer is active
// until quiet has elapsed since the last move.
type Tracker struct {
	mu    sync.Mutex
	quiet time.Duration
	pos   Pointer
	last  time.Time
}

func NewTracker(quiet time.Duration) *Tracker {
	return &Tracker{quiet: quiet, pos: Neutral()}
}

// Move records a pointer move at viewport-relative coordinates.
func (t *Tracker) Move(x, y float64, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pos = Pointer{X: x, Y: y}.Sanitize()
	t.last = at
}

// MoveCell records a move given a cell position inside a w x h grid.
func (t *Tracker) MoveCell(col, row, w, h int, at time.Time) {
	if w <= 0 || h <= 0 {
		return
	}
	t.Move((float64(col)+0.5)/float64(w), (float64(row)+0.5)/float64(h), at)
}

func (t *Tracker) Pointer(now time.Time) Pointer {
	t.mu.Lock()
	defer t.mu.Unlock()
	p := t.pos
	p.Active = !t.last.IsZero() && now.Sub(t.last) < t.quiet
	return p
}
