package metrics

import (
	"github.com/san-kum/skyplane/internal/dynamo"
	"github.com/san-kum/skyplane/internal/render"
)

// Excitement is the mean normalized scroll excitement.
type Excitement struct {
	name    string
	sum     float64
	samples int
}

func NewExcitement() *Excitement {
	return &Excitement{name: "excitement"}
}

func (e *Excitement) Name() string { return e.name }

func (e *Excitement) Observe(f render.Frame) {
	e.sum += f.Scroll.Excitement
	e.samples++
}

func (e *Excitement) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.sum / float64(e.samples)
}

func (e *Excitement) Reset() {
	e.sum = 0
	e.samples = 0
}

// TargetError is the mean distance between plane and target in free flight.
type TargetError struct {
	name    string
	sum     float64
	samples int
}

func NewTargetError() *TargetError {
	return &TargetError{name: "target_error"}
}

func (t *TargetError) Name() string { return t.name }

func (t *TargetError) Observe(f render.Frame) {
	if f.Phase != dynamo.FreeFlight || f.Substeps == 0 {
		return
	}
	t.sum += f.Target.Sub(f.Agent.Position).Length()
	t.samples++
}

func (t *TargetError) Value() float64 {
	if t.samples == 0 {
		return 0
	}
	return t.sum / float64(t.samples)
}

func (t *TargetError) Reset() {
	t.sum = 0
	t.samples = 0
}
