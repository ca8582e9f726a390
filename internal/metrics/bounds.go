package metrics

import (
	"github.com/san-kum/skyplane/internal/dynamo"
	"github.com/san-kum/skyplane/internal/render"
	"github.com/san-kum/skyplane/internal/steering"
)

// Containment is the fraction of free-flight frames with the plane inside
// the bounds. The intro spawn lies outside them.
type Containment struct {
	name       string
	bounds     steering.Bounds
	violations int
	samples    int
}

func NewContainment(b steering.Bounds) *Containment {
	return &Containment{
		name:   "containment",
		bounds: b,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(f render.Frame) {
	if f.Phase != dynamo.FreeFlight {
		return
	}
	c.samples++
	if !c.bounds.Contains(f.Agent.Position) {
		c.violations++
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}

// SpeedBound tracks the worst speed/limit ratio seen in free flight. Above 1
// means the cap was broken.
type SpeedBound struct {
	name  string
	worst float64
}

func NewSpeedBound() *SpeedBound {
	return &SpeedBound{name: "speed_ratio"}
}

func (s *SpeedBound) Name() string { return s.name }

func (s *SpeedBound) Observe(f render.Frame) {
	if f.Phase != dynamo.FreeFlight || f.Limits.MaxSpeed <= 0 {
		return
	}
	if r := f.Speed() / f.Limits.MaxSpeed; r > s.worst {
		s.worst = r
	}
}

func (s *SpeedBound) Value() float64 { return s.worst }
func (s *SpeedBound) Reset()         { s.worst = 0 }
