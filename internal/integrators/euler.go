package integrators

import "github.com/san-kum/skyplane/internal/dynamo"

// Euler is the per-frame semi-implicit integrator the plane flies on:
// velocity picks up the accumulated acceleration, is clamped to the speed
// limit, then moves the position. Acceleration is cleared afterwards.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(a *dynamo.AgentState, maxSpeed float64) {
	a.Velocity = a.Velocity.Add(a.Acceleration).ClampLength(maxSpeed)
	a.Position = a.Position.Add(a.Velocity)
	a.Acceleration = dynamo.Vec3{}
}
