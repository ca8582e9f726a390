package render

import (
	"cogentcore.org/core/math32"
	"github.com/san-kum/skyplane/internal/dynamo"
	"github.com/san-kum/skyplane/internal/input"
	"github.com/san-kum/skyplane/internal/scroll"
)

// Frame is a snapshot of one tick of the simulation.
type Frame struct {
	Index       uint64
	Clock       float64
	Dt          float64
	ShaderTime  float64
	FlightTime  float64
	Substeps    int
	Phase       dynamo.Phase
	Agent       dynamo.AgentState
	Orientation math32.Quat
	Target      dynamo.Vec3
	Force       dynamo.Vec3
	Limits      dynamo.Limits
	Scroll      scroll.Signal
	Pointer     input.Pointer
}

// Speed is the agent's speed this frame.
func (f Frame) Speed() float64 { return f.Agent.Velocity.Length() }
