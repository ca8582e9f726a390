package dynamo

import "fmt"

// AgentState is the kinematic state of the steered plane.
// Acceleration only accumulates forces within a single frame.
type AgentState struct {
	Position     Vec3
	Velocity     Vec3
	Acceleration Vec3
}

func NewAgent(spawn Vec3) *AgentState {
	return &AgentState{Position: spawn}
}

// ApplyForce accumulates a steering force into this frame's acceleration.
func (a *AgentState) ApplyForce(f Vec3) {
	a.Acceleration = a.Acceleration.Add(f)
}

func (a *AgentState) IsValid() bool {
	return a.Position.IsValid() && a.Velocity.IsValid() && a.Acceleration.IsValid()
}

// Limits is a steering profile. Profiles are swapped wholesale, never blended.
type Limits struct {
	MaxSpeed float64 `yaml:"max_speed"`
	MaxForce float64 `yaml:"max_force"`
}

func (l Limits) Validate() error {
	if l.MaxSpeed <= 0 || l.MaxForce <= 0 {
		return fmt.Errorf("%w: limits must be positive, got speed=%g force=%g", ErrParameterBounds, l.MaxSpeed, l.MaxForce)
	}
	return nil
}

type Phase int

const (
	IntroApproach Phase = iota
	FreeFlight
)

func (p Phase) String() string {
	switch p {
	case IntroApproach:
		return "intro"
	case FreeFlight:
		return "free"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// ParsePhase is the inverse of Phase.String.
func ParsePhase(s string) (Phase, error) {
	switch s {
	case "intro":
		return IntroApproach, nil
	case "free":
		return FreeFlight, nil
	}
	return 0, fmt.Errorf("unknown phase %q", s)
}
