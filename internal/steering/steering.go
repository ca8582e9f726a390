// Package steering implements the kinematic seek and soft-containment forces
// that drive the plane toward its moving target.
package steering

import "github.com/san-kum/skyplane/internal/dynamo"

const DefaultArrivalRadius = 3.0

// Bounds is the world containment box.
type Bounds struct {
	XLimit float64 `yaml:"x_limit"`
	YLimit float64 `yaml:"y_limit"`
	ZMin   float64 `yaml:"z_min"`
	ZMax   float64 `yaml:"z_max"`
}

// Contains reports whether p lies within all six limits.
func (b Bounds) Contains(p dynamo.Vec3) bool {
	return p.X >= -b.XLimit && p.X <= b.XLimit &&
		p.Y >= -b.YLimit && p.Y <= b.YLimit &&
		p.Z >= b.ZMin && p.Z <= b.ZMax
}

// TieBreak selects how simultaneous axis violations combine.
type TieBreak int

const (
	// TieBreakLastAxis lets the last violated axis (x, then y, then z)
	// overwrite earlier corrections.
	TieBreakLastAxis TieBreak = iota
	// TieBreakSum corrects every violated axis at once.
	TieBreakSum
)

// Seek returns a force steering the agent toward target. Inside arrivalRadius
// the desired speed falls off linearly with distance.
func Seek(a *dynamo.AgentState, target dynamo.Vec3, lim dynamo.Limits, arrivalRadius float64) dynamo.Vec3 {
	return SteerToward(a.Velocity, Desired(a.Position, target, lim.MaxSpeed, arrivalRadius), lim.MaxForce)
}

// Desired is the velocity the agent would like to have when seeking target.
func Desired(pos, target dynamo.Vec3, maxSpeed, arrivalRadius float64) dynamo.Vec3 {
	offset := target.Sub(pos)
	dist := offset.Length()
	dir := offset.Normalize()

	if arrivalRadius > 0 && dist < arrivalRadius {
		return dir.Scale(maxSpeed * (dist / arrivalRadius))
	}
	return dir.Scale(maxSpeed)
}

// SteerToward converts a desired velocity into a force clamped to maxForce.
func SteerToward(velocity, desired dynamo.Vec3, maxForce float64) dynamo.Vec3 {
	return desired.Sub(velocity).ClampLength(maxForce)
}

// Boundaries returns a containment force, or the zero vector when the agent
// is inside b. Correction is axis-local: axes that are not violated keep the
// current velocity component.
func Boundaries(a *dynamo.AgentState, b Bounds, lim dynamo.Limits, tb TieBreak) dynamo.Vec3 {
	desired, ok := BoundaryDesired(a.Position, a.Velocity, b, lim.MaxSpeed, tb)
	if !ok {
		return dynamo.Vec3{}
	}
	desired = desired.Normalize().Scale(lim.MaxSpeed)
	return SteerToward(a.Velocity, desired, lim.MaxForce)
}

// BoundaryDesired computes the unnormalized corrective velocity. The bool is
// false when no limit is violated.
func BoundaryDesired(pos, vel dynamo.Vec3, b Bounds, maxSpeed float64, tb TieBreak) (dynamo.Vec3, bool) {
	var (
		desired  dynamo.Vec3
		violated bool
	)
	if tb == TieBreakSum {
		desired = vel
	}

	correct := func(axis int, value float64) {
		if tb == TieBreakLastAxis {
			desired = vel
		}
		switch axis {
		case 0:
			desired.X = value
		case 1:
			desired.Y = value
		case 2:
			desired.Z = value
		}
		violated = true
	}

	if pos.X < -b.XLimit {
		correct(0, maxSpeed)
	} else if pos.X > b.XLimit {
		correct(0, -maxSpeed)
	}

	if pos.Y < -b.YLimit {
		correct(1, maxSpeed)
	} else if pos.Y > b.YLimit {
		correct(1, -maxSpeed)
	}

	if pos.Z < b.ZMin {
		correct(2, maxSpeed)
	} else if pos.Z > b.ZMax {
		correct(2, -maxSpeed)
	}

	return desired, violated
}
