// Package flightpath generates the moving target the plane chases.
package flightpath

import (
	"math"

	"github.com/san-kum/skyplane/internal/dynamo"
)

// Path maps flight time to a target point. Implementations must be pure.
type Path interface {
	Target(t float64) dynamo.Vec3
}

// Lissajous is a figure-eight orbit built from three phase-shifted sinusoids.
// The depth axis is offset so the orbit sits behind the origin.
type Lissajous struct {
	Rate        float64 `yaml:"rate"`
	RadiusX     float64 `yaml:"radius_x"`
	RadiusY     float64 `yaml:"radius_y"`
	RadiusZ     float64 `yaml:"radius_z"`
	FreqY       float64 `yaml:"freq_y"`
	DepthOffset float64 `yaml:"depth_offset"`
}

func DefaultLissajous() Lissajous {
	return Lissajous{
		Rate:        0.4,
		RadiusX:     5.0,
		RadiusY:     2.5,
		RadiusZ:     4.0,
		FreqY:       2.0,
		DepthOffset: -4.0,
	}
}

func (l Lissajous) Target(t float64) dynamo.Vec3 {
	p := t * l.Rate
	return dynamo.Vec3{
		X: math.Sin(p) * l.RadiusX,
		Y: math.Sin(p*l.FreqY) * l.RadiusY,
		Z: math.Cos(p)*l.RadiusZ + l.DepthOffset,
	}
}
