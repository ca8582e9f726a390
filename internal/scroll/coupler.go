// Package scroll turns raw scroll offsets into a smoothed excitement factor
// that dilates flight time. Scrolling never moves the plane directly.
package scroll

import "math"

// Params are the coupler constants.
type Params struct {
	Smoothing  float64 `yaml:"smoothing"`
	Saturation float64 `yaml:"saturation"`
	Boost      float64 `yaml:"boost"`
	BaseSpeed  float64 `yaml:"base_speed"`
}

func DefaultParams() Params {
	return Params{
		Smoothing:  0.2,
		Saturation: 40,
		Boost:      1.5,
		BaseSpeed:  1.0,
	}
}

// Signal is one frame's view of scroll activity.
type Signal struct {
	RawDelta    float64
	Smoothed    float64
	Excitement  float64
	SpeedFactor float64
}

// Coupler keeps only the previous offset and the previous smoothed value.
type Coupler struct {
	params     Params
	prevOffset float64
	primed     bool
	smoothed   float64
	flightTime float64
}

func NewCoupler(p Params) *Coupler {
	return &Coupler{params: p}
}

// Prime sets the reference offset so the first Update yields no delta.
func (c *Coupler) Prime(offset float64) {
	c.prevOffset = offset
	c.primed = true
}

// Update consumes the current scroll offset and advances flight time by dt.
func (c *Coupler) Update(offset, dt float64) Signal {
	if math.IsNaN(offset) || math.IsInf(offset, 0) {
		offset = c.prevOffset
	}
	if !c.primed {
		c.Prime(offset)
	}
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}

	raw := offset - c.prevOffset
	c.prevOffset = offset
	c.smoothed += (raw - c.smoothed) * c.params.Smoothing

	s := Signal{
		RawDelta:   raw,
		Smoothed:   c.smoothed,
		Excitement: Excitement(c.smoothed, c.params.Saturation),
	}
	s.SpeedFactor = 1 + c.params.Boost*s.Excitement
	c.flightTime += dt * c.params.BaseSpeed * s.SpeedFactor
	return s
}

func (c *Coupler) FlightTime() float64 { return c.flightTime }
func (c *Coupler) Smoothed() float64   { return c.smoothed }

// Excitement normalizes a smoothed velocity against the saturation threshold.
func Excitement(smoothed, saturation float64) float64 {
	if saturation <= 0 {
		return 0
	}
	return math.Min(1, math.Abs(smoothed)/saturation)
}
