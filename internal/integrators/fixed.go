package integrators

import "math"

// DefaultFrameRate is the refresh rate the steering constants are tuned for.
const DefaultFrameRate = 60.0

// FixedStep turns variable frame deltas into a whole number of fixed
// substeps. Leftover time carries into the next frame, so a late frame runs
// extra substeps instead of moving the plane too little.
type FixedStep struct {
	step        float64
	maxSubsteps int
	acc         float64
	dropped     float64
}

func NewFixedStep(frameRate float64, maxSubsteps int) *FixedStep {
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}
	if maxSubsteps < 1 {
		maxSubsteps = 1
	}
	return &FixedStep{step: 1 / frameRate, maxSubsteps: maxSubsteps}
}

// Advance adds dt and returns how many substeps to run now. Time beyond
// maxSubsteps is dropped so a long stall cannot cause a catch-up burst;
// Dropped reports how much.
func (f *FixedStep) Advance(dt float64) int {
	f.dropped = 0
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return 0
	}
	f.acc += dt
	n := int(f.acc / f.step)
	// absorb rounding so 60 frames of 1/60 yield 60 substeps
	if rem := f.acc - float64(n)*f.step; f.step-rem < 1e-9 {
		n++
	}
	if n > f.maxSubsteps {
		n = f.maxSubsteps
		f.dropped = f.acc - float64(n)*f.step
		f.acc = 0
		return n
	}
	f.acc = math.Max(0, f.acc-float64(n)*f.step)
	return n
}

func (f *FixedStep) Step() float64 { return f.step }

// Dropped is the time in seconds discarded by the last Advance.
func (f *FixedStep) Dropped() float64 { return f.dropped }

func (f *FixedStep) Reset() { f.acc, f.dropped = 0, 0 }
