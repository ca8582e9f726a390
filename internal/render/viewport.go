package render

import "math"

// Viewport is the drawable area in layout units plus the derived device
// surface size.
type Viewport struct {
	Width      int
	Height     int
	PixelRatio float64
}

// NewViewport sanitizes a resize request. The pixel ratio is capped at
// maxRatio; non-positive sizes collapse to 1.
func NewViewport(width, height int, dpr, maxRatio float64) Viewport {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if dpr <= 0 || math.IsNaN(dpr) || math.IsInf(dpr, 0) {
		dpr = 1
	}
	if maxRatio > 0 && dpr > maxRatio {
		dpr = maxRatio
	}
	return Viewport{Width: width, Height: height, PixelRatio: dpr}
}

func (v Viewport) SurfaceSize() (int, int) {
	return int(math.Round(float64(v.Width) * v.PixelRatio)), int(math.Round(float64(v.Height) * v.PixelRatio))
}

func (v Viewport) Aspect() float64 {
	if v.Height == 0 {
		return 1
	}
	return float64(v.Width) / float64(v.Height)
}

// Projection holds perspective camera parameters. FOV is vertical, degrees.
type Projection struct {
	FOV    float64
	Aspect float64
	Near   float64
	Far    float64
}

// Update refreshes the aspect ratio from v. It reports whether anything
// changed.
func (p *Projection) Update(v Viewport) bool {
	a := v.Aspect()
	if a == p.Aspect {
		return false
	}
	p.Aspect = a
	return true
}

// Focal is the projection scale for a unit-height image plane.
func (p Projection) Focal() float64 {
	return 1 / math.Tan(p.FOV*math.Pi/360)
}
