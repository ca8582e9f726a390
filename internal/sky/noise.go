package sky

import "math"

func fract(x float64) float64 { return x - math.Floor(x) }

func mod289(x float64) float64 { return x - math.Floor(x*(1.0/289.0))*289.0 }

func permute(x float64) float64 { return mod289((x*34.0 + 1.0) * x) }

// Smoothstep is the GLSL smoothstep. edge0 may exceed edge1, which inverts
// the ramp.
func Smoothstep(edge0, edge1, x float64) float64 {
	t := (x - edge0) / (edge1 - edge0)
	t = math.Max(0, math.Min(1, t))
	return t * t * (3 - 2*t)
}

const (
	skewC0 = 0.211324865405187  // (3-sqrt(3))/6
	skewC1 = 0.366025403784439  // (sqrt(3)-1)/2
	skewC2 = -0.577350269189626 // -1 + 2*C0
	skewC3 = 0.024390243902439  // 1/41
)

// Snoise is 2D simplex noise in roughly [-1,1].
func Snoise(vx, vy float64) float64 {
	s := (vx + vy) * skewC1
	ix, iy := math.Floor(vx+s), math.Floor(vy+s)
	u := (ix + iy) * skewC0
	x0x, x0y := vx-ix+u, vy-iy+u

	var i1x, i1y float64
	if x0x > x0y {
		i1x = 1
	} else {
		i1y = 1
	}
	x1x, x1y := x0x+skewC0-i1x, x0y+skewC0-i1y
	x2x, x2y := x0x+skewC2, x0y+skewC2

	ix, iy = mod289(ix), mod289(iy)
	p0 := permute(permute(iy) + ix)
	p1 := permute(permute(iy+i1y) + ix + i1x)
	p2 := permute(permute(iy+1) + ix + 1)

	corners := [3][3]float64{
		{p0, x0x, x0y},
		{p1, x1x, x1y},
		{p2, x2x, x2y},
	}

	var n float64
	for _, c := range corners {
		m := math.Max(0.5-(c[1]*c[1]+c[2]*c[2]), 0)
		m *= m
		m *= m
		gx := 2*fract(c[0]*skewC3) - 1
		h := math.Abs(gx) - 0.5
		a0 := gx - math.Floor(gx+0.5)
		m *= 1.79284291400159 - 0.85373472095314*(a0*a0+h*h)
		n += m * (a0*c[1] + h*c[2])
	}
	return 130 * n
}

var (
	fbmCos = math.Cos(0.5)
	fbmSin = math.Sin(0.5)
)

// Fbm sums five octaves of simplex noise, rotating and shifting the domain
// between octaves.
func Fbm(x, y float64) float64 {
	var v float64
	a := 0.5
	for i := 0; i < 5; i++ {
		v += a * Snoise(x, y)
		// column-major mat2(c, s, -s, c)
		rx := fbmCos*x - fbmSin*y
		ry := fbmSin*x + fbmCos*y
		x, y = rx*2+100, ry*2+100
		a *= 0.5
	}
	return v
}

// Ridged folds noise into sharp crests near 1.
func Ridged(x, y float64) float64 {
	return 1 - math.Abs(Snoise(x, y))
}

// Grain is a per-pixel hash in [0,1).
func Grain(u, v float64) float64 {
	return fract(math.Sin(u*12.9898+v*78.233) * 43758.5453)
}
