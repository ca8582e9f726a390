// Package sky evaluates the animated backdrop on the CPU: a graded night
// sky with aurora bands, drifting clouds and three parallax mountain ridges.
package sky

import "math"

type RGB struct {
	R, G, B float64
}

func (c RGB) Add(o RGB) RGB       { return RGB{c.R + o.R, c.G + o.G, c.B + o.B} }
func (c RGB) Scale(s float64) RGB { return RGB{c.R * s, c.G * s, c.B * s} }
func (c RGB) Mix(o RGB, t float64) RGB {
	return RGB{c.R + (o.R-c.R)*t, c.G + (o.G-c.G)*t, c.B + (o.B-c.B)*t}
}

// Bytes clamps to [0,1] and quantizes to 8-bit channels.
func (c RGB) Bytes() (r, g, b uint8) {
	q := func(v float64) uint8 {
		return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}
	return q(c.R), q(c.G), q(c.B)
}

type Palette struct {
	Onyx      RGB
	Graphite  RGB
	Verdigris RGB
	Aqua      RGB
	Snow      RGB
}

func DefaultPalette() Palette {
	return Palette{
		Onyx:      RGB{0.074, 0.082, 0.082},
		Graphite:  RGB{0.169, 0.173, 0.157},
		Verdigris: RGB{0.2, 0.6, 0.537},
		Aqua:      RGB{0.49, 0.886, 0.82},
		Snow:      RGB{0.95, 0.95, 0.95},
	}
}

// Uniforms are the per-frame inputs. Mouse is normalized with y up.
type Uniforms struct {
	Time       float64
	Width      float64
	Height     float64
	MouseX     float64
	MouseY     float64
	NoGrain    bool
	Simplified bool
}

type Shader struct {
	Palette Palette
}

func NewShader(p Palette) *Shader {
	return &Shader{Palette: p}
}

// Shade returns the color at fragment (fx, fy), origin bottom-left.
func (s *Shader) Shade(u Uniforms, fx, fy float64) RGB {
	w, h := u.Width, u.Height
	if w <= 0 || h <= 0 {
		return s.Palette.Onyx
	}
	ux, uy := fx/w, fy/h
	aspect := w / h
	mx := (u.MouseX - 0.5) * aspect
	p := s.Palette
	t := u.Time

	col := p.Onyx.Scale(0.6).Mix(p.Graphite.Scale(0.8), Smoothstep(1.2, 0, uy))

	aurora := Snoise(ux*aspect*0.5, uy*0.1+t*0.02)
	aurora += Snoise(ux*aspect*1.5, uy*0.2-t*0.03) * 0.5
	mask := Smoothstep(0.3, 0.9, uy+Snoise(ux*0.5, t*0.05)*0.2)
	auroraCol := p.Verdigris.Mix(p.Aqua, Snoise(ux, t*0.1)*0.5+0.5)
	pillars := math.Max(0, Snoise(ux*10, uy*2+t*0.5))
	col = col.Add(auroraCol.Scale(math.Max(0, aurora-0.1) * mask * (0.3 + pillars*0.2)))

	if !u.Simplified {
		ct := t * 0.03
		c1 := Fbm(ux*aspect*0.4+ct, uy*1.2)
		c2 := Fbm(ux*aspect*0.8-ct*0.5, uy*2.5)
		clouds := Smoothstep(0.3, 0.9, c1+c2*0.4) * Smoothstep(0.1, 0.4, uy)
		col = col.Mix(p.Snow.Mix(p.Aqua, 0.3), clouds*0.4)
	}

	// far ridge
	x3 := ux*aspect*0.6 + mx*0.02 + 5
	if h3 := Ridged(x3, 0)*0.5 + 0.2; uy < h3 {
		fog := Smoothstep(h3, h3-0.4, uy)
		col = p.Graphite.Mix(p.Onyx, 0.6).Mix(col, fog*0.8)
	}

	// middle ridge
	x2 := ux*aspect + mx*0.05 + 12.3
	h2 := Ridged(x2, 1)*0.35 + 0.15
	h2 += Snoise(x2*8, 0) * 0.03
	if uy < h2 {
		fog := Smoothstep(h2, h2-0.3, uy)
		col = p.Onyx.Mix(p.Verdigris.Scale(0.8), 0.4).Mix(col, fog*0.5)
	}

	// near ridge, solid silhouette
	x1 := ux*aspect*1.4 + mx*0.1 + 42.5
	if h1 := Ridged(x1, 2)*0.25 + 0.05; uy < h1 {
		col = p.Onyx
	}

	if !u.NoGrain {
		col = col.Add(RGB{1, 1, 1}.Scale(Grain(ux, uy) * 0.04))
	}
	return col
}

// Ridgeline returns the heights in uv units of the three ridges at column
// ux, far to near.
func Ridgeline(u Uniforms, ux float64) [3]float64 {
	if u.Width <= 0 || u.Height <= 0 {
		return [3]float64{}
	}
	aspect := u.Width / u.Height
	mx := (u.MouseX - 0.5) * aspect
	x3 := ux*aspect*0.6 + mx*0.02 + 5
	x2 := ux*aspect + mx*0.05 + 12.3
	x1 := ux*aspect*1.4 + mx*0.1 + 42.5
	return [3]float64{
		Ridged(x3, 0)*0.5 + 0.2,
		Ridged(x2, 1)*0.35 + 0.15 + Snoise(x2*8, 0)*0.03,
		Ridged(x1, 2)*0.25 + 0.05,
	}
}
