package mesh

import (
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/san-kum/skyplane/internal/dynamo"
	"github.com/san-kum/skyplane/internal/sky"
)

const (
	paperMin    = 215.0
	paperSpread = 40.0
	paperRepeat = 2.0
)

// Texture is a square greyscale paper texture that wraps in both axes.
type Texture struct {
	Size  int
	texel []uint8
}

// PaperTexture fills a size x size texture with fibrous grey in [215,255]
// from seeded Perlin noise.
func PaperTexture(size int, seed int64) *Texture {
	if size < 1 {
		size = 1
	}
	fibres := perlin.NewPerlin(2, 2, 3, seed)
	speckle := perlin.NewPerlin(1.5, 3, 2, seed+1)

	t := &Texture{Size: size, texel: make([]uint8, size*size)}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			fx, fy := float64(x)/float64(size), float64(y)/float64(size)
			n := tileable(fibres, fx, fy, 24, 6)*0.7 + tileable(speckle, fx, fy, 97, 97)*0.3
			v := paperMin + paperSpread*math.Max(0, math.Min(1, n+0.5))
			t.texel[y*size+x] = uint8(math.Round(v))
		}
	}
	return t
}

// tileable samples p over one period of sx by sy noise units at (fx, fy)
// in [0,1)^2, blending with the copies one period back so opposite edges
// meet.
func tileable(p *perlin.Perlin, fx, fy, sx, sy float64) float64 {
	x, y := fx*sx, fy*sy
	return p.Noise2D(x, y)*(1-fx)*(1-fy) +
		p.Noise2D(x-sx, y)*fx*(1-fy) +
		p.Noise2D(x, y-sy)*(1-fx)*fy +
		p.Noise2D(x-sx, y-sy)*fx*fy
}

// Sample reads the texel at uv with repeat wrapping, as a [0,1] intensity.
func (t *Texture) Sample(u, v float64) float64 {
	if t == nil || len(t.texel) == 0 {
		return 1
	}
	wrap := func(c float64) int {
		c = c * paperRepeat
		c -= math.Floor(c)
		i := int(c * float64(t.Size))
		if i >= t.Size {
			i = t.Size - 1
		}
		return i
	}
	return float64(t.texel[wrap(v)*t.Size+wrap(u)]) / 255
}

type Light struct {
	Direction dynamo.Vec3
	Intensity float64
}

// Lighting is an ambient term plus directional lights, evaluated per face.
type Lighting struct {
	Ambient float64
	Lights  []Light
}

func DefaultLighting() Lighting {
	return Lighting{
		Ambient: 0.9,
		Lights: []Light{
			{Direction: dynamo.Vec3{X: 5, Y: 10, Z: 7}.Normalize(), Intensity: 1.0},
			{Direction: dynamo.Vec3{X: -5, Y: -5, Z: -10}.Normalize(), Intensity: 0.5},
		},
	}
}

// Shade lights a world-space triangle. Faces are double sided.
func (l Lighting) Shade(t Triangle, tex *Texture) sky.RGB {
	n := t.Normal()
	k := l.Ambient
	for _, li := range l.Lights {
		k += math.Abs(n.Dot(li.Direction)) * li.Intensity
	}
	// the fixed-function result saturates; keep some headroom for the tint
	k = math.Min(k, 1.6) / 1.6

	u := (t.UV[0][0] + t.UV[1][0] + t.UV[2][0]) / 3
	v := (t.UV[0][1] + t.UV[1][1] + t.UV[2][1]) / 3
	return t.Color.Scale(k * tex.Sample(u, v))
}
