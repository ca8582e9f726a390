// Package mesh holds the paper plane geometry and the flat-shaded lighting
// used to draw it.
package mesh

import (
	"cogentcore.org/core/math32"
	"github.com/san-kum/skyplane/internal/dynamo"
	"github.com/san-kum/skyplane/internal/orient"
	"github.com/san-kum/skyplane/internal/sky"
)

type Triangle struct {
	A, B, C dynamo.Vec3
	Color   sky.RGB
	UV      [3][2]float64
}

// Normal is the unit face normal by the right-hand rule, zero when the
// triangle is degenerate.
func (t Triangle) Normal() dynamo.Vec3 {
	return t.B.Sub(t.A).Cross(t.C.Sub(t.A)).Normalize()
}

func (t Triangle) Centroid() dynamo.Vec3 {
	return t.A.Add(t.B).Add(t.C).Scale(1.0 / 3)
}

func hex(v uint32) sky.RGB {
	return sky.RGB{
		R: float64(v>>16&0xff) / 255,
		G: float64(v>>8&0xff) / 255,
		B: float64(v&0xff) / 255,
	}
}

var (
	ColorWing  = hex(0x7de2d1)
	ColorBelly = hex(0xf0f0e8)
	ColorSpine = hex(0xfffafb)
	ColorTail  = hex(0x339989)
)

func paperUV(v dynamo.Vec3) [2]float64 {
	return [2]float64{v.X/6 + 0.5, v.Z/8 + 0.5}
}

// PaperPlane builds the eight-triangle plane in model space, nose along -Z
// after the half turn about Y so it faces the way the orientation points.
func PaperPlane() []Triangle {
	var (
		nose       = dynamo.Vec3{Z: 4}
		tailTop    = dynamo.Vec3{Y: 0.8, Z: -3.5}
		tailBottom = dynamo.Vec3{Y: -0.5, Z: -3.5}
		wingLeft   = dynamo.Vec3{X: 2.8, Y: 0.8, Z: -3.5}
		wingRight  = dynamo.Vec3{X: -2.8, Y: 0.8, Z: -3.5}
		spineLeft  = dynamo.Vec3{X: 0.15, Y: 0.2, Z: -3.5}
		spineRight = dynamo.Vec3{X: -0.15, Y: 0.2, Z: -3.5}
	)

	tri := func(a, b, c dynamo.Vec3, col sky.RGB) Triangle {
		return Triangle{
			A: a, B: b, C: c,
			Color: col,
			UV:    [3][2]float64{paperUV(a), paperUV(b), paperUV(c)},
		}
	}

	tris := []Triangle{
		tri(nose, spineLeft, wingLeft, ColorWing),
		tri(nose, wingRight, spineRight, ColorWing),
		tri(nose, tailTop, spineLeft, ColorSpine),
		tri(nose, spineRight, tailTop, ColorSpine),
		tri(nose, wingLeft, tailBottom, ColorBelly),
		tri(nose, tailBottom, wingRight, ColorBelly),
		tri(tailTop, tailBottom, spineLeft, ColorTail),
		tri(tailTop, spineRight, tailBottom, ColorTail),
	}

	half := math32.NewQuatAxisAngle(math32.Vec3(0, 1, 0), math32.Pi)
	return Transform(tris, half, dynamo.Vec3{}, 1)
}

// Transform rotates, scales and translates every vertex.
func Transform(tris []Triangle, q math32.Quat, pos dynamo.Vec3, scale float64) []Triangle {
	out := make([]Triangle, len(tris))
	apply := func(v dynamo.Vec3) dynamo.Vec3 {
		return orient.Rotate(q, v.Scale(scale)).Add(pos)
	}
	for i, t := range tris {
		t.A, t.B, t.C = apply(t.A), apply(t.B), apply(t.C)
		out[i] = t
	}
	return out
}
