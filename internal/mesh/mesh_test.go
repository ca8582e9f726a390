package mesh

import (
	"math"
	"testing"

	"github.com/san-kum/skyplane/internal/dynamo"
	"github.com/san-kum/skyplane/internal/orient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noseOf(tris []Triangle) dynamo.Vec3 {
	// every triangle but the tail pair starts at the nose
	return tris[0].A
}

func TestPaperPlane_NosePointsForward(t *testing.T) {
	tris := PaperPlane()
	require.Len(t, tris, 8)

	nose := noseOf(tris)
	assert.InDelta(t, 0, nose.X, 1e-5)
	assert.InDelta(t, -4, nose.Z, 1e-5)
	for _, tri := range tris {
		assert.Greater(t, tri.Normal().LengthSq(), 0.99, "degenerate face %+v", tri)
	}
}

func TestTransform_FollowsHeading(t *testing.T) {
	r := orient.NewResolver(orient.DefaultParams())
	q, ok := r.Target(dynamo.Vec3{Z: -0.2})
	require.True(t, ok)

	pos := dynamo.Vec3{X: 1, Y: 2, Z: -3}
	tris := Transform(PaperPlane(), q, pos, 0.25)
	nose := noseOf(tris)
	assert.InDelta(t, 1, nose.X, 1e-4)
	assert.InDelta(t, 2, nose.Y, 1e-4)
	assert.InDelta(t, -4, nose.Z, 1e-4)

	q, ok = r.Target(dynamo.Vec3{Y: 0.001, X: 0.2})
	require.True(t, ok)
	nose = noseOf(Transform(PaperPlane(), q, dynamo.Vec3{}, 1))
	assert.Greater(t, nose.X, 3.5)
}

func TestPaperTexture_Range(t *testing.T) {
	tex := PaperTexture(64, 7)
	lo, hi := 1.0, 0.0
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			v := tex.Sample(float64(x)/128, float64(y)/128)
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	assert.GreaterOrEqual(t, lo, 215.0/255-1e-9)
	assert.LessOrEqual(t, hi, 1.0)
}

func TestPaperTexture_Deterministic(t *testing.T) {
	a, b := PaperTexture(32, 42), PaperTexture(32, 42)
	assert.Equal(t, a.texel, b.texel)
	assert.Equal(t, a.Sample(0.3, 0.7), a.Sample(0.8, 1.2), "texture repeats twice per unit")
}

func TestPaperTexture_Seamless(t *testing.T) {
	const size = 128
	tex := PaperTexture(size, 3)
	at := func(x, y int) float64 { return float64(tex.texel[y*size+x]) }

	var seamX, seamY, inner float64
	for i := 0; i < size; i++ {
		seamX += math.Abs(at(size-1, i) - at(0, i))
		seamY += math.Abs(at(i, size-1) - at(i, 0))
		inner += math.Abs(at(1, i) - at(2, i))
	}
	assert.LessOrEqual(t, seamX, 2*inner+size, "horizontal seam")
	assert.LessOrEqual(t, seamY, 2*inner+size, "vertical seam")
}

func TestLighting_Shade(t *testing.T) {
	tex := PaperTexture(16, 1)
	l := DefaultLighting()
	for _, tri := range PaperPlane() {
		c := l.Shade(tri, tex)
		assert.Greater(t, c.R+c.G+c.B, 0.0)
		assert.LessOrEqual(t, c.R, tri.Color.R+1e-9)
		assert.LessOrEqual(t, c.G, tri.Color.G+1e-9)
	}
	var nilTex *Texture
	assert.Equal(t, 1.0, nilTex.Sample(0.5, 0.5))
}
