package orient

import (
	"math"
	"testing"

	"github.com/san-kum/skyplane/internal/dynamo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_NoOpAtRest(t *testing.T) {
	r := NewResolver(DefaultParams())
	r.Update(dynamo.Vec3{X: 0.2, Y: 0.1})
	before := r.Orientation()

	for _, v := range []dynamo.Vec3{{}, {X: 0.001}, {X: math.NaN()}} {
		assert.False(t, r.Update(v), "velocity %v should not define a heading", v)
		assert.Equal(t, before, r.Orientation())
	}
}

func TestResolver_StartsAtIdentity(t *testing.T) {
	r := NewResolver(DefaultParams())
	assert.Equal(t, Identity(), r.Orientation())
}

func TestResolver_ConvergesToHeading(t *testing.T) {
	headings := []dynamo.Vec3{
		{X: 0.2},
		{X: -0.1, Z: -0.1},
		{Y: 0.05, Z: 0.2},
		{Y: 0.3},
	}

	for _, vel := range headings {
		r := NewResolver(DefaultParams())
		for i := 0; i < 600; i++ {
			require.True(t, r.Update(vel))
		}
		forward := Rotate(r.Orientation(), dynamo.Vec3{Z: -1})
		want := vel.Normalize()
		assert.InDelta(t, want.X, forward.X, 1e-2, "heading %v", vel)
		assert.InDelta(t, want.Y, forward.Y, 1e-2, "heading %v", vel)
		assert.InDelta(t, want.Z, forward.Z, 1e-2, "heading %v", vel)
	}
}

func TestResolver_SmoothsByFraction(t *testing.T) {
	r := NewResolver(DefaultParams())
	vel := dynamo.Vec3{X: 0.3}
	target, ok := r.Target(vel)
	require.True(t, ok)

	r.Update(vel)
	q := r.Orientation()
	assert.NotEqual(t, target, q, "a single frame must not snap to the target")

	dot := math.Abs(float64(q.X*target.X + q.Y*target.Y + q.Z*target.Z + q.W*target.W))
	id := Identity()
	dotStart := math.Abs(float64(id.X*target.X + id.Y*target.Y + id.Z*target.Z + id.W*target.W))
	assert.Greater(t, dot, dotStart, "orientation should move toward the target")
}

func TestBankAngle(t *testing.T) {
	p := DefaultParams()
	tests := []struct {
		vx   float64
		want float64
	}{
		{0, 0},
		{0.2, -0.1},
		{-0.2, 0.1},
		{10, -math.Pi / 3},
		{-10, math.Pi / 3},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, BankAngle(dynamo.Vec3{X: tt.vx}, p), 1e-12, "vx=%v", tt.vx)
	}
}

func TestRotate_Identity(t *testing.T) {
	v := dynamo.Vec3{X: 1, Y: 2, Z: 3}
	assert.Equal(t, v, Rotate(Identity(), v))
}

func TestRotate_QuarterTurn(t *testing.T) {
	s := float32(math.Sqrt2 / 2)
	q := Identity()
	q.Y, q.W = s, s // 90 degrees about +Y
	got := Rotate(q, dynamo.Vec3{X: 1})
	assert.InDelta(t, 0, got.X, 1e-6)
	assert.InDelta(t, -1, got.Z, 1e-6)
}

func TestResolver_UpdateScaledMatchesRepeatedFrames(t *testing.T) {
	vel := dynamo.Vec3{X: 0.1, Y: 0.05, Z: -0.2}

	once := NewResolver(DefaultParams())
	require.True(t, once.UpdateScaled(vel, 1))
	single := NewResolver(DefaultParams())
	require.True(t, single.Update(vel))
	assert.InDelta(t, single.Orientation().W, once.Orientation().W, 1e-6)

	r := NewResolver(DefaultParams())
	assert.False(t, r.UpdateScaled(vel, 0))
	assert.Equal(t, Identity(), r.Orientation())
}
