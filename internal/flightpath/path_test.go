package flightpath

import (
	"math"
	"testing"

	"github.com/san-kum/skyplane/internal/dynamo"
)

func TestLissajous_Origin(t *testing.T) {
	got := DefaultLissajous().Target(0)
	want := dynamo.Vec3{X: 0, Y: 0, Z: 0}
	if got.Sub(want).Length() > 1e-12 {
		t.Errorf("Target(0) = %v, want %v", got, want)
	}
}

func TestLissajous_Deterministic(t *testing.T) {
	p := DefaultLissajous()
	for _, ft := range []float64{0.1, 3.7, 42, 1e4} {
		if a, b := p.Target(ft), p.Target(ft); a != b {
			t.Errorf("Target(%v) not deterministic: %v vs %v", ft, a, b)
		}
	}
}

func TestLissajous_Extent(t *testing.T) {
	p := DefaultLissajous()
	minZ, maxZ := math.Inf(1), math.Inf(-1)
	for _, v := range sampleTargets(p, 0, 2*math.Pi/p.Rate, 2000) {
		if math.Abs(v.X) > p.RadiusX+1e-9 || math.Abs(v.Y) > p.RadiusY+1e-9 {
			t.Fatalf("target %v outside radii", v)
		}
		minZ = math.Min(minZ, v.Z)
		maxZ = math.Max(maxZ, v.Z)
	}
	if math.Abs(minZ-(-8)) > 1e-3 || math.Abs(maxZ) > 1e-3 {
		t.Errorf("depth range [%v, %v], want [-8, 0]", minZ, maxZ)
	}
}

func TestLissajous_Quarter(t *testing.T) {
	p := DefaultLissajous()
	got := p.Target(math.Pi / 2 / p.Rate)
	want := dynamo.Vec3{X: 5, Y: 0, Z: -4}
	if got.Sub(want).Length() > 1e-9 {
		t.Errorf("quarter orbit = %v, want %v", got, want)
	}
}

// sampleTargets returns n targets evenly spaced over [t0, t1].
func sampleTargets(p Path, t0, t1 float64, n int) []dynamo.Vec3 {
	out := make([]dynamo.Vec3, n)
	step := (t1 - t0) / float64(n-1)
	for i := range out {
		out[i] = p.Target(t0 + float64(i)*step)
	}
	return out
}
