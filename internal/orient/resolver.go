// Package orient derives the plane's mesh rotation from its velocity: a
// look-rotation along the direction of travel plus a roll that banks into
// lateral motion, eased toward the target a fraction per frame.
package orient

import (
	"math"

	"cogentcore.org/core/math32"
	"github.com/san-kum/skyplane/internal/dynamo"
)

// Params are the resolver constants. Angles are in radians.
type Params struct {
	Epsilon   float64 `yaml:"epsilon"`
	BankGain  float64 `yaml:"bank_gain"`
	MaxBank   float64 `yaml:"max_bank"`
	Smoothing float64 `yaml:"smoothing"`
}

func DefaultParams() Params {
	return Params{
		Epsilon:   1e-5,
		BankGain:  0.5,
		MaxBank:   math.Pi / 3,
		Smoothing: 0.05,
	}
}

var (
	worldUp  = math32.Vec3(0, 1, 0)
	rollAxis = math32.Vec3(0, 0, 1)
)

// Resolver holds the current mesh orientation between frames.
type Resolver struct {
	params Params
	q      math32.Quat
}

func NewResolver(p Params) *Resolver {
	return &Resolver{params: p, q: Identity()}
}

func Identity() math32.Quat { return math32.NewQuat(0, 0, 0, 1) }

func (r *Resolver) Orientation() math32.Quat { return r.q }

// Update eases the orientation toward the heading implied by vel. It returns
// false and leaves the orientation untouched when vel is too short to define
// a heading.
func (r *Resolver) Update(vel dynamo.Vec3) bool {
	target, ok := r.Target(vel)
	if !ok {
		return false
	}
	r.q.Slerp(target, float32(r.params.Smoothing))
	return true
}

// UpdateScaled is Update with the smoothing fraction compounded over frames
// nominal frames, so a long frame catches up as far as several short ones.
func (r *Resolver) UpdateScaled(vel dynamo.Vec3, frames float64) bool {
	if frames <= 0 {
		return false
	}
	target, ok := r.Target(vel)
	if !ok {
		return false
	}
	t := 1 - math.Pow(1-r.params.Smoothing, frames)
	r.q.Slerp(target, float32(t))
	return true
}

// Target is the fully-settled orientation for vel.
func (r *Resolver) Target(vel dynamo.Vec3) (math32.Quat, bool) {
	if vel.LengthSq() <= r.params.Epsilon || !vel.IsValid() {
		return math32.Quat{}, false
	}

	dir := vel
	// lookAt degenerates when the heading is parallel to world up
	if dir.Cross(dynamo.Vec3{Y: 1}).LengthSq() < 1e-12*dir.LengthSq() {
		dir.Z += 1e-4
	}

	var look math32.Quat
	look.SetFromRotationMatrix(math32.NewLookAt(math32.Vec3(0, 0, 0), toVector3(dir), worldUp))

	roll := math32.NewQuatAxisAngle(rollAxis, float32(BankAngle(vel, r.params)))
	look.SetMul(roll)
	return look, true
}

// BankAngle is the roll for vel: proportional to -vel.X, clamped to MaxBank.
func BankAngle(vel dynamo.Vec3, p Params) float64 {
	bank := -vel.X * p.BankGain
	return math.Max(-p.MaxBank, math.Min(p.MaxBank, bank))
}

// Rotate applies q to v.
func Rotate(q math32.Quat, v dynamo.Vec3) dynamo.Vec3 {
	qv := dynamo.Vec3{X: float64(q.X), Y: float64(q.Y), Z: float64(q.Z)}
	w := float64(q.W)
	t := qv.Cross(v).Scale(2)
	return v.Add(t.Scale(w)).Add(qv.Cross(t))
}

func toVector3(v dynamo.Vec3) math32.Vector3 {
	return math32.Vec3(float32(v.X), float32(v.Y), float32(v.Z))
}
