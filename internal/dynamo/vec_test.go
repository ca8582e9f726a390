package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestVec3_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Vec3
		want Vec3
	}{
		{"axis", Vec3{3, 0, 0}, Vec3{1, 0, 0}},
		{"diagonal", Vec3{0, 3, 4}, Vec3{0, 0.6, 0.8}},
		{"zero", Vec3{}, Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			if got.Sub(tt.want).Length() > 1e-12 {
				t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
			}
			if !got.IsValid() {
				t.Errorf("Normalize(%v) produced invalid vector %v", tt.in, got)
			}
		})
	}
}

func TestVec3_ClampLength(t *testing.T) {
	tests := []struct {
		in   Vec3
		max  float64
		want float64
	}{
		{Vec3{3, 4, 0}, 1, 1},
		{Vec3{0.3, 0.4, 0}, 1, 0.5},
		{Vec3{3, 4, 0}, 0, 0},
		{Vec3{}, 2, 0},
	}

	for _, tt := range tests {
		if got := tt.in.ClampLength(tt.max).Length(); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("ClampLength(%v, %v) length = %v, want %v", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestVec3_Arithmetic(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}

	if got := a.Add(b); got != (Vec3{5, 7, 9}) {
		t.Errorf("Add failed: got %v", got)
	}
	if got := b.Sub(a); got != (Vec3{3, 3, 3}) {
		t.Errorf("Sub failed: got %v", got)
	}
	if got := a.Scale(2); got != (Vec3{2, 4, 6}) {
		t.Errorf("Scale failed: got %v", got)
	}
	if got := a.Cross(b); got != (Vec3{-3, 6, -3}) {
		t.Errorf("Cross failed: got %v", got)
	}
	if got := a.Lerp(b, 0.5); got != (Vec3{2.5, 3.5, 4.5}) {
		t.Errorf("Lerp failed: got %v", got)
	}
}

func TestAgentState_ApplyForce(t *testing.T) {
	a := NewAgent(Vec3{-15, 10, 0})
	a.ApplyForce(Vec3{0.1, 0, 0})
	a.ApplyForce(Vec3{0, 0.2, 0})

	if a.Acceleration != (Vec3{0.1, 0.2, 0}) {
		t.Errorf("forces did not accumulate: %v", a.Acceleration)
	}
	if a.Position != (Vec3{-15, 10, 0}) {
		t.Errorf("spawn position lost: %v", a.Position)
	}

	a.Velocity.X = math.NaN()
	if a.IsValid() {
		t.Error("NaN velocity reported as valid")
	}
}

func TestLimits_Validate(t *testing.T) {
	if err := (Limits{MaxSpeed: 0.18, MaxForce: 0.008}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	err := (Limits{MaxSpeed: 0, MaxForce: 0.008}).Validate()
	if !errors.Is(err, ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}

func TestFrameError(t *testing.T) {
	err := &FrameError{Frame: 12, Time: 0.2, Wrapped: ErrInvalidState}
	expected := "frame 12 (t=0.2000): dynamo: invalid state (NaN or Inf detected)"
	if err.Error() != expected {
		t.Errorf("FrameError.Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("FrameError does not unwrap")
	}
}

func TestPhase_String(t *testing.T) {
	if IntroApproach.String() != "intro" || FreeFlight.String() != "free" {
		t.Errorf("unexpected phase names %q %q", IntroApproach, FreeFlight)
	}
}
