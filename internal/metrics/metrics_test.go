package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/skyplane/internal/dynamo"
	"github.com/san-kum/skyplane/internal/render"
	"github.com/san-kum/skyplane/internal/scroll"
	"github.com/san-kum/skyplane/internal/steering"
)

var testBounds = steering.Bounds{XLimit: 9, YLimit: 6, ZMin: -15, ZMax: 3}

func freeFrame(pos, vel, target, force dynamo.Vec3) render.Frame {
	return render.Frame{
		Phase:    dynamo.FreeFlight,
		Substeps: 1,
		Agent:    dynamo.AgentState{Position: pos, Velocity: vel},
		Target:   target,
		Force:    force,
		Limits:   dynamo.Limits{MaxSpeed: 0.2, MaxForce: 0.01},
	}
}

func TestContainment(t *testing.T) {
	m := NewContainment(testBounds)
	if m.Value() != 1.0 {
		t.Errorf("expected 1 before any sample, got %f", m.Value())
	}

	m.Observe(freeFrame(dynamo.Vec3{}, dynamo.Vec3{}, dynamo.Vec3{}, dynamo.Vec3{}))
	m.Observe(freeFrame(dynamo.Vec3{X: 10}, dynamo.Vec3{}, dynamo.Vec3{}, dynamo.Vec3{}))

	if math.Abs(m.Value()-0.5) > 1e-12 {
		t.Errorf("expected 0.5, got %f", m.Value())
	}
	m.Reset()
	if m.Value() != 1.0 {
		t.Error("expected reset to restore full containment")
	}
}

func TestSpeedBound(t *testing.T) {
	m := NewSpeedBound()
	m.Observe(freeFrame(dynamo.Vec3{}, dynamo.Vec3{X: 0.1}, dynamo.Vec3{}, dynamo.Vec3{}))
	m.Observe(freeFrame(dynamo.Vec3{}, dynamo.Vec3{X: 0.05}, dynamo.Vec3{}, dynamo.Vec3{}))

	if math.Abs(m.Value()-0.5) > 1e-12 {
		t.Errorf("expected worst ratio 0.5, got %f", m.Value())
	}

	// frames without a limit are ignored
	m.Observe(render.Frame{Phase: dynamo.FreeFlight, Agent: dynamo.AgentState{Velocity: dynamo.Vec3{X: 5}}})
	if math.Abs(m.Value()-0.5) > 1e-12 {
		t.Errorf("unlimited frame changed the ratio: %f", m.Value())
	}
}

func TestTargetErrorSkipsIntro(t *testing.T) {
	m := NewTargetError()
	intro := freeFrame(dynamo.Vec3{}, dynamo.Vec3{}, dynamo.Vec3{X: 100}, dynamo.Vec3{})
	intro.Phase = dynamo.IntroApproach
	m.Observe(intro)
	if m.Value() != 0 {
		t.Errorf("expected intro frames to be ignored, got %f", m.Value())
	}

	m.Observe(freeFrame(dynamo.Vec3{}, dynamo.Vec3{}, dynamo.Vec3{X: 3, Y: 4}, dynamo.Vec3{}))
	if math.Abs(m.Value()-5) > 1e-12 {
		t.Errorf("expected 5, got %f", m.Value())
	}
}

func TestControlEffort(t *testing.T) {
	m := NewControlEffort()
	m.Observe(freeFrame(dynamo.Vec3{}, dynamo.Vec3{}, dynamo.Vec3{}, dynamo.Vec3{Y: 0.02}))
	m.Observe(freeFrame(dynamo.Vec3{}, dynamo.Vec3{}, dynamo.Vec3{}, dynamo.Vec3{}))
	if math.Abs(m.Value()-0.01) > 1e-12 {
		t.Errorf("expected mean 0.01, got %f", m.Value())
	}
}

func TestSetValues(t *testing.T) {
	s := Standard(testBounds)
	f := freeFrame(dynamo.Vec3{}, dynamo.Vec3{X: 0.2}, dynamo.Vec3{X: 1}, dynamo.Vec3{})
	f.Scroll = scroll.Signal{Excitement: 0.25}
	s.Observe(f)

	vals := s.Values()
	if len(vals) != 5 {
		t.Fatalf("expected 5 metrics, got %d", len(vals))
	}
	if vals["excitement"] != 0.25 {
		t.Errorf("expected excitement 0.25, got %f", vals["excitement"])
	}
	if math.Abs(vals["speed_ratio"]-1) > 1e-12 {
		t.Errorf("expected speed ratio 1, got %f", vals["speed_ratio"])
	}

	names := s.Names()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}

	s.Reset()
	if s.Values()["excitement"] != 0 {
		t.Error("expected reset")
	}
}
