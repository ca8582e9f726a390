package scenario

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/skyplane/internal/config"
	"github.com/san-kum/skyplane/internal/dynamo"
	"github.com/san-kum/skyplane/internal/flight"
	"github.com/san-kum/skyplane/internal/render"
)

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scn.yaml")
	data := `
name: fling
duration: 2
dt: 0.02
events:
  - at: 1.0
    scroll_by: 200
  - at: 0.5
    pointer: {x: 0.9, y: 0.1}
  - at: 1.5
    release: true
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	scn, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if scn.Name != "fling" || len(scn.Events) != 3 {
		t.Fatalf("unexpected scenario %+v", scn)
	}
	if scn.Frames() != 100 {
		t.Errorf("expected 100 frames, got %d", scn.Frames())
	}
	ev := scn.sorted()
	if ev[0].Pointer == nil || ev[1].ScrollBy == nil || !ev[2].Release {
		t.Errorf("events not sorted by time: %+v", ev)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		scn  Scenario
	}{
		{"no duration", Scenario{Dt: 0.1}},
		{"no dt", Scenario{Duration: 1}},
		{"negative event", Scenario{Duration: 1, Dt: 0.1, Events: []Event{{At: -1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.scn.Validate(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRunAppliesEvents(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Intro.Enabled = false
	sim := flight.NewSimulation(cfg)

	scn := &Scenario{
		Name:     "script",
		Duration: 1,
		Dt:       0.1,
		Events: []Event{
			{At: 0.3, Pointer: &PointerEvent{X: 1, Y: 0}},
			{At: 0.5, ScrollTo: ptr(100)},
			{At: 0.7, Release: true},
		},
	}

	var frames []render.Frame
	res, err := Run(context.Background(), sim, scn, func(f render.Frame) { frames = append(frames, f) })
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 10 || len(res.Samples) != 10 {
		t.Fatalf("expected 10 frames, got %d/%d", len(frames), len(res.Samples))
	}
	if frames[2].Pointer.Active || !frames[3].Pointer.Active || frames[7].Pointer.Active {
		t.Error("pointer activity does not follow the script")
	}
	if frames[5].Scroll.RawDelta != 100 {
		t.Errorf("expected scroll jump at frame 5, got %f", frames[5].Scroll.RawDelta)
	}
	if res.FreeFlightAt != 0.1 {
		t.Errorf("expected free flight from the first frame, got %f", res.FreeFlightAt)
	}
	if _, ok := res.Metrics["containment"]; !ok {
		t.Error("expected standard metrics")
	}

	xs, err := res.Series("x")
	if err != nil || len(xs) != 10 {
		t.Errorf("series: %v (%d)", err, len(xs))
	}
	if _, err := res.Series("nope"); err == nil {
		t.Error("expected unknown series error")
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RunWithConfig(ctx, config.DefaultConfig(), Builtins["idle"](), nil)
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestBuiltinsReachFreeFlight(t *testing.T) {
	for _, name := range ListBuiltins() {
		t.Run(name, func(t *testing.T) {
			scn, err := GetBuiltin(name)
			if err != nil {
				t.Fatal(err)
			}
			res, err := RunWithConfig(context.Background(), config.DefaultConfig(), scn, nil)
			if err != nil {
				t.Fatal(err)
			}
			if res.FreeFlightAt < 3.9 || res.FreeFlightAt > 4.1 {
				t.Errorf("expected free flight at the end of the intro, got %f", res.FreeFlightAt)
			}
			if res.Metrics["speed_ratio"] > 1+1e-9 {
				t.Errorf("speed cap broken: %f", res.Metrics["speed_ratio"])
			}
			last := res.Samples[len(res.Samples)-1]
			if last.Phase != dynamo.FreeFlight {
				t.Errorf("expected free flight at the end, got %v", last.Phase)
			}
		})
	}
	if _, err := GetBuiltin("missing"); err == nil {
		t.Error("expected unknown scenario error")
	}
}

func TestScrollBurstSpeedsUpFlight(t *testing.T) {
	cfg := config.DefaultConfig()
	idle, err := RunWithConfig(context.Background(), cfg, &Scenario{Duration: 10, Dt: 1.0 / 60}, nil)
	if err != nil {
		t.Fatal(err)
	}
	burst := Builtins["scroll-burst"]()
	burst.Duration = 10
	fast, err := RunWithConfig(context.Background(), cfg, burst, nil)
	if err != nil {
		t.Fatal(err)
	}

	a := idle.Samples[len(idle.Samples)-1].FlightTime
	b := fast.Samples[len(fast.Samples)-1].FlightTime
	if b <= a {
		t.Errorf("expected scrolling to advance flight time: idle=%f burst=%f", a, b)
	}
	if fast.Metrics["excitement"] <= 0 {
		t.Error("expected non-zero excitement")
	}
}

func TestRunSweep(t *testing.T) {
	scn := &Scenario{Duration: 2, Dt: 1.0 / 60}
	base := config.DefaultConfig()
	base.Intro.Enabled = false

	results, err := RunSweep(context.Background(), base, scn, &ParameterSweep{
		Param: "physics.idle.max_speed", ParamMin: 0.05, ParamMax: 0.25, NumSteps: 3,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 || math.Abs(results[1].ParamValue-0.15) > 1e-12 {
		t.Fatalf("unexpected sweep %+v", results)
	}
	if base.Physics.Idle.MaxSpeed != 0.18 {
		t.Error("sweep mutated the base config")
	}

	if _, err := RunSweep(context.Background(), base, scn, &ParameterSweep{Param: "nope", NumSteps: 2}); err == nil {
		t.Error("expected unknown parameter error")
	}
	if _, err := RunSweep(context.Background(), base, scn, &ParameterSweep{
		Param: "scroll.saturation", ParamMin: -1, ParamMax: -1, NumSteps: 1,
	}); err == nil {
		t.Error("expected validation error")
	}
}

func TestRunMonteCarlo(t *testing.T) {
	scn := Builtins["pointer-sweep"]()
	scn.Duration = 6
	results, err := RunMonteCarlo(context.Background(), config.DefaultConfig(), scn, &MonteCarloConfig{
		Perturbation: 0.5, NumTrials: 3, Seed: 7,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 trials, got %d", len(results))
	}
	stable, unstable := MonteCarloStats(results)
	if stable+unstable != 3 {
		t.Errorf("stats do not add up: %d + %d", stable, unstable)
	}
	if results[0].Spawn == results[1].Spawn {
		t.Error("expected perturbed spawns")
	}
}
