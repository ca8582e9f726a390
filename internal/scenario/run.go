package scenario

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/san-kum/skyplane/internal/config"
	"github.com/san-kum/skyplane/internal/dynamo"
	"github.com/san-kum/skyplane/internal/flight"
	"github.com/san-kum/skyplane/internal/input"
	"github.com/san-kum/skyplane/internal/metrics"
	"github.com/san-kum/skyplane/internal/render"
	"go.uber.org/zap"
)

// Sample is the per-frame slice of a trace.
type Sample struct {
	Time       float64
	Position   dynamo.Vec3
	Speed      float64
	Excitement float64
	FlightTime float64
	Phase      dynamo.Phase
}

type Result struct {
	Scenario     string
	Samples      []Sample
	Metrics      map[string]float64
	FreeFlightAt float64
}

// Series extracts one column of the trace for plotting.
func (r *Result) Series(name string) ([]float64, error) {
	pick := map[string]func(Sample) float64{
		"x":          func(s Sample) float64 { return s.Position.X },
		"y":          func(s Sample) float64 { return s.Position.Y },
		"z":          func(s Sample) float64 { return s.Position.Z },
		"speed":      func(s Sample) float64 { return s.Speed },
		"excitement": func(s Sample) float64 { return s.Excitement },
		"flight":     func(s Sample) float64 { return s.FlightTime },
	}[name]
	if pick == nil {
		return nil, fmt.Errorf("unknown series: %s", name)
	}
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = pick(s)
	}
	return out, nil
}

// Run drives sim through the scenario's timeline.
func Run(ctx context.Context, sim *flight.Simulation, scn *Scenario, observers ...flight.Observer) (*Result, error) {
	if err := scn.Validate(); err != nil {
		return nil, err
	}

	set := metrics.Standard(sim.Config().Physics.Bounds)
	events := scn.sorted()
	frames := scn.Frames()
	res := &Result{
		Scenario:     scn.Name,
		Samples:      make([]Sample, 0, frames),
		FreeFlightAt: -1,
	}

	pointer := input.Neutral()
	var offset float64
	next := 0
	for i := 0; i < frames; i++ {
		if i%64 == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}
		t := float64(i) * scn.Dt
		for next < len(events) && events[next].At <= t+1e-9 {
			e := events[next]
			if e.Pointer != nil {
				pointer = input.Pointer{X: e.Pointer.X, Y: e.Pointer.Y, Active: true}
			}
			if e.Release {
				pointer.Active = false
			}
			if e.ScrollTo != nil {
				offset = *e.ScrollTo
			}
			if e.ScrollBy != nil {
				offset += *e.ScrollBy
			}
			next++
		}

		f := sim.Step(flight.SimulationContext{Pointer: pointer, ScrollOffset: offset}, scn.Dt)
		set.Observe(f)
		for _, o := range observers {
			o(f)
		}
		if res.FreeFlightAt < 0 && f.Phase == dynamo.FreeFlight {
			res.FreeFlightAt = f.Clock
		}
		res.Samples = append(res.Samples, sample(f))
	}

	res.Metrics = set.Values()
	return res, nil
}

func sample(f render.Frame) Sample {
	return Sample{
		Time:       f.Clock,
		Position:   f.Agent.Position,
		Speed:      f.Speed(),
		Excitement: f.Scroll.Excitement,
		FlightTime: f.FlightTime,
		Phase:      f.Phase,
	}
}

// RunWithConfig builds a fresh simulation for cfg and runs the scenario.
func RunWithConfig(ctx context.Context, cfg *config.Config, scn *Scenario, log *zap.Logger) (*Result, error) {
	sim := flight.NewSimulation(cfg, flight.WithLogger(log))
	return Run(ctx, sim, scn)
}

// ParameterSweep runs a scenario across a range of one config value
type ParameterSweep struct {
	Param    string
	ParamMin float64
	ParamMax float64
	NumSteps int
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue float64
	Metrics    map[string]float64
}

// sweepParams are the config values a sweep may vary.
var sweepParams = map[string]func(*config.Config, float64){
	"scroll.boost":           func(c *config.Config, v float64) { c.Scroll.Boost = v },
	"scroll.saturation":      func(c *config.Config, v float64) { c.Scroll.Saturation = v },
	"physics.idle.max_speed": func(c *config.Config, v float64) { c.Physics.Idle.MaxSpeed = v },
	"physics.idle.max_force": func(c *config.Config, v float64) { c.Physics.Idle.MaxForce = v },
	"physics.active.max_speed": func(c *config.Config, v float64) {
		c.Physics.Active.MaxSpeed = v
	},
	"physics.arrival_radius": func(c *config.Config, v float64) { c.Physics.ArrivalRadius = v },
	"flight.path.rate":       func(c *config.Config, v float64) { c.Flight.Path.Rate = v },
	"orientation.smoothing":  func(c *config.Config, v float64) { c.Orientation.Smoothing = v },
}

// SweepParams lists the config values that may be varied, sorted.
func SweepParams() []string {
	names := make([]string, 0, len(sweepParams))
	for name := range sweepParams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyParam sets one sweepable config value in place.
func ApplyParam(cfg *config.Config, name string, v float64) error {
	set, ok := sweepParams[name]
	if !ok {
		return fmt.Errorf("parameter %s cannot be swept", name)
	}
	set(cfg, v)
	return nil
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, base *config.Config, scn *Scenario, sweep *ParameterSweep) ([]SweepResult, error) {
	if _, ok := sweepParams[sweep.Param]; !ok {
		return nil, fmt.Errorf("parameter %s cannot be swept", sweep.Param)
	}
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("%w: sweep steps %d", dynamo.ErrParameterBounds, sweep.NumSteps)
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep
		cfg := base.Clone()
		sweepParams[sweep.Param](cfg, paramVal)
		if err := cfg.Validate(); err != nil {
			return results, fmt.Errorf("%s=%g: %w", sweep.Param, paramVal, err)
		}

		res, err := RunWithConfig(ctx, cfg, scn, nil)
		if err != nil {
			return results, err
		}
		results = append(results, SweepResult{ParamValue: paramVal, Metrics: res.Metrics})
	}
	return results, nil
}

// MonteCarloConfig perturbs the intro spawn point and the pointer script.
type MonteCarloConfig struct {
	Perturbation float64
	NumTrials    int
	Seed         int64
}

// MonteCarloResult holds the outcome of one perturbed trial.
type MonteCarloResult struct {
	TrialID   int
	Spawn     dynamo.Vec3
	Contained float64
	Stable    bool // never left bounds and never went non-finite
}

// RunMonteCarlo executes multiple trials with random perturbations
func RunMonteCarlo(ctx context.Context, base *config.Config, scn *Scenario, mc *MonteCarloConfig) ([]MonteCarloResult, error) {
	rng := rand.New(rand.NewSource(mc.Seed))
	if mc.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	jitter := func() float64 { return (rng.Float64() - 0.5) * 2 * mc.Perturbation }

	results := make([]MonteCarloResult, 0, mc.NumTrials)
	for trial := 0; trial < mc.NumTrials; trial++ {
		cfg := base.Clone()
		cfg.Intro.Spawn = cfg.Intro.Spawn.Add(dynamo.Vec3{X: jitter(), Y: jitter(), Z: jitter()})

		perturbed := *scn
		perturbed.Events = make([]Event, len(scn.Events))
		for i, e := range scn.Events {
			if e.Pointer != nil {
				p := PointerEvent{X: clamp01(e.Pointer.X + jitter()), Y: clamp01(e.Pointer.Y + jitter())}
				e.Pointer = &p
			}
			perturbed.Events[i] = e
		}

		res, err := RunWithConfig(ctx, cfg, &perturbed, nil)
		if err != nil {
			return results, err
		}

		contained := res.Metrics["containment"]
		stable := contained == 1
		for _, s := range res.Samples {
			if !s.Position.IsValid() || math.IsNaN(s.Speed) {
				stable = false
				break
			}
		}
		results = append(results, MonteCarloResult{
			TrialID:   trial,
			Spawn:     cfg.Intro.Spawn,
			Contained: contained,
			Stable:    stable,
		})
	}
	return results, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}

func clamp01(v float64) float64 { return math.Max(0, math.Min(1, v)) }
