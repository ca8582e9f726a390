// Package flight runs the paper plane: a deterministic per-frame Simulation
// and a Controller that drives it from a ticker and hands frames to a
// render surface.
package flight

import (
	"math"

	"github.com/san-kum/skyplane/internal/config"
	"github.com/san-kum/skyplane/internal/dynamo"
	"github.com/san-kum/skyplane/internal/flightpath"
	"github.com/san-kum/skyplane/internal/input"
	"github.com/san-kum/skyplane/internal/integrators"
	"github.com/san-kum/skyplane/internal/orient"
	"github.com/san-kum/skyplane/internal/render"
	"github.com/san-kum/skyplane/internal/scroll"
	"github.com/san-kum/skyplane/internal/steering"
	"github.com/san-kum/skyplane/internal/tween"
	"go.uber.org/zap"
)

// SimulationContext carries one frame's external inputs.
type SimulationContext struct {
	Pointer      input.Pointer
	ScrollOffset float64
}

// Simulation owns all agent state. It is not safe for concurrent use; the
// Controller serializes access.
type Simulation struct {
	cfg      *config.Config
	log      *zap.Logger
	tieBreak steering.TieBreak

	path     flightpath.Path
	coupler  *scroll.Coupler
	resolver *orient.Resolver
	integ    *integrators.Euler
	stepper  *integrators.FixedStep

	timeline  *tween.Timeline
	scheduler tween.Scheduler
	intro     tween.Handle

	agent      *dynamo.AgentState
	phase      dynamo.Phase
	frame      uint64
	clock      float64
	shaderTime float64
	target     dynamo.Vec3
	force      dynamo.Vec3
	limits     dynamo.Limits

	phaseHooks []func(dynamo.Phase)
}

type Option func(*Simulation)

// WithScheduler hands the intro interpolation to an externally advanced
// scheduler. Passing nil disables the scripted intro.
func WithScheduler(s tween.Scheduler) Option {
	return func(sim *Simulation) {
		sim.scheduler = s
		sim.timeline = nil
	}
}

func WithPath(p flightpath.Path) Option {
	return func(sim *Simulation) { sim.path = p }
}

func WithLogger(l *zap.Logger) Option {
	return func(sim *Simulation) {
		if l != nil {
			sim.log = l
		}
	}
}

// OnPhase registers a hook fired on every phase transition.
func OnPhase(fn func(dynamo.Phase)) Option {
	return func(sim *Simulation) { sim.phaseHooks = append(sim.phaseHooks, fn) }
}

func NewSimulation(cfg *config.Config, opts ...Option) *Simulation {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	tb, err := cfg.TieBreak()
	if err != nil {
		tb = steering.TieBreakLastAxis
	}

	timeline := tween.NewTimeline()
	s := &Simulation{
		cfg:       cfg,
		log:       zap.NewNop(),
		tieBreak:  tb,
		path:      cfg.Flight.Path,
		coupler:   scroll.NewCoupler(cfg.Scroll),
		resolver:  orient.NewResolver(cfg.OrientParams()),
		integ:     integrators.NewEuler(),
		stepper:   integrators.NewFixedStep(cfg.Render.FrameRate, cfg.Render.MaxSubsteps),
		timeline:  timeline,
		scheduler: timeline,
		agent:     dynamo.NewAgent(cfg.Intro.Spawn),
		phase:     dynamo.IntroApproach,
		limits:    cfg.Limits(false),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("flight")
	s.startIntro()
	return s
}

func (s *Simulation) startIntro() {
	if !s.cfg.Intro.Enabled || s.scheduler == nil {
		// no scripted approach: start at the origin in free flight
		s.agent.Position = dynamo.Vec3{}
		s.CompleteIntro()
		return
	}

	ease, err := tween.ByName(s.cfg.Intro.Ease)
	if err != nil {
		s.log.Warn("intro easing unknown, using linear", zap.String("ease", s.cfg.Intro.Ease))
		ease = tween.Linear
	}

	spawn := s.cfg.Intro.Spawn
	heading := s.cfg.Intro.Heading.Normalize().Scale(s.cfg.Intro.Speed)
	s.intro = s.scheduler.Schedule(tween.Spec{
		Duration: s.cfg.Intro.Duration,
		Ease:     ease,
		OnUpdate: func(p float64) {
			if s.phase != dynamo.IntroApproach {
				return
			}
			s.agent.Position = spawn.Lerp(dynamo.Vec3{}, p)
			s.agent.Velocity = heading
		},
		OnComplete: s.CompleteIntro,
	})
}

// CompleteIntro moves the simulation into free flight. Calls after the
// first are ignored.
func (s *Simulation) CompleteIntro() {
	if s.phase != dynamo.IntroApproach {
		return
	}
	s.phase = dynamo.FreeFlight
	s.stepper.Reset()
	// the pinned intro speed exceeds the idle cap
	s.limits = s.cfg.Limits(false)
	s.agent.Velocity = s.agent.Velocity.ClampLength(s.limits.MaxSpeed)
	s.log.Info("phase change", zap.Stringer("phase", s.phase), zap.Uint64("frame", s.frame))
	for _, fn := range s.phaseHooks {
		fn(s.phase)
	}
}

// Step advances the simulation by dt seconds of render clock.
func (s *Simulation) Step(in SimulationContext, dt float64) render.Frame {
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		dt = 0
	}
	s.frame++
	s.clock += dt
	s.shaderTime += dt

	pointer := in.Pointer.Sanitize()
	signal := s.coupler.Update(in.ScrollOffset, dt)

	substeps := 0
	s.force = dynamo.Vec3{}
	if s.phase == dynamo.IntroApproach && s.timeline != nil {
		s.timeline.Advance(dt)
	}
	// the frame that completes the intro already flies freely
	if s.phase == dynamo.FreeFlight {
		substeps = s.stepper.Advance(dt)
		if lost := s.stepper.Dropped(); lost > 0 {
			s.log.Debug("frame time dropped",
				zap.Uint64("frame", s.frame),
				zap.Float64("dt", dt),
				zap.Float64("dropped", lost))
		}
		for i := 0; i < substeps; i++ {
			s.fly(pointer)
		}
	}

	if !s.agent.IsValid() {
		err := &dynamo.FrameError{Frame: s.frame, Time: s.clock, Wrapped: dynamo.ErrInvalidState}
		s.log.Warn("resetting agent motion", zap.Error(err))
		s.agent.Velocity = dynamo.Vec3{}
		s.agent.Acceleration = dynamo.Vec3{}
		if !s.agent.Position.IsValid() {
			s.agent.Position = dynamo.Vec3{}
		}
	}

	s.resolver.UpdateScaled(s.agent.Velocity, dt*s.cfg.Render.FrameRate)

	return render.Frame{
		Index:       s.frame,
		Clock:       s.clock,
		Dt:          dt,
		ShaderTime:  s.shaderTime,
		FlightTime:  s.coupler.FlightTime(),
		Substeps:    substeps,
		Phase:       s.phase,
		Agent:       *s.agent,
		Orientation: s.resolver.Orientation(),
		Target:      s.target,
		Force:       s.force,
		Limits:      s.limits,
		Scroll:      signal,
		Pointer:     pointer,
	}
}

// fly runs one fixed substep of steering and integration.
func (s *Simulation) fly(p input.Pointer) {
	s.limits = s.cfg.Limits(p.Active)
	s.target = s.Target(p)

	seek := steering.Seek(s.agent, s.target, s.limits, s.cfg.Physics.ArrivalRadius)
	s.agent.ApplyForce(seek)

	safety := steering.Boundaries(s.agent, s.cfg.Physics.Bounds, dynamo.Limits{
		MaxSpeed: s.limits.MaxSpeed * s.cfg.Physics.BoundarySpeedScale,
		MaxForce: s.cfg.Physics.BoundaryMaxForce,
	}, s.tieBreak)
	s.agent.ApplyForce(safety)

	s.force = s.force.Add(s.agent.Acceleration)
	s.integ.Step(s.agent, s.limits.MaxSpeed)
}

// Target is the point the plane chases at the current flight time, nudged
// toward the pointer while it is active.
func (s *Simulation) Target(p input.Pointer) dynamo.Vec3 {
	target := s.path.Target(s.coupler.FlightTime())
	if !p.Active {
		return target
	}
	offset := dynamo.Vec3{
		X: (p.X - 0.5) * s.cfg.Flight.PointerSpanX,
		Y: -(p.Y - 0.5) * s.cfg.Flight.PointerSpanY,
	}
	return target.Add(offset.Scale(s.cfg.Flight.PointerBlend))
}

func (s *Simulation) Phase() dynamo.Phase      { return s.phase }
func (s *Simulation) Agent() dynamo.AgentState { return *s.agent }
func (s *Simulation) FlightTime() float64      { return s.coupler.FlightTime() }
func (s *Simulation) Frames() uint64           { return s.frame }
func (s *Simulation) Config() *config.Config   { return s.cfg }

// PrimeScroll aligns the scroll reference with the page's initial offset.
func (s *Simulation) PrimeScroll(offset float64) { s.coupler.Prime(offset) }

// Cancel stops a pending intro interpolation without completing it.
func (s *Simulation) Cancel() {
	if s.intro != nil {
		s.intro.Cancel()
	}
}
