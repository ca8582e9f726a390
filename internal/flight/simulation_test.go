package flight_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/skyplane/internal/config"
	"github.com/san-kum/skyplane/internal/dynamo"
	"github.com/san-kum/skyplane/internal/flight"
	"github.com/san-kum/skyplane/internal/input"
	"github.com/san-kum/skyplane/internal/orient"
	"github.com/san-kum/skyplane/internal/tween"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const frame = 1.0 / 60

type manualScheduler struct {
	specs   []tween.Spec
	handles []*manualHandle
}

type manualHandle struct{ cancelled bool }

func (h *manualHandle) Cancel()    { h.cancelled = true }
func (h *manualHandle) Done() bool { return h.cancelled }

func (m *manualScheduler) Schedule(s tween.Spec) tween.Handle {
	h := &manualHandle{}
	m.specs = append(m.specs, s)
	m.handles = append(m.handles, h)
	return h
}

var _ = Describe("Simulation", func() {
	var cfg *config.Config

	BeforeEach(func() {
		cfg = config.DefaultConfig()
	})

	Describe("intro approach", func() {
		It("starts at the spawn point heading along the intro direction", func() {
			sim := flight.NewSimulation(cfg)
			Expect(sim.Phase()).To(Equal(dynamo.IntroApproach))

			f := sim.Step(flight.SimulationContext{Pointer: input.Neutral()}, frame)
			Expect(f.Phase).To(Equal(dynamo.IntroApproach))
			Expect(f.Substeps).To(BeZero())
			Expect(f.Agent.Position.X).To(BeNumerically("<", -14))
			Expect(f.Agent.Velocity.Length()).To(BeNumerically("~", 0.2, 1e-9))
			Expect(f.Agent.Velocity.X).To(BeNumerically(">", 0))
			Expect(f.Agent.Velocity.Y).To(BeNumerically("<", 0))
		})

		It("reaches the origin and switches to free flight once", func() {
			transitions := 0
			sim := flight.NewSimulation(cfg, flight.OnPhase(func(dynamo.Phase) { transitions++ }))

			for i := 0; i < 240; i++ {
				sim.Step(flight.SimulationContext{Pointer: input.Neutral()}, frame)
			}
			Expect(sim.Phase()).To(Equal(dynamo.FreeFlight))
			Expect(sim.Agent().Position.Length()).To(BeNumerically("<", 1))

			sim.CompleteIntro()
			sim.CompleteIntro()
			for i := 0; i < 60; i++ {
				sim.Step(flight.SimulationContext{Pointer: input.Neutral()}, frame)
			}
			Expect(transitions).To(Equal(1))
		})

		It("holds the speed cap from the first free flight frame", func() {
			sim := flight.NewSimulation(cfg)
			seen := false
			for i := 0; i < 400; i++ {
				f := sim.Step(flight.SimulationContext{Pointer: input.Neutral()}, frame)
				if f.Phase != dynamo.FreeFlight {
					continue
				}
				if !seen {
					seen = true
					Expect(f.Substeps).To(Equal(1), "transition frame %d", f.Index)
				}
				Expect(f.Speed()).To(BeNumerically("<=", f.Limits.MaxSpeed+1e-9), "frame %d", f.Index)
			}
			Expect(seen).To(BeTrue())
		})

		It("clamps the intro velocity when an external scheduler completes", func() {
			sched := &manualScheduler{}
			sim := flight.NewSimulation(cfg, flight.WithScheduler(sched))
			sched.specs[0].OnUpdate(1)
			Expect(sim.Agent().Velocity.Length()).To(BeNumerically("~", 0.2, 1e-9))

			sched.specs[0].OnComplete()
			Expect(sim.Agent().Velocity.Length()).To(BeNumerically("<=", cfg.Physics.Idle.MaxSpeed+1e-12))
		})

		It("tolerates a scheduler that completes more than once", func() {
			sched := &manualScheduler{}
			transitions := 0
			sim := flight.NewSimulation(cfg,
				flight.WithScheduler(sched),
				flight.OnPhase(func(dynamo.Phase) { transitions++ }))
			Expect(sched.specs).To(HaveLen(1))

			spec := sched.specs[0]
			spec.OnUpdate(spec.Ease(0.5))
			Expect(sim.Agent().Position.X).To(BeNumerically(">", -15))
			spec.OnUpdate(1)
			spec.OnComplete()
			spec.OnComplete()

			Expect(sim.Phase()).To(Equal(dynamo.FreeFlight))
			Expect(transitions).To(Equal(1))

			before := sim.Agent().Position
			spec.OnUpdate(0)
			Expect(sim.Agent().Position).To(Equal(before))
		})

		It("skips the approach when disabled", func() {
			cfg.Intro.Enabled = false
			sim := flight.NewSimulation(cfg)
			Expect(sim.Phase()).To(Equal(dynamo.FreeFlight))
			Expect(sim.Agent().Position).To(Equal(dynamo.Vec3{}))
		})
	})

	Describe("free flight", func() {
		var sim *flight.Simulation

		BeforeEach(func() {
			cfg.Intro.Enabled = false
			sim = flight.NewSimulation(cfg)
		})

		DescribeTable("never exceeds the active speed cap",
			func(active bool, limit float64) {
				p := input.Pointer{X: 0.9, Y: 0.1, Active: active}
				for i := 0; i < 600; i++ {
					f := sim.Step(flight.SimulationContext{Pointer: p, ScrollOffset: float64(i * 7)}, frame)
					Expect(f.Speed()).To(BeNumerically("<=", limit+1e-9))
					Expect(f.Limits.MaxSpeed).To(Equal(limit))
				}
			},
			Entry("idle profile", false, 0.18),
			Entry("pointer profile", true, 0.35),
		)

		It("runs one substep per nominal frame", func() {
			f := sim.Step(flight.SimulationContext{Pointer: input.Neutral()}, frame)
			Expect(f.Substeps).To(Equal(1))
		})

		It("caps substeps after a long stall", func() {
			f := sim.Step(flight.SimulationContext{Pointer: input.Neutral()}, 2.0)
			Expect(f.Substeps).To(Equal(cfg.Render.MaxSubsteps))
			Expect(f.ShaderTime).To(BeNumerically("~", 2.0, 1e-9))
		})

		It("logs the time dropped by a stall", func() {
			core, logs := observer.New(zapcore.DebugLevel)
			sim = flight.NewSimulation(cfg, flight.WithLogger(zap.New(core)))

			sim.Step(flight.SimulationContext{Pointer: input.Neutral()}, frame)
			Expect(logs.FilterMessage("frame time dropped").Len()).To(BeZero())

			sim.Step(flight.SimulationContext{Pointer: input.Neutral()}, 2.0)
			dropped := logs.FilterMessage("frame time dropped").All()
			Expect(dropped).To(HaveLen(1))
			Expect(dropped[0].ContextMap()["dropped"]).To(BeNumerically("~", 2.0-float64(cfg.Render.MaxSubsteps)*frame, 1e-9))
		})

		It("does no work for a zero-length frame", func() {
			f := sim.Step(flight.SimulationContext{Pointer: input.Neutral()}, 0)
			Expect(f.Substeps).To(BeZero())
			Expect(f.Agent.Position).To(Equal(dynamo.Vec3{}))
		})

		It("offsets the target toward the pointer", func() {
			base := sim.Target(input.Pointer{X: 0.5, Y: 0.5})
			right := sim.Target(input.Pointer{X: 1, Y: 0.5, Active: true})
			Expect(right.X - base.X).To(BeNumerically("~", 0.5*6*0.4, 1e-9))
			up := sim.Target(input.Pointer{X: 0.5, Y: 0, Active: true})
			Expect(up.Y - base.Y).To(BeNumerically("~", 0.5*3*0.4, 1e-9))
		})

		It("advances flight time faster while scrolling", func() {
			calm := flight.NewSimulation(cfg)
			for i := 0; i < 60; i++ {
				calm.Step(flight.SimulationContext{Pointer: input.Neutral()}, frame)
				sim.Step(flight.SimulationContext{Pointer: input.Neutral(), ScrollOffset: float64(i * 40)}, frame)
			}
			Expect(sim.FlightTime()).To(BeNumerically(">", calm.FlightTime()))
			Expect(calm.FlightTime()).To(BeNumerically("~", 1.0, 1e-6))
		})

		It("keeps a stationary plane's orientation untouched", func() {
			cfg.Physics.Idle = dynamo.Limits{MaxSpeed: 0, MaxForce: 0}
			still := flight.NewSimulation(cfg)
			for i := 0; i < 10; i++ {
				f := still.Step(flight.SimulationContext{Pointer: input.Neutral()}, frame)
				Expect(f.Orientation).To(Equal(orient.Identity()))
			}
		})

		It("ignores a NaN pointer and a NaN scroll offset", func() {
			p := input.Pointer{X: math.NaN(), Y: math.Inf(1), Active: true}
			for i := 0; i < 30; i++ {
				f := sim.Step(flight.SimulationContext{Pointer: p, ScrollOffset: math.NaN()}, frame)
				Expect(f.Agent.IsValid()).To(BeTrue())
			}
		})
	})
})
