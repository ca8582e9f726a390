package flight_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/skyplane/internal/config"
	"github.com/san-kum/skyplane/internal/dynamo"
	"github.com/san-kum/skyplane/internal/flight"
	"github.com/san-kum/skyplane/internal/input"
	"github.com/san-kum/skyplane/internal/render"
)

// brokenSurface reports a capability but fails to attach.
type brokenSurface struct{ render.Headless }

func (b *brokenSurface) Name() string  { return "broken" }
func (b *brokenSurface) Attach() error { return errors.New("context lost") }

type frameLog struct {
	mu     sync.Mutex
	frames []render.Frame
}

func (l *frameLog) observe(f render.Frame) {
	l.mu.Lock()
	l.frames = append(l.frames, f)
	l.mu.Unlock()
}

func (l *frameLog) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.frames)
}

func quickConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Render.InitDelay = 0
	cfg.Intro.Enabled = false
	return cfg
}

var _ = Describe("Controller", func() {
	var (
		cfg     *config.Config
		surface *render.Headless
	)

	BeforeEach(func() {
		cfg = quickConfig()
		surface = render.NewHeadless(render.Projection{FOV: 75, Near: 0.1, Far: 100})
	})

	It("runs frames until stopped and releases the surface", func() {
		log := &frameLog{}
		c := flight.NewController(cfg, surface, flight.WithObserver(log.observe))
		Expect(c.Start(context.Background())).To(Succeed())

		Eventually(log.count, time.Second).Should(BeNumerically(">=", 3))
		c.Stop()

		frames, _, released := surface.Stats()
		Expect(released).To(BeTrue())
		stopped := frames
		Consistently(func() int { f, _, _ := surface.Stats(); return f }, 100*time.Millisecond).Should(Equal(stopped))
	})

	It("refuses a second start", func() {
		c := flight.NewController(cfg, surface)
		Expect(c.Start(context.Background())).To(Succeed())
		defer c.Stop()
		Expect(c.Start(context.Background())).To(MatchError(dynamo.ErrAlreadyStarted))
	})

	It("tolerates stop before start and repeated stops", func() {
		c := flight.NewController(cfg, surface)
		c.Stop()
		Expect(c.Start(context.Background())).To(Succeed())
		c.Stop()
		c.Stop()
		_, _, released := surface.Stats()
		Expect(released).To(BeTrue())
	})

	It("skips without a render capability", func() {
		c := flight.NewController(cfg, render.Unavailable{})
		Expect(c.Start(context.Background())).To(Succeed())
		Expect(c.Skipped()).To(BeTrue())
		c.Stop()
	})

	It("falls back to headless when attach fails", func() {
		c := flight.NewController(cfg, &brokenSurface{})
		Expect(c.Start(context.Background())).To(Succeed())
		defer c.Stop()
		Expect(c.Skipped()).To(BeFalse())
		Expect(c.Headless()).To(BeTrue())
	})

	It("stops when the parent context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		c := flight.NewController(cfg, surface)
		Expect(c.Start(ctx)).To(Succeed())
		cancel()
		c.Stop()
	})

	Describe("manual ticks", func() {
		var c *flight.Controller

		BeforeEach(func() {
			c = flight.NewController(cfg, surface)
		})

		It("applies a resize once no matter how often it repeats", func() {
			c.OnResize(800, 600, 3)
			c.Tick(1.0 / 60)
			c.OnResize(800, 600, 3)
			c.Tick(1.0 / 60)
			c.Tick(1.0 / 60)

			_, resizes, _ := surface.Stats()
			Expect(resizes).To(Equal(1))
			vp, _ := surface.Viewport()
			Expect(vp.PixelRatio).To(Equal(2.0))
			Expect(c.Projection().Aspect).To(BeNumerically("~", 800.0/600, 1e-12))
		})

		It("coalesces several resizes between frames", func() {
			c.OnResize(100, 100, 1)
			c.OnResize(300, 100, 1)
			c.Tick(1.0 / 60)
			_, resizes, _ := surface.Stats()
			Expect(resizes).To(Equal(1))
			Expect(c.Projection().Aspect).To(BeNumerically("~", 3, 1e-12))
		})

		It("feeds the latest pointer and scroll into the next frame", func() {
			c.SetPointer(2, 0.25, true)
			c.SetScroll(120)
			f := c.Tick(1.0 / 60)
			Expect(f.Pointer).To(Equal(input.Pointer{X: 1, Y: 0.25, Active: true}))
			Expect(f.Limits.MaxSpeed).To(Equal(cfg.Physics.Active.MaxSpeed))

			c.SetScroll(160)
			f = c.Tick(1.0 / 60)
			Expect(f.Scroll.RawDelta).To(Equal(40.0))
		})

		It("centers a non-finite pointer and honours release", func() {
			c.SetPointer(math.NaN(), math.Inf(1), true)
			f := c.Tick(1.0 / 60)
			Expect(f.Pointer).To(Equal(input.Pointer{X: 0.5, Y: 0.5, Active: true}))

			c.SetPointer(0.2, 0.8, false)
			f = c.Tick(1.0 / 60)
			Expect(f.Pointer.Active).To(BeFalse())
			Expect(f.Limits.MaxSpeed).To(Equal(cfg.Physics.Idle.MaxSpeed))
		})
	})
})
