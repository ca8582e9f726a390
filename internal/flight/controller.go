package flight

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/san-kum/skyplane/internal/config"
	"github.com/san-kum/skyplane/internal/dynamo"
	"github.com/san-kum/skyplane/internal/input"
	"github.com/san-kum/skyplane/internal/render"
	"go.uber.org/zap"
)

// Observer receives every frame after it has been handed to the surface.
type Observer func(render.Frame)

// Controller drives a Simulation from a ticker and presents each frame on a
// render surface. Input setters are safe to call from any goroutine.
type Controller struct {
	cfg     *config.Config
	sim     *Simulation
	surface render.Surface
	log     *zap.Logger

	mu        sync.Mutex
	pointer   input.Pointer
	scroll    float64
	pending   render.Viewport
	hasResize bool
	observers []Observer

	// owned by the frame loop once started
	stepMu     sync.Mutex
	applied    render.Viewport
	projection render.Projection

	lifeMu   sync.Mutex
	started  bool
	stopped  bool
	skipped  bool
	headless bool
	cancel   context.CancelFunc
	done     chan struct{}
}

type ControllerOption func(*Controller)

func WithObserver(o Observer) ControllerOption {
	return func(c *Controller) { c.observers = append(c.observers, o) }
}

// WithSimulation replaces the default simulation built from the config.
func WithSimulation(sim *Simulation) ControllerOption {
	return func(c *Controller) { c.sim = sim }
}

func WithControllerLogger(l *zap.Logger) ControllerOption {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

func NewController(cfg *config.Config, surface render.Surface, opts ...ControllerOption) *Controller {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	c := &Controller{
		cfg:     cfg,
		surface: surface,
		log:     zap.NewNop(),
		pointer: input.Neutral(),
		projection: render.Projection{
			FOV:  cfg.Render.FOV,
			Near: cfg.Render.Near,
			Far:  cfg.Render.Far,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sim == nil {
		c.sim = NewSimulation(cfg, WithLogger(c.log))
	}
	c.log = c.log.Named("controller")
	return c
}

// Start attaches the surface and launches the frame loop. Without a usable
// render capability it logs, marks the controller skipped and returns nil.
func (c *Controller) Start(ctx context.Context) error {
	c.lifeMu.Lock()
	defer c.lifeMu.Unlock()

	if c.started {
		return dynamo.ErrAlreadyStarted
	}
	c.started = true

	if c.surface == nil || !c.surface.Available() {
		c.skipped = true
		c.log.Info("rendering skipped", zap.Error(dynamo.ErrMissingCapability))
		return nil
	}

	if err := c.surface.Attach(); err != nil {
		c.log.Warn("surface attach failed, continuing headless",
			zap.String("surface", c.surface.Name()), zap.Error(err))
		c.surface = render.NewHeadless(c.projection)
		c.headless = true
		if err := c.surface.Attach(); err != nil {
			return err
		}
	}

	ctx, c.cancel = context.WithCancel(ctx)
	c.done = make(chan struct{})
	go c.loop(ctx)

	c.log.Info("frame loop started",
		zap.String("surface", c.surface.Name()),
		zap.Float64("frame_rate", c.cfg.Render.FrameRate))
	return nil
}

func (c *Controller) loop(ctx context.Context) {
	defer close(c.done)

	if d := c.cfg.Render.InitDelay; d > 0 {
		t := time.NewTimer(d)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
	}

	interval := time.Duration(float64(time.Second) / c.cfg.Render.FrameRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			c.Tick(now.Sub(last).Seconds())
			last = now
		}
	}
}

// Tick runs one frame synchronously: pending resize, simulation step,
// presentation and observers.
func (c *Controller) Tick(dt float64) render.Frame {
	c.stepMu.Lock()
	defer c.stepMu.Unlock()

	c.mu.Lock()
	in := SimulationContext{Pointer: c.pointer, ScrollOffset: c.scroll}
	vp, resize := c.pending, c.hasResize
	c.hasResize = false
	observers := c.observers
	c.mu.Unlock()

	if resize {
		c.applyResize(vp)
	}

	frame := c.sim.Step(in, dt)
	if c.surface != nil && !c.skipped {
		if err := c.surface.Render(frame); err != nil && !errors.Is(err, dynamo.ErrNoAttachment) {
			c.log.Debug("render failed", zap.Uint64("frame", frame.Index), zap.Error(err))
		}
	}
	for _, o := range observers {
		o(frame)
	}
	return frame
}

func (c *Controller) applyResize(vp render.Viewport) {
	if vp == c.applied {
		return
	}
	c.applied = vp
	c.projection.Update(vp)
	if c.surface == nil || c.skipped {
		return
	}
	if err := c.surface.Resize(vp); err != nil {
		c.log.Debug("resize failed", zap.Int("width", vp.Width), zap.Int("height", vp.Height), zap.Error(err))
	}
}

// Stop halts the loop and releases the surface. It is safe to call more
// than once and before Start.
func (c *Controller) Stop() {
	c.lifeMu.Lock()
	defer c.lifeMu.Unlock()

	if !c.started || c.stopped {
		return
	}
	c.stopped = true
	if c.skipped {
		return
	}
	if c.cancel != nil {
		c.cancel()
		<-c.done
	}
	c.sim.Cancel()
	c.surface.Release()
	c.log.Info("frame loop stopped", zap.Uint64("frames", c.sim.Frames()))
}

// OnResize records new layout dimensions; the next frame applies them.
func (c *Controller) OnResize(width, height int, pixelRatio float64) {
	vp := render.NewViewport(width, height, pixelRatio, c.cfg.Render.MaxPixelRatio)
	c.mu.Lock()
	c.pending = vp
	c.hasResize = true
	c.mu.Unlock()
}

// SetPointer records the normalized pointer position and whether the
// pointer is currently active. Non-finite coordinates fall back to center.
func (c *Controller) SetPointer(x, y float64, active bool) {
	p := input.Pointer{X: x, Y: y, Active: active}.Sanitize()
	c.mu.Lock()
	c.pointer = p
	c.mu.Unlock()
}

func (c *Controller) SetScroll(offset float64) {
	c.mu.Lock()
	c.scroll = offset
	c.mu.Unlock()
}

// Skipped reports whether Start found no render capability.
func (c *Controller) Skipped() bool {
	c.lifeMu.Lock()
	defer c.lifeMu.Unlock()
	return c.skipped
}

// Headless reports whether the loop fell back to a headless surface.
func (c *Controller) Headless() bool {
	c.lifeMu.Lock()
	defer c.lifeMu.Unlock()
	return c.headless
}

func (c *Controller) Projection() render.Projection {
	c.stepMu.Lock()
	defer c.stepMu.Unlock()
	return c.projection
}

func (c *Controller) Simulation() *Simulation { return c.sim }
