package render

import (
	"sync"

	"github.com/san-kum/skyplane/internal/dynamo"
)

// Surface is a render target for the two scenes.
type Surface interface {
	Name() string
	Available() bool
	Attach() error
	Resize(v Viewport) error
	Render(f Frame) error
	Release()
}

// Unavailable is a surface for environments without a rendering capability.
type Unavailable struct{}

func (Unavailable) Name() string          { return "unavailable" }
func (Unavailable) Available() bool       { return false }
func (Unavailable) Attach() error         { return dynamo.ErrMissingCapability }
func (Unavailable) Resize(Viewport) error { return dynamo.ErrMissingCapability }
func (Unavailable) Render(Frame) error    { return dynamo.ErrMissingCapability }
func (Unavailable) Release()              {}

// Headless accepts frames without drawing them. It tracks what a real
// surface would have been asked to do.
type Headless struct {
	mu         sync.Mutex
	attached   bool
	released   bool
	viewport   Viewport
	projection Projection
	resizes    int
	frames     int
	last       Frame
}

func NewHeadless(proj Projection) *Headless {
	return &Headless{projection: proj}
}

func (h *Headless) Name() string    { return "headless" }
func (h *Headless) Available() bool { return true }

func (h *Headless) Attach() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.attached = true
	return nil
}

func (h *Headless) Resize(v Viewport) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if v == h.viewport {
		return nil
	}
	h.viewport = v
	h.projection.Update(v)
	h.resizes++
	return nil
}

func (h *Headless) Render(f Frame) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frames++
	h.last = f
	return nil
}

func (h *Headless) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.released = true
	h.attached = false
}

// Stats reports frames rendered, resizes applied and whether the surface
// was released.
func (h *Headless) Stats() (frames, resizes int, released bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frames, h.resizes, h.released
}

func (h *Headless) Viewport() (Viewport, Projection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.viewport, h.projection
}

func (h *Headless) Last() Frame {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}
