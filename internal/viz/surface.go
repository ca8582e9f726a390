package viz

import (
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/san-kum/skyplane/internal/dynamo"
	"github.com/san-kum/skyplane/internal/render"
)

type frameMsg render.Frame

type surfaceClosedMsg struct{}

// Surface is the terminal render target. The frame loop stores the latest
// frame and wakes the Bubble Tea program; frames the program is too slow to
// draw are dropped.
type Surface struct {
	isTerminal func() bool

	mu       sync.Mutex
	attached bool
	viewport render.Viewport
	latest   render.Frame

	wake    chan struct{}
	closed  chan struct{}
	release sync.Once
}

func NewSurface(out *os.File) *Surface {
	return &Surface{
		isTerminal: func() bool { return TerminalAvailable(out) },
		wake:       make(chan struct{}, 1),
		closed:     make(chan struct{}),
	}
}

// TerminalAvailable reports whether f is an interactive terminal.
func TerminalAvailable(f *os.File) bool {
	if f == nil {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (s *Surface) Name() string    { return "terminal" }
func (s *Surface) Available() bool { return s.isTerminal() }

func (s *Surface) Attach() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.closed:
		return dynamo.ErrNoAttachment
	default:
	}
	s.attached = true
	return nil
}

func (s *Surface) Resize(v render.Viewport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport = v
	return nil
}

func (s *Surface) Render(f render.Frame) error {
	s.mu.Lock()
	if !s.attached {
		s.mu.Unlock()
		return dynamo.ErrNoAttachment
	}
	s.latest = f
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
	return nil
}

func (s *Surface) Release() {
	s.release.Do(func() {
		s.mu.Lock()
		s.attached = false
		s.mu.Unlock()
		close(s.closed)
	})
}

// Latest returns the most recent frame and the applied viewport.
func (s *Surface) Latest() (render.Frame, render.Viewport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, s.viewport
}

// next blocks until a new frame is ready or the surface is released.
func (s *Surface) next() tea.Msg {
	select {
	case <-s.wake:
		f, _ := s.Latest()
		return frameMsg(f)
	case <-s.closed:
		return surfaceClosedMsg{}
	}
}
