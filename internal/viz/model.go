package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/skyplane/internal/input"
	"github.com/san-kum/skyplane/internal/render"
)

const (
	pageHeight     = 8000.0
	wheelDelta     = 100.0
	lineDelta      = 40.0
	historyLength  = 120
	hudLines       = 1
	sparklineWidth = 24
)

// Inputs receives the front end's resize, pointer and scroll events.
type Inputs interface {
	OnResize(width, height int, pixelRatio float64)
	SetPointer(x, y float64, active bool)
	SetScroll(offset float64)
}

// Model is the Bubble Tea front end. It never steps the simulation itself;
// it forwards input and draws whatever frame the surface last received.
type Model struct {
	inputs  Inputs
	surface *Surface
	scene   *Scene
	tracker *input.Tracker
	page    *input.Page
	now     func() time.Time

	frame         render.Frame
	frames        int
	history       []float64
	width, height int
	hud, help     bool
}

func NewModel(inputs Inputs, surface *Surface, scene *Scene, quiet time.Duration) Model {
	return Model{
		inputs:  inputs,
		surface: surface,
		scene:   scene,
		tracker: input.NewTracker(quiet),
		page:    input.NewPage(pageHeight),
		now:     time.Now,
		hud:     true,
	}
}

func (m Model) Init() tea.Cmd {
	return m.surface.next
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.scroll(-lineDelta)
		case "down", "j":
			m.scroll(lineDelta)
		case "pgup", "b":
			m.scroll(-m.pageStep())
		case "pgdown", " ", "f":
			m.scroll(m.pageStep())
		case "home", "g":
			m.scroll(-pageHeight)
		case "end", "G":
			m.scroll(pageHeight)
		case "h":
			m.hud = !m.hud
			m.resize()
		case "c":
			m.scene.Simplified = !m.scene.Simplified
		case "t":
			m.scene.SetTheme(m.scene.Theme().Next())
		case "?":
			m.help = !m.help
		}
	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.scroll(-wheelDelta)
		case tea.MouseButtonWheelDown:
			m.scroll(wheelDelta)
		default:
			if msg.Action == tea.MouseActionMotion || msg.Action == tea.MouseActionPress {
				m.tracker.MoveCell(msg.X, msg.Y, m.width, m.sceneRows(), m.now())
				m.pushPointer()
			}
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
	case frameMsg:
		m.frame = render.Frame(msg)
		m.frames++
		m.history = append(m.history, m.frame.Scroll.Excitement)
		if len(m.history) > historyLength {
			m.history = m.history[len(m.history)-historyLength:]
		}
		// pointer activity decays even without new motion events
		m.pushPointer()
		return m, m.surface.next
	case surfaceClosedMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) pushPointer() {
	p := m.tracker.Pointer(m.now())
	m.inputs.SetPointer(p.X, p.Y, p.Active)
}

func (m *Model) scroll(delta float64) {
	m.inputs.SetScroll(m.page.Scroll(delta))
}

func (m Model) pageStep() float64 {
	return float64(max(m.sceneRows(), 1)) * lineDelta
}

func (m Model) sceneRows() int {
	if m.hud {
		return max(m.height-hudLines, 0)
	}
	return m.height
}

// resize maps one braille dot to one layout pixel.
func (m Model) resize() {
	if m.width <= 0 || m.sceneRows() <= 0 {
		return
	}
	m.inputs.OnResize(m.width*2, m.sceneRows()*4, 1)
}

func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	if m.help {
		return m.helpView()
	}
	view := m.scene.Render(m.frame, m.width, m.sceneRows())
	if !m.hud {
		return view
	}
	return lipgloss.JoinVertical(lipgloss.Left, view, m.hudView())
}

func (m Model) hudView() string {
	label, value, hint := hudStyles(m.scene.Theme())
	f := m.frame
	parts := []string{
		label.Render("phase ") + value.Render(f.Phase.String()),
		label.Render("speed ") + value.Render(fmt.Sprintf("%.3f/%.2f", f.Speed(), f.Limits.MaxSpeed)),
		label.Render("flight ") + value.Render(fmt.Sprintf("%.1fs", f.FlightTime)),
		label.Render("scroll ") + ProgressBar(m.page.Progress(), 10, m.scene.Theme()),
		label.Render("excite ") + value.Render(SparklineChart(m.history, sparklineWidth)),
		hint.Render("?:help"),
	}
	line := strings.Join(parts, "  ")
	return lipgloss.NewStyle().MaxWidth(m.width).Render(line)
}

func (m Model) helpView() string {
	label, value, _ := hudStyles(m.scene.Theme())
	keys := [][2]string{
		{"mouse", "steer the plane"},
		{"wheel j/k", "scroll to speed up"},
		{"space pgdn", "scroll a page"},
		{"h", "toggle hud"},
		{"c", "toggle clouds"},
		{"t", "cycle theme (" + m.scene.Theme().Name + ")"},
		{"?", "close help"},
		{"q", "quit"},
	}
	var b strings.Builder
	b.WriteString(value.Render("SKYPLANE") + "\n\n")
	for _, k := range keys {
		b.WriteString(fmt.Sprintf("%s  %s\n", value.Render(fmt.Sprintf("%-11s", k[0])), label.Render(k[1])))
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.scene.Theme().Verdigris).
		Padding(1, 2).
		Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
