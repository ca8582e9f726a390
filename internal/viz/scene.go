package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/skyplane/internal/config"
	"github.com/san-kum/skyplane/internal/mesh"
	"github.com/san-kum/skyplane/internal/render"
	"github.com/san-kum/skyplane/internal/sky"
)

const paperSeed = 0x5ca1ab1e

// Scene draws both layers into a grid of terminal cells: the shaded sky as
// cell backgrounds and the plane as tinted braille dots on top.
type Scene struct {
	theme   Theme
	shader  *sky.Shader
	plane   []mesh.Triangle
	texture *mesh.Texture
	light   mesh.Lighting
	camera  *Camera
	scale   float64

	// Simplified skips the cloud layer.
	Simplified bool
}

func NewScene(cfg config.RenderConfig, theme Theme) *Scene {
	return &Scene{
		theme:   theme,
		shader:  sky.NewShader(theme.Palette()),
		plane:   mesh.PaperPlane(),
		texture: mesh.PaperTexture(128, paperSeed),
		light:   mesh.DefaultLighting(),
		camera: NewCamera(render.Projection{
			FOV:  cfg.FOV,
			Near: cfg.Near,
			Far:  cfg.Far,
		}, cfg.CameraZ),
		scale: cfg.PlaneScale,
	}
}

func (s *Scene) Theme() Theme { return s.theme }

func (s *Scene) SetTheme(t Theme) {
	s.theme = t
	s.shader.Palette = t.Palette()
}

// Compose rasterizes the frame. It returns the plane canvas and the sky
// color behind each cell.
func (s *Scene) Compose(f render.Frame, cols, rows int) (*Canvas, [][]sky.RGB) {
	canvas := NewCanvas(cols, rows)
	w, h := canvas.DotSize()
	s.camera.Projection.Update(render.NewViewport(w, h, 1, 0))

	u := sky.Uniforms{
		Time:       f.ShaderTime,
		Width:      float64(w),
		Height:     float64(h),
		MouseX:     f.Pointer.X,
		MouseY:     f.Pointer.Y,
		Simplified: s.Simplified,
	}
	bg := make([][]sky.RGB, rows)
	for row := 0; row < rows; row++ {
		bg[row] = make([]sky.RGB, cols)
		// fragment origin is bottom-left
		fy := float64((rows-1-row)*4) + 2
		for col := 0; col < cols; col++ {
			bg[row][col] = s.shader.Shade(u, float64(col*2)+1, fy)
		}
	}

	world := mesh.Transform(s.plane, f.Orientation, f.Agent.Position, s.scale)
	DrawMesh(canvas, world, s.camera, s.light, s.texture)
	return canvas, bg
}

type cellStyle struct {
	bg, fg  sky.RGB
	painted bool
}

// Render returns the composed frame as styled terminal text.
func (s *Scene) Render(f render.Frame, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	canvas, bg := s.Compose(f, cols, rows)

	styles := make(map[cellStyle]lipgloss.Style)
	style := func(k cellStyle) lipgloss.Style {
		st, ok := styles[k]
		if !ok {
			st = lipgloss.NewStyle().Background(hexColor(k.bg))
			if k.painted {
				st = st.Foreground(hexColor(k.fg))
			}
			styles[k] = st
		}
		return st
	}

	var b strings.Builder
	var run strings.Builder
	for row := 0; row < rows; row++ {
		var cur cellStyle
		run.Reset()
		for col := 0; col < cols; col++ {
			k := cellStyle{bg: quantize(bg[row][col])}
			r := ' '
			if canvas.Painted(col, row) {
				k.painted, k.fg = true, quantize(canvas.Tint[row][col])
				r = canvas.Grid[row][col]
			}
			if col > 0 && k != cur {
				b.WriteString(style(cur).Render(run.String()))
				run.Reset()
			}
			cur = k
			run.WriteRune(r)
		}
		b.WriteString(style(cur).Render(run.String()))
		if row < rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// quantize snaps a color to 8-bit channels so neighbouring cells share
// styles.
func quantize(c sky.RGB) sky.RGB {
	r, g, b := c.Bytes()
	return sky.RGB{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}
