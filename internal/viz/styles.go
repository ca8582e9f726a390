package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/skyplane/internal/sky"
)

func hudStyles(t Theme) (label, value, hint lipgloss.Style) {
	label = lipgloss.NewStyle().Foreground(t.Muted)
	value = lipgloss.NewStyle().Foreground(t.Aqua).Bold(true)
	hint = lipgloss.NewStyle().Foreground(t.Muted).Italic(true)
	return
}

// ProgressBar renders a fixed-width bar for a fraction in [0,1].
func ProgressBar(percent float64, width int, t Theme) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	on := lipgloss.NewStyle().Foreground(t.Aqua)
	off := lipgloss.NewStyle().Foreground(t.Muted)
	return on.Render(strings.Repeat("█", filled)) + off.Render(strings.Repeat("░", width-filled))
}

// SparklineChart renders a mini sparkline of the most recent values.
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int((v - lo) / rng * float64(len(chars)-1))
		b.WriteRune(chars[clampInt(idx, 0, len(chars)-1)])
	}
	return b.String()
}

// Helper functions
func parseHex(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 255, 255, 255
	}
	r = parseHexByte(hex[1:3])
	g = parseHexByte(hex[3:5])
	b = parseHexByte(hex[5:7])
	return
}

func parseHexByte(s string) int {
	var val int
	for _, c := range s {
		val *= 16
		if c >= '0' && c <= '9' {
			val += int(c - '0')
		} else if c >= 'a' && c <= 'f' {
			val += int(c - 'a' + 10)
		} else if c >= 'A' && c <= 'F' {
			val += int(c - 'A' + 10)
		}
	}
	return val
}

func hexColor(c sky.RGB) lipgloss.Color {
	r, g, b := c.Bytes()
	return lipgloss.Color("#" + hexByte(int(r)) + hexByte(int(g)) + hexByte(int(b)))
}

func hexByte(v int) string {
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	const hex = "0123456789abcdef"
	return string(hex[v/16]) + string(hex[v%16])
}
