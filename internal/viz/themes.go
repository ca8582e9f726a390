package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/skyplane/internal/sky"
)

// Theme defines the sky palette and HUD colors.
type Theme struct {
	Name      string
	Onyx      lipgloss.Color
	Graphite  lipgloss.Color
	Verdigris lipgloss.Color
	Aqua      lipgloss.Color
	Snow      lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
}

var (
	ThemeVerdigris = Theme{
		Name:      "verdigris",
		Onyx:      lipgloss.Color("#131515"),
		Graphite:  lipgloss.Color("#2b2c28"),
		Verdigris: lipgloss.Color("#339989"),
		Aqua:      lipgloss.Color("#7de2d1"),
		Snow:      lipgloss.Color("#f2f2f2"),
		Text:      lipgloss.Color("#fffafb"),
		Muted:     lipgloss.Color("#6b7a78"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Onyx:      lipgloss.Color("#001100"), // Green phosphor
		Graphite:  lipgloss.Color("#002b00"),
		Verdigris: lipgloss.Color("#00cc00"),
		Aqua:      lipgloss.Color("#88ff88"),
		Snow:      lipgloss.Color("#ccffcc"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Onyx:      lipgloss.Color("#001a33"),
		Graphite:  lipgloss.Color("#0a2a44"),
		Verdigris: lipgloss.Color("#0077be"), // Ocean blue
		Aqua:      lipgloss.Color("#00a8cc"),
		Snow:      lipgloss.Color("#e0f0ff"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
	}

	ThemeSunset = Theme{
		Name:      "sunset",
		Onyx:      lipgloss.Color("#2d1b2e"),
		Graphite:  lipgloss.Color("#4a2c40"),
		Verdigris: lipgloss.Color("#ff6b6b"), // Coral
		Aqua:      lipgloss.Color("#feca57"),
		Snow:      lipgloss.Color("#fff5f5"),
		Text:      lipgloss.Color("#fff5f5"),
		Muted:     lipgloss.Color("#8b6b8c"),
	}

	// All available themes
	Themes = []Theme{
		ThemeVerdigris,
		ThemeRetroGreen,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to verdigris.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeVerdigris
}

// Next returns the theme after t in Themes.
func (t Theme) Next() Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// Palette converts the theme into shader colors.
func (t Theme) Palette() sky.Palette {
	return sky.Palette{
		Onyx:      toRGB(t.Onyx),
		Graphite:  toRGB(t.Graphite),
		Verdigris: toRGB(t.Verdigris),
		Aqua:      toRGB(t.Aqua),
		Snow:      toRGB(t.Snow),
	}
}

func toRGB(c lipgloss.Color) sky.RGB {
	r, g, b := parseHex(string(c))
	return sky.RGB{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}
