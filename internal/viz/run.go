package viz

import (
	"context"
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/skyplane/internal/config"
	"github.com/san-kum/skyplane/internal/flight"
	"go.uber.org/zap"
)

// Run flies the plane in the terminal until the user quits or ctx ends.
// Without an interactive terminal it logs and returns nil.
func Run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	surface := NewSurface(os.Stdout)
	ctrl := flight.NewController(cfg, surface, flight.WithControllerLogger(log))
	if err := ctrl.Start(ctx); err != nil {
		return err
	}
	defer ctrl.Stop()
	if ctrl.Skipped() {
		return nil
	}

	scene := NewScene(cfg.Render, GetTheme(cfg.Render.Theme))
	model := NewModel(ctrl, surface, scene, cfg.Pointer.QuietPeriod)
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && !(errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil) {
		return err
	}
	return nil
}
