package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/statify/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive browser over an authenticated resource service.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.resolveService(ctx)
	if err != nil {
		return err
	}

	program := tea.NewProgram(ui.NewModel(ctx, svc), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
