package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"lifequest/internal/engine"
)

func RunBoard(ctx context.Context, eng *engine.GameEngine, out io.Writer) error {
	m := newBoardModel(ctx, eng)
	p := tea.NewProgram(m, tea.WithOutput(out))
	_, err := p.Run()
	return err
}
