package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"ebr/reader"
)

// Run shows the book full screen until user quits and returns final reading
// location.
func Run(ctx context.Context, m Model) (reader.Location, error) {
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	final, err := p.Run()
	if err != nil {
		return m.Location(), fmt.Errorf("terminal ui failed: %w", err)
	}
	if fm, ok := final.(Model); ok {
		fm.stopScan()
		return fm.Location(), nil
	}
	return m.Location(), nil
}
