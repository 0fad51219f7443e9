package tui

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"ebr/book"
	"ebr/reader"
)

// waitHit delivers the next hit of the background scan as a message.
func waitHit(gen int, ch <-chan reader.Hit) tea.Cmd {
	return func() tea.Msg {
		h, ok := <-ch
		if !ok {
			return scanDoneMsg{gen: gen}
		}
		return hitMsg{gen: gen, hit: h, ch: ch}
	}
}

// startScan searches the whole current inner book in the background, hits
// arrive on the UI loop one by one and the first one is shown immediately.
func (m *Model) startScan(expr string) tea.Cmd {
	chapters := m.ctl.Source()
	if chapters == nil {
		m.setMessage(reader.ErrNotOpen.Error(), true)
		return nil
	}
	pattern, err := book.NewPattern(expr, m.opts.IgnoreCase)
	if err != nil {
		m.setMessage(err.Error(), true)
		return nil
	}

	m.stopScan()
	m.scanGen++
	ctx, cancel := context.WithCancel(context.Background())
	m.scanCancel, m.scanning = cancel, true
	m.hits, m.hit = nil, -1
	m.setMessage("Searching...", false)
	m.log.Debug("Book scan started", zap.Stringer("pattern", pattern), zap.Int("generation", m.scanGen))
	return waitHit(m.scanGen, reader.ScanBook(ctx, chapters, pattern, m.log))
}

func (m *Model) stopScan() {
	if m.scanCancel != nil {
		m.scanCancel()
		m.scanCancel = nil
	}
	m.scanning = false
}

func (m *Model) stepHit(delta int) {
	if len(m.hits) == 0 {
		m.setMessage("No book matches", true)
		return
	}
	m.hit = (m.hit + delta + len(m.hits)) % len(m.hits)
	m.showHit()
}

func (m *Model) showHit() {
	if err := m.ctl.GotoHit(m.hits[m.hit]); err != nil {
		m.log.Warn("Unable to show match", zap.Error(err))
		m.setMessage(err.Error(), true)
		return
	}
	m.setMessage(fmt.Sprintf("Match %d of %d", m.hit+1, len(m.hits)), false)
}

func copyToClipboard(text string, log *zap.Logger) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			log.Debug("Unable to copy selection", zap.Error(err))
		}
		return nil
	}
}
