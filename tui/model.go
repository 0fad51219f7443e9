// Package tui is the terminal front-end of the reader.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"ebr/book"
	"ebr/history"
	"ebr/layout"
	"ebr/reader"
	"ebr/utils/images"
)

type mode int

const (
	modeRead mode = iota
	modePrompt
	modeHelp
	modePreview
)

type prompt int

const (
	promptSearch prompt = iota
	promptSearchBook
	promptLine
)

// Recorder persists reading location.
type Recorder interface {
	Save(rec history.Record) error
}

// Namer names inner books of a container.
type Namer interface {
	Name(i int) string
}

// Options configure the front-end.
type Options struct {
	Title  string
	Path   string
	BookID string

	Keys   KeyMap
	Styles Styles
	// Status line template, nil means built-in one.
	Status *template.Template

	// Margin is number of empty columns on both sides of the text,
	// MaxWidth limits text width when positive.
	Margin   int
	MaxWidth int
	// Gray shows images without colors.
	Gray       bool
	IgnoreCase bool

	// History is optional, location is saved on quit.
	History Recorder
	// Names is optional, used to show name of the current inner book.
	Names Namer
}

const defaultStatus = `{{ .Title }}  [{{ add .Chapter 1 }}/{{ .Chapters }}]  {{ .Percent }}%{{ if .Message }}  {{ .Message }}{{ end }}`

type (
	hitMsg struct {
		gen int
		hit reader.Hit
		ch  <-chan reader.Hit
	}
	scanDoneMsg struct {
		gen int
	}
)

// Model is bubbletea model showing single book.
type Model struct {
	log  *zap.Logger
	ctl  *reader.Controller
	opts Options

	status *template.Template
	help   help.Model
	input  textinput.Model

	mode    mode
	prompt  prompt
	message string
	failed  bool
	preview *images.Preview

	width, height int

	// background book search
	scanGen    int
	scanCancel context.CancelFunc
	scanning   bool
	hits       []reader.Hit
	hit        int
}

// New creates model over controller which has already been positioned.
func New(ctl *reader.Controller, opts Options, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}
	status := opts.Status
	if status == nil {
		status = template.Must(ParseStatus(defaultStatus))
	}
	in := textinput.New()
	in.CharLimit = 256
	in.PromptStyle = opts.Styles.Prompt

	h := help.New()
	h.ShowAll = true

	return Model{
		log:    log.Named("tui"),
		ctl:    ctl,
		opts:   opts,
		status: status,
		help:   h,
		input:  in,
		hit:    -1,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Location returns current reading location.
func (m Model) Location() reader.Location {
	return m.ctl.Location()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-4, 1)
		m.preview = nil
		if m.mode == modePreview {
			m.mode = modeRead
		}
		cmd := m.dispatch(reader.ResizeEvent{Viewport: m.viewport()})
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case hitMsg:
		if msg.gen != m.scanGen {
			return m, nil
		}
		m.hits = append(m.hits, msg.hit)
		cmd := waitHit(msg.gen, msg.ch)
		if len(m.hits) == 1 {
			m.hit = 0
			m.showHit()
		}
		return m, cmd
	case scanDoneMsg:
		if msg.gen != m.scanGen {
			return m, nil
		}
		m.scanning = false
		if len(m.hits) == 0 {
			m.setMessage("Pattern not found in book", true)
		} else {
			m.setMessage(fmt.Sprintf("%d matches in book", len(m.hits)), false)
		}
		return m, nil
	}
	if m.mode == modePrompt {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modePrompt:
		return m.handlePromptKey(k)
	case modeHelp, modePreview:
		if key.Matches(k, m.opts.Keys.Quit) {
			return m.quit()
		}
		m.mode, m.preview = modeRead, nil
		return m, nil
	}

	keys := m.opts.Keys
	m.message, m.failed = "", false

	var ev reader.Event
	switch {
	case key.Matches(k, keys.Quit):
		return m.quit()
	case key.Matches(k, keys.Help):
		m.mode = modeHelp
		return m, nil
	case key.Matches(k, keys.Search):
		return m.openPrompt(promptSearch, "/")
	case key.Matches(k, keys.SearchBook):
		return m.openPrompt(promptSearchBook, "?")
	case key.Matches(k, keys.GotoLine):
		return m.openPrompt(promptLine, ":")
	case key.Matches(k, keys.Preview):
		m.showPreview()
		return m, nil
	case key.Matches(k, keys.NextHit):
		m.stepHit(1)
		return m, nil
	case key.Matches(k, keys.PrevHit):
		m.stepHit(-1)
		return m, nil
	case key.Matches(k, keys.Escape):
		m.stopScan()
		m.hits, m.hit = nil, -1
		ev = reader.ClearEvent{}
	case key.Matches(k, keys.NextPage):
		ev = reader.PageEvent{Forward: true}
	case key.Matches(k, keys.PrevPage):
		ev = reader.PageEvent{}
	case key.Matches(k, keys.NextLine):
		ev = reader.LineEvent{Forward: true}
	case key.Matches(k, keys.PrevLine):
		ev = reader.LineEvent{}
	case key.Matches(k, keys.NextChapter):
		ev = reader.ChapterEvent{Forward: true}
	case key.Matches(k, keys.PrevChapter):
		ev = reader.ChapterEvent{}
	case key.Matches(k, keys.First):
		ev = reader.EdgeEvent{}
	case key.Matches(k, keys.Last):
		ev = reader.EdgeEvent{End: true}
	case key.Matches(k, keys.SearchNext):
		ev = reader.RepeatEvent{Forward: true}
	case key.Matches(k, keys.SearchPrev):
		ev = reader.RepeatEvent{}
	case key.Matches(k, keys.NextLink):
		ev = reader.LinkEvent{Forward: true}
	case key.Matches(k, keys.PrevLink):
		ev = reader.LinkEvent{}
	case key.Matches(k, keys.Follow):
		ev = reader.FollowEvent{}
	case key.Matches(k, keys.NextSentence):
		ev = reader.SentenceEvent{Forward: true}
	case key.Matches(k, keys.PrevSentence):
		ev = reader.SentenceEvent{}
	case key.Matches(k, keys.Back):
		ev = reader.TraceEvent{Back: true}
	case key.Matches(k, keys.Forward):
		ev = reader.TraceEvent{}
	default:
		return m, nil
	}
	cmd := m.dispatch(ev)
	return m, cmd
}

func (m Model) openPrompt(p prompt, label string) (tea.Model, tea.Cmd) {
	m.mode, m.prompt = modePrompt, p
	m.input.Prompt = label
	m.input.SetValue("")
	cmd := m.input.Focus()
	return m, cmd
}

func (m Model) handlePromptKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.Type {
	case tea.KeyEsc:
		m.mode = modeRead
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.mode = modeRead
		m.input.Blur()
		return m.submit(strings.TrimSpace(m.input.Value()))
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(k)
	return m, cmd
}

func (m Model) submit(value string) (tea.Model, tea.Cmd) {
	if value == "" {
		return m, nil
	}
	switch m.prompt {
	case promptLine:
		n, err := strconv.Atoi(value)
		if err != nil {
			m.setMessage(fmt.Sprintf("Not a line number: %s", value), true)
			return m, nil
		}
		cmd := m.dispatch(reader.GotoLineEvent{Line: n})
		return m, cmd
	case promptSearchBook:
		cmd := m.startScan(value)
		return m, cmd
	}
	cmd := m.dispatch(reader.SearchEvent{Expr: value})
	return m, cmd
}

// handleMouse translates mouse gestures to controller events, wheel
// scrolls by line.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != modeRead {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		cmd := m.dispatch(reader.LineEvent{Forward: msg.Button == tea.MouseButtonWheelDown})
		return m, cmd
	}

	ev := reader.MouseEvent{X: msg.X - m.left(), Y: msg.Y}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		ev.Action = reader.MousePress
	case tea.MouseActionMotion:
		if m.ctl.State() != reader.StateSelecting {
			return m, nil
		}
		ev.Action = reader.MouseDrag
	case tea.MouseActionRelease:
		ev.Action = reader.MouseRelease
	default:
		return m, nil
	}
	cmd := m.dispatch(ev)
	if ev.Action == reader.MouseRelease {
		if text, ok := m.ctl.Selection(); ok {
			m.setMessage(fmt.Sprintf("Selected %d characters", len([]rune(text))), false)
			return m, tea.Batch(cmd, copyToClipboard(text, m.log))
		}
	}
	return m, cmd
}

// dispatch runs controller event and turns its error into status message.
func (m *Model) dispatch(ev reader.Event) tea.Cmd {
	err := m.ctl.Dispatch(ev)
	if err == nil {
		return nil
	}
	m.log.Debug("Command failed", zap.String("event", fmt.Sprintf("%T", ev)), zap.Error(err))

	var (
		ext *reader.ExternalLinkError
		pe  *book.PatternError
	)
	switch {
	case errors.As(err, &ext):
		m.setMessage("External link: "+ext.Target, false)
	case errors.As(err, &pe):
		m.setMessage(pe.Error(), true)
	case errors.Is(err, reader.ErrNoMatch):
		m.setMessage("Pattern not found", true)
	case errors.Is(err, reader.ErrNoPattern), errors.Is(err, reader.ErrNoLink), errors.Is(err, reader.ErrInvalidLine):
		m.setMessage(err.Error(), true)
	default:
		m.log.Warn("Unable to execute command", zap.Error(err))
		m.setMessage(err.Error(), true)
	}
	return nil
}

func (m *Model) setMessage(msg string, failed bool) {
	m.message, m.failed = msg, failed
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.stopScan()
	if m.opts.History != nil && m.opts.BookID != "" && m.ctl.Document() != nil {
		rec := history.Record{
			BookID:   m.opts.BookID,
			Path:     m.opts.Path,
			Title:    m.opts.Title,
			Location: m.ctl.Location(),
		}
		if err := m.opts.History.Save(rec); err != nil {
			m.log.Warn("Unable to save reading position", zap.Error(err))
		} else {
			m.log.Debug("Reading position saved", zap.Stringer("location", rec.Location))
		}
	}
	return m, tea.Quit
}

// showPreview shows the first image of the page.
func (m *Model) showPreview() {
	ref := pageImage(m.ctl.Page())
	if ref == "" {
		m.setMessage("No images on the page", true)
		return
	}
	res, ok := m.ctl.Source().(reader.Resources)
	if !ok {
		m.setMessage("Images are not available for this book", true)
		return
	}
	data, err := res.Resource(m.ctl.Location().Chapter, ref)
	if err != nil {
		m.log.Debug("Unable to read image", zap.String("ref", ref), zap.Error(err))
		m.setMessage("Unable to read image "+ref, true)
		return
	}
	vp := m.viewport()
	p, err := images.Load(data, vp.Width, vp.Height, m.opts.Gray)
	if err != nil {
		m.log.Debug("Unable to decode image", zap.String("ref", ref), zap.Error(err))
		m.setMessage("Unable to decode image "+ref, true)
		return
	}
	m.preview, m.mode = p, modePreview
}

func pageImage(pg *layout.Page) string {
	if pg == nil {
		return ""
	}
	for _, rl := range pg.Lines {
		for _, c := range rl.Chars {
			if c.Style.Image != "" {
				return c.Style.Image
			}
		}
	}
	return ""
}

// textWidth is the width of text column.
func (m Model) textWidth() int {
	w := max(m.width-2*m.opts.Margin, 1)
	if m.opts.MaxWidth > 0 {
		w = min(w, m.opts.MaxWidth)
	}
	return w
}

// left is the screen column of the text start, text column is centered.
func (m Model) left() int {
	return max((m.width-m.textWidth())/2, 0)
}

func (m Model) viewport() layout.Viewport {
	// last row is the status line
	return layout.Viewport{Width: m.textWidth(), Height: max(m.height-1, 1)}
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	var body string
	switch m.mode {
	case modeHelp:
		body = lipgloss.Place(m.width, m.height-1, lipgloss.Left, lipgloss.Top, m.opts.Styles.Help.Render(m.help.View(m.opts.Keys)))
	case modePreview:
		body = lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, strings.Join(m.preview.Render(), "\n"))
	default:
		vp := m.viewport()
		body = strings.Join(m.opts.Styles.renderPage(m.ctl.Page(), m.ctl.Highlight(), vp.Width, vp.Height, m.left()), "\n")
	}
	return body + "\n" + m.statusLine()
}

func (m Model) statusLine() string {
	if m.mode == modePrompt {
		return m.input.View()
	}
	if m.failed && m.message != "" {
		return m.opts.Styles.Error.Render(truncate(m.message, m.width))
	}
	text, err := expandStatus(m.status, m.statusValues())
	if err != nil {
		text = err.Error()
	}
	return m.opts.Styles.Status.Width(m.width).Render(truncate(text, m.width))
}

func (m Model) statusValues() StatusValues {
	loc := m.ctl.Location()
	v := StatusValues{
		Title:    m.opts.Title,
		Book:     loc.Inner,
		Books:    m.ctl.Books(),
		Chapter:  loc.Chapter,
		Chapters: m.ctl.Chapters(),
		Line:     loc.Line + 1,
		Percent:  m.ctl.Percent(),
		State:    m.ctl.State().String(),
		Hits:     len(m.hits),
		Scanning: m.scanning,
		Message:  m.message,
	}
	if doc := m.ctl.Document(); doc != nil {
		v.Lines = doc.Len()
	}
	if m.opts.Names != nil && v.Books > 1 {
		v.BookName = m.opts.Names.Name(loc.Inner)
	}
	return v
}

func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	rs := []rune(s)
	for len(rs) > 0 && lipgloss.Width(string(rs)) > width-1 {
		rs = rs[:len(rs)-1]
	}
	return string(rs) + "…"
}
