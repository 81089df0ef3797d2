// Package tui is the bubbletea host for a matrixterm session. It forwards
// key events to the session intake and pulls a snapshot every frame.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"matrixterm/internal/effects"
	"matrixterm/internal/logging"
	"matrixterm/internal/session"
	"matrixterm/internal/shell"
)

// chrome is the number of rows below the output area (input + status).
const chrome = 2

type frameMsg time.Time

type submitMsg struct {
	res shell.Result
	err error
}

// Options configures the Model.
type Options struct {
	Session *session.Session

	// Rain is the engine configuration used to scale drops onto the grid.
	// Drops come from the session snapshot.
	Rain effects.Config

	// FrameInterval is how often the view is refreshed (default 16ms).
	FrameInterval time.Duration

	Keys   *KeyMap
	Styles *Styles
}

// Model is the bubbletea model.
type Model struct {
	ctx  context.Context
	sess *session.Session

	rain     effects.Config
	interval time.Duration
	keys     KeyMap
	styles   Styles

	viewport    viewport.Model
	width       int
	height      int
	snap        session.Snapshot
	outputLen   int
	dispatching bool
	quitting    bool
}

// New creates a model. ctx is passed to every submitted command.
func New(ctx context.Context, opts Options) Model {
	m := Model{
		ctx:      ctx,
		sess:     opts.Session,
		rain:     opts.Rain,
		interval: opts.FrameInterval,
		keys:     DefaultKeyMap(),
		styles:   DefaultStyles(),
		viewport: viewport.New(0, 0),
	}
	if m.interval <= 0 {
		m.interval = 16 * time.Millisecond
	}
	if opts.Keys != nil {
		m.keys = *opts.Keys
	}
	if opts.Styles != nil {
		m.styles = *opts.Styles
	}
	m.refresh()
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// Init starts the frame clock.
func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chrome, 1)
		m.outputLen = -1
		m.refresh()
		logging.UIDebug("Window resized to %dx%d", msg.Width, msg.Height)
		return m, nil

	case frameMsg:
		if m.quitting {
			return m, nil
		}
		m.refresh()
		return m, m.tick()

	case submitMsg:
		m.dispatching = false
		m.refresh()
		if m.snap.ShouldExit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.sess
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Submit):
		if m.dispatching {
			return m, nil
		}
		m.dispatching = true
		ctx := m.ctx
		return m, func() tea.Msg {
			res, err := s.Submit(ctx)
			return submitMsg{res: res, err: err}
		}
	case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case key.Matches(msg, m.keys.Backspace):
		s.Backspace()
	case key.Matches(msg, m.keys.Delete):
		s.Delete()
	case key.Matches(msg, m.keys.Left):
		s.Left()
	case key.Matches(msg, m.keys.Right):
		s.Right()
	case key.Matches(msg, m.keys.Home):
		s.Home()
	case key.Matches(msg, m.keys.End):
		s.End()
	case key.Matches(msg, m.keys.HistoryPrev):
		s.HistoryPrev()
	case key.Matches(msg, m.keys.HistoryNext):
		s.HistoryNext()
	case msg.Type == tea.KeySpace:
		s.Insert(' ')
	case msg.Type == tea.KeyRunes:
		s.InsertString(string(msg.Runes))
	default:
		return m, nil
	}
	m.refresh()
	return m, nil
}

// refresh pulls a snapshot and keeps the viewport pinned to the bottom
// unless the user scrolled up.
func (m *Model) refresh() {
	if m.sess == nil {
		return
	}
	m.snap = m.sess.Snapshot()
	if len(m.snap.Output) == m.outputLen {
		return
	}
	follow := m.viewport.AtBottom() || m.outputLen <= 0
	m.outputLen = len(m.snap.Output)
	m.viewport.SetContent(strings.Join(m.snap.Output, "\n"))
	if follow {
		m.viewport.GotoBottom()
	}
}

// View renders the grid.
func (m Model) View() string {
	if m.quitting || m.width == 0 || m.height == 0 {
		return ""
	}
	return m.compose().render(m.styles)
}

// compose paints rain, output, input line and status bar.
func (m Model) compose() *canvas {
	c := newCanvas(m.width, m.height)
	c.paintRain(m.snap.Rain, m.rain, len(m.styles.Rain))

	rows := m.height - chrome
	for i := 0; i < rows; i++ {
		idx := m.viewport.YOffset + i
		if idx < 0 || idx >= len(m.snap.Output) {
			continue
		}
		line := m.snap.Output[idx]
		style := styleText
		if strings.HasPrefix(line, "Error: ") {
			style = styleError
		}
		c.putText(0, i, line, style)
	}

	inputRow := max(rows, 0)
	x := c.putText(0, inputRow, m.snap.Prompt, stylePrompt)
	buf := []rune(m.snap.Buffer)
	for i, r := range buf {
		st := styleText
		if i == m.snap.Cursor {
			st = styleCursor
		}
		x += c.set(x, inputRow, r, st)
	}
	if m.snap.Cursor >= len(buf) {
		c.set(x, inputRow, ' ', styleCursor)
	}

	c.putText(0, inputRow+1, m.status(), styleStatus)
	return c
}

func (m Model) status() string {
	st := m.snap.Stats
	parts := []string{
		fmt.Sprintf("%d commands (%d ok, %d failed)", st.Total, st.Successful, st.Failed),
	}
	if m.snap.Rain != nil {
		parts = append(parts, fmt.Sprintf("%d drops", len(m.snap.Rain.Drops)))
	}
	if m.dispatching {
		parts = append(parts, "running...")
	}
	parts = append(parts, "pgup/pgdn scroll", "ctrl+c quit")
	return strings.Join(parts, " | ")
}
