// Package tui provides a Bubble Tea terminal UI for fidoquest. Staged
// output such as modem handshakes and downloads plays out in real time.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/fidoquest/cli"
	"github.com/nathoo/fidoquest/engine"
)

// Model is the Bubble Tea model for the fidoquest TUI.
type Model struct {
	engine *engine.Engine
	ctx    context.Context

	viewport viewport.Model
	input    textinput.Model
	history  *History
	meta     *cli.Meta
	log      transcript

	width    int
	height   int
	ready    bool
	quitting bool
	lastCmd  string

	// ticking is set while a tickMsg is in flight. gen invalidates ticks
	// scheduled before a load.
	ticking bool
	gen     int
}

// gameOutputMsg carries output from the engine into the Update loop.
type gameOutputMsg struct {
	input    string   // echoed player input, prompt included (empty for staged output)
	lines    []string // output lines
	isSystem bool     // true for meta-command output
}

// tickMsg fires when the next staged output falls due.
type tickMsg struct {
	gen int
	d   time.Duration
}

// New creates a TUI model wired to the given engine.
func New(ctx context.Context, eng *engine.Engine, saveDir string) Model {
	ti := textinput.New()
	ti.Prompt = eng.Prompt()
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	return Model{
		engine:  eng,
		ctx:     ctx,
		input:   ti,
		history: NewHistory(100),
		meta: &cli.Meta{
			Engine:  eng,
			SaveDir: saveDir,
			Trace:   cli.NewTracer(eng.Bus),
			Help:    []string{"Navigation: PgUp/PgDn to scroll, Up/Down for command history"},
		},
	}
}

// Run starts the Bubble Tea program.
func Run(ctx context.Context, eng *engine.Engine, saveDir string) error {
	m := New(ctx, eng, saveDir)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init returns the initial command that prints the boot screen.
func (m Model) Init() tea.Cmd {
	banner := m.engine.Banner()
	return tea.Batch(textinput.Blink, func() tea.Msg {
		return gameOutputMsg{lines: banner}
	})
}

// Update handles messages (key presses, window resize, game output, ticks).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // 1 status bar + 1 input line
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Older(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Newer(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.Reset()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case gameOutputMsg:
		m.log.turn(msg.input, msg.lines, msg.isSystem)
		m.refreshViewport()

	case tickMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.ticking = false
		lines := m.engine.Advance(msg.d)
		lines = append(lines, m.meta.Trace.Take()...)
		if len(lines) > 0 {
			m.log.staged(lines)
			m.refreshViewport()
		}
		m.input.Prompt = m.engine.Prompt()
		tick := m.scheduleTick()
		return m, tick
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// scheduleTick arms a timer for the next staged output, unless one is
// already pending.
func (m *Model) scheduleTick() tea.Cmd {
	if m.ticking {
		return nil
	}
	d, ok := m.engine.NextDue()
	if !ok {
		return nil
	}
	m.ticking = true
	gen := m.gen
	return tea.Tick(d, func(time.Time) tea.Msg {
		return tickMsg{gen: gen, d: d}
	})
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	m.history.Add(input)
	prompt := m.engine.Prompt()

	if cli.IsMeta(input) {
		r := m.meta.Handle(input)
		m.log.turn(prompt+input, r.Lines, !r.Raw)
		m.refreshViewport()
		if r.Quit {
			m.quitting = true
			return m, tea.Quit
		}
		if r.Loaded {
			// Staged sequences were dropped; so are their ticks.
			m.gen++
			m.ticking = false
		}
		m.input.Prompt = m.engine.Prompt()
		return m, nil
	}

	// "again" repeats the last game command.
	if strings.EqualFold(input, "again") {
		if m.lastCmd == "" {
			m.log.turn(prompt+input, []string{"Nothing to repeat."}, true)
			m.refreshViewport()
			return m, nil
		}
		input = m.lastCmd
	} else {
		m.lastCmd = input
	}

	result := m.engine.Execute(m.ctx, input)
	m.log.turn(prompt+input, append(result.Output, m.meta.Trace.Take()...), false)
	m.refreshViewport()
	m.input.Prompt = m.engine.Prompt()
	tick := m.scheduleTick()
	return m, tick
}

// refreshViewport re-renders the transcript at the current width and
// scrolls to the end.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.log.render(m.width))
	m.viewport.GotoBottom()
}

// View renders the full TUI layout: viewport + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
