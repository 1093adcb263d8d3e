package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/fidoquest/engine"
	"github.com/nathoo/fidoquest/engine/clock"
	"github.com/nathoo/fidoquest/engine/events"
	"github.com/nathoo/fidoquest/engine/save"
	"github.com/nathoo/fidoquest/types"
)

// Tracer buffers every bus event while On is set.
type Tracer struct {
	On    bool
	lines []string
}

// NewTracer subscribes a tracer to bus.
func NewTracer(bus *events.Bus) *Tracer {
	t := &Tracer{}
	bus.Subscribe(types.EventWildcard, func(ev types.Event) {
		if t.On {
			t.lines = append(t.lines, fmt.Sprintf("[trace] %s %v", ev.Type, ev.Data))
		}
	})
	return t
}

// Take returns and clears the buffered lines.
func (t *Tracer) Take() []string {
	lines := t.lines
	t.lines = nil
	return lines
}

// MetaResult is the outcome of a slash command.
type MetaResult struct {
	Lines  []string
	Raw    bool // print Lines as they are, not as system messages
	Quit   bool
	Loaded bool // the session was replaced from a save
}

// Meta runs the slash commands shared by the plain and full-screen front
// ends.
type Meta struct {
	Engine  *engine.Engine
	SaveDir string
	Trace   *Tracer
	Help    []string // front-end specific lines appended to /help
}

// IsMeta reports whether input is a slash command.
func IsMeta(input string) bool {
	return strings.HasPrefix(input, "/")
}

// Handle dispatches one slash command.
func (m *Meta) Handle(input string) MetaResult {
	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return MetaResult{Lines: []string{"Goodbye."}, Quit: true}
	case "/save":
		return m.save(slotName(arg))
	case "/load":
		return m.load(slotName(arg))
	case "/help":
		return MetaResult{Lines: append(helpLines(), m.Help...), Raw: true}
	case "/state":
		return MetaResult{Lines: stateLines(m.Engine.State())}
	case "/trace":
		m.Trace.On = !m.Trace.On
		if m.Trace.On {
			return say("Trace output enabled.")
		}
		return say("Trace output disabled.")
	}
	return say(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
}

func say(line string) MetaResult {
	return MetaResult{Lines: []string{line}}
}

func slotName(arg string) string {
	if arg == "" {
		return "quicksave"
	}
	return arg
}

func (m *Meta) save(name string) MetaResult {
	data, err := m.Engine.Save()
	if err != nil {
		return say(fmt.Sprintf("Save failed: %v", err))
	}
	if err := save.WriteFile(m.SaveDir, name, data); err != nil {
		return say(fmt.Sprintf("Save failed: %v", err))
	}
	return say(fmt.Sprintf("Game saved to %s.", name))
}

func (m *Meta) load(name string) MetaResult {
	sd, err := save.ReadFile(m.SaveDir, name)
	if err != nil {
		return say(fmt.Sprintf("Load failed: %v", err))
	}
	if err := m.Engine.Apply(sd); err != nil {
		return say(fmt.Sprintf("Load failed: %v", err))
	}
	gs := sd.GameState
	r := say(fmt.Sprintf("Game loaded from %s (day %d, %s).", name, gs.Day, clock.FormatTime(gs.TimeMinutes)))
	r.Loaded = true
	return r
}

func helpLines() []string {
	return []string{
		"System:",
		"  /save [name]   Save game (default: quicksave)",
		"  /load [name]   Load game (default: quicksave)",
		"  /quit          Exit game",
		"  /help          Show this help",
		"  /state         Debug: dump current state",
		"  /trace         Toggle event trace output",
		"  again          Repeat your last command",
		"",
		"Type HELP for the commands of the current screen.",
	}
}

func stateLines(s *types.State) []string {
	gs := s.GameState
	st := s.Player.Stats
	out := []string{
		fmt.Sprintf("Day %d %s (%s), act %d", gs.Day, clock.FormatTime(gs.TimeMinutes), gs.Phase, gs.Act),
		fmt.Sprintf("Sanity %d, atmosphere %d, money $%d, debt $%d", st.Sanity, st.Atmosphere, st.Money, st.Debt),
		fmt.Sprintf("Mode: %s", s.Network.Mode),
		fmt.Sprintf("Quest: %s", s.Quests.Active),
	}
	if len(s.Quests.Completed) > 0 {
		out = append(out, "Completed: "+strings.Join(s.Quests.Completed, ", "))
	}
	if len(s.Player.Inventory) > 0 {
		out = append(out, "Inventory: "+strings.Join(s.Player.Inventory, ", "))
	}
	if len(s.Player.Skills) > 0 {
		skills := make([]string, 0, len(s.Player.Skills))
		for k, v := range s.Player.Skills {
			skills = append(skills, fmt.Sprintf("%s=%d", k, v))
		}
		sort.Strings(skills)
		out = append(out, "Skills: "+strings.Join(skills, " "))
	}
	if gs.GameOver {
		out = append(out, "Game over: "+gs.GameOverReason)
	}
	return out
}
