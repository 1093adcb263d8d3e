// Package engine wires one game session: the state store, the event bus,
// the command registry, the quest listener, the clock and the random
// events. Execute runs one command line through all of them.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/nathoo/fidoquest/engine/clock"
	"github.com/nathoo/fidoquest/engine/command"
	"github.com/nathoo/fidoquest/engine/dialogue"
	"github.com/nathoo/fidoquest/engine/effects"
	"github.com/nathoo/fidoquest/engine/events"
	"github.com/nathoo/fidoquest/engine/handlers"
	"github.com/nathoo/fidoquest/engine/quest"
	"github.com/nathoo/fidoquest/engine/random"
	"github.com/nathoo/fidoquest/engine/save"
	"github.com/nathoo/fidoquest/engine/sched"
	"github.com/nathoo/fidoquest/engine/state"
	"github.com/nathoo/fidoquest/engine/vfs"
	"github.com/nathoo/fidoquest/types"
)

// Content is the static data a session runs on.
type Content struct {
	Quests    []types.Quest
	World     *handlers.World
	Dialogues *dialogue.Set
}

// Options tune a session. The zero value is a normal game.
type Options struct {
	// Seed for the random events; 0 picks one from the clock.
	Seed int64
	// Start overrides the opening position. An empty Start.Quest means the
	// first quest of the catalog.
	Start *state.Start
	// Events replaces the random event table.
	Events []random.Event
	Logger *log.Logger
	Tracer trace.Tracer
	// Now stamps events and saves.
	Now func() time.Time
}

// Result is the outcome of one command.
type Result struct {
	Output   []string
	Handled  bool
	Minutes  int
	Random   string // id of the random event that fired, if any
	GameOver bool
}

// Engine is one game session.
type Engine struct {
	Catalog   *quest.Catalog
	Store     *state.Store
	Bus       *events.Bus
	Timers    *sched.Scheduler
	FS        *vfs.FS
	RNG       *random.RNG
	Random    *random.Scheduler
	SessionID string

	env      *handlers.Env
	registry *command.Registry[*handlers.Env]
	listener *quest.Listener
	boot     vfs.Snapshot
	log      *log.Logger
	tracer   trace.Tracer
	now      func() time.Time
	out      []string
}

// New creates a session over c.
func New(c Content, opts Options) (*Engine, error) {
	if len(c.Quests) == 0 {
		return nil, errors.New("engine: no quests")
	}
	if c.World == nil {
		return nil, errors.New("engine: no world")
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("fidoquest/engine")
	}
	catalog := quest.NewCatalog(c.Quests)

	start := state.DefaultStart(catalog.First())
	if opts.Start != nil {
		start = *opts.Start
		if start.Quest == "" {
			start.Quest = catalog.First()
		}
	}
	seed := opts.Seed
	if seed == 0 {
		seed = now().UnixNano()
	}
	evs := opts.Events
	if evs == nil {
		evs = random.DefaultEvents()
	}

	e := &Engine{
		Catalog:   catalog,
		Store:     state.NewStore(start, opts.Logger),
		Bus:       events.NewBus(opts.Logger),
		Timers:    sched.New(),
		FS:        vfs.New("C"),
		RNG:       random.NewRNG(seed),
		SessionID: uuid.NewString(),
		registry:  handlers.NewRegistry(),
		log:       opts.Logger,
		tracer:    tracer,
		now:       now,
	}
	e.Bus.Now = now
	e.Random = random.NewScheduler(evs, e.RNG)

	if err := c.World.Boot(e.FS); err != nil {
		return nil, err
	}
	e.boot = e.FS.Snapshot()

	e.env = &handlers.Env{
		Store:     e.Store,
		Bus:       e.Bus,
		Timers:    e.Timers,
		FS:        e.FS,
		Catalog:   catalog,
		Dialogues: c.Dialogues,
		World:     c.World,
		Out:       e.print,
	}
	e.listener = quest.NewListener(catalog, e.Store, e.Bus, opts.Logger)
	e.listener.Notify = e.print
	e.listener.Attach(e.Bus)

	e.logf("session %s started, seed %d, quest %s", e.SessionID, seed, start.Quest)
	return e, nil
}

// State returns the live state. Treat it as read-only.
func (e *Engine) State() *types.State {
	return e.Store.State()
}

// Execute runs one command line: the handler, then the clock, the weekly
// bill, the debt check and one roll of the random table. After game over
// only RESTART is accepted.
func (e *Engine) Execute(ctx context.Context, input string) Result {
	_, span := e.tracer.Start(ctx, "engine.Execute")
	defer span.End()

	e.out = nil
	line := command.Normalize(input)
	if line == "" {
		return Result{}
	}
	s := e.Store.State()

	if s.GameState.GameOver {
		if strings.EqualFold(line, "RESTART") {
			e.Restart()
			e.print("*** A new week, a fresh phone line. ***")
			span.SetAttributes(attribute.String("command", "RESTART"))
			return Result{Output: e.flush(), Handled: true}
		}
		e.print("*** GAME OVER *** Type RESTART to begin again.")
		return Result{Output: e.flush(), Handled: true, GameOver: true}
	}

	mode := s.Network.Mode
	handled := e.registry.Execute(mode, line, e.env)
	if !handled {
		e.print("Bad command or file name")
	}

	minutes := clock.TimeCost(mode, line)
	e.advanceClock(minutes)

	s = e.Store.State()
	if clock.CheckBills(s, e.Store, e.print) {
		e.Bus.Publish(types.EventBillIssued, map[string]any{
			"day":    s.GameState.Day,
			"amount": clock.BillAmount,
			"debt":   s.Player.Stats.Debt,
		})
	}
	if clock.CheckDebtGameOver(s, e.Store, e.print) {
		e.Bus.Publish(types.EventGameOver, map[string]any{"reason": s.GameState.GameOverReason})
	}

	var fired string
	if !s.GameState.GameOver {
		fired = e.Random.Tick(e.randomEnv())
		if fired != "" {
			e.Bus.Publish(types.EventRandom, map[string]any{"id": fired})
		}
	}

	span.SetAttributes(
		attribute.String("session", e.SessionID),
		attribute.String("command", commandWord(line)),
		attribute.String("mode", string(mode)),
		attribute.Bool("handled", handled),
		attribute.Int("minutes", minutes),
		attribute.String("random", fired),
		attribute.String("quest", s.Quests.Active),
	)
	return Result{
		Output:   e.flush(),
		Handled:  handled,
		Minutes:  minutes,
		Random:   fired,
		GameOver: s.GameState.GameOver,
	}
}

// advanceClock moves the clock forward and publishes the day, phase and
// Zone Mail Hour transitions it crossed.
func (e *Engine) advanceClock(minutes int) {
	if minutes <= 0 {
		return
	}
	s := e.Store.State()
	prev := s.GameState
	te := clock.ComputeTickEffects(prev.TimeMinutes, minutes, s.Network.Connected)
	day := prev.Day + te.DaysAdvanced

	effs := []types.Effect{effects.SetClock(day, te.NewMinutes, te.NewPhase, te.NewZMH)}
	if te.AtmosphereDelta != 0 {
		effs = append(effs, effects.UpdateStat(effects.StatAtmosphere, te.AtmosphereDelta))
	}
	e.Store.Dispatch(effs...)

	if te.DaysAdvanced > 0 {
		e.Bus.Publish(types.EventDayChanged, map[string]any{"day": day, "previous": prev.Day})
	}
	if te.NewPhase != prev.Phase {
		if te.NewPhase == types.PhaseNight {
			e.say("", "Night falls. The phone lines are cheaper now.")
		} else {
			e.say("", "Dawn. Someone in the flat will want the phone soon.")
		}
		e.Bus.Publish(types.EventPhaseChanged, map[string]any{"phase": string(te.NewPhase), "previous": string(prev.Phase)})
	}
	if te.NewZMH && !prev.ZMH {
		e.say("", "*** 04:00 Zone Mail Hour. Only mail sessions now. ***")
		e.Bus.Publish(types.EventZMHStarted, map[string]any{"day": day, "time": te.NewTimeString})
	}
}

func (e *Engine) randomEnv() random.Env {
	return random.Env{
		State:    e.Store.State(),
		Dispatch: e.Store.Dispatch,
		Publish:  e.Bus.Publish,
		Output:   e.print,
	}
}

// Advance runs the staged sequences due within d and returns their output.
func (e *Engine) Advance(d time.Duration) []string {
	e.out = nil
	e.Timers.Advance(d)
	return e.flush()
}

// Drain runs every pending staged sequence to completion.
func (e *Engine) Drain() []string {
	e.out = nil
	e.Timers.Drain()
	return e.flush()
}

// NextDue reports how long until the next staged output, if any.
func (e *Engine) NextDue() (time.Duration, bool) {
	return e.Timers.NextDue()
}

// Session returns the session id.
func (e *Engine) Session() string {
	return e.SessionID
}

// Clock returns the game day and minutes since midnight.
func (e *Engine) Clock() (day, minutes int) {
	gs := e.Store.State().GameState
	return gs.Day, gs.TimeMinutes
}

// Busy names the staged sequence in progress, or "".
func (e *Engine) Busy() string {
	return e.env.Busy()
}

// Restart resets the session to its opening position. Subscribers stay
// attached.
func (e *Engine) Restart() {
	e.Timers.Reset()
	e.Store.Reset()
	e.env.Reset()
	e.Random.ResetCooldowns()
	if err := e.FS.Restore(e.boot); err != nil {
		e.logf("warning: restoring boot disk: %v", err)
	}
	e.logf("session %s restarted", e.SessionID)
}

// Save serializes the session.
func (e *Engine) Save() ([]byte, error) {
	return save.Save(e.Store.State(), save.Runtime{
		SessionID:   e.SessionID,
		RNGSeed:     e.RNG.Seed(),
		RNGPosition: e.RNG.Position(),
		Random:      e.Random.Memory(),
		Files:       e.FS.Snapshot(),
	}, e.now())
}

// Load replaces the session with a saved one. Staged sequences in flight
// are dropped.
func (e *Engine) Load(data []byte) error {
	sd, err := save.Load(data)
	if err != nil {
		return fmt.Errorf("loading save: %w", err)
	}
	return e.Apply(sd)
}

// Apply installs decoded save data.
func (e *Engine) Apply(sd *save.SaveData) error {
	s := e.Store.Snapshot()
	save.ApplySave(&s, sd)
	if err := e.FS.Restore(sd.Files); err != nil {
		return fmt.Errorf("restoring disk: %w", err)
	}
	e.Store.Replace(s)

	e.Timers.Reset()
	e.env.Reset()
	e.RNG = random.RestoreRNG(sd.RNGSeed, sd.RNGPosition)
	e.Random.SetSource(e.RNG)
	e.Random.Restore(sd.Random)
	if sd.SessionID != "" {
		e.SessionID = sd.SessionID
	}
	e.logf("session %s loaded (day %d, quest %q)", e.SessionID, s.GameState.Day, s.Quests.Active)
	return nil
}

// Prompt is the input prompt for the current mode.
func (e *Engine) Prompt() string {
	s := e.Store.State()
	switch s.Network.Mode {
	case types.ModeBBSMenu:
		return "Main menu: "
	case types.ModeBBSFiles:
		return "File area: "
	case types.ModeBBSChat:
		return "Chat> "
	}
	if s.Network.Program == handlers.ProgramTerminal {
		return "Telix> "
	}
	return e.FS.Pwd() + ">"
}

// Banner is the boot screen shown when a session opens.
func (e *Engine) Banner() []string {
	lines := []string{
		"Starting MS-DOS...",
		"",
		"HIMEM is testing extended memory...done.",
		"",
	}
	if q, ok := e.Catalog.QuestByID(e.Store.State().Quests.Active); ok {
		lines = append(lines, "Quest: "+q.Title)
		if q.Description != "" {
			lines = append(lines, "  "+q.Description)
		}
		lines = append(lines, "")
	}
	return append(lines, "Type HELP for commands, HINT if you are stuck.")
}

func (e *Engine) print(line string) {
	e.out = append(e.out, line)
}

func (e *Engine) say(lines ...string) {
	e.out = append(e.out, lines...)
}

func (e *Engine) flush() []string {
	out := e.out
	e.out = nil
	return out
}

func (e *Engine) logf(format string, args ...any) {
	if e.log != nil {
		e.log.Printf(format, args...)
	}
}

func commandWord(line string) string {
	word, _, _ := strings.Cut(line, " ")
	return strings.ToUpper(word)
}
