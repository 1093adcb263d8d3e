// Package random fires flavor and punishment events after each game tick.
//
// At most one event fires per tick. The event that fired last is skipped on
// the next tick, and events with CooldownDays stay quiet until that many game
// days have passed.
package random

import (
	"github.com/nathoo/fidoquest/types"
)

// Source is the randomness the scheduler draws from. *RNG implements it.
type Source interface {
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// Env is what an event effect may touch.
type Env struct {
	State    *types.State
	Dispatch func(effs ...types.Effect)
	Publish  func(eventType string, payload map[string]any)
	Output   func(line string)
}

// Event is one entry of the random table.
type Event struct {
	ID string
	// Chance is used when ChanceFn is nil.
	Chance    float64
	ChanceFn  func(s *types.State) float64
	Condition func(s *types.State) bool
	Effect    func(env Env)
	// CooldownDays > 0 blocks the event until day+CooldownDays once fired.
	CooldownDays int
}

func (ev Event) chance(s *types.State) float64 {
	if ev.ChanceFn != nil {
		return ev.ChanceFn(s)
	}
	return ev.Chance
}

// Memory is the scheduler's persisted cooldown state.
type Memory struct {
	LastFired string         `json:"last_fired,omitempty"`
	Cooldowns map[string]int `json:"cooldowns,omitempty"`
}

// Scheduler holds the table and the cooldown memory for one session.
type Scheduler struct {
	events    []Event
	src       Source
	lastFired string
	cooldowns map[string]int
}

// NewScheduler creates a scheduler over events. The table is copied.
func NewScheduler(events []Event, src Source) *Scheduler {
	return &Scheduler{
		events:    append([]Event(nil), events...),
		src:       src,
		cooldowns: map[string]int{},
	}
}

// Tick shuffles the table and fires the first eligible event whose draw
// succeeds. It returns the fired id, or "" when nothing fired.
func (sc *Scheduler) Tick(env Env) string {
	s := env.State
	order := make([]int, len(sc.events))
	for i := range order {
		order[i] = i
	}
	sc.src.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	for _, idx := range order {
		ev := sc.events[idx]
		if ev.ID == sc.lastFired {
			continue
		}
		if until, ok := sc.cooldowns[ev.ID]; ok && s.GameState.Day < until {
			continue
		}
		if ev.Condition != nil && !ev.Condition(s) {
			continue
		}
		if sc.src.Float64() >= ev.chance(s) {
			continue
		}

		if ev.Effect != nil {
			ev.Effect(env)
		}
		sc.lastFired = ev.ID
		if ev.CooldownDays > 0 {
			sc.cooldowns[ev.ID] = s.GameState.Day + ev.CooldownDays
		}
		return ev.ID
	}
	return ""
}

// LastFired returns the id of the most recently fired event.
func (sc *Scheduler) LastFired() string {
	return sc.lastFired
}

// ResetCooldowns clears the last-fired id and every named cooldown.
func (sc *Scheduler) ResetCooldowns() {
	sc.lastFired = ""
	sc.cooldowns = map[string]int{}
}

// Memory returns a copy of the cooldown state for saving.
func (sc *Scheduler) Memory() Memory {
	m := Memory{LastFired: sc.lastFired, Cooldowns: make(map[string]int, len(sc.cooldowns))}
	for k, v := range sc.cooldowns {
		m.Cooldowns[k] = v
	}
	return m
}

// Restore replaces the cooldown state, e.g. after a load.
func (sc *Scheduler) Restore(m Memory) {
	sc.lastFired = m.LastFired
	sc.cooldowns = make(map[string]int, len(m.Cooldowns))
	for k, v := range m.Cooldowns {
		sc.cooldowns[k] = v
	}
}

// SetSource swaps the randomness source, e.g. after restoring an RNG.
func (sc *Scheduler) SetSource(src Source) {
	sc.src = src
}
