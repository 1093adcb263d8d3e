// Package state owns the mutable game state: initial values, read helpers,
// and the Store through which every mutation is dispatched.
package state

import (
	"log"

	"github.com/nathoo/fidoquest/engine/effects"
	"github.com/nathoo/fidoquest/types"
)

// Start describes the initial values of a fresh session.
type Start struct {
	Quest       string
	Day         int
	TimeMinutes int
	Money       int
	Sanity      int
	Atmosphere  int
}

// DefaultStart is the opening position: day 1, 21:00, first quest active.
func DefaultStart(firstQuest string) Start {
	return Start{
		Quest:       firstQuest,
		Day:         1,
		TimeMinutes: 21 * 60,
		Money:       300,
		Sanity:      80,
		Atmosphere:  60,
	}
}

// NewState creates a fresh game state.
func NewState(start Start) *types.State {
	phase := types.PhaseDay
	if start.TimeMinutes < 6*60 || start.TimeMinutes >= 22*60 {
		phase = types.PhaseNight
	}
	return &types.State{
		GameState: types.GameState{
			Day:         start.Day,
			TimeMinutes: start.TimeMinutes,
			Phase:       phase,
			ZMH:         start.TimeMinutes >= 4*60 && start.TimeMinutes < 5*60,
			Act:         1,
		},
		Player: types.Player{
			Stats: types.Stats{
				Sanity:     start.Sanity,
				Atmosphere: start.Atmosphere,
				Money:      start.Money,
			},
			Skills:    map[string]int{},
			Inventory: []string{},
		},
		Network: types.Network{
			Mode:  types.ModeIdle,
			Flags: map[string]bool{},
		},
		Quests: types.QuestProgress{
			Active:       start.Quest,
			Completed:    []string{},
			StepProgress: map[string][]string{},
		},
	}
}

// HasItem returns true if the player has the given item in inventory.
func HasItem(s *types.State, item string) bool {
	return contains(s.Player.Inventory, item)
}

// IsCompleted returns true if questID is in the completed set.
func IsCompleted(s *types.State, questID string) bool {
	return contains(s.Quests.Completed, questID)
}

// StepDone returns true if stepID is recorded for questID.
func StepDone(s *types.State, questID, stepID string) bool {
	return contains(s.Quests.StepProgress[questID], stepID)
}

// Flag returns a network flag. Unset flags return false.
func Flag(s *types.State, name string) bool {
	return s.Network.Flags[name]
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// Store holds the live state and applies dispatched effects to it.
// It is the single writer; callers never mutate the state directly.
type Store struct {
	state *types.State
	start Start
	log   *log.Logger
}

// NewStore creates a store initialised from start.
func NewStore(start Start, logger *log.Logger) *Store {
	return &Store{state: NewState(start), start: start, log: logger}
}

// State returns the live state. Treat it as read-only.
func (st *Store) State() *types.State {
	return st.state
}

// Snapshot returns a deep copy of the state.
func (st *Store) Snapshot() types.State {
	return Clone(st.state)
}

// Dispatch applies effects in order. Unknown effects are logged.
func (st *Store) Dispatch(effs ...types.Effect) {
	if err := effects.Apply(st.state, effs); err != nil && st.log != nil {
		st.log.Printf("warning: %v", err)
	}
}

// Replace swaps in a whole state, e.g. after loading a save.
func (st *Store) Replace(s types.State) {
	c := Clone(&s)
	st.state = &c
}

// Reset restores the initial state of the session.
func (st *Store) Reset() {
	st.state = NewState(st.start)
}

// Clone deep-copies a state.
func Clone(s *types.State) types.State {
	c := *s
	c.Player.Skills = make(map[string]int, len(s.Player.Skills))
	for k, v := range s.Player.Skills {
		c.Player.Skills[k] = v
	}
	c.Player.Inventory = append([]string{}, s.Player.Inventory...)
	c.Network.Flags = make(map[string]bool, len(s.Network.Flags))
	for k, v := range s.Network.Flags {
		c.Network.Flags[k] = v
	}
	c.Quests.Completed = append([]string{}, s.Quests.Completed...)
	c.Quests.StepProgress = make(map[string][]string, len(s.Quests.StepProgress))
	for k, v := range s.Quests.StepProgress {
		c.Quests.StepProgress[k] = append([]string{}, v...)
	}
	return c
}
