// Package quest holds the static quest graph and the engine that advances
// the player's progress through it in response to domain events.
package quest

import "github.com/nathoo/fidoquest/types"

// Catalog is the immutable, validated quest collection.
type Catalog struct {
	quests []types.Quest
	byID   map[string]int
}

// NewCatalog indexes quests. The first quest with a given id wins; the
// loader reports duplicates before a catalog is built.
func NewCatalog(quests []types.Quest) *Catalog {
	c := &Catalog{
		quests: append([]types.Quest(nil), quests...),
		byID:   make(map[string]int, len(quests)),
	}
	for i, q := range c.quests {
		if _, dup := c.byID[q.ID]; !dup {
			c.byID[q.ID] = i
		}
	}
	return c
}

// QuestByID looks up a quest.
func (c *Catalog) QuestByID(id string) (types.Quest, bool) {
	i, ok := c.byID[id]
	if !ok {
		return types.Quest{}, false
	}
	return c.quests[i], true
}

// QuestsByAct returns the quests of one act in content order.
func (c *Catalog) QuestsByAct(act int) []types.Quest {
	var out []types.Quest
	for _, q := range c.quests {
		if q.Act == act {
			out = append(out, q)
		}
	}
	return out
}

// All returns every quest in content order.
func (c *Catalog) All() []types.Quest {
	return append([]types.Quest(nil), c.quests...)
}

// First returns the id of the opening quest, or "" for an empty catalog.
func (c *Catalog) First() string {
	if len(c.quests) == 0 {
		return ""
	}
	return c.quests[0].ID
}

// Len returns the number of quests.
func (c *Catalog) Len() int {
	return len(c.quests)
}

// EventSteps returns the EVENT-typed steps of q, the only ones that gate
// automatic completion.
func EventSteps(q types.Quest) []types.QuestStep {
	var out []types.QuestStep
	for _, s := range q.Steps {
		if s.Type == types.StepEvent {
			out = append(out, s)
		}
	}
	return out
}
