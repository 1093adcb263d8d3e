package quest

import (
	"log"

	"github.com/nathoo/fidoquest/engine/effects"
	"github.com/nathoo/fidoquest/engine/events"
	"github.com/nathoo/fidoquest/types"
)

// Listener advances the active quest from domain events. Attach it to the
// bus with a wildcard subscription.
type Listener struct {
	catalog *Catalog
	store   Store
	bus     Publisher
	log     *log.Logger

	// Notify receives completion banners and reward lines.
	Notify func(line string)
}

// NewListener creates a listener. logger may be nil.
func NewListener(c *Catalog, st Store, bus Publisher, logger *log.Logger) *Listener {
	return &Listener{catalog: c, store: st, bus: bus, log: logger}
}

// Attach subscribes the listener to every event on b.
func (l *Listener) Attach(b *events.Bus) (unsubscribe func()) {
	return b.Subscribe(types.EventWildcard, l.Handle)
}

// Handle runs one matching pass for ev against the active quest.
func (l *Listener) Handle(ev types.Event) {
	active := l.store.State().Quests.Active
	if active == "" {
		return
	}
	q, ok := l.catalog.QuestByID(active)
	if !ok {
		l.logf("warning: active quest %q not in catalog", active)
		return
	}

	if len(q.Branches) > 0 {
		l.handleBranches(q, ev)
		return
	}

	var candidates []types.QuestStep
	for _, s := range EventSteps(q) {
		if s.Event == ev.Type {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		return
	}

	// Track completion locally; a subscriber may observe the store before
	// this pass finishes.
	done := make(map[string]bool)
	for _, id := range l.store.State().Quests.StepProgress[q.ID] {
		done[id] = true
	}

	newly := false
	for _, s := range candidates {
		if done[s.ID] || !MatchesMetadata(s.Metadata, ev.Data) {
			continue
		}
		l.markStep(q, s)
		done[s.ID] = true
		newly = true
	}
	if !newly || !allDone(q, done) {
		return
	}

	// Another path may have finished the quest during this event.
	if l.store.State().Quests.Active != q.ID {
		return
	}
	l.notify(complete(l.catalog, l.store, l.bus, q, q.NextQuest))
}

func (l *Listener) handleBranches(q types.Quest, ev types.Event) {
	for _, br := range q.Branches {
		if br.Event != ev.Type || !MatchesMetadata(br.Metadata, ev.Data) {
			continue
		}
		if _, ok := l.catalog.QuestByID(br.NextQuest); !ok {
			l.logf("warning: quest %q branches to unknown quest %q", q.ID, br.NextQuest)
			return
		}
		l.notify(complete(l.catalog, l.store, l.bus, q, br.NextQuest))

		// The event that chose the branch may already satisfy the target.
		next, _ := l.catalog.QuestByID(br.NextQuest)
		if l.store.State().Quests.Active != next.ID || !completedBy(next, ev) {
			return
		}
		for _, s := range next.Steps {
			l.markStep(next, s)
		}
		if l.store.State().Quests.Active == next.ID {
			l.notify(complete(l.catalog, l.store, l.bus, next, next.NextQuest))
		}
		return
	}
}

// completedBy reports whether every step of q is an EVENT step that ev
// satisfies on its own.
func completedBy(q types.Quest, ev types.Event) bool {
	if len(q.Steps) == 0 || len(q.Branches) > 0 {
		return false
	}
	for _, s := range q.Steps {
		if s.Type != types.StepEvent || s.Event != ev.Type || !MatchesMetadata(s.Metadata, ev.Data) {
			return false
		}
	}
	return true
}

func allDone(q types.Quest, done map[string]bool) bool {
	for _, s := range EventSteps(q) {
		if !done[s.ID] {
			return false
		}
	}
	return true
}

func (l *Listener) markStep(q types.Quest, s types.QuestStep) {
	l.store.Dispatch(effects.CompleteStep(q.ID, s.ID))
	if l.bus != nil {
		l.bus.Publish(types.EventQuestStepCompleted, map[string]any{
			"questId":     q.ID,
			"stepId":      s.ID,
			"description": s.Description,
		})
	}
}

func (l *Listener) notify(lines []string) {
	if l.Notify == nil {
		return
	}
	for _, line := range lines {
		l.Notify(line)
	}
}

func (l *Listener) logf(format string, args ...any) {
	if l.log != nil {
		l.log.Printf(format, args...)
	}
}
