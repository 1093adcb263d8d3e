package quest

import (
	"fmt"

	"github.com/nathoo/fidoquest/engine/effects"
	"github.com/nathoo/fidoquest/engine/state"
	"github.com/nathoo/fidoquest/types"
)

// Store is the state accessor and dispatcher the quest engine writes through.
type Store interface {
	State() *types.State
	Dispatch(effs ...types.Effect)
}

// Publisher publishes domain events.
type Publisher interface {
	Publish(eventType string, payload map[string]any)
}

// CompleteQuestAndProgress finishes questID: marks it completed, grants its
// rewards, activates its next quest and advances the act when the quest
// closes one. It returns the lines to show the player. Completing an
// already completed quest does nothing.
func CompleteQuestAndProgress(c *Catalog, st Store, pub Publisher, questID string) []string {
	q, ok := c.QuestByID(questID)
	if !ok {
		return nil
	}
	return complete(c, st, pub, q, q.NextQuest)
}

func complete(c *Catalog, st Store, pub Publisher, q types.Quest, next string) []string {
	if state.IsCompleted(st.State(), q.ID) {
		return nil
	}

	lines := []string{"", fmt.Sprintf("*** QUEST COMPLETE: %s ***", q.Title)}
	effs := []types.Effect{effects.CompleteQuest(q.ID)}

	for _, r := range q.Rewards {
		eff, line, ok := rewardEffect(r)
		if !ok {
			continue
		}
		effs = append(effs, eff)
		lines = append(lines, line)
	}

	var nextQuest types.Quest
	if next != "" {
		if nq, ok := c.QuestByID(next); ok {
			nextQuest = nq
			effs = append(effs, effects.SetActiveQuest(next))
		}
	}
	if q.CompletesAct > 0 {
		effs = append(effs, effects.SetAct(q.CompletesAct+1))
	}

	st.Dispatch(effs...)

	if q.CompletesAct > 0 {
		lines = append(lines, "",
			fmt.Sprintf("=== ACT %d COMPLETE ===", q.CompletesAct))
		if len(c.QuestsByAct(q.CompletesAct+1)) > 0 {
			lines = append(lines, fmt.Sprintf("=== ACT %d BEGINS ===", q.CompletesAct+1))
		} else {
			lines = append(lines, "Thanks for playing. Keep the node running.")
		}
	}
	if nextQuest.ID != "" {
		lines = append(lines, fmt.Sprintf("New quest: %s", nextQuest.Title))
		if nextQuest.Description != "" {
			lines = append(lines, "  "+nextQuest.Description)
		}
	}

	if pub != nil {
		pub.Publish(types.EventQuestCompleted, map[string]any{"questId": q.ID})
		if q.CompletesAct > 0 {
			pub.Publish(types.EventActChanged, map[string]any{"act": q.CompletesAct + 1})
		}
	}
	return lines
}

func rewardEffect(r types.Reward) (types.Effect, string, bool) {
	switch r.Type {
	case types.RewardSkill:
		return effects.UpdateSkill(r.Key, r.Delta),
			fmt.Sprintf("  Skill %s %+d", r.Key, r.Delta), true
	case types.RewardItem:
		return effects.AddItem(r.Item),
			fmt.Sprintf("  Received: %s", r.Item), true
	case types.RewardStat:
		return effects.UpdateStat(r.Key, r.Delta),
			fmt.Sprintf("  %s %+d", r.Key, r.Delta), true
	case types.RewardMoney:
		return effects.UpdateStat(effects.StatMoney, r.Delta),
			fmt.Sprintf("  money %+d", r.Delta), true
	}
	return types.Effect{}, "", false
}
