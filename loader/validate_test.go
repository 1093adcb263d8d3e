package loader

import (
	"strings"
	"testing"

	"github.com/nathoo/fidoquest/types"
)

func validQuest(id string) types.Quest {
	return types.Quest{
		ID: id, Act: 1, Title: "Quest " + id,
		Steps: []types.QuestStep{{ID: "s1", Type: types.StepEvent, Event: types.EventModemInitialized}},
	}
}

func hasError(v Validation, sub string) bool {
	for _, e := range v.Errors {
		if strings.Contains(e, sub) {
			return true
		}
	}
	return false
}

func TestValidateQuestSchema(t *testing.T) {
	tests := []struct {
		name   string
		modify func(q *types.Quest)
		want   string // "" means valid
	}{
		{"valid", func(q *types.Quest) {}, ""},
		{"missing id", func(q *types.Quest) { q.ID = "" }, "no id"},
		{"missing title", func(q *types.Quest) { q.Title = "" }, "title is required"},
		{"act zero", func(q *types.Quest) { q.Act = 0 }, "act must be 1"},
		{"negative completes_act", func(q *types.Quest) { q.CompletesAct = -1 }, "completes_act"},
		{"step without id", func(q *types.Quest) { q.Steps[0].ID = "" }, "step 1 has no id"},
		{"duplicate step", func(q *types.Quest) {
			q.Steps = append(q.Steps, q.Steps[0])
		}, `duplicate step id "s1"`},
		{"unknown step type", func(q *types.Quest) { q.Steps[0].Type = "DANCE" }, `unknown type "DANCE"`},
		{"event step without event", func(q *types.Quest) { q.Steps[0].Event = "" }, "needs an event"},
		{"command step without command", func(q *types.Quest) {
			q.Steps = append(q.Steps, types.QuestStep{ID: "c", Type: types.StepCommand})
		}, "needs a command"},
		{"condition step without condition", func(q *types.Quest) {
			q.Steps = append(q.Steps, types.QuestStep{ID: "c", Type: types.StepCondition})
		}, "needs a condition"},
		{"unknown reward", func(q *types.Quest) {
			q.Rewards = []types.Reward{{Type: "HUG"}}
		}, `unknown type "HUG"`},
		{"skill without key", func(q *types.Quest) {
			q.Rewards = []types.Reward{{Type: types.RewardSkill, Delta: 1}}
		}, "needs a key"},
		{"stat zero delta", func(q *types.Quest) {
			q.Rewards = []types.Reward{{Type: types.RewardStat, Key: "sanity"}}
		}, "zero delta"},
		{"item without item", func(q *types.Quest) {
			q.Rewards = []types.Reward{{Type: types.RewardItem}}
		}, "needs an item"},
		{"money zero", func(q *types.Quest) {
			q.Rewards = []types.Reward{{Type: types.RewardMoney}}
		}, "MONEY reward 1 has zero delta"},
		{"branch without event", func(q *types.Quest) {
			q.Branches = []types.Branch{{NextQuest: "x"}}
		}, "needs an event"},
		{"branch without target", func(q *types.Quest) {
			q.Branches = []types.Branch{{Event: types.EventDialogueCompleted}}
		}, "needs a next quest"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validQuest("q")
			tt.modify(&q)
			v := ValidateQuestSchema(q)
			if tt.want == "" {
				if !v.Valid {
					t.Errorf("expected valid, got %v", v.Errors)
				}
				return
			}
			if v.Valid {
				t.Fatalf("expected invalid (%s)", tt.want)
			}
			if !hasError(v, tt.want) {
				t.Errorf("Errors = %v, want one containing %q", v.Errors, tt.want)
			}
		})
	}
}

func TestValidateQuestSchema_Warnings(t *testing.T) {
	q := validQuest("q")
	q.Steps[0].Event = "SOMETHING_ODD"
	v := ValidateQuestSchema(q)
	if !v.Valid {
		t.Fatalf("unknown event should only warn: %v", v.Errors)
	}
	if len(v.Warnings) != 1 || !strings.Contains(v.Warnings[0], "SOMETHING_ODD") {
		t.Errorf("Warnings = %v", v.Warnings)
	}

	manual := validQuest("m")
	manual.Steps = []types.QuestStep{{ID: "m", Type: types.StepManual}}
	if v := ValidateQuestSchema(manual); len(v.Warnings) != 1 {
		t.Errorf("manual-only quest warnings = %v", v.Warnings)
	}

	both := validQuest("b")
	both.NextQuest = "x"
	both.Branches = []types.Branch{{Event: types.EventDialogueCompleted, NextQuest: "y"}}
	if v := ValidateQuestSchema(both); len(v.Warnings) != 1 || !strings.Contains(v.Warnings[0], "ignored") {
		t.Errorf("next_quest with branches warnings = %v", v.Warnings)
	}
}

func TestValidateQuestCollection(t *testing.T) {
	tests := []struct {
		name   string
		quests func() []types.Quest
		want   []string
	}{
		{"valid chain", func() []types.Quest {
			a, b := validQuest("a"), validQuest("b")
			a.NextQuest = "b"
			b.Prerequisites = []string{"a"}
			return []types.Quest{a, b}
		}, nil},
		{"empty", func() []types.Quest { return nil }, []string{"no quests"}},
		{"duplicate id", func() []types.Quest {
			return []types.Quest{validQuest("a"), validQuest("a")}
		}, []string{`duplicate quest id "a"`}},
		{"dangling references", func() []types.Quest {
			a := validQuest("a")
			a.Prerequisites = []string{"ghost"}
			a.NextQuest = "nowhere"
			b := validQuest("b")
			b.Branches = []types.Branch{{Event: types.EventDialogueCompleted, NextQuest: "void"}}
			return []types.Quest{a, b}
		}, []string{`prerequisite "ghost"`, `next_quest "nowhere"`, `branch target "void"`}},
		{"self cycle", func() []types.Quest {
			a := validQuest("a")
			a.NextQuest = "a"
			return []types.Quest{a}
		}, []string{"cycle: a -> a"}},
		{"long cycle", func() []types.Quest {
			a, b, c := validQuest("a"), validQuest("b"), validQuest("c")
			a.NextQuest, b.NextQuest, c.NextQuest = "b", "c", "a"
			return []types.Quest{a, b, c}
		}, []string{"cycle: a -> b -> c -> a"}},
		{"schema errors surface", func() []types.Quest {
			a := validQuest("a")
			a.Title = ""
			return []types.Quest{a}
		}, []string{"title is required"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValidateQuestCollection(tt.quests())
			if len(tt.want) == 0 {
				if !v.Valid {
					t.Errorf("expected valid, got %v", v.Errors)
				}
				if err := v.Err(); err != nil {
					t.Errorf("Err() = %v", err)
				}
				return
			}
			if v.Valid {
				t.Fatal("expected invalid")
			}
			for _, w := range tt.want {
				if !hasError(v, w) {
					t.Errorf("Errors = %v, want one containing %q", v.Errors, w)
				}
			}
		})
	}
}

func TestValidateQuestCollection_CycleReportedOnce(t *testing.T) {
	a, b, c := validQuest("a"), validQuest("b"), validQuest("c")
	// c leads into the a<->b loop without being part of it.
	a.NextQuest, b.NextQuest, c.NextQuest = "b", "a", "a"
	v := ValidateQuestCollection([]types.Quest{a, b, c})
	n := 0
	for _, e := range v.Errors {
		if strings.Contains(e, "cycle") {
			n++
		}
	}
	if n != 1 {
		t.Errorf("expected 1 cycle error, got %v", v.Errors)
	}
}

func TestValidationError_Message(t *testing.T) {
	err := (&ValidationError{Errors: []string{"one", "two"}}).Error()
	if !strings.Contains(err, "2 error(s)") || !strings.Contains(err, "one\n  two") {
		t.Errorf("Error() = %q", err)
	}
}
