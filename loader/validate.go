package loader

import (
	"fmt"
	"strings"

	"github.com/nathoo/fidoquest/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// Validation is the outcome of a schema or collection check.
type Validation struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

func (v *Validation) errorf(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

func (v *Validation) warnf(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}

func (v *Validation) merge(o Validation) {
	v.Errors = append(v.Errors, o.Errors...)
	v.Warnings = append(v.Warnings, o.Warnings...)
}

func (v *Validation) done() Validation {
	v.Valid = len(v.Errors) == 0
	return *v
}

// Err returns the failures as a *ValidationError, or nil when valid.
func (v Validation) Err() error {
	if len(v.Errors) == 0 {
		return nil
	}
	return &ValidationError{Errors: v.Errors, Warnings: v.Warnings}
}

var validStepTypes = map[types.StepType]bool{
	types.StepEvent:     true,
	types.StepCommand:   true,
	types.StepCondition: true,
	types.StepManual:    true,
}

var validRewardTypes = map[types.RewardType]bool{
	types.RewardSkill: true,
	types.RewardItem:  true,
	types.RewardStat:  true,
	types.RewardMoney: true,
}

// Event types a quest step may wait for.
var knownEvents = map[string]bool{
	types.EventModemInitialized:  true,
	types.EventBBSConnected:      true,
	types.EventBBSDisconnected:   true,
	types.EventFileDownloaded:    true,
	types.EventToolsDownloaded:   true,
	types.EventDialogueCompleted: true,
	types.EventConfigSaved:       true,
	types.EventMailTossed:        true,
	types.EventMessageRead:       true,
	types.EventMessagePosted:     true,
	types.EventCommandExecuted:   true,
	types.EventDayChanged:        true,
	types.EventPhaseChanged:      true,
	types.EventZMHStarted:        true,
	types.EventBillIssued:        true,
	types.EventRandom:            true,
}

// ValidateQuestSchema checks the shape of a single quest.
func ValidateQuestSchema(q types.Quest) Validation {
	var v Validation
	name := q.ID
	if name == "" {
		name = "<unnamed>"
		v.errorf("quest has no id")
	}
	if q.Title == "" {
		v.errorf("quest %q: title is required", name)
	}
	if q.Act < 1 {
		v.errorf("quest %q: act must be 1 or greater, got %d", name, q.Act)
	}
	if q.CompletesAct < 0 {
		v.errorf("quest %q: completes_act must not be negative", name)
	}

	stepIDs := map[string]bool{}
	for i, s := range q.Steps {
		if s.ID == "" {
			v.errorf("quest %q: step %d has no id", name, i+1)
		} else if stepIDs[s.ID] {
			v.errorf("quest %q: duplicate step id %q", name, s.ID)
		}
		stepIDs[s.ID] = true

		if !validStepTypes[s.Type] {
			v.errorf("quest %q: step %q has unknown type %q", name, s.ID, s.Type)
			continue
		}
		switch s.Type {
		case types.StepEvent:
			if s.Event == "" {
				v.errorf("quest %q: EVENT step %q needs an event", name, s.ID)
			} else if !knownEvents[s.Event] {
				v.warnf("quest %q: step %q waits for unrecognized event %q", name, s.ID, s.Event)
			}
		case types.StepCommand:
			if s.Command == "" {
				v.errorf("quest %q: COMMAND step %q needs a command", name, s.ID)
			}
		case types.StepCondition:
			if s.Condition == "" {
				v.errorf("quest %q: CONDITION step %q needs a condition", name, s.ID)
			}
		}
	}

	for i, r := range q.Rewards {
		if !validRewardTypes[r.Type] {
			v.errorf("quest %q: reward %d has unknown type %q", name, i+1, r.Type)
			continue
		}
		switch r.Type {
		case types.RewardSkill, types.RewardStat:
			if r.Key == "" {
				v.errorf("quest %q: %s reward %d needs a key", name, r.Type, i+1)
			}
			if r.Delta == 0 {
				v.errorf("quest %q: %s reward %d has zero delta", name, r.Type, i+1)
			}
		case types.RewardItem:
			if r.Item == "" {
				v.errorf("quest %q: ITEM reward %d needs an item", name, i+1)
			}
		case types.RewardMoney:
			if r.Delta == 0 {
				v.errorf("quest %q: MONEY reward %d has zero delta", name, i+1)
			}
		}
	}

	for i, b := range q.Branches {
		if b.Event == "" {
			v.errorf("quest %q: branch %d needs an event", name, i+1)
		}
		if b.NextQuest == "" {
			v.errorf("quest %q: branch %d needs a next quest", name, i+1)
		}
	}

	if len(q.Branches) > 0 && q.NextQuest != "" {
		v.warnf("quest %q: next_quest is ignored when branches are set", name)
	}
	if len(q.Branches) == 0 && hasNoEventSteps(q) {
		v.warnf("quest %q: no EVENT steps, it can only be completed by hand", name)
	}
	return v.done()
}

func hasNoEventSteps(q types.Quest) bool {
	for _, s := range q.Steps {
		if s.Type == types.StepEvent {
			return false
		}
	}
	return true
}

// ValidateQuestCollection checks every quest's schema plus the references
// between quests: unique ids, resolvable prerequisites, next quests and
// branch targets, and no cycles along next_quest.
func ValidateQuestCollection(qs []types.Quest) Validation {
	var v Validation
	if len(qs) == 0 {
		v.errorf("no quests defined")
		return v.done()
	}

	byID := map[string]types.Quest{}
	for _, q := range qs {
		v.merge(ValidateQuestSchema(q))
		if q.ID == "" {
			continue
		}
		if _, dup := byID[q.ID]; dup {
			v.errorf("duplicate quest id %q", q.ID)
			continue
		}
		byID[q.ID] = q
	}

	for _, q := range qs {
		for _, p := range q.Prerequisites {
			if _, ok := byID[p]; !ok {
				v.errorf("quest %q: prerequisite %q is not defined", q.ID, p)
			}
		}
		if q.NextQuest != "" {
			if _, ok := byID[q.NextQuest]; !ok {
				v.errorf("quest %q: next_quest %q is not defined", q.ID, q.NextQuest)
			}
		}
		for _, b := range q.Branches {
			if b.NextQuest == "" {
				continue
			}
			if _, ok := byID[b.NextQuest]; !ok {
				v.errorf("quest %q: branch target %q is not defined", q.ID, b.NextQuest)
			}
		}
	}

	for _, cycle := range nextQuestCycles(qs, byID) {
		v.errorf("next_quest cycle: %s", strings.Join(cycle, " -> "))
	}
	return v.done()
}

// nextQuestCycles walks the next_quest chains depth first and reports each
// cycle once, as the path that closes it.
func nextQuestCycles(qs []types.Quest, byID map[string]types.Quest) [][]string {
	visited := map[string]bool{}
	var cycles [][]string

	var visit func(id string, path []string, onPath map[string]bool)
	visit = func(id string, path []string, onPath map[string]bool) {
		if onPath[id] {
			start := 0
			for i, p := range path {
				if p == id {
					start = i
					break
				}
			}
			cycle := append(append([]string(nil), path[start:]...), id)
			cycles = append(cycles, cycle)
			return
		}
		if visited[id] {
			return
		}
		visited[id] = true
		q, ok := byID[id]
		if !ok || q.NextQuest == "" {
			return
		}
		onPath[id] = true
		visit(q.NextQuest, append(path, id), onPath)
		delete(onPath, id)
	}

	for _, q := range qs {
		if q.ID != "" && !visited[q.ID] {
			visit(q.ID, nil, map[string]bool{})
		}
	}
	return cycles
}
