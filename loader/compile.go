// Package loader loads Lua quest content into Go structs at startup.
// The Lua VM is discarded after loading, so no Lua runs during play.
package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/fidoquest/types"
	lua "github.com/yuin/gopher-lua"
)

// rawQuest holds a quest table before compilation.
type rawQuest struct {
	id    string
	table *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// toGoValue converts a Lua value to a Go value recursively.
func toGoValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case *lua.LNilType:
		return nil
	case lua.LString:
		return string(val)
	case *lua.LTable:
		// Sequential integer keys starting at 1 make an array.
		if maxN := val.MaxN(); maxN > 0 {
			arr := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				arr = append(arr, toGoValue(val.RawGetInt(i)))
			}
			return arr
		}
		return tableToAnyMap(val)
	default:
		return nil
	}
}

// tableToAnyMap converts a Lua table to a map[string]any.
func tableToAnyMap(tbl *lua.LTable) map[string]any {
	if tbl == nil {
		return nil
	}
	m := map[string]any{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			m[string(ks)] = toGoValue(v)
		}
	})
	return m
}

// stringList converts the array part of a Lua table to strings.
// Non-string elements are skipped.
func stringList(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// tables returns the table elements of the array part of tbl, in order.
func tables(tbl *lua.LTable) []*lua.LTable {
	if tbl == nil {
		return nil
	}
	var out []*lua.LTable
	for i := 1; i <= tbl.MaxN(); i++ {
		if t, ok := tbl.RawGetInt(i).(*lua.LTable); ok {
			out = append(out, t)
		}
	}
	return out
}

// compile converts the collected quest tables, in declaration order.
func compile(coll *collector) ([]types.Quest, error) {
	if len(coll.quests) == 0 {
		return nil, fmt.Errorf("no Quest definitions found")
	}
	quests := make([]types.Quest, 0, len(coll.quests))
	for _, raw := range coll.quests {
		quests = append(quests, compileQuest(raw))
	}
	return quests, nil
}

func compileQuest(raw rawQuest) types.Quest {
	tbl := raw.table
	q := types.Quest{
		ID:            raw.id,
		Act:           getInt(tbl, "act"),
		Title:         getString(tbl, "title"),
		Description:   strings.TrimSpace(getString(tbl, "description")),
		Hints:         stringList(getTable(tbl, "hints")),
		Prerequisites: stringList(getTable(tbl, "prerequisites")),
		NextQuest:     getString(tbl, "next_quest"),
		CompletesAct:  getInt(tbl, "completes_act"),
	}
	for _, st := range tables(getTable(tbl, "steps")) {
		q.Steps = append(q.Steps, compileStep(st))
	}
	for _, rw := range tables(getTable(tbl, "rewards")) {
		q.Rewards = append(q.Rewards, compileReward(rw))
	}
	for _, br := range tables(getTable(tbl, "branches")) {
		q.Branches = append(q.Branches, types.Branch{
			Event:     getString(br, "event"),
			Metadata:  tableToAnyMap(getTable(br, "metadata")),
			NextQuest: getString(br, "next_quest"),
		})
	}
	return q
}

func compileStep(tbl *lua.LTable) types.QuestStep {
	return types.QuestStep{
		ID:          getString(tbl, "id"),
		Type:        types.StepType(strings.ToUpper(getString(tbl, "type"))),
		Event:       getString(tbl, "event"),
		Command:     getString(tbl, "command"),
		Condition:   getString(tbl, "condition"),
		Description: getString(tbl, "description"),
		Metadata:    tableToAnyMap(getTable(tbl, "metadata")),
	}
}

func compileReward(tbl *lua.LTable) types.Reward {
	return types.Reward{
		Type:  types.RewardType(strings.ToUpper(getString(tbl, "type"))),
		Key:   getString(tbl, "key"),
		Item:  getString(tbl, "item"),
		Delta: getInt(tbl, "delta"),
	}
}

// sortedLuaFiles returns .lua files sorted by name, so act1.lua runs
// before act2.lua.
func sortedLuaFiles(files []string) []string {
	var out []string
	for _, f := range files {
		if strings.HasSuffix(f, ".lua") {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}
