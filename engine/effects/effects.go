// Package effects implements centralized state mutation via the Apply function.
// Every effect type is one atomic, named action. No game logic in effects.
package effects

import (
	"fmt"

	"github.com/nathoo/fidoquest/types"
)

// Effect type names. These are the stable action names collaborators
// dispatch by.
const (
	TypeSetActiveQuest  = "set_active_quest"
	TypeCompleteQuest   = "complete_quest"
	TypeCompleteStep    = "complete_step"
	TypeSetHintLevel    = "set_hint_level"
	TypeUpdateSkill     = "update_skill"
	TypeUpdateStat      = "update_stat"
	TypeAddItem         = "add_item"
	TypeRemoveItem      = "remove_item"
	TypeSetAct          = "set_act"
	TypeConnect         = "connect"
	TypeDisconnect      = "disconnect"
	TypeSetTerminalMode = "set_terminal_mode"
	TypeSetProgram      = "set_program"
	TypeSetFlag         = "set_flag"
	TypeSetClock        = "set_clock"
	TypeSetLastBillDay  = "set_last_bill_day"
	TypeGameOver        = "game_over"
)

// Stat names accepted by update_stat.
const (
	StatSanity     = "sanity"
	StatAtmosphere = "atmosphere"
	StatMoney      = "money"
	StatDebt       = "debt"
)

// UnknownEffectError reports effects Apply could not interpret.
type UnknownEffectError struct {
	Types []string
}

func (e *UnknownEffectError) Error() string {
	return fmt.Sprintf("unknown effect type(s): %v", e.Types)
}

// Apply applies a list of effects to the game state, mutating it.
// Unknown effect types are skipped and reported in the returned error.
func Apply(s *types.State, effs []types.Effect) error {
	var unknown []string

	for _, eff := range effs {
		switch eff.Type {
		case TypeSetActiveQuest:
			quest, _ := eff.Params["quest"].(string)
			if s.Quests.Active != quest {
				s.Quests.HintLevel = 0
			}
			s.Quests.Active = quest

		case TypeCompleteQuest:
			quest, _ := eff.Params["quest"].(string)
			s.Quests.Completed = appendUnique(s.Quests.Completed, quest)
			if s.Quests.Active == quest {
				s.Quests.Active = ""
				s.Quests.HintLevel = 0
			}

		case TypeCompleteStep:
			quest, _ := eff.Params["quest"].(string)
			step, _ := eff.Params["step"].(string)
			if s.Quests.StepProgress == nil {
				s.Quests.StepProgress = map[string][]string{}
			}
			s.Quests.StepProgress[quest] = appendUnique(s.Quests.StepProgress[quest], step)

		case TypeSetHintLevel:
			s.Quests.HintLevel = toInt(eff.Params["level"])

		case TypeUpdateSkill:
			skill, _ := eff.Params["skill"].(string)
			if s.Player.Skills == nil {
				s.Player.Skills = map[string]int{}
			}
			s.Player.Skills[skill] += toInt(eff.Params["delta"])

		case TypeUpdateStat:
			stat, _ := eff.Params["stat"].(string)
			applyStat(&s.Player.Stats, stat, toInt(eff.Params["delta"]))

		case TypeAddItem:
			item, _ := eff.Params["item"].(string)
			s.Player.Inventory = appendUnique(s.Player.Inventory, item)

		case TypeRemoveItem:
			item, _ := eff.Params["item"].(string)
			s.Player.Inventory = removeFromSlice(s.Player.Inventory, item)

		case TypeSetAct:
			s.GameState.Act = toInt(eff.Params["act"])

		case TypeConnect:
			s.Network.Connected = true
			s.Network.Number, _ = eff.Params["number"].(string)
			s.Network.BBS, _ = eff.Params["bbs"].(string)

		case TypeDisconnect:
			s.Network.Connected = false
			s.Network.Number = ""
			s.Network.BBS = ""
			s.Network.Mode = types.ModeIdle

		case TypeSetTerminalMode:
			s.Network.Mode = types.TerminalMode(toString(eff.Params["mode"]))

		case TypeSetProgram:
			s.Network.Program, _ = eff.Params["program"].(string)

		case TypeSetFlag:
			flag, _ := eff.Params["flag"].(string)
			value, _ := eff.Params["value"].(bool)
			if s.Network.Flags == nil {
				s.Network.Flags = map[string]bool{}
			}
			s.Network.Flags[flag] = value

		case TypeSetClock:
			s.GameState.Day = toInt(eff.Params["day"])
			s.GameState.TimeMinutes = toInt(eff.Params["minutes"])
			s.GameState.Phase = types.Phase(toString(eff.Params["phase"]))
			s.GameState.ZMH, _ = eff.Params["zmh"].(bool)

		case TypeSetLastBillDay:
			s.GameState.LastBillDay = toInt(eff.Params["day"])

		case TypeGameOver:
			s.GameState.GameOver = true
			s.GameState.GameOverReason, _ = eff.Params["reason"].(string)

		default:
			unknown = append(unknown, eff.Type)
		}
	}

	if len(unknown) > 0 {
		return &UnknownEffectError{Types: unknown}
	}
	return nil
}

// applyStat adds delta to the named stat. Sanity and atmosphere are
// clamped to [0,100]; money and debt are unbounded.
func applyStat(st *types.Stats, stat string, delta int) {
	switch stat {
	case StatSanity:
		st.Sanity = clamp(st.Sanity+delta, 0, 100)
	case StatAtmosphere:
		st.Atmosphere = clamp(st.Atmosphere+delta, 0, 100)
	case StatMoney:
		st.Money += delta
	case StatDebt:
		st.Debt += delta
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func appendUnique(slice []string, item string) []string {
	for _, v := range slice {
		if v == item {
			return slice
		}
	}
	return append(slice, item)
}

func removeFromSlice(slice []string, item string) []string {
	for i, v := range slice {
		if v == item {
			return append(slice[:i:i], slice[i+1:]...)
		}
	}
	return slice
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	case int64:
		return int(n)
	default:
		return 0
	}
}

// toString accepts plain strings and the string-based enums, which arrive
// untyped when effects are decoded from content files.
func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case types.TerminalMode:
		return string(x)
	case types.Phase:
		return string(x)
	}
	return ""
}
