package effects

import "github.com/nathoo/fidoquest/types"

// Constructors for every named action. Callers build effects with these
// rather than spelling out Params maps.

func SetActiveQuest(questID string) types.Effect {
	return types.Effect{Type: TypeSetActiveQuest, Params: map[string]any{"quest": questID}}
}

func CompleteQuest(questID string) types.Effect {
	return types.Effect{Type: TypeCompleteQuest, Params: map[string]any{"quest": questID}}
}

func CompleteStep(questID, stepID string) types.Effect {
	return types.Effect{Type: TypeCompleteStep, Params: map[string]any{"quest": questID, "step": stepID}}
}

func SetHintLevel(level int) types.Effect {
	return types.Effect{Type: TypeSetHintLevel, Params: map[string]any{"level": level}}
}

func UpdateSkill(skill string, delta int) types.Effect {
	return types.Effect{Type: TypeUpdateSkill, Params: map[string]any{"skill": skill, "delta": delta}}
}

func UpdateStat(stat string, delta int) types.Effect {
	return types.Effect{Type: TypeUpdateStat, Params: map[string]any{"stat": stat, "delta": delta}}
}

func AddItem(item string) types.Effect {
	return types.Effect{Type: TypeAddItem, Params: map[string]any{"item": item}}
}

func RemoveItem(item string) types.Effect {
	return types.Effect{Type: TypeRemoveItem, Params: map[string]any{"item": item}}
}

func SetAct(act int) types.Effect {
	return types.Effect{Type: TypeSetAct, Params: map[string]any{"act": act}}
}

func Connect(number, bbs string) types.Effect {
	return types.Effect{Type: TypeConnect, Params: map[string]any{"number": number, "bbs": bbs}}
}

func Disconnect() types.Effect {
	return types.Effect{Type: TypeDisconnect, Params: map[string]any{}}
}

func SetTerminalMode(mode types.TerminalMode) types.Effect {
	return types.Effect{Type: TypeSetTerminalMode, Params: map[string]any{"mode": mode}}
}

func SetProgram(program string) types.Effect {
	return types.Effect{Type: TypeSetProgram, Params: map[string]any{"program": program}}
}

func SetFlag(flag string, value bool) types.Effect {
	return types.Effect{Type: TypeSetFlag, Params: map[string]any{"flag": flag, "value": value}}
}

func SetClock(day, minutes int, phase types.Phase, zmh bool) types.Effect {
	return types.Effect{Type: TypeSetClock, Params: map[string]any{
		"day": day, "minutes": minutes, "phase": phase, "zmh": zmh,
	}}
}

func SetLastBillDay(day int) types.Effect {
	return types.Effect{Type: TypeSetLastBillDay, Params: map[string]any{"day": day}}
}

func GameOver(reason string) types.Effect {
	return types.Effect{Type: TypeGameOver, Params: map[string]any{"reason": reason}}
}
