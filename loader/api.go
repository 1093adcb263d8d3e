package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers the quest constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerStepHelpers(L)
	registerRewardHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Quest "id" { ... }, curried: Quest("id") returns a function that takes a table.
	L.SetGlobal("Quest", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.quests = append(coll.quests, rawQuest{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// Branch("EVENT", { metadata }, "next_quest")
	L.SetGlobal("Branch", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("event", lua.LString(L.CheckString(1)))
		if meta, ok := L.Get(2).(*lua.LTable); ok {
			tbl.RawSetString("metadata", meta)
		}
		tbl.RawSetString("next_quest", lua.LString(L.OptString(3, "")))
		L.Push(tbl)
		return 1
	}))
}

func registerStepHelpers(L *lua.LState) {
	// OnEvent("id", "EVENT_TYPE", "description", { metadata })
	L.SetGlobal("OnEvent", L.NewFunction(func(L *lua.LState) int {
		tbl := stepTable(L, "EVENT")
		tbl.RawSetString("event", lua.LString(L.CheckString(2)))
		tbl.RawSetString("description", lua.LString(L.OptString(3, "")))
		if meta, ok := L.Get(4).(*lua.LTable); ok {
			tbl.RawSetString("metadata", meta)
		}
		L.Push(tbl)
		return 1
	}))

	// OnCommand("id", "COMMAND", "description")
	L.SetGlobal("OnCommand", L.NewFunction(func(L *lua.LState) int {
		tbl := stepTable(L, "COMMAND")
		tbl.RawSetString("command", lua.LString(L.CheckString(2)))
		tbl.RawSetString("description", lua.LString(L.OptString(3, "")))
		L.Push(tbl)
		return 1
	}))

	// OnCondition("id", "condition", "description")
	L.SetGlobal("OnCondition", L.NewFunction(func(L *lua.LState) int {
		tbl := stepTable(L, "CONDITION")
		tbl.RawSetString("condition", lua.LString(L.CheckString(2)))
		tbl.RawSetString("description", lua.LString(L.OptString(3, "")))
		L.Push(tbl)
		return 1
	}))

	// Manual("id", "description")
	L.SetGlobal("Manual", L.NewFunction(func(L *lua.LState) int {
		tbl := stepTable(L, "MANUAL")
		tbl.RawSetString("description", lua.LString(L.OptString(2, "")))
		L.Push(tbl)
		return 1
	}))
}

func stepTable(L *lua.LState, kind string) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("id", lua.LString(L.CheckString(1)))
	tbl.RawSetString("type", lua.LString(kind))
	return tbl
}

func registerRewardHelpers(L *lua.LState) {
	// Skill("tech", 1)
	L.SetGlobal("Skill", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("SKILL"))
		tbl.RawSetString("key", lua.LString(L.CheckString(1)))
		tbl.RawSetString("delta", L.CheckNumber(2))
		L.Push(tbl)
		return 1
	}))

	// Item("tmail")
	L.SetGlobal("Item", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("ITEM"))
		tbl.RawSetString("item", lua.LString(L.CheckString(1)))
		L.Push(tbl)
		return 1
	}))

	// Stat("sanity", 5)
	L.SetGlobal("Stat", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("STAT"))
		tbl.RawSetString("key", lua.LString(L.CheckString(1)))
		tbl.RawSetString("delta", L.CheckNumber(2))
		L.Push(tbl)
		return 1
	}))

	// Money(100)
	L.SetGlobal("Money", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("MONEY"))
		tbl.RawSetString("key", lua.LString("money"))
		tbl.RawSetString("delta", L.CheckNumber(1))
		L.Push(tbl)
		return 1
	}))
}
