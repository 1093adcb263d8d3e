package handlers

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nathoo/fidoquest/engine/clock"
	"github.com/nathoo/fidoquest/engine/command"
	"github.com/nathoo/fidoquest/engine/effects"
	"github.com/nathoo/fidoquest/engine/state"
	"github.com/nathoo/fidoquest/types"
)

func registerSystem(r *command.Registry[*Env]) {
	r.RegisterGlobal(command.Literal("HELP"), handleHelp)
	r.RegisterGlobal(command.Literal("CLS"), func(e *Env, _ command.Input) { e.Print(ClearScreen) })
	r.RegisterGlobal(command.Literal("VER"), func(e *Env, _ command.Input) {
		e.Print("", "MS-DOS Version 6.22", "")
	})
	r.RegisterGlobal(command.Literal("HINT"), handleHint)
	r.RegisterGlobal(command.Literal("QUESTS"), handleQuests)
	r.RegisterGlobal(command.Literal("STATUS"), handleStatus)
	r.RegisterGlobal(command.Literal("WAIT"), handleWait)

	r.Register(types.ModeIdle, command.Literal("DIR"), handleDir)
	r.Register(types.ModeIdle, command.Literal("CD"), handleCd)
	r.Register(types.ModeIdle, command.Literal("TYPE"), handleType)
	r.Register(types.ModeIdle, command.Literal("MD"), handleMd)
}

func handleHelp(e *Env, _ command.Input) {
	switch e.State().Network.Mode {
	case types.ModeBBSMenu:
		printMenu(e)
	case types.ModeBBSFiles:
		e.Print("File area: L list, D <n> download, Q back to menu, HANGUP to drop carrier.")
	case types.ModeBBSChat:
		e.Print("Chat: type the number of your answer, Q to leave.")
	default:
		e.Print(
			"DOS:      DIR [path], CD <dir>, TYPE <file>, MD <dir>, CLS, VER",
			"Modem:    TERMINAL, ATZ, DIAL <number>, HANGUP, EXIT",
			"Mail:     TMSETUP, GEDSETUP, TMAIL POLL, GOLDED [area], READ <area> <n>,",
			"          REPLY <area> <n> <text>, POST <area> <text>",
			"Network:  TRACE <zone:net/node>",
			"Game:     HINT, QUESTS, STATUS, WAIT <minutes>",
		)
	}
}

func handleDir(e *Env, in command.Input) {
	path := in.Args()
	if path == "" {
		path = e.FS.Pwd()
	}
	entries, err := e.FS.Ls(path)
	if err != nil {
		e.Print("File not found")
		return
	}
	abs, _ := e.FS.Abs(path)
	e.Print("", " Directory of "+abs, "")
	total := 0
	for _, en := range entries {
		if en.IsDir {
			e.Printf(" %-12s  <DIR>", en.Name)
			continue
		}
		e.Printf(" %-12s  %8d", en.Name, en.Size)
		total += en.Size
	}
	e.Printf("     %d file(s) %d bytes", len(entries), total)
}

func handleCd(e *Env, in command.Input) {
	path := in.Args()
	if path == "" {
		e.Print(e.FS.Pwd())
		return
	}
	if err := e.FS.Cd(path); err != nil {
		e.Print("Invalid directory")
	}
}

func handleType(e *Env, in command.Input) {
	path := in.Args()
	if path == "" {
		e.Print("Required parameter missing")
		return
	}
	text, err := e.FS.Cat(path)
	if err != nil {
		e.Print("File not found - " + path)
		return
	}
	e.Print(strings.Split(strings.TrimRight(text, "\n"), "\n")...)
}

func handleMd(e *Env, in command.Input) {
	path := in.Args()
	if path == "" {
		e.Print("Required parameter missing")
		return
	}
	if e.FS.Exists(path) {
		e.Print("Unable to create directory")
		return
	}
	if err := e.FS.CreateDir(path); err != nil {
		e.Print("Unable to create directory")
	}
}

func handleHint(e *Env, _ command.Input) {
	s := e.State()
	q, ok := e.Catalog.QuestByID(s.Quests.Active)
	if !ok {
		e.Print("No active quest.")
		return
	}
	if len(q.Hints) == 0 {
		e.Print("No hints for this one. Trust your instincts.")
		return
	}
	level := s.Quests.HintLevel
	if level >= len(q.Hints) {
		level = len(q.Hints) - 1
	}
	e.Printf("Hint %d/%d: %s", level+1, len(q.Hints), q.Hints[level])
	if level+1 < len(q.Hints) {
		e.Dispatch(effects.SetHintLevel(level + 1))
	}
}

func handleQuests(e *Env, _ command.Input) {
	s := e.State()
	e.Printf("=== Act %d ===", s.GameState.Act)
	if q, ok := e.Catalog.QuestByID(s.Quests.Active); ok {
		e.Print("Active: " + q.Title)
		if q.Description != "" {
			e.Print("  " + q.Description)
		}
		for _, st := range q.Steps {
			text := st.Description
			if text == "" {
				text = st.ID
			}
			mark := "[ ]"
			switch {
			case st.Type != types.StepEvent:
				mark = " - "
			case state.StepDone(s, q.ID, st.ID):
				mark = "[x]"
			}
			e.Printf("  %s %s", mark, text)
		}
	} else {
		e.Print("No active quest.")
	}
	if len(s.Quests.Completed) > 0 {
		e.Print("Completed:")
		for _, id := range s.Quests.Completed {
			title := id
			if q, ok := e.Catalog.QuestByID(id); ok {
				title = q.Title
			}
			e.Print("  * " + title)
		}
	}
}

func handleStatus(e *Env, _ command.Input) {
	s := e.State()
	gs := s.GameState
	zmh := ""
	if gs.ZMH {
		zmh = ", Zone Mail Hour"
	}
	st := s.Player.Stats
	e.Printf("Day %d, %s (%s%s), act %d", gs.Day, clock.FormatTime(gs.TimeMinutes), gs.Phase, zmh, gs.Act)
	e.Printf("Sanity %d  Atmosphere %d  Money $%d  Debt $%d", st.Sanity, st.Atmosphere, st.Money, st.Debt)

	if len(s.Player.Skills) > 0 {
		names := make([]string, 0, len(s.Player.Skills))
		for k := range s.Player.Skills {
			names = append(names, k)
		}
		sort.Strings(names)
		parts := make([]string, len(names))
		for i, k := range names {
			parts[i] = fmt.Sprintf("%s %d", k, s.Player.Skills[k])
		}
		e.Print("Skills: " + strings.Join(parts, ", "))
	}
	if len(s.Player.Inventory) > 0 {
		e.Print("Disks: " + strings.Join(s.Player.Inventory, ", "))
	}
	if s.Network.Connected {
		e.Printf("Online: %s (%s)", s.Network.BBS, s.Network.Number)
	}
}

func handleWait(e *Env, in command.Input) {
	n, err := strconv.Atoi(in.Arg(0))
	if err != nil || n < 1 || n > clock.MaxWait {
		usage(e, fmt.Sprintf("WAIT <minutes 1-%d>", clock.MaxWait))
		return
	}
	e.Printf("You stare at the blinking cursor for %d minutes.", n)
}
