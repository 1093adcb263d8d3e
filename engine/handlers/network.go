package handlers

import (
	"strings"

	"github.com/nathoo/fidoquest/engine/command"
	"github.com/nathoo/fidoquest/engine/effects"
	"github.com/nathoo/fidoquest/engine/state"
	"github.com/nathoo/fidoquest/types"
)

// ProgramTerminal is the virtual terminal program the modem commands need.
const ProgramTerminal = "terminal"

// FlagModemReady is set once the modem answered ATZ.
const FlagModemReady = "modem_ready"

func registerNetwork(r *command.Registry[*Env]) {
	r.Register(types.ModeIdle, command.Literal("TERMINAL"), handleTerminal)
	r.Register(types.ModeIdle, command.Literal("EXIT"), handleExit)
	r.Register(types.ModeIdle, command.Literal("ATZ"), handleATZ)
	r.Register(types.ModeIdle, command.Literal("DIAL"), func(e *Env, in command.Input) {
		dial(e, in.Arg(0))
	})
	r.Register(types.ModeIdle, command.Re(`^ATDT\s*([0-9-]*)$`), func(e *Env, in command.Input) {
		dial(e, in.Groups[1])
	})
	r.RegisterGlobal(command.Literal("HANGUP"), handleHangup)
}

func terminalRunning(e *Env) bool {
	if terminalUp(e.State()) {
		return true
	}
	e.Print("No terminal program is running. Type TERMINAL to start it.")
	return false
}

func handleTerminal(e *Env, _ command.Input) {
	if e.State().Network.Program == ProgramTerminal {
		e.Print("The terminal program is already running.")
		return
	}
	e.Dispatch(effects.SetProgram(ProgramTerminal))
	e.Print(
		"Telix v3.51 - (c) 1988-1995 deltaComm Development",
		"COM2: 14400 8N1, ZyXEL U-1496E",
		"Commands: ATZ, DIAL <number>, ATDT<number>, HANGUP, EXIT",
	)
}

func handleExit(e *Env, _ command.Input) {
	s := e.State()
	if s.Network.Program == "" {
		e.Print("Nothing to exit.")
		return
	}
	if s.Network.Connected {
		e.Print("Hang up first.")
		return
	}
	e.Dispatch(effects.SetProgram(""))
	e.Print("Returning to DOS.")
}

func handleATZ(e *Env, _ command.Input) {
	if !terminalRunning(e) {
		return
	}
	e.Print("ATZ", "OK")
	e.Dispatch(effects.SetFlag(FlagModemReady, true))
	e.Publish(types.EventModemInitialized, nil)
}

func dial(e *Env, number string) {
	if !terminalRunning(e) {
		return
	}
	if number == "" {
		usage(e, "DIAL <number>")
		return
	}
	if e.State().Network.Connected {
		e.Print("You are already online. HANGUP first.")
		return
	}
	if !modemReady(e.State()) {
		e.Print("ERROR", "The modem does not answer. Initialize it with ATZ.")
		return
	}
	if !e.begin("dialing") {
		return
	}

	e.Print("ATDT" + number)
	bbs := e.World.BBS
	if digits(number) != digits(bbs.Number) {
		e.stages(dialStage,
			func() { e.Print("") },
			func() { e.Print("NO CARRIER") },
		)
		return
	}

	running := func() bool { return terminalUp(e.State()) }
	dropped := func() { e.Print("", "NO CARRIER") }
	e.stages(dialStage, guard(running, dropped,
		func() { e.Print("RINGING...") },
		func() { e.Print("CONNECT 14400/ARQ/V42BIS") },
		func() {
			e.Print("")
			e.Print(bbs.Banner...)
			e.Dispatch(
				effects.Connect(bbs.Number, bbs.Name),
				effects.SetTerminalMode(types.ModeBBSMenu),
			)
			e.Publish(types.EventBBSConnected, map[string]any{
				"number": bbs.Number,
				"bbs":    bbs.Name,
			})
			printMenu(e)
		},
	)...)
}

func handleHangup(e *Env, _ command.Input) {
	if !e.State().Network.Connected {
		e.Print("You are not connected.")
		return
	}
	hangup(e, "hangup")
	e.Print("+++", "ATH0", "NO CARRIER")
}

func hangup(e *Env, reason string) {
	e.chat = nil
	e.Dispatch(effects.Disconnect())
	e.Publish(types.EventBBSDisconnected, map[string]any{"reason": reason})
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func terminalUp(s *types.State) bool {
	return s.Network.Program == ProgramTerminal
}

func modemReady(s *types.State) bool {
	return state.Flag(s, FlagModemReady)
}
