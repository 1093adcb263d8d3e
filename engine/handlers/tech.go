package handlers

import (
	"regexp"

	"github.com/nathoo/fidoquest/engine/command"
	"github.com/nathoo/fidoquest/engine/state"
	"github.com/nathoo/fidoquest/types"
)

// ItemNodelist is needed to route a trace.
const ItemNodelist = "nodelist"

var ftnAddress = regexp.MustCompile(`^[0-9]+:[0-9]+/[0-9]+(\.[0-9]+)?$`)

// timeoutHops is how far a trace to an unlisted node gets.
const timeoutHops = 3

func registerTech(r *command.Registry[*Env]) {
	r.Register(types.ModeIdle, command.Literal("TRACE"), handleTrace)
}

func handleTrace(e *Env, in command.Input) {
	target := in.Arg(0)
	if target == "" {
		usage(e, "TRACE <zone:net/node>")
		return
	}
	if !ftnAddress.MatchString(target) {
		e.Printf("TRACE: %s is not a FidoNet address.", target)
		return
	}
	if !state.HasItem(e.State(), ItemNodelist) {
		e.Print("TRACE: no nodelist found. Download NODELIST first.")
		return
	}
	if !e.begin("trace") {
		return
	}

	tr := e.World.Trace
	e.Printf("Tracing route to %s via the nodelist...", target)
	var steps []func()
	if target == tr.Target {
		for i, hop := range tr.Hops {
			steps = append(steps, func() { e.Printf(" %2d  %s", i+1, hop) })
		}
		steps = append(steps, func() {
			e.Print("")
			e.Print(tr.Found...)
			e.Publish(types.EventCommandExecuted, map[string]any{
				"command": "TRACE",
				"args":    target,
			})
		})
	} else {
		for i := 0; i < timeoutHops && i < len(tr.Hops); i++ {
			steps = append(steps, func() { e.Printf(" %2d  %s", i+1, tr.Hops[i]) })
		}
		last := len(steps) + 1
		steps = append(steps, func() {
			e.Printf(" %2d  * * *  Request timed out.", last)
			e.Print("Trace incomplete: node not found on this route.")
		})
	}
	e.stages(traceStage, steps...)
}
