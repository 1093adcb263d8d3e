// Package handlers implements the DOS shell, modem, BBS, mail tool and
// network tool commands.
//
// Handlers never fail loudly: bad input prints an in-world diagnostic and
// the command counts as handled. Multi-stage sequences schedule their later
// stages on the session's virtual timer.
package handlers

import (
	"fmt"
	"time"

	"github.com/nathoo/fidoquest/engine/command"
	"github.com/nathoo/fidoquest/engine/dialogue"
	"github.com/nathoo/fidoquest/engine/events"
	"github.com/nathoo/fidoquest/engine/quest"
	"github.com/nathoo/fidoquest/engine/sched"
	"github.com/nathoo/fidoquest/engine/state"
	"github.com/nathoo/fidoquest/engine/vfs"
	"github.com/nathoo/fidoquest/types"
)

// ClearScreen is written to the output when the screen should be wiped.
const ClearScreen = "\f"

// Stage delays of the simulated sequences.
const (
	dialStage     = 1500 * time.Millisecond
	downloadStage = 700 * time.Millisecond
	mailStage     = 900 * time.Millisecond
	traceStage    = 800 * time.Millisecond
)

// Env is everything a handler may touch during one session.
type Env struct {
	Store     *state.Store
	Bus       *events.Bus
	Timers    *sched.Scheduler
	FS        *vfs.FS
	Catalog   *quest.Catalog
	Dialogues *dialogue.Set
	World     *World

	// Out receives every line of narrative output.
	Out func(line string)

	chat *dialogue.Session
	task string
}

// State returns the live game state.
func (e *Env) State() *types.State {
	return e.Store.State()
}

// Print writes lines to the output.
func (e *Env) Print(lines ...string) {
	if e.Out == nil {
		return
	}
	for _, l := range lines {
		e.Out(l)
	}
}

// Printf writes one formatted line.
func (e *Env) Printf(format string, args ...any) {
	e.Print(fmt.Sprintf(format, args...))
}

// Dispatch applies effects to the store.
func (e *Env) Dispatch(effs ...types.Effect) {
	e.Store.Dispatch(effs...)
}

// Publish sends a domain event.
func (e *Env) Publish(eventType string, payload map[string]any) {
	e.Bus.Publish(eventType, payload)
}

// begin claims the modem/CPU for a staged sequence. It prints a notice and
// returns false if another sequence is still running.
func (e *Env) begin(task string) bool {
	if e.task != "" {
		e.Printf("Please wait: %s in progress.", e.task)
		return false
	}
	e.task = task
	return true
}

func (e *Env) end() {
	e.task = ""
}

// Busy reports the running staged sequence, if any.
func (e *Env) Busy() string {
	return e.task
}

// Reset drops per-session runtime state, e.g. on restart or load.
func (e *Env) Reset() {
	e.chat = nil
	e.task = ""
}

// stages schedules fns one stage apart and releases the task after the last.
func (e *Env) stages(delay time.Duration, fns ...func()) {
	steps := append(fns, e.end)
	e.Timers.Sequence(delay, steps...)
}

// guard wraps stage functions so each runs only while ok holds. The first
// stage to find ok false calls abort; the remaining stages do nothing.
func guard(ok func() bool, abort func(), fns ...func()) []func() {
	stopped := false
	out := make([]func(), len(fns))
	for i, fn := range fns {
		out[i] = func() {
			if stopped {
				return
			}
			if !ok() {
				stopped = true
				abort()
				return
			}
			fn()
		}
	}
	return out
}

// NewRegistry builds the registry with every handler registered.
func NewRegistry() *command.Registry[*Env] {
	r := command.NewRegistry[*Env](types.ModeIdle, types.ModeBBSMenu, types.ModeBBSFiles, types.ModeBBSChat)
	registerSystem(r)
	registerNetwork(r)
	registerBBS(r)
	registerChat(r)
	registerApps(r)
	registerTech(r)
	return r
}

func usage(e *Env, text string) {
	e.Print("Usage: " + text)
}
