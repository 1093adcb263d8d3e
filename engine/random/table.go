package random

import (
	"github.com/nathoo/fidoquest/engine/effects"
	"github.com/nathoo/fidoquest/types"
)

// NeighborHelp is the event with a multi-day cooldown.
const NeighborHelp = "neighbor_help"

func connected(s *types.State) bool { return s.Network.Connected }

func night(s *types.State) bool { return s.GameState.Phase == types.PhaseNight }

func hangup(env Env, reason string) {
	env.Dispatch(effects.Disconnect())
	if env.Publish != nil {
		env.Publish(types.EventBBSDisconnected, map[string]any{"reason": reason})
	}
}

// DefaultEvents is the table used by a normal session.
func DefaultEvents() []Event {
	return []Event{
		{
			ID:        "line_noise",
			Chance:    0.05,
			Condition: connected,
			Effect: func(env Env) {
				env.Output("")
				env.Output("}{~#@!*&^ NO CARRIER? ... no, just line noise.")
				env.Dispatch(effects.UpdateStat(effects.StatSanity, -2))
			},
		},
		{
			ID:     "mom_extension",
			Chance: 0.04,
			Condition: func(s *types.State) bool {
				return connected(s) && night(s)
			},
			Effect: func(env Env) {
				env.Output("")
				env.Output("Click. Someone picked up the phone extension.")
				env.Output(`"Who is whistling on the line at this hour?!"`)
				env.Output("NO CARRIER")
				env.Dispatch(effects.UpdateStat(effects.StatSanity, -5))
				hangup(env, "extension")
			},
		},
		{
			ID:     "insomnia",
			Chance: 0.03,
			Condition: func(s *types.State) bool {
				return night(s) && !connected(s)
			},
			Effect: func(env Env) {
				env.Output("")
				env.Output("The fridge hums. You should be asleep by now.")
				env.Dispatch(effects.UpdateStat(effects.StatSanity, -3))
			},
		},
		{
			ID: NeighborHelp,
			ChanceFn: func(s *types.State) float64 {
				if s.Player.Stats.Sanity < 40 {
					return 0.10
				}
				return 0.02
			},
			Condition: func(s *types.State) bool {
				return s.GameState.Phase == types.PhaseDay
			},
			Effect: func(env Env) {
				env.Output("")
				env.Output("Your neighbor Seryoga drops by with a floppy and a thermos of tea.")
				env.Output(`"Here, the new nodelist. You look like you need a break."`)
				env.Dispatch(
					effects.UpdateStat(effects.StatSanity, 10),
					effects.UpdateStat(effects.StatAtmosphere, 5),
				)
			},
			CooldownDays: 3,
		},
		{
			ID:     "power_flicker",
			Chance: 0.02,
			Condition: func(s *types.State) bool {
				return s.Network.Program != ""
			},
			Effect: func(env Env) {
				env.Output("")
				env.Output("The lights flicker. The 286 reboots with a sad beep.")
				wasOnline := env.State.Network.Connected
				env.Dispatch(effects.SetProgram(""))
				if wasOnline {
					hangup(env, "power")
				}
				env.Dispatch(effects.UpdateStat(effects.StatAtmosphere, -3))
			},
		},
		{
			ID:     "cat_on_keyboard",
			Chance: 0.02,
			Effect: func(env Env) {
				env.Output("")
				env.Output("The cat walks across the keyboard: jjjjjjjjjjjjjjjjj")
				env.Dispatch(effects.UpdateStat(effects.StatAtmosphere, 1))
			},
		},
	}
}
