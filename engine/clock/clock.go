// Package clock computes game time advancement, day/night and Zone Mail
// Hour phases, and the weekly economy checks. The time functions are pure;
// the economy checks dispatch their effects through the caller's store.
package clock

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/fidoquest/engine/effects"
	"github.com/nathoo/fidoquest/types"
)

const (
	MinutesPerDay = 1440

	dayStart = 6 * 60  // 06:00
	dayEnd   = 22 * 60 // 22:00
	zmhStart = 4 * 60  // 04:00
	zmhEnd   = 5 * 60  // 05:00

	// BillAmount is added to debt every seventh day.
	BillAmount = 500
	// DebtLimit is the debt above which the session ends.
	DebtLimit = 2000

	// GameOverDebt is the game-over reason for unpaid bills.
	GameOverDebt = "debt"

	// MaxWait caps a single WAIT, in minutes.
	MaxWait = 720
)

// timeCosts maps a normalized command keyword to its cost in minutes.
var timeCosts = map[string]int{
	"ATZ":    2,
	"DIAL":   5,
	"ATDT":   5,
	"TMAIL":  15,
	"TRACE":  5,
	"CLS":    0,
	"VER":    0,
	"HELP":   0,
	"HINT":   0,
	"QUESTS": 0,
	"STATUS": 0,
}

// modeCosts are keywords whose cost applies only on one BBS screen.
var modeCosts = map[types.TerminalMode]map[string]int{
	types.ModeBBSFiles: {"DOWNLOAD": 15, "DL": 15, "D": 15},
	types.ModeBBSMenu:  {"CHAT": 10},
}

// TimeCost returns the number of game minutes a command issued in mode
// consumes. WAIT n costs n minutes.
func TimeCost(mode types.TerminalMode, command string) int {
	fields := strings.Fields(strings.ToUpper(command))
	if len(fields) == 0 {
		return 0
	}
	keyword := fields[0]

	if strings.HasPrefix(keyword, "ATDT") {
		keyword = "ATDT"
	}
	if keyword == "WAIT" {
		if len(fields) < 2 {
			return 0
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 0 || n > MaxWait {
			return 0
		}
		return n
	}
	if cost, ok := modeCosts[mode][keyword]; ok {
		return cost
	}
	if cost, ok := timeCosts[keyword]; ok {
		return cost
	}
	return 1
}

// TickEffects is the outcome of advancing the clock.
type TickEffects struct {
	NewMinutes      int
	NewTimeString   string
	NewPhase        types.Phase
	NewZMH          bool
	DaysAdvanced    int
	AtmosphereDelta int
}

// ComputeTickEffects advances currentMinutes by addedMinutes. Connecting at
// night drains one point of atmosphere per tick; every other stat change is
// left to the caller.
func ComputeTickEffects(currentMinutes, addedMinutes int, isConnected bool) TickEffects {
	total := currentMinutes + addedMinutes
	newMinutes := total % MinutesPerDay
	if newMinutes < 0 {
		newMinutes += MinutesPerDay
	}
	phase := PhaseAt(newMinutes)

	te := TickEffects{
		NewMinutes:    newMinutes,
		NewTimeString: FormatTime(newMinutes),
		NewPhase:      phase,
		NewZMH:        IsZMH(newMinutes),
		DaysAdvanced:  floorDiv(total, MinutesPerDay) - floorDiv(currentMinutes, MinutesPerDay),
	}
	if phase == types.PhaseNight && isConnected && addedMinutes > 0 {
		te.AtmosphereDelta = -1
	}
	return te
}

// PhaseAt returns day for [06:00,22:00) and night otherwise.
func PhaseAt(minutes int) types.Phase {
	if minutes >= dayStart && minutes < dayEnd {
		return types.PhaseDay
	}
	return types.PhaseNight
}

// IsZMH reports whether minutes falls inside Zone Mail Hour, [04:00,05:00).
func IsZMH(minutes int) bool {
	return minutes >= zmhStart && minutes < zmhEnd
}

// FormatTime renders minutes since midnight as HH:MM.
func FormatTime(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseTime parses HH:MM into minutes since midnight.
func ParseTime(s string) (int, error) {
	h, m, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("time %q: expected HH:MM", s)
	}
	hh, err := strconv.Atoi(h)
	if err != nil || hh < 0 || hh > 23 {
		return 0, fmt.Errorf("time %q: bad hour", s)
	}
	mm, err := strconv.Atoi(m)
	if err != nil || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("time %q: bad minute", s)
	}
	return hh*60 + mm, nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Dispatcher applies effects to the game state.
type Dispatcher interface {
	Dispatch(effs ...types.Effect)
}

// CheckBills issues the weekly phone bill. It fires on any day past the
// last bill day that is a multiple of seven, and returns whether it fired.
func CheckBills(s *types.State, d Dispatcher, out func(string)) bool {
	day := s.GameState.Day
	if day <= s.GameState.LastBillDay || day%7 != 0 {
		return false
	}
	d.Dispatch(
		effects.UpdateStat(effects.StatDebt, BillAmount),
		effects.SetLastBillDay(day),
	)
	if out != nil {
		out("")
		out("*** MAIL: a letter from the telephone company ***")
		out(fmt.Sprintf("Long distance charges for week %d: $%d.", day/7, BillAmount))
		out(fmt.Sprintf("Your outstanding balance is now $%d.", s.Player.Stats.Debt))
		out("")
	}
	return true
}

// CheckDebtGameOver ends the session when debt exceeds DebtLimit.
func CheckDebtGameOver(s *types.State, d Dispatcher, out func(string)) bool {
	if s.GameState.GameOver || s.Player.Stats.Debt <= DebtLimit {
		return false
	}
	d.Dispatch(effects.GameOver(GameOverDebt))
	if out != nil {
		out("")
		out("The phone company has cut your line. Collectors are at the door.")
		out("Your FidoNet days are over.")
		out("*** GAME OVER ***")
	}
	return true
}
