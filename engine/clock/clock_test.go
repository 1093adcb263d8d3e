package clock

import (
	"strings"
	"testing"

	"github.com/nathoo/fidoquest/engine/state"
	"github.com/nathoo/fidoquest/types"
)

func TestTimeCost(t *testing.T) {
	tests := []struct {
		mode types.TerminalMode
		cmd  string
		want int
	}{
		{types.ModeIdle, "DIAL 555-1995", 5},
		{types.ModeIdle, "atdt5551995", 5},
		{types.ModeBBSFiles, "download 1", 15},
		{types.ModeBBSFiles, "D 2", 15},
		{types.ModeBBSFiles, "dl 2", 15},
		{types.ModeIdle, "D 2", 1},
		{types.ModeBBSMenu, "D", 1},
		{types.ModeIdle, "ATZ", 2},
		{types.ModeBBSMenu, "chat", 10},
		{types.ModeIdle, "chat", 1},
		{types.ModeBBSMenu, "C", 1},
		{types.ModeBBSMenu, "F", 1},
		{types.ModeIdle, "cls", 0},
		{types.ModeIdle, "VER", 0},
		{types.ModeIdle, "dir", 1},
		{types.ModeIdle, "WAIT 30", 30},
		{types.ModeIdle, "WAIT soon", 0},
		{types.ModeIdle, "WAIT 9999", 0},
		{types.ModeIdle, "", 0},
	}
	for _, tt := range tests {
		if got := TimeCost(tt.mode, tt.cmd); got != tt.want {
			t.Errorf("TimeCost(%s, %q) = %d, want %d", tt.mode, tt.cmd, got, tt.want)
		}
	}
}

func TestComputeTickEffects(t *testing.T) {
	tests := []struct {
		name      string
		cur, add  int
		connected bool
		wantTime  string
		wantDays  int
		wantAtmos int
		wantPhase types.Phase
		wantZMH   bool
	}{
		{"midnight rollover", 1435, 10, false, "00:05", 1, 0, types.PhaseNight, false},
		{"night while connected", 1380, 5, true, "23:05", 0, -1, types.PhaseNight, false},
		{"noon while connected", 720, 5, true, "12:05", 0, 0, types.PhaseDay, false},
		{"night zero cost", 1380, 0, true, "23:00", 0, 0, types.PhaseNight, false},
		{"enter ZMH", 235, 10, false, "04:05", 0, 0, types.PhaseNight, true},
		{"leave ZMH", 295, 5, false, "05:00", 0, 0, types.PhaseNight, false},
		{"dawn", 355, 5, true, "06:00", 0, 0, types.PhaseDay, false},
		{"two days", 100, 2 * MinutesPerDay, false, "01:40", 2, 0, types.PhaseNight, false},
	}
	for _, tt := range tests {
		te := ComputeTickEffects(tt.cur, tt.add, tt.connected)
		if te.NewTimeString != tt.wantTime {
			t.Errorf("%s: time = %q, want %q", tt.name, te.NewTimeString, tt.wantTime)
		}
		if te.DaysAdvanced != tt.wantDays {
			t.Errorf("%s: days = %d, want %d", tt.name, te.DaysAdvanced, tt.wantDays)
		}
		if te.AtmosphereDelta != tt.wantAtmos {
			t.Errorf("%s: atmosphere = %d, want %d", tt.name, te.AtmosphereDelta, tt.wantAtmos)
		}
		if te.NewPhase != tt.wantPhase {
			t.Errorf("%s: phase = %q, want %q", tt.name, te.NewPhase, tt.wantPhase)
		}
		if te.NewZMH != tt.wantZMH {
			t.Errorf("%s: zmh = %v, want %v", tt.name, te.NewZMH, tt.wantZMH)
		}
	}
}

func TestParseTime(t *testing.T) {
	m, err := ParseTime("21:30")
	if err != nil || m != 21*60+30 {
		t.Errorf("ParseTime(21:30) = %d, %v", m, err)
	}
	for _, bad := range []string{"2130", "25:00", "10:75", "ab:cd"} {
		if _, err := ParseTime(bad); err == nil {
			t.Errorf("ParseTime(%q) should fail", bad)
		}
	}
}

func TestCheckBills_FiresOnSeventhDay(t *testing.T) {
	st := state.NewStore(state.Start{Day: 7}, nil)
	var out []string

	fired := CheckBills(st.State(), st, func(l string) { out = append(out, l) })

	if !fired {
		t.Fatal("expected bill on day 7")
	}
	s := st.State()
	if s.Player.Stats.Debt != BillAmount {
		t.Errorf("Debt = %d, want %d", s.Player.Stats.Debt, BillAmount)
	}
	if s.GameState.LastBillDay != 7 {
		t.Errorf("LastBillDay = %d, want 7", s.GameState.LastBillDay)
	}
	if !strings.Contains(strings.Join(out, "\n"), "$500") {
		t.Errorf("bill notice missing amount: %v", out)
	}

	// Same day again: no second bill.
	if CheckBills(s, st, nil) {
		t.Error("bill fired twice on the same day")
	}
}

func TestCheckBills_SkipsOtherDays(t *testing.T) {
	for _, day := range []int{1, 6, 8, 13} {
		st := state.NewStore(state.Start{Day: day}, nil)
		if CheckBills(st.State(), st, nil) {
			t.Errorf("bill fired on day %d", day)
		}
	}
}

func TestCheckDebtGameOver(t *testing.T) {
	st := state.NewStore(state.Start{Day: 1}, nil)
	st.State().Player.Stats.Debt = 2500

	var out []string
	if !CheckDebtGameOver(st.State(), st, func(l string) { out = append(out, l) }) {
		t.Fatal("expected game over at debt 2500")
	}
	gs := st.State().GameState
	if !gs.GameOver || gs.GameOverReason != GameOverDebt {
		t.Errorf("GameOver = %v reason %q", gs.GameOver, gs.GameOverReason)
	}
	if !strings.Contains(strings.Join(out, "\n"), "GAME OVER") {
		t.Error("missing game over banner")
	}

	// Already over: not signalled again.
	if CheckDebtGameOver(st.State(), st, nil) {
		t.Error("game over signalled twice")
	}
}

func TestCheckDebtGameOver_AtLimit(t *testing.T) {
	st := state.NewStore(state.Start{Day: 1}, nil)
	st.State().Player.Stats.Debt = DebtLimit
	if CheckDebtGameOver(st.State(), st, nil) {
		t.Error("debt equal to the limit must not end the game")
	}
}

func TestBillCanTriggerGameOverSameTick(t *testing.T) {
	st := state.NewStore(state.Start{Day: 14}, nil)
	st.State().GameState.LastBillDay = 7
	st.State().Player.Stats.Debt = 1800

	if !CheckBills(st.State(), st, nil) {
		t.Fatal("expected bill on day 14")
	}
	if !CheckDebtGameOver(st.State(), st, nil) {
		t.Error("bill pushing debt to 2300 should end the game in the same tick")
	}
}
