package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/fidoquest/engine/clock"
	"github.com/nathoo/fidoquest/types"
)

// location names where the player is: the DOS shell, a program, or a BBS
// screen.
func location(s *types.State, pwd string) string {
	n := s.Network
	switch n.Mode {
	case types.ModeBBSMenu:
		return n.BBS + " menu"
	case types.ModeBBSFiles:
		return n.BBS + " files"
	case types.ModeBBSChat:
		return n.BBS + " chat"
	}
	if n.Program != "" {
		return strings.ToUpper(n.Program[:1]) + n.Program[1:]
	}
	return pwd
}

// renderStatusBar produces a full-width status line: clock and location on
// the left, meters and the active quest on the right.
func (m Model) renderStatusBar() string {
	s := m.engine.State()
	gs := s.GameState
	st := s.Player.Stats

	left := fmt.Sprintf(" Day %d %s %s | %s", gs.Day, clock.FormatTime(gs.TimeMinutes), gs.Phase, location(s, m.engine.FS.Pwd()))
	if gs.ZMH {
		left += " | ZMH"
	}
	if busy := m.engine.Busy(); busy != "" {
		left += " | " + busy + "..."
	}

	meters := fmt.Sprintf("San:%d Atm:%d $%d", st.Sanity, st.Atmosphere, st.Money)
	if st.Debt > 0 {
		meters += fmt.Sprintf(" Debt:%d", st.Debt)
	}
	right := meters + " "
	// Show the quest title if it fits.
	if q, ok := m.engine.Catalog.QuestByID(s.Quests.Active); ok {
		candidate := fmt.Sprintf("%s | %s ", q.Title, meters)
		if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	style := styleStatusBar
	if gs.GameOver || st.Debt > 0 {
		style = styleStatusAlert
	}
	return style.Width(m.width).Render(bar)
}
