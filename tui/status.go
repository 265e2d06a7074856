package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/byteworld/engine/state"
)

// statusParts builds the left and right halves of the status bar. The left
// side names the location or, during an encounter, the enemy and its HP.
func (m Model) statusParts() (left, right string) {
	s := m.engine.State
	defs := m.engine.Defs
	p := &s.Player
	maxHP := state.Effective(p, defs).MaxHP

	if enc := s.Encounter; enc != nil {
		left = fmt.Sprintf(" %s HP:%d/%d | vs %s HP:%d",
			p.Name, p.HP, maxHP, defs.EnemyName(enc.EnemyID), enc.HP)
	} else {
		left = fmt.Sprintf(" %s | HP:%d/%d | Lv%d | Gold:%d",
			defs.LocationName(s.Location), p.HP, maxHP, p.Level, p.Gold)
	}

	right = fmt.Sprintf("T:%d ", s.TurnCount)
	if stage, ok := defs.Stage(s.QuestStage); ok {
		candidate := fmt.Sprintf("Quest: %s | T:%d ", stage.Title, s.TurnCount)
		if m.width == 0 || lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		}
	}
	return left, right
}

// renderStatusBar produces a full-width inverted status line. It turns red
// while an encounter is live.
func (m Model) renderStatusBar() string {
	left, right := m.statusParts()

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	bar := left + strings.Repeat(" ", gap) + right

	style := styleStatusBar
	if m.engine.State.Encounter != nil {
		style = styleStatusFight
	}
	return style.Width(m.width).Render(bar)
}
