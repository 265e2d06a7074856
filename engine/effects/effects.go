// Package effects applies the data-driven effects of items: scripted uses and
// temporary surges. Each function is one atomic state change with no
// decision logic of its own; callers decide whether an effect applies.
package effects

import (
	"github.com/nathoo/byteworld/engine/events"
	"github.com/nathoo/byteworld/engine/state"
	"github.com/nathoo/byteworld/types"
)

// Apply performs a scripted use of itemID. It returns the use's lines and the
// events describing what changed.
func Apply(s *types.State, itemID string, use types.ItemUse) ([]string, []types.Event) {
	var evts []types.Event

	if use.Consume && state.RemoveItem(&s.Player, itemID, 1) {
		evts = append(evts, events.New(events.ItemLost, "item", itemID, "count", 1))
	}
	if use.Gold != 0 {
		s.Player.Gold = max(0, s.Player.Gold+use.Gold)
	}
	for _, f := range use.SetFlags {
		for _, added := range state.SetFlag(s, f) {
			evts = append(evts, events.New(events.FlagSet, "flag", string(added)))
		}
	}
	if use.Victory && !s.Victory {
		s.Victory = true
		evts = append(evts, events.New(events.GameWon, "item", itemID))
	}

	return append([]string{}, use.Lines...), evts
}

// ApplySurge activates itemID's surge. It reports false, changing nothing,
// when a surge is already active.
func ApplySurge(p *types.Player, itemID string, surge types.Surge) bool {
	if p.Surge != "" {
		return false
	}
	p.Surge = itemID
	state.AddBonus(p, types.StatAttack, surge.Attack)
	state.AddBonus(p, types.StatDefense, surge.Defense)
	return true
}

// ClearSurge removes the active surge's bonuses, if any, and clamps hp.
func ClearSurge(p *types.Player, defs *state.Defs) {
	if p.Surge == "" {
		return
	}
	if item, ok := defs.Items[p.Surge]; ok && item.Surge != nil {
		state.AddBonus(p, types.StatAttack, -item.Surge.Attack)
		state.AddBonus(p, types.StatDefense, -item.Surge.Defense)
	}
	p.Surge = ""
	state.ClampHP(p, defs)
}
