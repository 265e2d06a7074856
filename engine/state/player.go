package state

import (
	"fmt"
	"sort"

	"github.com/nathoo/byteworld/types"
)

// Stats are the effective combat stats of the player.
type Stats struct {
	MaxHP   int
	Attack  int
	Defense int
}

// Effective returns base stats plus equipped item bonuses plus temporary
// bonuses, floored at attack 1, defense 0 and max hp 1. Unknown equipped
// items contribute nothing.
func Effective(p *types.Player, defs *Defs) Stats {
	st := Stats{MaxHP: p.BaseMaxHP, Attack: p.BaseAttack, Defense: p.BaseDefense}
	for _, id := range p.Equipment {
		if id == "" {
			continue
		}
		item, ok := defs.Items[id]
		if !ok {
			continue
		}
		st.Attack += item.AttackBonus
		st.Defense += item.DefenseBonus
		st.MaxHP += item.MaxHPBonus
	}
	st.Attack += p.TempBonuses[types.StatAttack]
	st.Defense += p.TempBonuses[types.StatDefense]
	st.MaxHP += p.TempBonuses[types.StatMaxHP]

	st.MaxHP = max(1, st.MaxHP)
	st.Attack = max(1, st.Attack)
	st.Defense = max(0, st.Defense)
	return st
}

// ClampHP keeps hp within [0, effective max hp].
func ClampHP(p *types.Player, defs *Defs) {
	p.HP = max(0, min(p.HP, Effective(p, defs).MaxHP))
}

// Heal restores up to amount hp and returns how much was restored.
func Heal(p *types.Player, defs *Defs, amount int) int {
	before := p.HP
	p.HP += max(0, amount)
	ClampHP(p, defs)
	return p.HP - before
}

// AddBonus adjusts a temporary bonus, pruning it when it returns to zero.
func AddBonus(p *types.Player, stat types.Stat, delta int) {
	v := p.TempBonuses[stat] + delta
	if v == 0 {
		delete(p.TempBonuses, stat)
		return
	}
	p.TempBonuses[stat] = v
}

// HasItem reports whether the player holds at least one of the item.
func HasItem(p *types.Player, id string) bool {
	return p.Inventory[id] > 0
}

// AddItem adds qty of an item. Non-positive quantities are ignored.
func AddItem(p *types.Player, id string, qty int) {
	if qty <= 0 {
		return
	}
	p.Inventory[id] += qty
}

// RemoveItem removes qty of an item. It returns false, leaving the
// inventory unchanged, if the player holds fewer than qty.
func RemoveItem(p *types.Player, id string, qty int) bool {
	if qty <= 0 {
		return true
	}
	owned := p.Inventory[id]
	if owned < qty {
		return false
	}
	if owned == qty {
		delete(p.Inventory, id)
	} else {
		p.Inventory[id] = owned - qty
	}
	return true
}

// InventoryIDs returns the ids of held items in lexical order.
func InventoryIDs(p *types.Player) []string {
	ids := make([]string, 0, len(p.Inventory))
	for id := range p.Inventory {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// XPToNextLevel is the xp needed to advance from level.
func XPToNextLevel(level int) int {
	return 40 + max(0, level-1)*30
}

// AwardXP adds xp and applies every level-up it pays for, each against the
// threshold of the level being left. A level-up raises base max hp by 6,
// attack and defense by 1, and restores hp to the new effective max.
func AwardXP(p *types.Player, defs *Defs, amount int) []string {
	if amount <= 0 {
		return nil
	}
	p.XP += amount
	lines := []string{fmt.Sprintf("You gain %d XP.", amount)}

	for p.XP >= XPToNextLevel(p.Level) {
		p.XP -= XPToNextLevel(p.Level)
		p.Level++
		p.BaseMaxHP += 6
		p.BaseAttack++
		p.BaseDefense++
		p.HP = Effective(p, defs).MaxHP
		lines = append(lines, fmt.Sprintf(
			"Level up! You are now level %d. Base stats increased and HP fully restored.", p.Level))
	}
	return lines
}
