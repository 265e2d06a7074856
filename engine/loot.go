package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zyedidia/generic/mapset"

	"github.com/nathoo/byteworld/engine/effects"
	"github.com/nathoo/byteworld/engine/events"
	"github.com/nathoo/byteworld/engine/resolve"
	"github.com/nathoo/byteworld/engine/rules"
	"github.com/nathoo/byteworld/engine/state"
	"github.com/nathoo/byteworld/types"
)

const (
	normalDropChance = 0.45
	bossDropChance   = 0.7
	rareDropChance   = 0.04
)

// grantRewards pays out a defeated enemy: xp, gold, skill points and drops.
func (e *Engine) grantRewards(en types.EnemyDef) []string {
	p := &e.State.Player

	level := p.Level
	out := state.AwardXP(p, e.Defs, en.XPReward)
	if p.Level > level {
		e.emit(events.New(events.LevelUp, "level", p.Level))
		e.Log.Info("level up", "level", p.Level)
	}

	if en.GoldReward != 0 {
		p.Gold += en.GoldReward
		out = append(out, fmt.Sprintf("You gain %d gold.", en.GoldReward))
	}

	sp := en.SkillPointsReward
	if en.Category == types.CategoryNormal {
		sp += e.Defs.Locations[e.State.Location].SkillPointsPerKill
	}
	if sp != 0 {
		p.SkillPoints += sp
		out = append(out, fmt.Sprintf("You gain %d skill points.", sp))
	}

	drops := append([]string{}, en.GuaranteedDrops...)
	chance := bossDropChance
	if en.Category == types.CategoryNormal {
		chance = normalDropChance
	}
	if len(en.LootTable) > 0 && e.RNG.Float() < chance {
		if id := e.RNG.PickWeighted(en.LootTable); id != "" {
			drops = append(drops, id)
		}
	}
	if en.Category == types.CategoryNormal && e.RNG.Float() < rareDropChance {
		if id := e.RNG.PickWeighted(e.Defs.Game.RarityTables[e.Defs.Game.RareTable]); id != "" {
			drops = append(drops, id)
		}
	}

	seen := mapset.New[string]()
	for _, id := range drops {
		if seen.Has(id) {
			continue
		}
		seen.Put(id)
		item := e.Defs.Items[id]
		if item.Type == types.ItemBoon {
			if item.SkillPointsBonus != 0 {
				p.SkillPoints += item.SkillPointsBonus
				out = append(out, fmt.Sprintf("Rare boon found: %s grants %d skill points.", e.Defs.ItemName(id), item.SkillPointsBonus))
			}
			continue
		}
		state.AddItem(p, id, 1)
		e.emit(events.New(events.ItemGained, "item", id, "count", 1))
		out = append(out, fmt.Sprintf("Loot obtained: %s.", e.Defs.ItemName(id)))
	}
	return out
}

// ownedCandidates lists held items for name resolution, in id order.
func (e *Engine) ownedCandidates() []resolve.Candidate {
	ids := state.InventoryIDs(&e.State.Player)
	cands := make([]resolve.Candidate, len(ids))
	for i, id := range ids {
		cands[i] = resolve.Candidate{ID: id, Name: e.Defs.ItemName(id)}
	}
	return cands
}

// resolveOwned maps a query to a held item. On failure it returns the line
// to show.
func (e *Engine) resolveOwned(query string) (string, string) {
	id, err := resolve.Resolve(query, e.ownedCandidates())
	if err == nil {
		return id, ""
	}
	var amb *resolve.AmbiguityError
	if errors.As(err, &amb) {
		return "", fmt.Sprintf("Which %s? %s.", amb.Name, strings.Join(amb.Candidates, ", "))
	}
	return "", fmt.Sprintf("You do not have '%s'.", query)
}

// equip puts a held item into its slot.
func (e *Engine) equip(query string) []string {
	id, fail := e.resolveOwned(query)
	if fail != "" {
		return []string{fail}
	}
	item, ok := e.Defs.Items[id]
	if !ok {
		return []string{"That item cannot be equipped."}
	}
	slot, ok := types.SlotForType[item.Type]
	if !ok {
		return []string{fmt.Sprintf("%s is not equippable.", e.Defs.ItemName(id))}
	}

	p := &e.State.Player
	prev := p.Equipment[slot]
	p.Equipment[slot] = id
	state.ClampHP(p, e.Defs)
	if prev != "" && prev != id {
		return []string{fmt.Sprintf("You equip %s and unequip %s.", e.Defs.ItemName(id), e.Defs.ItemName(prev))}
	}
	return []string{fmt.Sprintf("You equip %s.", e.Defs.ItemName(id))}
}

// gearScore ranks items for best-in-slot: total stat points with 3 max hp
// counting as one point, then attack, defense, max hp and value.
type gearScore [5]float64

var emptySlotScore = gearScore{-9999, -9999, -9999, -9999, -9999}

func scoreItem(item types.ItemDef) gearScore {
	atk, def, hp := float64(item.AttackBonus), float64(item.DefenseBonus), float64(item.MaxHPBonus)
	return gearScore{atk + def + hp/3.0, atk, def, hp, float64(item.Value)}
}

func (a gearScore) beats(b gearScore) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] > b[i]
		}
	}
	return false
}

// equipBest fills every slot with the highest scoring held item, replacing
// the current item only on strict improvement.
func (e *Engine) equipBest() []string {
	p := &e.State.Player
	var owned []string
	for _, id := range state.InventoryIDs(p) {
		if _, ok := types.SlotForType[e.Defs.Items[id].Type]; ok {
			owned = append(owned, id)
		}
	}
	if len(owned) == 0 {
		return []string{"You have no equippable items in your inventory."}
	}

	var changes []string
	for slot := types.Slot(0); slot < types.NumSlots; slot++ {
		cur := p.Equipment[slot]
		best, bestScore := cur, emptySlotScore
		if cur != "" {
			bestScore = scoreItem(e.Defs.Items[cur])
		}
		for _, id := range owned {
			item := e.Defs.Items[id]
			if types.SlotForType[item.Type] != slot {
				continue
			}
			if sc := scoreItem(item); sc.beats(bestScore) {
				best, bestScore = id, sc
			}
		}
		if best == "" || best == cur {
			continue
		}
		p.Equipment[slot] = best
		from := "none"
		if cur != "" {
			from = e.Defs.ItemName(cur)
		}
		changes = append(changes, fmt.Sprintf("  %s: %s -> %s", types.SlotNames[slot], from, e.Defs.ItemName(best)))
	}

	state.ClampHP(p, e.Defs)
	if len(changes) == 0 {
		return []string{"Your equipped gear is already best-in-slot for your current inventory."}
	}
	return append([]string{"Best-in-slot gear equipped:"}, changes...)
}

// useItem uses a held item. The bool reports whether the use costs a
// combat turn.
func (e *Engine) useItem(query string) ([]string, bool) {
	id, fail := e.resolveOwned(query)
	if fail != "" {
		return []string{fail}, false
	}
	item := e.Defs.Items[id]
	p := &e.State.Player

	if item.Type == types.ItemConsumable {
		healed := state.Heal(p, e.Defs, item.HealAmount)
		state.RemoveItem(p, id, 1)
		e.emit(events.New(events.ItemLost, "item", id, "count", 1))
		return []string{fmt.Sprintf("You use %s and recover %d HP.", e.Defs.ItemName(id), healed)}, true
	}

	if item.Surge != nil {
		if !effects.ApplySurge(p, id, *item.Surge) {
			return []string{item.Surge.QuietLine}, false
		}
		return []string{item.Surge.UseLine}, true
	}

	if len(item.Uses) > 0 {
		use, ok := rules.MatchUse(item.Uses, e.State)
		if !ok {
			return []string{item.UseFail}, false
		}
		lines, evts := effects.Apply(e.State, id, use)
		e.pending = append(e.pending, evts...)
		return lines, use.Turn
	}

	switch item.Type {
	case types.ItemKey, types.ItemQuest, types.ItemAura, types.ItemWeapon,
		types.ItemArmor, types.ItemShield, types.ItemAccessory:
		return []string{fmt.Sprintf("%s cannot be directly used right now.", e.Defs.ItemName(id))}, false
	}
	return []string{"Nothing happens."}, false
}
