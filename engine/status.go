package engine

import (
	"fmt"
	"strings"

	"github.com/nathoo/byteworld/engine/state"
	"github.com/nathoo/byteworld/types"
)

type helpRow struct {
	group, command, desc string
}

var helpRows = []helpRow{
	{"system", "help", "Show this command menu."},
	{"system", "quit", "Exit the game."},
	{"info", "status", "Show HP, stats, level, gold, and equipped gear."},
	{"info", "quest", "Show current quest objective and hint."},
	{"info", "look", "Describe your current location and exits."},
	{"info", "sense", "Show subtle hints about this area."},
	{"info", "map", "Show neighbouring locations and route hints."},
	{"explore", "hunt", "Force a creature encounter in areas that have roaming enemies."},
	{"explore", "move <dir>", "Travel north/south/east/west/up/down (n/s/e/w/u/d aliases)."},
	{"social", "talk <npc>", "Talk to a visible NPC in your current location."},
	{"gear", "inventory", "List items in your inventory."},
	{"gear", "equip <item>", "Equip a weapon, armor, shield, accessory, or aura."},
	{"gear", "equip all", "Auto-equip best-in-slot gear from inventory."},
	{"gear", "use <item>", "Use consumables or context items (key, vial, etc.)."},
	{"gear", "read <item>", "Read special items such as the goblin riddle."},
	{"progression", "train <stat> [pts]", "Spend skill points on attack, defense, or health."},
	{"progression", "train all", "Train attack/defense/health equally with available points."},
	{"progression", "train a,b,c", "Train exact split (attack, defense, health). Example: train 3,4,3."},
	{"combat", "fight", "Attack the active enemy."},
	{"combat", "defend", "Reduce next incoming hit."},
	{"combat", "skill <name>", "Use a learned skill (focus strike, guard stance, second wind)."},
	{"combat", "run", "Attempt to flee an encounter."},
	{"combat*", "joke", "Goblin army only: attempt peaceful escape."},
	{"combat*", "bribe", "Goblin army only: pay gold to avoid combat."},
}

func helpLines() []string {
	out := []string{"Commands:"}
	for _, r := range helpRows {
		out = append(out, fmt.Sprintf("  %-12s %-19s %s", r.group, r.command, r.desc))
	}
	return out
}

// status summarizes the player.
func (e *Engine) status() []string {
	p := &e.State.Player
	st := state.Effective(p, e.Defs)

	titles := "none"
	if len(p.Titles) > 0 {
		titles = strings.Join(p.Titles, ", ")
	}
	gear := make([]string, types.NumSlots)
	for slot, id := range p.Equipment {
		name := "none"
		if id != "" {
			name = e.Defs.ItemName(id)
		}
		gear[slot] = types.SlotNames[slot] + ":" + name
	}

	return []string{
		fmt.Sprintf("%s  Level %d", p.Name, p.Level),
		fmt.Sprintf("HP: %d/%d  Attack: %d  Defense: %d", p.HP, st.MaxHP, st.Attack, st.Defense),
		"HP Bar: " + HealthBar(p.HP, st.MaxHP),
		fmt.Sprintf("XP: %d  Skill Points: %d  Gold: %d", p.XP, p.SkillPoints, p.Gold),
		"Titles: " + titles,
		"Equipped: " + strings.Join(gear, ", "),
	}
}

// inventory lists held items in id order.
func (e *Engine) inventory() []string {
	p := &e.State.Player
	if len(p.Inventory) == 0 {
		return []string{"Inventory is empty."}
	}
	out := []string{"Inventory:"}
	for _, id := range state.InventoryIDs(p) {
		typ := "unknown"
		item, ok := e.Defs.Items[id]
		if ok {
			typ = string(item.Type)
		}
		out = append(out, fmt.Sprintf("  %s x%d (%s)%s", e.Defs.ItemName(id), p.Inventory[id], typ, statSuffix(item)))
	}
	return out
}

func statSuffix(item types.ItemDef) string {
	var parts []string
	if item.AttackBonus != 0 {
		parts = append(parts, fmt.Sprintf("attack %+d", item.AttackBonus))
	}
	if item.DefenseBonus != 0 {
		parts = append(parts, fmt.Sprintf("defense %+d", item.DefenseBonus))
	}
	if item.MaxHPBonus != 0 {
		parts = append(parts, fmt.Sprintf("health %+d", item.MaxHPBonus))
	}
	if item.HealAmount != 0 {
		parts = append(parts, fmt.Sprintf("heal +%d", item.HealAmount))
	}
	if item.SkillPointsBonus != 0 {
		parts = append(parts, fmt.Sprintf("skill points +%d", item.SkillPointsBonus))
	}
	if len(parts) == 0 {
		return ""
	}
	return " [" + strings.Join(parts, ", ") + "]"
}

// questLines shows the current objective.
func (e *Engine) questLines() []string {
	stage, ok := e.Defs.Stage(e.State.QuestStage)
	if !ok {
		return []string{"You have no quest."}
	}
	return []string{"Quest: " + stage.Title, stage.Description, "Hint: " + stage.Hint}
}
