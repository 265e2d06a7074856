package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/byteworld/engine/state"
)

// hpPerPoint is the max hp one skill point buys.
const hpPerPoint = 3

var trainAliases = map[string]string{
	"attack":   "attack",
	"atk":      "attack",
	"defense":  "defense",
	"def":      "defense",
	"guard":    "defense",
	"health":   "health",
	"hp":       "health",
	"vitality": "health",
}

// train parses a training command: "train all", "train a,d,h" or
// "train <stat> [points]".
func (e *Engine) train(args []string) []string {
	if len(args) == 0 {
		return []string{"Train what? Examples: train attack 2, train all, train 3,4,3"}
	}
	raw := strings.TrimSpace(strings.Join(args, " "))

	if raw == "all" {
		return e.trainAll()
	}

	if strings.Contains(raw, ",") {
		parts := strings.Split(raw, ",")
		if len(parts) != 3 {
			return []string{"Use format: train attack,defense,health (example: train 3,4,3)."}
		}
		var pts [3]int
		for i, part := range parts {
			part = strings.TrimSpace(part)
			if part == "" {
				return []string{"Use format: train attack,defense,health (example: train 3,4,3)."}
			}
			n, err := strconv.Atoi(part)
			if err != nil {
				return []string{"Training allocation must be numbers. Example: train 3,4,3"}
			}
			pts[i] = n
		}
		return e.trainSplit(pts[0], pts[1], pts[2])
	}

	amount := 1
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return []string{"Training amount must be a number."}
		}
		amount = n
	}
	return e.trainStat(args[0], amount)
}

// trainStat spends points on one stat.
func (e *Engine) trainStat(name string, amount int) []string {
	if amount <= 0 {
		return []string{"Training points must be positive."}
	}
	p := &e.State.Player
	if p.SkillPoints < amount {
		return []string{"You do not have enough skill points."}
	}

	switch trainAliases[name] {
	case "attack":
		p.SkillPoints -= amount
		p.BaseAttack += amount
		return []string{fmt.Sprintf("Attack trained by +%d.", amount)}
	case "defense":
		p.SkillPoints -= amount
		p.BaseDefense += amount
		return []string{fmt.Sprintf("Defense trained by +%d.", amount)}
	case "health":
		p.SkillPoints -= amount
		gain := e.addHealth(amount)
		return []string{fmt.Sprintf("Health trained by +%d max HP.", gain)}
	}
	return []string{"Unknown skill. Use attack, defense, or health."}
}

// trainAll splits the points evenly over the three stats.
func (e *Engine) trainAll() []string {
	p := &e.State.Player
	if p.SkillPoints < 3 {
		return []string{"You need at least 3 skill points to train all stats equally."}
	}
	per := p.SkillPoints / 3
	p.SkillPoints -= per * 3
	p.BaseAttack += per
	p.BaseDefense += per
	gain := e.addHealth(per)

	out := []string{fmt.Sprintf("Trained equally: attack +%d, defense +%d, health +%d max HP.", per, per, gain)}
	if p.SkillPoints > 0 {
		out = append(out, fmt.Sprintf("%d skill point(s) remain unspent.", p.SkillPoints))
	}
	return out
}

// trainSplit applies an explicit attack/defense/health allocation.
func (e *Engine) trainSplit(atk, def, hp int) []string {
	if atk < 0 || def < 0 || hp < 0 {
		return []string{"Training values cannot be negative."}
	}
	total := atk + def + hp
	if total <= 0 {
		return []string{"Provide at least one positive training value."}
	}
	p := &e.State.Player
	if p.SkillPoints < total {
		return []string{fmt.Sprintf("You do not have enough skill points (need %d, have %d).", total, p.SkillPoints)}
	}

	p.SkillPoints -= total
	p.BaseAttack += atk
	p.BaseDefense += def
	gain := e.addHealth(hp)
	return []string{
		fmt.Sprintf("Training applied: attack +%d, defense +%d, health +%d max HP.", atk, def, gain),
		fmt.Sprintf("Skill points remaining: %d.", p.SkillPoints),
	}
}

// addHealth converts points into max hp, healing by the same amount.
func (e *Engine) addHealth(points int) int {
	p := &e.State.Player
	gain := points * hpPerPoint
	p.BaseMaxHP += gain
	p.HP += gain
	state.ClampHP(p, e.Defs)
	return gain
}
