package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/nathoo/byteworld/engine/effects"
	"github.com/nathoo/byteworld/engine/events"
	"github.com/nathoo/byteworld/engine/resolve"
	"github.com/nathoo/byteworld/engine/state"
	"github.com/nathoo/byteworld/types"
)

const (
	normalFleeChance = 0.65
	bossFleeChance   = 0.28
	healthBarWidth   = 24
)

// startEncounter begins a fight with enemyID. It does nothing while another
// encounter is live.
func (e *Engine) startEncounter(enemyID string) []string {
	if e.State.Encounter != nil {
		return nil
	}
	en, ok := e.Defs.Enemies[enemyID]
	if !ok {
		return nil
	}

	enc := &types.Encounter{EnemyID: enemyID, HP: en.HP, Phase: types.PhaseCombat}
	switch en.Special {
	case types.SpecialNegotiation:
		enc.Phase = types.PhaseNegotiation
	case types.SpecialBarrier:
		enc.BarrierActive = en.Barrier != nil
	}
	e.State.Encounter = enc
	e.emit(events.New(events.EncounterStarted, "enemy", enemyID, "hp", en.HP))
	e.Log.Info("encounter started", "enemy", enemyID, "location", e.State.Location)

	out := append([]string{}, en.PreDialogue...)

	if en.SurgeItem != "" && state.HasItem(&e.State.Player, en.SurgeItem) {
		if item, ok := e.Defs.Items[en.SurgeItem]; ok && item.Surge != nil {
			if effects.ApplySurge(&e.State.Player, en.SurgeItem, *item.Surge) {
				out = append(out, item.Surge.TriggerLine)
			}
		}
	}

	out = append(out, fmt.Sprintf("Encounter started: %s (%d HP).", e.Defs.EnemyName(enemyID), enc.HP))
	if enc.Phase != types.PhaseNegotiation {
		out = append(out, e.telegraph())
	}
	return out
}

// endEncounter clears the live encounter and any surge.
func (e *Engine) endEncounter(outcome string) {
	if e.State.Encounter == nil {
		return
	}
	enemyID := e.State.Encounter.EnemyID
	e.State.Encounter = nil
	effects.ClearSurge(&e.State.Player, e.Defs)
	e.emit(events.New(events.EncounterEnded, "enemy", enemyID, "outcome", outcome))
	e.Log.Info("encounter ended", "enemy", enemyID, "outcome", outcome)
}

// intent returns the enemy's active intent. Enemies without intents strike
// with their attack stat.
func (e *Engine) intent() types.Intent {
	enc := e.State.Encounter
	en := e.Defs.Enemies[enc.EnemyID]
	if len(en.Intents) == 0 {
		return types.Intent{Name: "Strike", BaseDamage: en.Attack, DefendMultiplier: 0.5}
	}
	return en.Intents[enc.IntentIndex%len(en.Intents)]
}

// telegraph describes what the enemy is about to do.
func (e *Engine) telegraph() string {
	en := e.Defs.Enemies[e.State.Encounter.EnemyID]
	if len(en.Intents) == 0 {
		return fmt.Sprintf("%s sizes you up.", e.Defs.EnemyName(en.ID))
	}
	if it := e.intent(); it.Telegraph != "" {
		return it.Telegraph
	}
	return fmt.Sprintf("%s prepares an attack.", e.Defs.EnemyName(en.ID))
}

// encounterStatus summarizes the live encounter, if any.
func (e *Engine) encounterStatus() []string {
	enc := e.State.Encounter
	if enc == nil {
		return nil
	}
	en := e.Defs.Enemies[enc.EnemyID]
	out := []string{fmt.Sprintf("Enemy: %s HP %d/%d", e.Defs.EnemyName(enc.EnemyID), enc.HP, en.HP)}
	if enc.Phase == types.PhaseNegotiation {
		return append(out, "Actions: joke, bribe, or fight.")
	}
	return append(out, e.telegraph())
}

// healthLines snapshots both combatants' hp.
func (e *Engine) healthLines() []string {
	enc := e.State.Encounter
	en := e.Defs.Enemies[enc.EnemyID]
	p := &e.State.Player
	return []string{
		"HP:",
		"  You: " + HealthBar(p.HP, state.Effective(p, e.Defs).MaxHP),
		fmt.Sprintf("  %s: %s", e.Defs.EnemyName(enc.EnemyID), HealthBar(enc.HP, en.HP)),
	}
}

// HealthBar renders hp as a fixed-width bar followed by "cur/max". Any
// positive hp shows at least one filled cell.
func HealthBar(cur, maxHP int) string {
	maxHP = max(1, maxHP)
	cur = max(0, min(cur, maxHP))
	filled := int(math.RoundToEven(float64(cur) / float64(maxHP) * healthBarWidth))
	if cur > 0 {
		filled = max(1, filled)
	}
	filled = min(healthBarWidth, filled)
	return fmt.Sprintf("[%s%s] %d/%d",
		strings.Repeat("#", filled), strings.Repeat("-", healthBarWidth-filled), cur, maxHP)
}

// playerDamage rolls the damage of a player strike.
func (e *Engine) playerDamage(multiplier float64) int {
	atk := state.Effective(&e.State.Player, e.Defs).Attack
	def := e.Defs.Enemies[e.State.Encounter.EnemyID].Defense
	return max(1, int(float64(atk)*multiplier)+e.RNG.Between(-2, 3)-def/2)
}

// strike rolls a player hit, applies it to the enemy and returns the damage.
func (e *Engine) strike(multiplier float64) int {
	dmg := e.playerDamage(multiplier)
	enc := e.State.Encounter
	enc.HP = max(0, enc.HP-dmg)
	e.emit(events.New(events.DamageDealt, "enemy", enc.EnemyID, "amount", dmg))
	return dmg
}

// playerAction resolves one combat action. The enemy answers unless the
// action did not cost a turn or ended the fight.
func (e *Engine) playerAction(action string, args []string) []string {
	enc := e.State.Encounter
	if enc == nil {
		return []string{"There is nothing to fight."}
	}
	if enc.Phase == types.PhaseNegotiation {
		return e.negotiate(action)
	}

	en := e.Defs.Enemies[enc.EnemyID]
	var out []string
	turn := true

	switch action {
	case "fight":
		if enc.BarrierActive {
			out = append(out, en.Barrier.BlockedStrike)
		} else {
			dmg := e.strike(1)
			out = append(out, fmt.Sprintf("You strike %s for %d damage.", e.Defs.EnemyName(en.ID), dmg))
			out = append(out, e.healthLines()...)
		}

	case "defend":
		enc.Defending = true
		out = append(out, "You brace for impact.")

	case "skill":
		lines, ok := e.useSkill(strings.TrimSpace(strings.Join(args, " ")))
		if !ok {
			return lines
		}
		out = append(out, lines...)

	case "use", "read":
		if len(args) == 0 {
			return []string{"Use what? Example: use minor potion"}
		}
		query := strings.Join(args, " ")
		used, _ := resolve.Resolve(query, e.ownedCandidates())
		lines, consumed := e.useItem(query)
		out = append(out, lines...)
		turn = consumed
		if enc.BarrierActive && en.Barrier != nil && used == en.Barrier.BreakerItem {
			enc.BarrierActive = false
			out = append(out, en.Barrier.BrokenLine)
		}

	case "joke", "bribe":
		out = append(out, "That only works when negotiating with the goblin army.")
		turn = false

	default:
		return []string{"Unknown combat action."}
	}

	if enc.HP <= 0 {
		return append(out, e.victory()...)
	}
	if turn && e.State.Encounter != nil {
		out = append(out, e.enemyTurn()...)
	}
	return out
}

// useSkill resolves a skill. ok is false when the skill could not be used,
// in which case no turn passes.
func (e *Engine) useSkill(name string) (lines []string, ok bool) {
	if name == "" {
		return []string{"Specify a skill. Try: skill focus strike"}, false
	}
	p := &e.State.Player
	sk := types.Skill(name)
	if !p.Skills.Has(sk) {
		return []string{fmt.Sprintf("You have not learned '%s'.", name)}, false
	}
	if cd := p.Cooldowns[sk]; cd > 0 {
		return []string{fmt.Sprintf("%s is on cooldown for %d more turn(s).", name, cd)}, false
	}
	info, known := types.SkillCatalog[sk]
	if !known {
		return []string{"That skill has no effect."}, false
	}

	enc := e.State.Encounter
	if info.Multiplier > 0 {
		en := e.Defs.Enemies[enc.EnemyID]
		if enc.BarrierActive {
			lines = append(lines, en.Barrier.BlockedSkill)
		} else {
			dmg := e.strike(info.Multiplier)
			lines = append(lines, fmt.Sprintf("%s lands for %d damage.", info.Title, dmg))
			lines = append(lines, e.healthLines()...)
		}
	}
	if info.Defend {
		enc.Defending = true
	}
	if info.Heal > 0 {
		p.HP = min(state.Effective(p, e.Defs).MaxHP, p.HP+info.Heal)
		lines = append(lines, fmt.Sprintf(info.Line, info.Heal))
	}
	p.Cooldowns[sk] = info.Cooldown
	return lines, true
}

// enemyTurn resolves the enemy's active intent against the player.
func (e *Engine) enemyTurn() []string {
	enc := e.State.Encounter
	if enc == nil {
		return nil
	}
	en := e.Defs.Enemies[enc.EnemyID]
	p := &e.State.Player
	it := e.intent()

	def := state.Effective(p, e.Defs).Defense
	dmg := max(1, it.BaseDamage+e.RNG.Between(-3, 3)-def/3)
	if enc.Defending {
		dmg = max(1, int(float64(dmg)*it.DefendMultiplier))
	}
	p.HP -= dmg
	state.ClampHP(p, e.Defs)
	e.emit(events.New(events.DamageTaken, "enemy", enc.EnemyID, "amount", dmg))

	out := []string{fmt.Sprintf("%s uses %s and deals %d damage.", e.Defs.EnemyName(en.ID), it.Name, dmg)}

	if enc.BarrierActive && en.Barrier != nil {
		p.HP = max(0, p.HP-en.Barrier.CurseDamage)
		out = append(out, strings.ReplaceAll(en.Barrier.CurseLine, "{n}", fmt.Sprint(en.Barrier.CurseDamage)))
	}
	out = append(out, e.healthLines()...)

	if p.HP <= 0 {
		return append(out, e.defeat()...)
	}

	enc.Defending = false
	enc.IntentIndex++
	enc.TurnCount++
	tickCooldowns(p)
	return append(out, e.telegraph())
}

// tickCooldowns counts every cooldown down by one, dropping expired ones.
func tickCooldowns(p *types.Player) {
	for sk, turns := range p.Cooldowns {
		if turns > 1 {
			p.Cooldowns[sk] = turns - 1
		} else {
			delete(p.Cooldowns, sk)
		}
	}
}

// victory resolves a defeated enemy: flags, title, rewards.
func (e *Engine) victory() []string {
	enc := e.State.Encounter
	en := e.Defs.Enemies[enc.EnemyID]
	p := &e.State.Player

	out := []string{fmt.Sprintf("You defeat %s.", e.Defs.EnemyName(en.ID))}
	out = append(out, en.PostDialogue...)

	e.setFlag(en.DefeatFlag)
	for _, f := range en.Grants {
		e.setFlag(f)
	}
	if lib := en.Liberation; lib != nil && state.HasItem(p, lib.Item) {
		e.setFlag(lib.Flag)
		out = append(out, lib.Line)
	}
	if en.Title != "" && !hasTitle(p, en.Title) {
		p.Titles = append(p.Titles, en.Title)
		out = append(out, fmt.Sprintf("Title earned: %s.", en.Title))
	}

	out = append(out, e.grantRewards(en)...)
	e.endEncounter("victory")
	return out
}

func hasTitle(p *types.Player, title string) bool {
	for _, t := range p.Titles {
		if t == title {
			return true
		}
	}
	return false
}

// defeat sends the player back to the safe haven at half health.
func (e *Engine) defeat() []string {
	en := e.Defs.Enemies[e.State.Encounter.EnemyID]
	p := &e.State.Player
	out := []string{"You collapse and lose consciousness."}

	if en.Penalty != nil {
		if line := e.penalty(en.Penalty); line != "" {
			out = append(out, line)
		}
	}

	e.endEncounter("defeat")
	e.State.Location = e.Defs.Game.SafeHaven
	e.State.Discovered.Put(e.State.Location)
	p.HP = max(1, int(float64(state.Effective(p, e.Defs).MaxHP)*0.5))
	return append(out, fmt.Sprintf("You wake in the %s, battered but alive.", e.Defs.LocationName(e.Defs.Game.SafeHaven)))
}

// penalty may take one base stat point. It returns the line to report, or
// "" when the player was spared.
func (e *Engine) penalty(pen *types.Penalty) string {
	if e.RNG.Float() > pen.Chance {
		return ""
	}
	p := &e.State.Player
	switch e.RNG.Pick(3) {
	case 0:
		p.BaseAttack = max(1, p.BaseAttack-1)
		return pen.AttackLine
	case 1:
		p.BaseDefense = max(0, p.BaseDefense-1)
		return pen.DefenseLine
	default:
		p.BaseMaxHP = max(10, p.BaseMaxHP-1)
		p.HP = max(1, p.HP-1)
		state.ClampHP(p, e.Defs)
		return pen.HealthLine
	}
}

// negotiate handles the actions of a negotiation phase.
func (e *Engine) negotiate(action string) []string {
	enc := e.State.Encounter
	en := e.Defs.Enemies[enc.EnemyID]
	neg := en.Negotiation
	if neg == nil {
		enc.Phase = types.PhaseCombat
		return []string{e.telegraph()}
	}
	p := &e.State.Player

	switch action {
	case "joke":
		e.setFlag(neg.PassFlag)
		e.endEncounter("negotiated")
		return append([]string{}, neg.JokeLines...)

	case "bribe":
		if p.Gold <= 0 {
			enc.Phase = types.PhaseCombat
			return []string{neg.BrokeLine}
		}
		taken := p.Gold
		p.Gold = 0
		e.setFlag(neg.PassFlag)
		e.endEncounter("bribed")
		out := make([]string, len(neg.BribeLines))
		for i, l := range neg.BribeLines {
			out[i] = strings.ReplaceAll(l, "{n}", fmt.Sprint(taken))
		}
		return out

	case "fight":
		enc.Phase = types.PhaseCombat
		return []string{neg.FightLine, e.telegraph()}

	default:
		return []string{neg.MockLine}
	}
}

// flee tries to escape. A failed attempt costs a turn.
func (e *Engine) flee() []string {
	enc := e.State.Encounter
	if enc == nil {
		return []string{"There is nothing to run from."}
	}
	en := e.Defs.Enemies[enc.EnemyID]
	if enc.Phase == types.PhaseNegotiation {
		if en.Negotiation != nil && en.Negotiation.NoFleeLine != "" {
			return []string{en.Negotiation.NoFleeLine}
		}
		return []string{"Running is not an option."}
	}

	if e.RNG.Float() < fleeChance(en) {
		e.endEncounter("fled")
		return []string{fmt.Sprintf("You escape from %s.", e.Defs.EnemyName(en.ID))}
	}
	out := []string{fmt.Sprintf("You fail to escape %s.", e.Defs.EnemyName(en.ID))}
	return append(out, e.enemyTurn()...)
}

// fleeChance is the probability of escaping an enemy.
func fleeChance(en types.EnemyDef) float64 {
	if en.FleeChance > 0 {
		return en.FleeChance
	}
	if en.Category == types.CategoryNormal {
		return normalFleeChance
	}
	return bossFleeChance
}
