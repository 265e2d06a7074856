// Package loader loads Lua game content into Go structs at startup.
// The Lua VM is discarded after loading, so no Lua runs during play.
package loader

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/byteworld/engine/state"
	"github.com/nathoo/byteworld/types"
)

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// getStrings returns the string elements of an array field.
func getStrings(tbl *lua.LTable, key string) []string {
	arr := getTable(tbl, key)
	if arr == nil {
		return nil
	}
	var out []string
	for i := 1; i <= arr.MaxN(); i++ {
		if s, ok := arr.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// getFlags returns an array field as flags.
func getFlags(tbl *lua.LTable, key string) []types.Flag {
	strs := getStrings(tbl, key)
	if strs == nil {
		return nil
	}
	flags := make([]types.Flag, len(strs))
	for i, s := range strs {
		flags[i] = types.Flag(s)
	}
	return flags
}

// getTables returns the table elements of an array field.
func getTables(tbl *lua.LTable, key string) []*lua.LTable {
	arr := getTable(tbl, key)
	if arr == nil {
		return nil
	}
	var out []*lua.LTable
	for i := 1; i <= arr.MaxN(); i++ {
		if t, ok := arr.RawGetInt(i).(*lua.LTable); ok {
			out = append(out, t)
		}
	}
	return out
}

// compileWeighted converts {{"id", weight}, ...} into a weighted table.
func compileWeighted(arr *lua.LTable) ([]types.Weighted, error) {
	if arr == nil {
		return nil, nil
	}
	var out []types.Weighted
	for i := 1; i <= arr.MaxN(); i++ {
		pair, ok := arr.RawGetInt(i).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("entry %d is not a {id, weight} pair", i)
		}
		id, ok := pair.RawGetInt(1).(lua.LString)
		if !ok {
			return nil, fmt.Errorf("entry %d has no id", i)
		}
		weight, ok := pair.RawGetInt(2).(lua.LNumber)
		if !ok {
			return nil, fmt.Errorf("entry %d (%s) has no weight", i, id)
		}
		out = append(out, types.Weighted{ID: string(id), Weight: int(weight)})
	}
	return out, nil
}

// compileRequirement converts a Requires{} table.
func compileRequirement(tbl *lua.LTable) types.Requirement {
	if tbl == nil {
		return types.Requirement{}
	}
	return types.Requirement{
		AllFlags: getFlags(tbl, "all"),
		AnyFlags: getFlags(tbl, "any"),
		NoFlags:  getFlags(tbl, "none"),
		Item:     getString(tbl, "item"),
		Location: getString(tbl, "at"),
		Message:  getString(tbl, "message"),
	}
}

// optRequirement converts an optional Requires{} field.
func optRequirement(tbl *lua.LTable, key string) *types.Requirement {
	sub := getTable(tbl, key)
	if sub == nil {
		return nil
	}
	req := compileRequirement(sub)
	return &req
}

// compileLines converts an array of When(...) lines.
func compileLines(tbl *lua.LTable, key string) []types.Line {
	var out []types.Line
	for _, t := range getTables(tbl, key) {
		out = append(out, types.Line{
			When: compileRequirement(getTable(t, "when")),
			Text: getString(t, "text"),
		})
	}
	return out
}

// compile converts all collected Lua data into a Defs struct.
func compile(coll *collector) (*state.Defs, error) {
	defs := &state.Defs{
		Locations: map[string]types.LocationDef{},
		Enemies:   map[string]types.EnemyDef{},
		Items:     map[string]types.ItemDef{},
		NPCs:      map[string]types.NPCDef{},
	}

	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}
	game, err := compileGame(coll.game)
	if err != nil {
		return nil, fmt.Errorf("compiling Game: %w", err)
	}
	defs.Game = game

	defs.Game.RarityTables = map[string][]types.Weighted{}
	for _, raw := range coll.rarity {
		if _, dup := defs.Game.RarityTables[raw.id]; dup {
			return nil, fmt.Errorf("duplicate rarity table %q", raw.id)
		}
		table, err := compileWeighted(raw.table)
		if err != nil {
			return nil, fmt.Errorf("compiling rarity table %s: %w", raw.id, err)
		}
		defs.Game.RarityTables[raw.id] = table
	}

	for _, raw := range coll.locations {
		if _, dup := defs.Locations[raw.id]; dup {
			return nil, fmt.Errorf("duplicate location %q", raw.id)
		}
		loc, err := compileLocation(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling location %s: %w", raw.id, err)
		}
		defs.Locations[loc.ID] = loc
	}

	for _, raw := range coll.enemies {
		if _, dup := defs.Enemies[raw.id]; dup {
			return nil, fmt.Errorf("duplicate enemy %q", raw.id)
		}
		enemy, err := compileEnemy(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling enemy %s: %w", raw.id, err)
		}
		defs.Enemies[enemy.ID] = enemy
	}

	for _, raw := range coll.items {
		if _, dup := defs.Items[raw.id]; dup {
			return nil, fmt.Errorf("duplicate item %q", raw.id)
		}
		defs.Items[raw.id] = compileItem(raw)
	}

	for _, raw := range coll.npcs {
		if _, dup := defs.NPCs[raw.id]; dup {
			return nil, fmt.Errorf("duplicate npc %q", raw.id)
		}
		defs.NPCs[raw.id] = compileNPC(raw)
	}

	seen := map[string]bool{}
	for _, raw := range coll.stages {
		if seen[raw.id] {
			return nil, fmt.Errorf("duplicate stage %q", raw.id)
		}
		seen[raw.id] = true
		defs.Stages = append(defs.Stages, compileStage(raw))
	}

	return defs, nil
}

func compileGame(tbl *lua.LTable) (types.GameDef, error) {
	g := types.GameDef{
		Title:     getString(tbl, "title"),
		Author:    getString(tbl, "author"),
		Version:   getString(tbl, "version"),
		Intro:     getString(tbl, "intro"),
		Start:     getString(tbl, "start"),
		SafeHaven: getString(tbl, "safe_haven"),
		RareTable: getString(tbl, "rare_table"),
		Landmarks: getStrings(tbl, "landmarks"),
	}
	if g.SafeHaven == "" {
		g.SafeHaven = g.Start
	}

	if p := getTable(tbl, "player"); p != nil {
		g.Player = types.PlayerDef{
			Name:    getString(p, "name"),
			MaxHP:   getInt(p, "max_hp"),
			Attack:  getInt(p, "attack"),
			Defense: getInt(p, "defense"),
			Gold:    getInt(p, "gold"),
		}
		if inv := getTable(p, "inventory"); inv != nil {
			inv.ForEach(func(k, v lua.LValue) {
				id, ok := k.(lua.LString)
				n, isNum := v.(lua.LNumber)
				if ok && isNum {
					g.Player.Inventory = append(g.Player.Inventory, types.ItemStack{ID: string(id), Count: int(n)})
				}
			})
			sort.Slice(g.Player.Inventory, func(i, j int) bool {
				return g.Player.Inventory[i].ID < g.Player.Inventory[j].ID
			})
		}
		if eq := getTable(p, "equipment"); eq != nil {
			var err error
			eq.ForEach(func(k, v lua.LValue) {
				slot, ok := k.(lua.LString)
				id, isStr := v.(lua.LString)
				if !ok || !isStr {
					return
				}
				idx, found := slotIndex(string(slot))
				if !found {
					err = fmt.Errorf("unknown equipment slot %q", slot)
					return
				}
				g.Player.Equipment[idx] = string(id)
			})
			if err != nil {
				return g, err
			}
		}
	}
	return g, nil
}

func slotIndex(name string) (types.Slot, bool) {
	for i, n := range types.SlotNames {
		if n == name {
			return types.Slot(i), true
		}
	}
	return 0, false
}

func compileLocation(raw rawDef) (types.LocationDef, error) {
	tbl := raw.table
	loc := types.LocationDef{
		ID:                 raw.id,
		Name:               getString(tbl, "name"),
		Area:               getString(tbl, "area"),
		Descriptions:       getStrings(tbl, "descriptions"),
		EncounterChance:    getNumber(tbl, "encounter_chance"),
		BossID:             getString(tbl, "boss"),
		BossFlag:           types.Flag(getString(tbl, "boss_flag")),
		BossRequires:       getFlags(tbl, "boss_requires"),
		SkillPointsPerKill: getInt(tbl, "skill_points_per_kill"),
		SenseHint:          getString(tbl, "sense_hint"),
		SenseHints:         compileLines(tbl, "sense_hints"),
	}

	for _, e := range getTables(tbl, "exits") {
		loc.Exits = append(loc.Exits, types.Exit{
			Direction: getString(e, "direction"),
			To:        getString(e, "to"),
			Requires:  optRequirement(e, "requires"),
		})
	}

	encounters, err := compileWeighted(getTable(tbl, "encounters"))
	if err != nil {
		return loc, fmt.Errorf("encounters: %w", err)
	}
	loc.Encounters = encounters

	if cs := getTable(tbl, "cutscene"); cs != nil {
		loc.Cutscene = &types.Cutscene{
			Requires:  compileRequirement(getTable(cs, "requires")),
			Flag:      types.Flag(getString(cs, "flag")),
			Lines:     getStrings(cs, "lines"),
			Teleport:  getString(cs, "teleport"),
			Encounter: getString(cs, "encounter"),
		}
	}
	return loc, nil
}

func compileEnemy(raw rawDef) (types.EnemyDef, error) {
	tbl := raw.table
	en := types.EnemyDef{
		ID:                raw.id,
		Name:              getString(tbl, "name"),
		Category:          types.Category(getString(tbl, "category")),
		HP:                getInt(tbl, "hp"),
		Attack:            getInt(tbl, "attack"),
		Defense:           getInt(tbl, "defense"),
		XPReward:          getInt(tbl, "xp"),
		GoldReward:        getInt(tbl, "gold"),
		SkillPointsReward: getInt(tbl, "skill_points"),
		GuaranteedDrops:   getStrings(tbl, "drops"),
		Special:           types.Special(getString(tbl, "special")),
		PreDialogue:       getStrings(tbl, "pre"),
		PostDialogue:      getStrings(tbl, "post"),
		DefeatFlag:        types.Flag(getString(tbl, "defeat_flag")),
		Grants:            getFlags(tbl, "grants"),
		Title:             getString(tbl, "title"),
		FleeChance:        getNumber(tbl, "flee_chance"),
		SurgeItem:         getString(tbl, "surge_item"),
	}
	if en.Category == "" {
		en.Category = types.CategoryNormal
	}

	loot, err := compileWeighted(getTable(tbl, "loot"))
	if err != nil {
		return en, fmt.Errorf("loot: %w", err)
	}
	en.LootTable = loot

	for _, it := range getTables(tbl, "intents") {
		en.Intents = append(en.Intents, types.Intent{
			Name:             getString(it, "name"),
			Telegraph:        getString(it, "telegraph"),
			BaseDamage:       getInt(it, "damage"),
			DefendMultiplier: getNumber(it, "defend"),
		})
	}

	if n := getTable(tbl, "negotiation"); n != nil {
		en.Negotiation = &types.Negotiation{
			PassFlag:   types.Flag(getString(n, "pass_flag")),
			JokeLines:  getStrings(n, "joke"),
			BribeLines: getStrings(n, "bribe"),
			BrokeLine:  getString(n, "broke"),
			FightLine:  getString(n, "fight"),
			MockLine:   getString(n, "mock"),
			NoFleeLine: getString(n, "no_flee"),
		}
	}
	if b := getTable(tbl, "barrier"); b != nil {
		en.Barrier = &types.Barrier{
			BreakerItem:   getString(b, "breaker"),
			CurseDamage:   getInt(b, "curse_damage"),
			BlockedStrike: getString(b, "blocked_strike"),
			BlockedSkill:  getString(b, "blocked_skill"),
			CurseLine:     getString(b, "curse"),
			BrokenLine:    getString(b, "broken"),
		}
	}
	if p := getTable(tbl, "penalty"); p != nil {
		en.Penalty = &types.Penalty{
			Chance:      getNumber(p, "chance"),
			AttackLine:  getString(p, "attack"),
			DefenseLine: getString(p, "defense"),
			HealthLine:  getString(p, "health"),
		}
	}
	if l := getTable(tbl, "liberation"); l != nil {
		en.Liberation = &types.Liberation{
			Item: getString(l, "item"),
			Flag: types.Flag(getString(l, "flag")),
			Line: getString(l, "line"),
		}
	}
	return en, nil
}

func compileItem(raw rawDef) types.ItemDef {
	tbl := raw.table
	it := types.ItemDef{
		ID:               raw.id,
		Name:             getString(tbl, "name"),
		Type:             types.ItemType(getString(tbl, "type")),
		Description:      getString(tbl, "description"),
		AttackBonus:      getInt(tbl, "attack"),
		DefenseBonus:     getInt(tbl, "defense"),
		MaxHPBonus:       getInt(tbl, "max_hp"),
		HealAmount:       getInt(tbl, "heal"),
		SkillPointsBonus: getInt(tbl, "skill_points"),
		Value:            getInt(tbl, "value"),
		UseFail:          getString(tbl, "use_fail"),
	}
	if s := getTable(tbl, "surge"); s != nil {
		it.Surge = &types.Surge{
			Attack:      getInt(s, "attack"),
			Defense:     getInt(s, "defense"),
			UseLine:     getString(s, "use"),
			QuietLine:   getString(s, "quiet"),
			TriggerLine: getString(s, "trigger"),
		}
	}
	for _, u := range getTables(tbl, "uses") {
		it.Uses = append(it.Uses, types.ItemUse{
			Requires: compileRequirement(getTable(u, "requires")),
			Enemy:    getString(u, "enemy"),
			Turn:     getBool(u, "turn", false),
			Consume:  getBool(u, "consume", false),
			Gold:     getInt(u, "gold"),
			SetFlags: getFlags(u, "set_flags"),
			Victory:  getBool(u, "victory", false),
			Lines:    getStrings(u, "lines"),
		})
	}
	return it
}

func compileNPC(raw rawDef) types.NPCDef {
	tbl := raw.table
	npc := types.NPCDef{
		ID:           raw.id,
		Name:         getString(tbl, "name"),
		Location:     getString(tbl, "location"),
		Visible:      optRequirement(tbl, "visible"),
		TalkRequires: optRequirement(tbl, "talk_requires"),
		MetFlag:      types.Flag(getString(tbl, "met_flag")),
		TeachSkills:  getBool(tbl, "teach_skills", false),
		First:        getStrings(tbl, "first"),
		FirstHints:   compileLines(tbl, "first_hints"),
		Repeat:       getStrings(tbl, "repeat"),
		Hints:        compileLines(tbl, "hints"),
	}
	if c := getTable(tbl, "closing"); c != nil {
		npc.Closing = &types.Closing{
			When:  compileRequirement(getTable(c, "when")),
			Lines: getStrings(c, "lines"),
		}
	}
	return npc
}

func compileStage(raw rawDef) types.QuestStageDef {
	tbl := raw.table
	return types.QuestStageDef{
		ID:          raw.id,
		Title:       getString(tbl, "title"),
		Description: getString(tbl, "description"),
		Hint:        getString(tbl, "hint"),
		Target:      getString(tbl, "target"),
		Complete:    compileRequirement(getTable(tbl, "complete")),
	}
}

// sortedLuaFiles returns files with game.lua first, rest alphabetical.
func sortedLuaFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}
