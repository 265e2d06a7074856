package loader

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/nathoo/byteworld/engine/state"
	"github.com/nathoo/byteworld/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

func (e *ValidationError) errorf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

func (e *ValidationError) warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

var validItemTypes = map[types.ItemType]bool{
	types.ItemWeapon: true, types.ItemArmor: true, types.ItemShield: true,
	types.ItemAccessory: true, types.ItemAura: true, types.ItemConsumable: true,
	types.ItemKey: true, types.ItemQuest: true, types.ItemBoon: true,
}

// knownFlags is the closed flag vocabulary content may reference.
func knownFlags() map[types.Flag]bool {
	m := map[types.Flag]bool{}
	for _, info := range types.FlagCatalog {
		m[info.Flag] = true
	}
	return m
}

// validate checks the compiled defs for referential integrity and consistency.
func validate(defs *state.Defs) error {
	ve := &ValidationError{}
	flags := knownFlags()

	checkFlag := func(ctx string, f types.Flag) {
		if f != "" && !flags[f] {
			ve.errorf("%s references unknown flag %q", ctx, f)
		}
	}
	checkReq := func(ctx string, req types.Requirement) {
		for _, group := range [][]types.Flag{req.AllFlags, req.AnyFlags, req.NoFlags} {
			for _, f := range group {
				checkFlag(ctx, f)
			}
		}
		if req.Item != "" {
			if _, ok := defs.Items[req.Item]; !ok {
				ve.errorf("%s requires undefined item %q", ctx, req.Item)
			}
		}
		if req.Location != "" {
			if _, ok := defs.Locations[req.Location]; !ok {
				ve.errorf("%s requires undefined location %q", ctx, req.Location)
			}
		}
	}
	checkItem := func(ctx, id string) {
		if _, ok := defs.Items[id]; !ok {
			ve.errorf("%s references undefined item %q", ctx, id)
		}
	}
	checkLocation := func(ctx, id string) {
		if _, ok := defs.Locations[id]; !ok {
			ve.errorf("%s references undefined location %q", ctx, id)
		}
	}
	checkEnemy := func(ctx, id string) {
		if _, ok := defs.Enemies[id]; !ok {
			ve.errorf("%s references undefined enemy %q", ctx, id)
		}
	}

	if defs.Game.Title == "" {
		ve.errorf("Game.title is required")
	}
	if defs.Game.Start == "" {
		ve.errorf("Game.start is required")
	} else {
		checkLocation("Game.start", defs.Game.Start)
	}
	checkLocation("Game.safe_haven", defs.Game.SafeHaven)
	for _, id := range defs.Game.Landmarks {
		checkLocation("Game.landmarks", id)
	}
	if defs.Game.RareTable != "" {
		if _, ok := defs.Game.RarityTables[defs.Game.RareTable]; !ok {
			ve.errorf("Game.rare_table %q is not a defined rarity table", defs.Game.RareTable)
		}
	}
	if defs.Game.Player.MaxHP <= 0 {
		ve.errorf("Game.player.max_hp must be positive")
	}
	for _, st := range defs.Game.Player.Inventory {
		checkItem("Game.player.inventory", st.ID)
		if st.Count <= 0 {
			ve.errorf("Game.player.inventory %q has non-positive count %d", st.ID, st.Count)
		}
	}
	for slot, id := range defs.Game.Player.Equipment {
		if id == "" {
			continue
		}
		item, ok := defs.Items[id]
		if !ok {
			checkItem("Game.player.equipment", id)
			continue
		}
		if want, ok := types.SlotForType[item.Type]; !ok || want != types.Slot(slot) {
			ve.errorf("Game.player.equipment %q does not fit the %s slot", id, types.SlotNames[slot])
		}
	}

	for tableID, table := range defs.Game.RarityTables {
		validateWeighted(ve, "rarity table "+tableID, table, func(id string) bool {
			_, ok := defs.Items[id]
			return ok
		})
	}

	for _, locID := range sortedKeys(defs.Locations) {
		loc := defs.Locations[locID]
		ctx := fmt.Sprintf("location %q", locID)

		dirs := map[string]bool{}
		for _, exit := range loc.Exits {
			if dirs[exit.Direction] {
				ve.errorf("%s has duplicate exit %q", ctx, exit.Direction)
			}
			dirs[exit.Direction] = true
			if _, ok := defs.Locations[exit.To]; !ok {
				ve.errorf("%s exit %q points to undefined location %q", ctx, exit.Direction, exit.To)
			}
			if exit.Requires != nil {
				checkReq(ctx+" exit "+exit.Direction, *exit.Requires)
			}
		}
		if loc.EncounterChance < 0 || loc.EncounterChance > 1 {
			ve.errorf("%s encounter_chance %v is outside [0,1]", ctx, loc.EncounterChance)
		}
		validateWeighted(ve, ctx+" encounters", loc.Encounters, func(id string) bool {
			_, ok := defs.Enemies[id]
			return ok
		})
		if loc.EncounterChance > 0 && len(loc.Encounters) == 0 {
			ve.warnf("%s has an encounter chance but no encounters", ctx)
		}
		if loc.BossID != "" {
			checkEnemy(ctx+" boss", loc.BossID)
			if loc.BossFlag == "" {
				ve.errorf("%s boss %q has no boss_flag", ctx, loc.BossID)
			}
			checkFlag(ctx+" boss_flag", loc.BossFlag)
			for _, f := range loc.BossRequires {
				checkFlag(ctx+" boss_requires", f)
			}
		}
		for _, l := range loc.SenseHints {
			checkReq(ctx+" sense_hints", l.When)
		}
		if cs := loc.Cutscene; cs != nil {
			checkReq(ctx+" cutscene", cs.Requires)
			checkFlag(ctx+" cutscene", cs.Flag)
			if cs.Flag == "" {
				ve.errorf("%s cutscene needs a flag so it plays once", ctx)
			}
			if cs.Teleport != "" {
				checkLocation(ctx+" cutscene", cs.Teleport)
			}
			if cs.Encounter != "" {
				checkEnemy(ctx+" cutscene", cs.Encounter)
			}
		}
	}

	for _, enemyID := range sortedKeys(defs.Enemies) {
		en := defs.Enemies[enemyID]
		ctx := fmt.Sprintf("enemy %q", enemyID)

		if en.Category != types.CategoryNormal && en.Category != types.CategoryBoss {
			ve.errorf("%s has unknown category %q", ctx, en.Category)
		}
		if en.HP <= 0 {
			ve.errorf("%s must have positive hp", ctx)
		}
		validateWeighted(ve, ctx+" loot", en.LootTable, func(id string) bool {
			_, ok := defs.Items[id]
			return ok
		})
		for _, id := range en.GuaranteedDrops {
			checkItem(ctx+" drops", id)
		}
		checkFlag(ctx+" defeat_flag", en.DefeatFlag)
		for _, f := range en.Grants {
			checkFlag(ctx+" grants", f)
		}
		if en.FleeChance < 0 || en.FleeChance > 1 {
			ve.errorf("%s flee_chance %v is outside [0,1]", ctx, en.FleeChance)
		}
		if en.SurgeItem != "" {
			if item, ok := defs.Items[en.SurgeItem]; !ok || item.Surge == nil {
				ve.errorf("%s surge_item %q is not an item with a surge", ctx, en.SurgeItem)
			}
		}

		switch en.Special {
		case types.SpecialNone:
		case types.SpecialNegotiation:
			if en.Negotiation == nil {
				ve.errorf("%s is negotiable but has no negotiation block", ctx)
			} else {
				checkFlag(ctx+" negotiation", en.Negotiation.PassFlag)
			}
		case types.SpecialBarrier:
			if en.Barrier == nil {
				ve.errorf("%s has a barrier special but no barrier block", ctx)
			} else {
				checkItem(ctx+" barrier breaker", en.Barrier.BreakerItem)
			}
		default:
			ve.errorf("%s has unknown special %q", ctx, en.Special)
		}
		if en.Penalty != nil && (en.Penalty.Chance < 0 || en.Penalty.Chance > 1) {
			ve.errorf("%s penalty chance %v is outside [0,1]", ctx, en.Penalty.Chance)
		}
		if l := en.Liberation; l != nil {
			checkItem(ctx+" liberation", l.Item)
			checkFlag(ctx+" liberation", l.Flag)
		}
	}

	for _, itemID := range sortedKeys(defs.Items) {
		it := defs.Items[itemID]
		ctx := fmt.Sprintf("item %q", itemID)
		if !validItemTypes[it.Type] {
			ve.errorf("%s has unknown type %q", ctx, it.Type)
		}
		for _, u := range it.Uses {
			checkReq(ctx+" use", u.Requires)
			for _, f := range u.SetFlags {
				checkFlag(ctx+" use", f)
			}
			if u.Enemy != "" {
				checkEnemy(ctx+" use", u.Enemy)
			}
		}
	}

	for _, npcID := range sortedKeys(defs.NPCs) {
		npc := defs.NPCs[npcID]
		ctx := fmt.Sprintf("npc %q", npcID)
		checkLocation(ctx, npc.Location)
		checkFlag(ctx+" met_flag", npc.MetFlag)
		if npc.Visible != nil {
			checkReq(ctx+" visible", *npc.Visible)
		}
		if npc.TalkRequires != nil {
			checkReq(ctx+" talk_requires", *npc.TalkRequires)
		}
		for _, l := range append(append([]types.Line{}, npc.FirstHints...), npc.Hints...) {
			checkReq(ctx+" hints", l.When)
		}
		if npc.Closing != nil {
			checkReq(ctx+" closing", npc.Closing.When)
		}
	}

	if len(defs.Stages) == 0 {
		ve.errorf("at least one Stage is required")
	}
	for i, st := range defs.Stages {
		ctx := fmt.Sprintf("stage %q", st.ID)
		c := st.Complete
		// Stage derivation must stay a monotonic function of the flag set.
		if len(c.NoFlags) > 0 || c.Item != "" || c.Location != "" {
			ve.errorf("%s completion may only use all/any flags", ctx)
		}
		if i < len(defs.Stages)-1 && len(c.AllFlags) == 0 && len(c.AnyFlags) == 0 {
			ve.errorf("%s has no completion flags", ctx)
		}
		checkReq(ctx, c)
		if st.Target != "" {
			checkLocation(ctx+" target", st.Target)
		}
	}

	// Print warnings to stderr.
	for _, w := range ve.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateWeighted(ve *ValidationError, ctx string, table []types.Weighted, exists func(string) bool) {
	for _, w := range table {
		if !exists(w.ID) {
			ve.errorf("%s references undefined %q", ctx, w.ID)
		}
		if w.Weight <= 0 {
			ve.errorf("%s entry %q must have a positive weight", ctx, w.ID)
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
