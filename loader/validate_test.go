package loader

import (
	"strings"
	"testing"

	"github.com/nathoo/byteworld/engine/state"
	"github.com/nathoo/byteworld/types"
)

// validDefs returns a minimal valid Defs for testing.
func validDefs() *state.Defs {
	return &state.Defs{
		Game: types.GameDef{
			Title:     "Test",
			Start:     "hall",
			SafeHaven: "hall",
			Player: types.PlayerDef{
				MaxHP:     20,
				Attack:    3,
				Inventory: []types.ItemStack{{ID: "blade", Count: 1}},
				Equipment: [types.NumSlots]string{types.SlotWeapon: "blade"},
			},
		},
		Locations: map[string]types.LocationDef{
			"hall": {ID: "hall", Name: "Hall", Exits: []types.Exit{{Direction: "north", To: "yard"}}},
			"yard": {ID: "yard", Name: "Yard", Exits: []types.Exit{{Direction: "south", To: "hall"}}},
		},
		Enemies: map[string]types.EnemyDef{
			"rat": {ID: "rat", Name: "Rat", Category: types.CategoryNormal, HP: 5},
		},
		Items: map[string]types.ItemDef{
			"blade": {ID: "blade", Name: "Blade", Type: types.ItemWeapon},
		},
		NPCs: map[string]types.NPCDef{},
		Stages: []types.QuestStageDef{
			{ID: "start", Complete: types.Requirement{AllFlags: []types.Flag{types.FlagMetOldMan}}},
			{ID: "end"},
		},
	}
}

func validationErrors(t *testing.T, defs *state.Defs) []string {
	t.Helper()
	err := validate(defs)
	if err == nil {
		t.Fatal("expected validation error")
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	return ve.Errors
}

func TestValidate_ValidDefs(t *testing.T) {
	if err := validate(validDefs()); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *state.Defs)
		want   string
	}{
		{"empty title", func(d *state.Defs) { d.Game.Title = "" }, "Game.title"},
		{"missing start", func(d *state.Defs) { d.Game.Start = "void" }, "Game.start"},
		{"missing safe haven", func(d *state.Defs) { d.Game.SafeHaven = "void" }, "Game.safe_haven"},
		{"unknown landmark", func(d *state.Defs) { d.Game.Landmarks = []string{"void"} }, "Game.landmarks"},
		{"unknown rare table", func(d *state.Defs) { d.Game.RareTable = "missing" }, "rare_table"},
		{"undefined inventory item", func(d *state.Defs) {
			d.Game.Player.Inventory = append(d.Game.Player.Inventory, types.ItemStack{ID: "gem", Count: 1})
		}, `undefined item "gem"`},
		{"equipment in wrong slot", func(d *state.Defs) {
			d.Game.Player.Equipment = [types.NumSlots]string{types.SlotArmor: "blade"}
		}, "does not fit the armor slot"},
		{"exit to undefined location", func(d *state.Defs) {
			d.Locations["hall"] = types.LocationDef{ID: "hall", Exits: []types.Exit{{Direction: "up", To: "void"}}}
		}, "undefined location"},
		{"duplicate exit", func(d *state.Defs) {
			d.Locations["hall"] = types.LocationDef{ID: "hall", Exits: []types.Exit{
				{Direction: "north", To: "yard"}, {Direction: "north", To: "yard"},
			}}
		}, "duplicate exit"},
		{"unknown flag in gate", func(d *state.Defs) {
			d.Locations["hall"] = types.LocationDef{ID: "hall", Exits: []types.Exit{{
				Direction: "north", To: "yard",
				Requires:  &types.Requirement{AllFlags: []types.Flag{"made_up"}},
			}}}
		}, `unknown flag "made_up"`},
		{"encounter chance out of range", func(d *state.Defs) {
			loc := d.Locations["yard"]
			loc.EncounterChance = 1.5
			d.Locations["yard"] = loc
		}, "outside [0,1]"},
		{"encounter weight", func(d *state.Defs) {
			loc := d.Locations["yard"]
			loc.Encounters = []types.Weighted{{ID: "rat", Weight: 0}}
			d.Locations["yard"] = loc
		}, "positive weight"},
		{"encounter enemy", func(d *state.Defs) {
			loc := d.Locations["yard"]
			loc.Encounters = []types.Weighted{{ID: "ghost", Weight: 1}}
			d.Locations["yard"] = loc
		}, `undefined "ghost"`},
		{"boss without flag", func(d *state.Defs) {
			loc := d.Locations["yard"]
			loc.BossID = "rat"
			d.Locations["yard"] = loc
		}, "has no boss_flag"},
		{"loot item", func(d *state.Defs) {
			d.Enemies["rat"] = types.EnemyDef{ID: "rat", Category: types.CategoryNormal, HP: 5,
				LootTable: []types.Weighted{{ID: "cheese", Weight: 1}}}
		}, `undefined "cheese"`},
		{"barrier without block", func(d *state.Defs) {
			d.Enemies["rat"] = types.EnemyDef{ID: "rat", Category: types.CategoryBoss, HP: 5, Special: types.SpecialBarrier}
		}, "no barrier block"},
		{"unknown category", func(d *state.Defs) {
			d.Enemies["rat"] = types.EnemyDef{ID: "rat", Category: "elite", HP: 5}
		}, "unknown category"},
		{"surge item without surge", func(d *state.Defs) {
			d.Enemies["rat"] = types.EnemyDef{ID: "rat", Category: types.CategoryNormal, HP: 5, SurgeItem: "blade"}
		}, "not an item with a surge"},
		{"unknown item type", func(d *state.Defs) {
			d.Items["blade"] = types.ItemDef{ID: "blade", Type: "hat"}
		}, "unknown type"},
		{"npc location", func(d *state.Defs) {
			d.NPCs["sage"] = types.NPCDef{ID: "sage", Location: "void"}
		}, `npc "sage" references undefined location`},
		{"no stages", func(d *state.Defs) { d.Stages = nil }, "at least one Stage"},
		{"stage with negative condition", func(d *state.Defs) {
			d.Stages[0].Complete = types.Requirement{NoFlags: []types.Flag{types.FlagMetOldMan}}
		}, "all/any flags"},
		{"stage without flags", func(d *state.Defs) {
			d.Stages[0].Complete = types.Requirement{}
		}, "no completion flags"},
		{"stage target", func(d *state.Defs) { d.Stages[1].Target = "void" }, `stage "end" target`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defs := validDefs()
			tt.mutate(defs)
			assertContains(t, validationErrors(t, defs), tt.want)
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	defs := validDefs()
	defs.Game.Title = ""
	defs.Game.Start = "void"
	defs.Stages = nil

	errs := validationErrors(t, defs)
	if len(errs) < 3 {
		t.Errorf("expected at least 3 errors, got %d: %v", len(errs), errs)
	}
}

func TestValidate_ChanceWithoutEncountersIsWarning(t *testing.T) {
	defs := validDefs()
	loc := defs.Locations["yard"]
	loc.EncounterChance = 0.5
	defs.Locations["yard"] = loc

	if err := validate(defs); err != nil {
		t.Fatalf("warnings should not fail validation: %v", err)
	}
}

// assertContains checks that at least one string in the slice contains substr.
func assertContains(t *testing.T, strs []string, substr string) {
	t.Helper()
	for _, s := range strs {
		if strings.Contains(s, substr) {
			return
		}
	}
	t.Errorf("expected one of %v to contain %q", strs, substr)
}
