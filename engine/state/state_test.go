package state

import (
	"fmt"
	"testing"

	"github.com/nathoo/byteworld/types"
)

func testDefs() *Defs {
	return &Defs{
		Game: types.GameDef{
			Title:     "Test Game",
			Start:     "shack",
			SafeHaven: "shack",
			Player: types.PlayerDef{
				Name:    "Wanderer",
				MaxHP:   50,
				Attack:  8,
				Defense: 5,
				Gold:    20,
				Inventory: []types.ItemStack{
					{ID: "blade", Count: 1},
					{ID: "potion", Count: 2},
				},
			},
		},
		Locations: map[string]types.LocationDef{
			"shack": {ID: "shack", Name: "Old Shack"},
			"field": {ID: "field", Name: "Open Field"},
		},
		Enemies: map[string]types.EnemyDef{
			"rat": {ID: "rat", Name: "Field Rat"},
		},
		Items: map[string]types.ItemDef{
			"blade":  {ID: "blade", Name: "Rusted Blade", Type: types.ItemWeapon, AttackBonus: 2},
			"coat":   {ID: "coat", Name: "Patched Coat", Type: types.ItemArmor, DefenseBonus: 1, MaxHPBonus: 6},
			"potion": {ID: "potion", Name: "Minor Potion", Type: types.ItemConsumable, HealAmount: 18},
		},
		NPCs: map[string]types.NPCDef{
			"zed": {ID: "zed", Name: "Zed", Location: "shack"},
			"amy": {ID: "amy", Name: "Amy", Location: "shack"},
			"bob": {ID: "bob", Name: "Bob", Location: "field"},
		},
		Stages: []types.QuestStageDef{
			{ID: "first", Title: "First"},
			{ID: "last", Title: "Last"},
		},
	}
}

func TestNewState_StartingPlayer(t *testing.T) {
	defs := testDefs()
	s := NewState(defs, 42)

	if s.Location != "shack" {
		t.Errorf("location = %q, want shack", s.Location)
	}
	if s.Player.HP != 50 || s.Player.Level != 1 || s.Player.Gold != 20 {
		t.Errorf("player = hp %d level %d gold %d, want 50 1 20",
			s.Player.HP, s.Player.Level, s.Player.Gold)
	}
	if s.Player.Inventory["potion"] != 2 {
		t.Errorf("potions = %d, want 2", s.Player.Inventory["potion"])
	}
	if s.QuestStage != "first" {
		t.Errorf("quest stage = %q, want first", s.QuestStage)
	}
	if !s.Discovered.Has("shack") {
		t.Error("start location should be discovered")
	}
	if s.Seed != 42 {
		t.Errorf("seed = %d, want 42", s.Seed)
	}
	if s.Encounter != nil {
		t.Error("new state should have no encounter")
	}
}

func TestDefs_Names(t *testing.T) {
	defs := testDefs()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"known item", defs.ItemName("potion"), "Minor Potion"},
		{"unknown item", defs.ItemName("ghost"), "ghost"},
		{"known enemy", defs.EnemyName("rat"), "Field Rat"},
		{"unknown enemy", defs.EnemyName("wolf"), "wolf"},
		{"known location", defs.LocationName("field"), "Open Field"},
		{"unknown location", defs.LocationName("moon"), "moon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestDefs_NPCsAtSorted(t *testing.T) {
	defs := testDefs()
	npcs := defs.NPCsAt("shack")
	if len(npcs) != 2 {
		t.Fatalf("expected 2 npcs, got %d", len(npcs))
	}
	if npcs[0].ID != "amy" || npcs[1].ID != "zed" {
		t.Errorf("npcs = %s, %s; want amy, zed", npcs[0].ID, npcs[1].ID)
	}
}

func TestDefs_Stage(t *testing.T) {
	defs := testDefs()
	if st, ok := defs.Stage("last"); !ok || st.Title != "Last" {
		t.Errorf("Stage(last) = %+v, %v", st, ok)
	}
	if _, ok := defs.Stage("nope"); ok {
		t.Error("Stage(nope) should not be found")
	}
}

func TestSetFlag_Implications(t *testing.T) {
	s := NewState(testDefs(), 1)

	added := SetFlag(s, types.FlagElleMet)
	for _, f := range []types.Flag{types.FlagElleMet, types.FlagElleFreed, types.FlagWitchDefeated} {
		if !HasFlag(s, f) {
			t.Errorf("expected flag %s", f)
		}
	}
	if len(added) != 3 {
		t.Errorf("added = %v, want 3 flags", added)
	}

	if again := SetFlag(s, types.FlagElleFreed); again != nil {
		t.Errorf("setting a present flag should add nothing, got %v", again)
	}
}

func TestSortedFlags(t *testing.T) {
	s := NewState(testDefs(), 1)
	SetFlag(s, types.FlagOgreDefeated)
	SetFlag(s, types.FlagFrogDefeated)

	flags := SortedFlags(s)
	if len(flags) != 2 || flags[0] != types.FlagFrogDefeated {
		t.Errorf("sorted flags = %v", flags)
	}
}

func TestEffective(t *testing.T) {
	defs := testDefs()

	tests := []struct {
		name  string
		setup func(p *types.Player)
		want  Stats
	}{
		{"base", func(p *types.Player) {}, Stats{MaxHP: 50, Attack: 8, Defense: 5}},
		{"weapon", func(p *types.Player) { p.Equipment[types.SlotWeapon] = "blade" }, Stats{MaxHP: 50, Attack: 10, Defense: 5}},
		{"armor", func(p *types.Player) { p.Equipment[types.SlotArmor] = "coat" }, Stats{MaxHP: 56, Attack: 8, Defense: 6}},
		{"unknown item ignored", func(p *types.Player) { p.Equipment[types.SlotAura] = "ghost" }, Stats{MaxHP: 50, Attack: 8, Defense: 5}},
		{"temp bonus", func(p *types.Player) { p.TempBonuses[types.StatAttack] = 4 }, Stats{MaxHP: 50, Attack: 12, Defense: 5}},
		{"floors", func(p *types.Player) {
			p.BaseAttack = -3
			p.BaseDefense = -2
			p.BaseMaxHP = 0
		}, Stats{MaxHP: 1, Attack: 1, Defense: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState(defs, 1)
			tt.setup(&s.Player)
			if got := Effective(&s.Player, defs); got != tt.want {
				t.Errorf("Effective = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestHeal_Clamps(t *testing.T) {
	defs := testDefs()
	s := NewState(defs, 1)
	s.Player.HP = 40

	if got := Heal(&s.Player, defs, 18); got != 10 {
		t.Errorf("Heal restored %d, want 10", got)
	}
	if s.Player.HP != 50 {
		t.Errorf("hp = %d, want 50", s.Player.HP)
	}
}

func TestAddBonus_Prunes(t *testing.T) {
	s := NewState(testDefs(), 1)
	AddBonus(&s.Player, types.StatAttack, 4)
	AddBonus(&s.Player, types.StatAttack, -4)
	if _, ok := s.Player.TempBonuses[types.StatAttack]; ok {
		t.Error("zero bonus should be pruned")
	}
}

func TestInventory(t *testing.T) {
	s := NewState(testDefs(), 1)
	p := &s.Player

	if RemoveItem(p, "potion", 3) {
		t.Error("removing more than held should fail")
	}
	if p.Inventory["potion"] != 2 {
		t.Errorf("failed removal changed inventory: %d", p.Inventory["potion"])
	}
	if !RemoveItem(p, "potion", 2) {
		t.Fatal("removing all potions should succeed")
	}
	if _, ok := p.Inventory["potion"]; ok {
		t.Error("zero-count entry should be deleted")
	}
	if HasItem(p, "potion") {
		t.Error("HasItem should be false after removal")
	}

	AddItem(p, "coat", 0)
	if HasItem(p, "coat") {
		t.Error("adding zero should not create an entry")
	}

	ids := InventoryIDs(p)
	if len(ids) != 1 || ids[0] != "blade" {
		t.Errorf("inventory ids = %v", ids)
	}
}

func TestXPToNextLevel(t *testing.T) {
	tests := []struct {
		level, want int
	}{
		{1, 40}, {2, 70}, {3, 100}, {10, 310},
	}
	for _, tt := range tests {
		if got := XPToNextLevel(tt.level); got != tt.want {
			t.Errorf("XPToNextLevel(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestAwardXP_LevelUps(t *testing.T) {
	tests := []struct {
		name               string
		xp                 int
		level, remaining   int
		maxHP, attack, def int
		lines              int
	}{
		{"one level", 95, 2, 55, 56, 9, 6, 2},
		{"two levels", 135, 3, 25, 62, 10, 7, 3},
		{"exact threshold", 40, 2, 0, 56, 9, 6, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defs := testDefs()
			s := NewState(defs, 1)
			s.Player.HP = 5

			lines := AwardXP(&s.Player, defs, tt.xp)

			p := s.Player
			if p.Level != tt.level || p.XP != tt.remaining {
				t.Errorf("level %d xp %d, want level %d xp %d", p.Level, p.XP, tt.level, tt.remaining)
			}
			if p.BaseMaxHP != tt.maxHP || p.BaseAttack != tt.attack || p.BaseDefense != tt.def {
				t.Errorf("base stats = %d/%d/%d, want %d/%d/%d",
					p.BaseMaxHP, p.BaseAttack, p.BaseDefense, tt.maxHP, tt.attack, tt.def)
			}
			if p.HP != tt.maxHP {
				t.Errorf("hp = %d, want full %d", p.HP, tt.maxHP)
			}
			if len(lines) != tt.lines || lines[0] != fmt.Sprintf("You gain %d XP.", tt.xp) {
				t.Errorf("lines = %q", lines)
			}
		})
	}
}

func TestAwardXP_NoLevel(t *testing.T) {
	defs := testDefs()
	s := NewState(defs, 1)
	lines := AwardXP(&s.Player, defs, 39)
	if s.Player.Level != 1 || len(lines) != 1 {
		t.Errorf("level %d lines %q", s.Player.Level, lines)
	}
	if AwardXP(&s.Player, defs, 0) != nil {
		t.Error("zero xp should produce no lines")
	}
}
