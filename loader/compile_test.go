package loader

import (
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/byteworld/types"
)

// newTestVM creates a sandboxed Lua VM with the API registered and a fresh collector.
func newTestVM() (*lua.LState, *collector) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibs(L)
	sandbox(L)
	coll := &collector{}
	registerAPI(L, coll)
	return L, coll
}

// run executes Lua source against a fresh VM and returns the collector.
func run(t *testing.T, src string) *collector {
	t.Helper()
	L, coll := newTestVM()
	defer L.Close()
	if err := L.DoString(src); err != nil {
		t.Fatal(err)
	}
	return coll
}

func TestCompileGame(t *testing.T) {
	coll := run(t, `
		Game {
			title = "Test Game",
			author = "Author",
			version = "1.0",
			start = "hall",
			intro = "Welcome!",
			landmarks = { "hall", "yard" },
			player = {
				name = "Hero", max_hp = 30, attack = 4, defense = 2, gold = 7,
				inventory = { potion = 2, blade = 1 },
				equipment = { weapon = "blade" },
			},
		}
	`)

	game, err := compileGame(coll.game)
	if err != nil {
		t.Fatal(err)
	}
	if game.Title != "Test Game" || game.Author != "Author" || game.Version != "1.0" {
		t.Errorf("metadata = %q/%q/%q", game.Title, game.Author, game.Version)
	}
	if game.SafeHaven != "hall" {
		t.Errorf("SafeHaven = %q, want start room", game.SafeHaven)
	}
	if len(game.Landmarks) != 2 || game.Landmarks[1] != "yard" {
		t.Errorf("Landmarks = %v", game.Landmarks)
	}

	p := game.Player
	if p.Name != "Hero" || p.MaxHP != 30 || p.Attack != 4 || p.Defense != 2 || p.Gold != 7 {
		t.Errorf("player = %+v", p)
	}
	want := []types.ItemStack{{ID: "blade", Count: 1}, {ID: "potion", Count: 2}}
	if len(p.Inventory) != len(want) {
		t.Fatalf("inventory = %v, want %v", p.Inventory, want)
	}
	for i := range want {
		if p.Inventory[i] != want[i] {
			t.Errorf("inventory[%d] = %v, want %v", i, p.Inventory[i], want[i])
		}
	}
	if p.Equipment[types.SlotWeapon] != "blade" {
		t.Errorf("weapon slot = %q", p.Equipment[types.SlotWeapon])
	}
}

func TestCompileGame_UnknownSlot(t *testing.T) {
	coll := run(t, `Game { title = "T", start = "a", player = { equipment = { boots = "x" } } }`)
	if _, err := compileGame(coll.game); err == nil {
		t.Fatal("expected error for unknown equipment slot")
	}
}

func TestCompileLocation_ExitsAndGates(t *testing.T) {
	coll := run(t, `
		Location "forest" {
			name = "Forest",
			area = "Woods",
			descriptions = { "Trees.", "More trees." },
			exits = {
				Exit("west", "shack"),
				Exit("north", "peak", Requires { all = { "frog_defeated" }, message = "Not yet." }),
			},
			encounter_chance = 0.5,
			encounters = { { "wolf", 3 }, { "rat", 1 } },
			skill_points_per_kill = 2,
			sense_hint = "Wind.",
			sense_hints = {
				When(Requires { none = { "met_old_man" } }, "Someone waits."),
			},
		}
	`)
	if len(coll.locations) != 1 {
		t.Fatalf("collected %d locations", len(coll.locations))
	}
	loc, err := compileLocation(coll.locations[0])
	if err != nil {
		t.Fatal(err)
	}

	if loc.ID != "forest" || loc.Name != "Forest" || loc.Area != "Woods" {
		t.Errorf("location = %+v", loc)
	}
	if len(loc.Exits) != 2 || loc.Exits[0].Direction != "west" || loc.Exits[1].Direction != "north" {
		t.Fatalf("exits = %+v, want declaration order", loc.Exits)
	}
	if loc.Exits[0].Requires != nil {
		t.Error("ungated exit should have nil Requires")
	}
	gate := loc.Exits[1].Requires
	if gate == nil || len(gate.AllFlags) != 1 || gate.AllFlags[0] != types.FlagFrogDefeated || gate.Message != "Not yet." {
		t.Errorf("gate = %+v", gate)
	}
	if loc.EncounterChance != 0.5 || loc.SkillPointsPerKill != 2 {
		t.Errorf("chance = %v, sp = %d", loc.EncounterChance, loc.SkillPointsPerKill)
	}
	if len(loc.Encounters) != 2 || loc.Encounters[0] != (types.Weighted{ID: "wolf", Weight: 3}) {
		t.Errorf("encounters = %v", loc.Encounters)
	}
	if len(loc.SenseHints) != 1 || loc.SenseHints[0].Text != "Someone waits." {
		t.Errorf("sense hints = %+v", loc.SenseHints)
	}
}

func TestCompileLocation_Cutscene(t *testing.T) {
	coll := run(t, `
		Location "hall" {
			name = "Hall",
			boss = "king",
			boss_flag = "makor_defeated",
			boss_requires = { "dragon_defeated" },
			cutscene = {
				requires = Requires { none = { "makor_defeated" } },
				flag = "black_hall_cutscene_seen",
				lines = { "Darkness." },
				teleport = "cell",
				encounter = "king",
			},
		}
	`)
	loc, err := compileLocation(coll.locations[0])
	if err != nil {
		t.Fatal(err)
	}
	if loc.BossID != "king" || loc.BossFlag != types.FlagMakorDefeated {
		t.Errorf("boss = %q/%q", loc.BossID, loc.BossFlag)
	}
	if len(loc.BossRequires) != 1 || loc.BossRequires[0] != types.FlagDragonDefeated {
		t.Errorf("boss requires = %v", loc.BossRequires)
	}
	cs := loc.Cutscene
	if cs == nil {
		t.Fatal("expected cutscene")
	}
	if cs.Flag != types.FlagBlackHallCutscene || cs.Teleport != "cell" || cs.Encounter != "king" {
		t.Errorf("cutscene = %+v", cs)
	}
	if len(cs.Requires.NoFlags) != 1 || len(cs.Lines) != 1 {
		t.Errorf("cutscene requires/lines = %+v / %v", cs.Requires, cs.Lines)
	}
}

func TestCompileEnemy(t *testing.T) {
	coll := run(t, `
		Enemy "rat" { name = "Rat", hp = 10, attack = 3, defense = 1, xp = 5, gold = 2,
			loot = { { "potion", 1 } } }
		Enemy "army" {
			name = "Army",
			category = "boss",
			hp = 100, attack = 10, defense = 5,
			xp = 50, gold = 40, skill_points = 6,
			drops = { "riddle" },
			defeat_flag = "goblin_army_defeated",
			grants = { "goblin_pass_granted" },
			title = "Reaper",
			flee_chance = 0.22,
			special = "negotiation",
			intents = {
				Intent("Rush", "They charge.", 18, 0.45),
				Intent("Volley", "Javelins rise.", 21),
			},
			negotiation = { pass_flag = "goblin_pass_granted", joke = { "Ha." }, broke = "No gold." },
			penalty = { chance = 0.5, attack = "Ouch." },
		}
	`)
	if len(coll.enemies) != 2 {
		t.Fatalf("collected %d enemies", len(coll.enemies))
	}

	rat, err := compileEnemy(coll.enemies[0])
	if err != nil {
		t.Fatal(err)
	}
	if rat.Category != types.CategoryNormal {
		t.Errorf("default category = %q, want normal", rat.Category)
	}
	if rat.XPReward != 5 || rat.GoldReward != 2 || len(rat.LootTable) != 1 {
		t.Errorf("rat = %+v", rat)
	}

	army, err := compileEnemy(coll.enemies[1])
	if err != nil {
		t.Fatal(err)
	}
	if army.Category != types.CategoryBoss || army.Special != types.SpecialNegotiation {
		t.Errorf("category/special = %q/%q", army.Category, army.Special)
	}
	if army.SkillPointsReward != 6 || army.FleeChance != 0.22 || army.Title != "Reaper" {
		t.Errorf("army = %+v", army)
	}
	if len(army.Intents) != 2 {
		t.Fatalf("intents = %+v", army.Intents)
	}
	if army.Intents[0] != (types.Intent{Name: "Rush", Telegraph: "They charge.", BaseDamage: 18, DefendMultiplier: 0.45}) {
		t.Errorf("intent[0] = %+v", army.Intents[0])
	}
	if army.Intents[1].DefendMultiplier != 0.5 {
		t.Errorf("intent[1] defend = %v, want default 0.5", army.Intents[1].DefendMultiplier)
	}
	if army.Negotiation == nil || army.Negotiation.PassFlag != types.FlagGoblinPassGranted || army.Negotiation.BrokeLine != "No gold." {
		t.Errorf("negotiation = %+v", army.Negotiation)
	}
	if army.Penalty == nil || army.Penalty.Chance != 0.5 || army.Penalty.AttackLine != "Ouch." {
		t.Errorf("penalty = %+v", army.Penalty)
	}
	if len(army.Grants) != 1 || army.DefeatFlag != types.FlagGoblinArmyDefeated {
		t.Errorf("flags = %v / %q", army.Grants, army.DefeatFlag)
	}
}

func TestCompileItem_SurgeAndUses(t *testing.T) {
	coll := run(t, `
		Item "ring" {
			name = "Ring", type = "accessory", attack = 1, defense = 1, value = 60,
			surge = { attack = 4, defense = 2, use = "Power.", quiet = "Quiet.", trigger = "Flare." },
		}
		Item "vial" {
			name = "Vial", type = "quest",
			uses = {
				{
					requires = Requires { at = "terrace", all = { "elle_freed" } },
					consume = true, victory = true, gold = 5,
					set_flags = { "elle_cleansed" },
					lines = { "Cleansed." },
				},
			},
			use_fail = "Nothing.",
		}
	`)
	ring := compileItem(coll.items[0])
	if ring.Surge == nil || ring.Surge.Attack != 4 || ring.Surge.Defense != 2 || ring.Surge.TriggerLine != "Flare." {
		t.Errorf("surge = %+v", ring.Surge)
	}
	if ring.AttackBonus != 1 || ring.DefenseBonus != 1 || ring.Value != 60 {
		t.Errorf("ring = %+v", ring)
	}

	vial := compileItem(coll.items[1])
	if vial.UseFail != "Nothing." || len(vial.Uses) != 1 {
		t.Fatalf("vial = %+v", vial)
	}
	u := vial.Uses[0]
	if !u.Consume || !u.Victory || u.Turn || u.Gold != 5 {
		t.Errorf("use = %+v", u)
	}
	if u.Requires.Location != "terrace" || len(u.SetFlags) != 1 || u.SetFlags[0] != types.FlagElleCleansed {
		t.Errorf("use requires/flags = %+v / %v", u.Requires, u.SetFlags)
	}
}

func TestCompileNPC(t *testing.T) {
	coll := run(t, `
		NPC "elle" {
			name = "Elle",
			location = "terrace",
			visible = Requires { all = { "onyx_witch_defeated" } },
			talk_requires = Requires { all = { "elle_freed" }, message = "Bound." },
			met_flag = "elle_met",
			first = { "Hello." },
			["repeat"] = { "Again." },
			closing = { when = Requires { all = { "elle_cleansed" } }, lines = { "Home." } },
		}
	`)
	npc := compileNPC(coll.npcs[0])
	if npc.Location != "terrace" || npc.MetFlag != types.FlagElleMet || npc.TeachSkills {
		t.Errorf("npc = %+v", npc)
	}
	if npc.Visible == nil || npc.TalkRequires == nil || npc.TalkRequires.Message != "Bound." {
		t.Errorf("requirements = %+v / %+v", npc.Visible, npc.TalkRequires)
	}
	if len(npc.Repeat) != 1 || npc.Closing == nil || npc.Closing.Lines[0] != "Home." {
		t.Errorf("dialogue = %v / %+v", npc.Repeat, npc.Closing)
	}
}

func TestCompileWeighted_BadEntry(t *testing.T) {
	coll := run(t, `Location "a" { encounters = { { "wolf" } } }`)
	if _, err := compileLocation(coll.locations[0]); err == nil {
		t.Fatal("expected error for entry without weight")
	}
}

func TestCompile_StagesKeepOrder(t *testing.T) {
	coll := run(t, `
		Game { title = "T", start = "a" }
		Stage "first" { title = "First", complete = Requires { all = { "met_old_man" } } }
		Stage "second" { title = "Second", target = "a" }
		RarityTable "common" { { "gem", 2 } }
	`)
	defs, err := compile(coll)
	if err != nil {
		t.Fatal(err)
	}
	if len(defs.Stages) != 2 || defs.Stages[0].ID != "first" || defs.Stages[1].Target != "a" {
		t.Errorf("stages = %+v", defs.Stages)
	}
	if w := defs.Game.RarityTables["common"]; len(w) != 1 || w[0].Weight != 2 {
		t.Errorf("rarity table = %v", w)
	}
}

func TestCompile_Duplicates(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"location", `Location "a" {} Location "a" {}`, "duplicate location"},
		{"enemy", `Enemy "a" {} Enemy "a" {}`, "duplicate enemy"},
		{"item", `Item "a" {} Item "a" {}`, "duplicate item"},
		{"npc", `NPC "a" {} NPC "a" {}`, "duplicate npc"},
		{"stage", `Stage "a" {} Stage "a" {}`, "duplicate stage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coll := run(t, `Game { title = "T", start = "x" } `+tt.src)
			_, err := compile(coll)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}
