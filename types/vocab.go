package types

// Flag is a named story beat. Flags are only ever added to the flag set.
type Flag string

const (
	FlagMetOldMan          Flag = "met_old_man"
	FlagFrogDefeated       Flag = "frog_defeated"
	FlagDragonDefeated     Flag = "dragon_defeated"
	FlagOgreDefeated       Flag = "ogre_defeated"
	FlagGoblinArmyDefeated Flag = "goblin_army_defeated"
	FlagGoblinPassGranted  Flag = "goblin_pass_granted"
	FlagMakorDefeated      Flag = "makor_defeated"
	FlagBlackHallCutscene  Flag = "black_hall_cutscene_seen"
	FlagWitchDefeated      Flag = "onyx_witch_defeated"
	FlagElleFreed          Flag = "elle_freed"
	FlagElleMet            Flag = "elle_met"
	FlagElleCleansed       Flag = "elle_cleansed"
	FlagHoardDelivered     Flag = "hoard_delivered"
)

// FlagInfo documents one flag: the beat that sets it and the flags it
// implies. No flag is ever cleared.
type FlagInfo struct {
	Flag    Flag
	SetBy   string
	Implies []Flag
}

// FlagCatalog is the closed set of progress flags.
var FlagCatalog = []FlagInfo{
	{FlagMetOldMan, "first conversation with the Wise Old Man", nil},
	{FlagFrogDefeated, "defeating the Giant Frog", nil},
	{FlagDragonDefeated, "defeating the Ash Dragon", nil},
	{FlagOgreDefeated, "defeating the Hoard Ogre", nil},
	{FlagGoblinArmyDefeated, "defeating the Army of Goblins in combat", nil},
	{FlagGoblinPassGranted, "joking with, bribing, or beating the Army of Goblins", nil},
	{FlagMakorDefeated, "defeating King Makor", nil},
	{FlagBlackHallCutscene, "first entry into the Black Hall while Makor lives", nil},
	{FlagWitchDefeated, "defeating the Onyx Witch", nil},
	{FlagElleFreed, "unlocking Elle's chains with the crusty key", []Flag{FlagWitchDefeated}},
	{FlagElleMet, "first conversation with Elle", []Flag{FlagElleFreed}},
	{FlagElleCleansed, "pouring the vial of tears over Elle", []Flag{FlagElleFreed}},
	{FlagHoardDelivered, "handing the ogre's hoard to the Wise Old Man", nil},
}

// Skill identifies a learnable combat skill.
type Skill string

const (
	SkillFocusStrike Skill = "focus strike"
	SkillGuardStance Skill = "guard stance"
	SkillSecondWind  Skill = "second wind"
)

// SkillInfo is the effect metadata of a skill. Multiplier 0 means the skill
// deals no damage.
type SkillInfo struct {
	Title      string
	Cooldown   int
	Multiplier float64
	Heal       int
	Defend     bool
	Line       string // printf template, receives Heal
	Summary    string
}

// SkillCatalog holds every skill the engine knows how to resolve.
var SkillCatalog = map[Skill]SkillInfo{
	SkillFocusStrike: {
		Title:      "Focus Strike",
		Cooldown:   2,
		Multiplier: 1.8,
		Summary:    "Heavy attack (about 1.8x damage), 2-turn cooldown.",
	},
	SkillGuardStance: {
		Title:    "Guard Stance",
		Cooldown: 3,
		Heal:     6,
		Defend:   true,
		Line:     "You enter Guard Stance, reducing incoming damage and restoring %d HP.",
		Summary:  "Defend this turn and restore 6 HP, 3-turn cooldown.",
	},
	SkillSecondWind: {
		Title:    "Second Wind",
		Cooldown: 4,
		Heal:     16,
		Line:     "Second Wind restores %d HP.",
		Summary:  "Restore 16 HP, 4-turn cooldown.",
	},
}

// CoreSkills are taught together by a mentor NPC.
var CoreSkills = []Skill{SkillFocusStrike, SkillGuardStance, SkillSecondWind}

// Stat identifies a stat that temporary bonuses can modify.
type Stat string

const (
	StatAttack  Stat = "attack"
	StatDefense Stat = "defense"
	StatMaxHP   Stat = "max_hp"
)

// Slot is an equipment slot index.
type Slot int

const (
	SlotWeapon Slot = iota
	SlotArmor
	SlotShield
	SlotAccessory
	SlotAura
	NumSlots
)

// SlotNames are the display names of the equipment slots, in slot order.
var SlotNames = [NumSlots]string{"weapon", "armor", "shield", "accessory", "aura"}

// ItemType classifies items.
type ItemType string

const (
	ItemWeapon     ItemType = "weapon"
	ItemArmor      ItemType = "armor"
	ItemShield     ItemType = "shield"
	ItemAccessory  ItemType = "accessory"
	ItemAura       ItemType = "aura"
	ItemConsumable ItemType = "consumable"
	ItemKey        ItemType = "key"
	ItemQuest      ItemType = "quest"
	ItemBoon       ItemType = "boon"
)

// SlotForType maps equippable item types to their slot.
var SlotForType = map[ItemType]Slot{
	ItemWeapon:    SlotWeapon,
	ItemArmor:     SlotArmor,
	ItemShield:    SlotShield,
	ItemAccessory: SlotAccessory,
	ItemAura:      SlotAura,
}

// Category separates ordinary enemies from bosses.
type Category string

const (
	CategoryNormal Category = "normal"
	CategoryBoss   Category = "boss"
)

// Special marks enemies with a scripted phase.
type Special string

const (
	SpecialNone        Special = ""
	SpecialNegotiation Special = "negotiation"
	SpecialBarrier     Special = "barrier"
)

// Phase is the branch an encounter is in.
type Phase string

const (
	PhaseCombat      Phase = "combat"
	PhaseNegotiation Phase = "negotiation"
)
