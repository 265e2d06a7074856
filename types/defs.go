package types

// Requirement is a predicate over the session state. Empty fields are not
// checked, so the zero Requirement always holds.
type Requirement struct {
	AllFlags []Flag
	AnyFlags []Flag
	NoFlags  []Flag
	Item     string // must be held
	Location string // must be the current location
	Message  string // shown when the requirement blocks an action
}

// Weighted is one entry of a weighted table.
type Weighted struct {
	ID     string
	Weight int
}

// ItemStack is a quantity of one item.
type ItemStack struct {
	ID    string
	Count int
}

// Line is a line of text shown only while its requirement holds.
type Line struct {
	When Requirement
	Text string
}

// PlayerDef holds the starting player.
type PlayerDef struct {
	Name      string
	MaxHP     int
	Attack    int
	Defense   int
	Gold      int
	Inventory []ItemStack
	Equipment [NumSlots]string
}

// GameDef holds game metadata and world-wide settings.
type GameDef struct {
	Title        string
	Author       string
	Version      string
	Intro        string
	Start        string // starting location ID
	SafeHaven    string // where a defeated player wakes up
	Player       PlayerDef
	RarityTables map[string][]Weighted
	RareTable    string   // table rolled for rare extra drops
	Landmarks    []string // locations listed by the map command
}

// Exit is one edge of the world graph.
type Exit struct {
	Direction string
	To        string
	Requires  *Requirement
}

// Cutscene is a one-time scripted entry event.
type Cutscene struct {
	Requires  Requirement
	Flag      Flag // set when the cutscene plays
	Lines     []string
	Teleport  string
	Encounter string
}

// LocationDef is the definition of a location.
type LocationDef struct {
	ID                 string
	Name               string
	Area               string
	Descriptions       []string
	Exits              []Exit // declaration order
	EncounterChance    float64
	Encounters         []Weighted
	BossID             string
	BossFlag           Flag
	BossRequires       []Flag
	SkillPointsPerKill int
	SenseHint          string
	SenseHints         []Line
	Cutscene           *Cutscene
}

// Intent is a telegraphed enemy action.
type Intent struct {
	Name             string
	Telegraph        string
	BaseDamage       int
	DefendMultiplier float64
}

// Negotiation holds the text of a pre-combat negotiation.
type Negotiation struct {
	PassFlag   Flag
	JokeLines  []string
	BribeLines []string // "{n}" is replaced with the gold taken
	BrokeLine  string
	FightLine  string
	MockLine   string
	NoFleeLine string
}

// Barrier negates player damage until the breaker item is used.
type Barrier struct {
	BreakerItem   string
	CurseDamage   int
	BlockedStrike string
	BlockedSkill  string
	CurseLine     string // "{n}" is replaced with the curse damage
	BrokenLine    string
}

// Penalty is a chance of losing one base stat point on defeat.
type Penalty struct {
	Chance      float64
	AttackLine  string
	DefenseLine string
	HealthLine  string
}

// Liberation sets a flag on victory when the player holds an item.
type Liberation struct {
	Item string
	Flag Flag
	Line string
}

// EnemyDef is the definition of an enemy or boss.
type EnemyDef struct {
	ID                string
	Name              string
	Category          Category
	HP                int
	Attack            int
	Defense           int
	XPReward          int
	GoldReward        int
	SkillPointsReward int
	LootTable         []Weighted
	GuaranteedDrops   []string
	Intents           []Intent
	Special           Special
	PreDialogue       []string
	PostDialogue      []string
	DefeatFlag        Flag
	Grants            []Flag
	Title             string
	FleeChance        float64 // overrides the category default when > 0
	SurgeItem         string  // surge activated at encounter start if held
	Negotiation       *Negotiation
	Barrier           *Barrier
	Penalty           *Penalty
	Liberation        *Liberation
}

// Surge is a temporary stat boost granted by an item.
type Surge struct {
	Attack      int
	Defense     int
	UseLine     string
	QuietLine   string
	TriggerLine string
}

// ItemUse is a scripted effect of using an item. The first use whose
// requirement holds is applied.
type ItemUse struct {
	Requires Requirement
	Enemy    string // only while fighting this enemy
	Turn     bool   // consumes a combat turn
	Consume  bool
	Gold     int
	SetFlags []Flag
	Victory  bool
	Lines    []string
}

// ItemDef is the definition of an item.
type ItemDef struct {
	ID               string
	Name             string
	Type             ItemType
	Description      string
	AttackBonus      int
	DefenseBonus     int
	MaxHPBonus       int
	HealAmount       int
	SkillPointsBonus int
	Value            int
	Surge            *Surge
	Uses             []ItemUse
	UseFail          string
}

// Closing is dialogue that replaces the repeat lines once a beat is reached.
type Closing struct {
	When  Requirement
	Lines []string
}

// NPCDef is the definition of a talkable character.
type NPCDef struct {
	ID           string
	Name         string
	Location     string
	Visible      *Requirement
	TalkRequires *Requirement
	MetFlag      Flag
	TeachSkills  bool
	First        []string
	FirstHints   []Line
	Repeat       []string
	Closing      *Closing
	Hints        []Line
}

// QuestStageDef is one stage of the main quest. A stage is current while
// its completion requirement is unmet and every earlier one is met.
type QuestStageDef struct {
	ID          string
	Title       string
	Description string
	Hint        string
	Target      string // location the map command recommends
	Complete    Requirement
}
