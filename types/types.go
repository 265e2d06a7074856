// Package types defines the shared data structures for the byteworld engine.
// This package contains only type definitions and fixed vocabularies, no logic.
package types

import "github.com/zyedidia/generic/mapset"

// Command is the parsed representation of a player command.
type Command struct {
	Verb string
	Args []string
}

// Event is emitted when a step changes something worth tracing.
type Event struct {
	Type string
	Data map[string]any
}

// Result is the output of a single game step.
type Result struct {
	Events []Event
	Output []string
}

// Player holds the player's runtime state. Base stats exclude gear and
// temporary bonuses.
type Player struct {
	Name        string
	BaseMaxHP   int
	BaseAttack  int
	BaseDefense int
	HP          int
	XP          int
	Level       int
	SkillPoints int
	Gold        int
	Inventory   map[string]int // item id -> count, never zero
	Equipment   [NumSlots]string
	Skills      mapset.Set[Skill]
	Cooldowns   map[Skill]int // absent = ready
	Titles      []string
	TempBonuses map[Stat]int // zero entries pruned
	Surge       string       // item whose surge is active, "" when none
}

// Encounter is the live state of one fight or negotiation.
type Encounter struct {
	EnemyID       string
	HP            int
	IntentIndex   int
	Defending     bool
	Phase         Phase
	BarrierActive bool
	TurnCount     int
}

// State is the complete mutable game state of one session.
type State struct {
	Player     Player
	Location   string
	QuestStage string
	Flags      mapset.Set[Flag]
	Encounter  *Encounter // nil when no encounter is live
	Discovered mapset.Set[string]
	TurnCount  int
	GameOver   bool
	Victory    bool

	VictoryAnnounced bool
	Seed             int64
	CommandLog       []string
}
