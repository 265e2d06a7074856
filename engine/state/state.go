// Package state holds the immutable content registry and the helpers that
// mutate a session's state while keeping its invariants.
package state

import (
	"sort"

	"github.com/zyedidia/generic/mapset"

	"github.com/nathoo/byteworld/types"
)

// Defs holds the immutable game definitions loaded from Lua. A Defs value is
// never mutated after loading and may be shared by any number of sessions.
type Defs struct {
	Game      types.GameDef
	Locations map[string]types.LocationDef
	Enemies   map[string]types.EnemyDef
	Items     map[string]types.ItemDef
	NPCs      map[string]types.NPCDef
	Stages    []types.QuestStageDef // quest order
}

// NewState creates a fresh session state from definitions.
func NewState(defs *Defs, seed int64) *types.State {
	pd := defs.Game.Player
	p := types.Player{
		Name:        pd.Name,
		BaseMaxHP:   pd.MaxHP,
		BaseAttack:  pd.Attack,
		BaseDefense: pd.Defense,
		HP:          pd.MaxHP,
		Level:       1,
		Gold:        pd.Gold,
		Inventory:   map[string]int{},
		Equipment:   pd.Equipment,
		Skills:      mapset.New[types.Skill](),
		Cooldowns:   map[types.Skill]int{},
		TempBonuses: map[types.Stat]int{},
	}
	for _, st := range pd.Inventory {
		AddItem(&p, st.ID, st.Count)
	}

	s := &types.State{
		Player:     p,
		Location:   defs.Game.Start,
		Flags:      mapset.New[types.Flag](),
		Discovered: mapset.New[string](),
		Seed:       seed,
		CommandLog: []string{},
	}
	if len(defs.Stages) > 0 {
		s.QuestStage = defs.Stages[0].ID
	}
	s.Discovered.Put(s.Location)
	ClampHP(&s.Player, defs)
	return s
}

// ItemName returns an item's display name, or the raw id if unknown.
func (d *Defs) ItemName(id string) string {
	if it, ok := d.Items[id]; ok && it.Name != "" {
		return it.Name
	}
	return id
}

// EnemyName returns an enemy's display name, or the raw id if unknown.
func (d *Defs) EnemyName(id string) string {
	if en, ok := d.Enemies[id]; ok && en.Name != "" {
		return en.Name
	}
	return id
}

// LocationName returns a location's display name, or the raw id if unknown.
func (d *Defs) LocationName(id string) string {
	if loc, ok := d.Locations[id]; ok && loc.Name != "" {
		return loc.Name
	}
	return id
}

// Stage returns the quest stage with the given id.
func (d *Defs) Stage(id string) (types.QuestStageDef, bool) {
	for _, st := range d.Stages {
		if st.ID == id {
			return st, true
		}
	}
	return types.QuestStageDef{}, false
}

// NPCsAt returns the NPCs placed at a location, sorted by id.
func (d *Defs) NPCsAt(locationID string) []types.NPCDef {
	var npcs []types.NPCDef
	for _, npc := range d.NPCs {
		if npc.Location == locationID {
			npcs = append(npcs, npc)
		}
	}
	sort.Slice(npcs, func(i, j int) bool { return npcs[i].ID < npcs[j].ID })
	return npcs
}

// HasFlag reports whether a flag is set.
func HasFlag(s *types.State, f types.Flag) bool {
	return s.Flags.Has(f)
}

// SetFlag adds a flag and every flag it implies. It returns the flags that
// were newly added, in the order they were added.
func SetFlag(s *types.State, f types.Flag) []types.Flag {
	if f == "" || s.Flags.Has(f) {
		return nil
	}
	s.Flags.Put(f)
	added := []types.Flag{f}
	for _, info := range types.FlagCatalog {
		if info.Flag != f {
			continue
		}
		for _, implied := range info.Implies {
			added = append(added, SetFlag(s, implied)...)
		}
	}
	return added
}

// SortedFlags returns the flag set in lexical order.
func SortedFlags(s *types.State) []types.Flag {
	flags := make([]types.Flag, 0, s.Flags.Size())
	s.Flags.Each(func(f types.Flag) {
		flags = append(flags, f)
	})
	sort.Slice(flags, func(i, j int) bool { return flags[i] < flags[j] })
	return flags
}
