package rules

import (
	"github.com/nathoo/byteworld/types"
)

// MatchUse returns the first scripted use of an item that applies right now.
// A use applies when its requirement holds and, if it names an enemy, that
// enemy is the one currently being fought.
func MatchUse(uses []types.ItemUse, s *types.State) (types.ItemUse, bool) {
	for _, use := range uses {
		if use.Enemy != "" && (s.Encounter == nil || s.Encounter.EnemyID != use.Enemy) {
			continue
		}
		if !Met(use.Requires, s) {
			continue
		}
		return use, true
	}
	return types.ItemUse{}, false
}
