// Package quest derives the current main-quest stage from the flag set.
package quest

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/nathoo/byteworld/engine/rules"
	"github.com/nathoo/byteworld/types"
)

// Derive returns the index of the current stage: the first stage whose
// completion requirement is unmet. The final stage has no successor, so it
// is current once every earlier stage is complete. Stage completion depends
// only on flags, and flags are never removed, so the derived index never
// decreases as flags are added. Derive returns -1 for an empty stage list.
func Derive(stages []types.QuestStageDef, flags mapset.Set[types.Flag]) int {
	if len(stages) == 0 {
		return -1
	}
	last := len(stages) - 1
	for i, st := range stages[:last] {
		if !rules.FlagsMet(st.Complete, flags) {
			return i
		}
	}
	return last
}

// IsFinal reports whether the index is the last stage.
func IsFinal(stages []types.QuestStageDef, index int) bool {
	return len(stages) > 0 && index == len(stages)-1
}
