// Package rules evaluates content requirements against the session state.
package rules

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/nathoo/byteworld/engine/state"
	"github.com/nathoo/byteworld/types"
)

// DefaultBlockedMessage is shown when a gated exit carries no message.
const DefaultBlockedMessage = "That path is blocked for now."

// Met reports whether every populated field of the requirement holds.
// The zero Requirement is always met.
func Met(req types.Requirement, s *types.State) bool {
	if !FlagsMet(req, s.Flags) {
		return false
	}
	if req.Item != "" && !state.HasItem(&s.Player, req.Item) {
		return false
	}
	if req.Location != "" && s.Location != req.Location {
		return false
	}
	return true
}

// FlagsMet evaluates only the flag clauses of a requirement.
func FlagsMet(req types.Requirement, flags mapset.Set[types.Flag]) bool {
	for _, f := range req.AllFlags {
		if !flags.Has(f) {
			return false
		}
	}
	if len(req.AnyFlags) > 0 {
		found := false
		for _, f := range req.AnyFlags {
			if flags.Has(f) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, f := range req.NoFlags {
		if flags.Has(f) {
			return false
		}
	}
	return true
}

// Blocked reports whether an optional requirement blocks the player, and
// the message to show if so. A nil requirement never blocks.
func Blocked(req *types.Requirement, s *types.State) (string, bool) {
	if req == nil || Met(*req, s) {
		return "", false
	}
	if req.Message != "" {
		return req.Message, true
	}
	return DefaultBlockedMessage, true
}

// MetLines returns the text of every line whose requirement holds, in order.
func MetLines(lines []types.Line, s *types.State) []string {
	var out []string
	for _, l := range lines {
		if Met(l.When, s) {
			out = append(out, l.Text)
		}
	}
	return out
}
