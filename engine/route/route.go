// Package route computes direction paths over the location graph.
package route

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/nathoo/byteworld/engine/rules"
	"github.com/nathoo/byteworld/engine/state"
	"github.com/nathoo/byteworld/types"
)

type node struct {
	location string
	path     []string
}

// ShortestPath returns the shortest sequence of directions leading from one
// location to another. Exits are expanded in declaration order, so among
// equally short paths the one found first wins. When respectGating is set,
// exits whose requirement is unmet are skipped. The bool is false when no
// path exists. A path from a location to itself is empty.
func ShortestPath(defs *state.Defs, s *types.State, from, to string, respectGating bool) ([]string, bool) {
	if from == to {
		return []string{}, true
	}
	visited := mapset.New[string]()
	visited.Put(from)
	queue := []node{{location: from}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		loc, ok := defs.Locations[cur.location]
		if !ok {
			continue
		}
		for _, exit := range loc.Exits {
			if visited.Has(exit.To) {
				continue
			}
			if respectGating {
				if _, blocked := rules.Blocked(exit.Requires, s); blocked {
					continue
				}
			}
			path := make([]string, len(cur.path), len(cur.path)+1)
			copy(path, cur.path)
			path = append(path, exit.Direction)
			if exit.To == to {
				return path, true
			}
			visited.Put(exit.To)
			queue = append(queue, node{location: exit.To, path: path})
		}
	}
	return nil, false
}

// FirstStep returns the first direction of the shortest path, if any.
func FirstStep(defs *state.Defs, s *types.State, from, to string, respectGating bool) (string, bool) {
	path, ok := ShortestPath(defs, s, from, to, respectGating)
	if !ok || len(path) == 0 {
		return "", false
	}
	return path[0], true
}
