package runtime

import (
	"sort"

	"github.com/juju/errors"
)

const (
	levelUnvisited = iota
	levelVisiting
	levelDone
)

/**
 * computeLevels assigns level(n) = 0 without dependencies, otherwise
 * 1 + max(level(dep)). It is only used for visualization, never for
 * scheduling. Dependencies outside the node set are ignored. A cycle is
 * reported as an error instead of recursing forever.
 */
func computeLevels(idx *nodeIndex) (map[string]int, error) {
	levels := make(map[string]int, len(idx.nodes))
	state := make(map[string]int, len(idx.nodes))

	var visit func(id string, path []string) (int, error)
	visit = func(id string, path []string) (int, error) {
		switch state[id] {
		case levelDone:
			return levels[id], nil
		case levelVisiting:
			return 0, errors.NotValidf("graph is not acyclic, cycle through %v", append(path, id))
		}
		state[id] = levelVisiting

		level := 0
		for _, dep := range idx.deps[id] {
			if !idx.has(dep) {
				continue
			}
			depLevel, err := visit(dep, append(path, id))
			if err != nil {
				return 0, err
			}
			if depLevel+1 > level {
				level = depLevel + 1
			}
		}

		state[id] = levelDone
		levels[id] = level
		return level, nil
	}

	for _, n := range idx.nodes {
		if _, err := visit(n.ID, nil); err != nil {
			return nil, errors.Trace(err)
		}
	}
	return levels, nil
}

// groupByLevel returns ids per level, sorted within a level.
func groupByLevel(levels map[string]int) [][]string {
	maxLevel := -1
	for _, l := range levels {
		if l > maxLevel {
			maxLevel = l
		}
	}
	groups := make([][]string, maxLevel+1)
	for id, l := range levels {
		groups[l] = append(groups[l], id)
	}
	for _, g := range groups {
		sort.Strings(g)
	}
	return groups
}
