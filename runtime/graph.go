package runtime

import (
	"github.com/juju/errors"
	"github.com/warriorguo/waveflow/types"
	"github.com/warriorguo/waveflow/utils"
)

/**
 * nodeIndex is the validated, read-only view of the nodes one execution
 * was given. nodes keeps the caller's declaration order.
 */
type nodeIndex struct {
	nodes []*types.Node
	byID  map[string]*types.Node
	// deps holds each node's dependencies with duplicates collapsed
	deps map[string][]string
}

func newNodeIndex(nodes []*types.Node) (*nodeIndex, error) {
	idx := &nodeIndex{
		nodes: make([]*types.Node, 0, len(nodes)),
		byID:  make(map[string]*types.Node, len(nodes)),
		deps:  make(map[string][]string, len(nodes)),
	}
	for i, n := range nodes {
		if n == nil {
			return nil, errors.NotValidf("nil node at position %d", i)
		}
		if n.ID == "" {
			return nil, errors.NotValidf("empty node id at position %d", i)
		}
		if _, exists := idx.byID[n.ID]; exists {
			return nil, errors.AlreadyExistsf("node id %q", n.ID)
		}
		idx.nodes = append(idx.nodes, n)
		idx.byID[n.ID] = n
		idx.deps[n.ID] = utils.UniqueSlice(n.Dependencies)
	}
	return idx, nil
}

// validateWork is only needed before running, visualizing does not call work.
func (idx *nodeIndex) validateWork() error {
	for _, n := range idx.nodes {
		if n.Work == nil {
			return errors.NotValidf("node %q without work", n.ID)
		}
	}
	return nil
}

func (idx *nodeIndex) has(id string) bool {
	_, exists := idx.byID[id]
	return exists
}

// missingDependencies returns the dependencies of id that are not part of the node set.
func (idx *nodeIndex) missingDependencies(id string) []string {
	var missing []string
	for _, dep := range idx.deps[id] {
		if !idx.has(dep) {
			missing = append(missing, dep)
		}
	}
	return missing
}
