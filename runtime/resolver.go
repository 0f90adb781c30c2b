package runtime

import "github.com/warriorguo/waveflow/types"

/**
 * readySet returns the ids of the nodes that can run now: still Pending,
 * and every dependency already has a Success result. A dependency that is
 * not part of nodes never has a result, so its dependents are never ready.
 * Ids come back in declaration order, callers must not rely on it.
 */
func readySet(nodes []*types.Node, status map[string]types.StatusType, results map[string]*types.NodeResult) []string {
	ready := make([]string, 0)
	for _, n := range nodes {
		if status[n.ID] != types.Pending {
			continue
		}
		if dependenciesSatisfied(n, results) {
			ready = append(ready, n.ID)
		}
	}
	return ready
}

func dependenciesSatisfied(n *types.Node, results map[string]*types.NodeResult) bool {
	for _, dep := range n.Dependencies {
		r, exists := results[dep]
		if !exists || r.Status != types.Success {
			return false
		}
	}
	return true
}
