package runtime

import (
	"github.com/warriorguo/waveflow/types"
)

/**
 * failDeadlocked is called when nothing is ready while nodes are still
 * pending: a cycle, a dependency outside the node set, or (in continue
 * mode) a dependency that did not succeed. Every pending node moves to
 * Failed at once and none of them runs. The reasons are computed before
 * any status changes so that they describe the state that blocked the run.
 */
func (e *execution) failDeadlocked() {
	pending := e.pendingIDs()
	reasons := make(map[string]map[string]string, len(pending))
	for _, id := range pending {
		reasons[id] = e.unsatisfiedDependencies(id)
	}

	e.logger.Warnf("no node is ready while %d are pending, failing them as deadlocked: %v", len(pending), pending)
	for _, id := range pending {
		err := types.NewDeadlockError(id, reasons[id])
		e.setResult(&types.NodeResult{
			ID:     id,
			Status: types.Failed,
			Err:    err,
			Error:  err.Error(),
			Wave:   -1,
		})
	}
}

func (e *execution) unsatisfiedDependencies(id string) map[string]string {
	unsatisfied := make(map[string]string)
	for _, dep := range e.index.deps[id] {
		if !e.index.has(dep) {
			unsatisfied[dep] = "missing"
			continue
		}
		if st := e.status[dep]; st != types.Success {
			unsatisfied[dep] = st.String()
		}
	}
	return unsatisfied
}
