package runtime

import (
	"github.com/warriorguo/waveflow/types"
)

// skipPending marks every node that has not started yet as Skipped once a failure stopped the run.
func (e *execution) skipPending() {
	pending := e.pendingIDs()
	if len(pending) == 0 {
		return
	}
	e.logger.Warnf("stop on fail: skipping %d pending nodes %v", len(pending), pending)
	for _, id := range pending {
		err := types.NewSkippedError(id)
		e.setResult(&types.NodeResult{
			ID:     id,
			Status: types.Skipped,
			Err:    err,
			Error:  err.Error(),
			Wave:   -1,
		})
	}
}
