package runtime

import (
	"time"

	"github.com/warriorguo/waveflow/types"
)

// parallelSpeedup is sequential / total, 1.0 when no wall time elapsed.
func parallelSpeedup(sequential, total time.Duration) float64 {
	if total <= 0 {
		return 1.0
	}
	return float64(sequential) / float64(total)
}

func (e *execution) buildReport(start, end time.Time) *types.ExecutionReport {
	report := &types.ExecutionReport{
		ExecutionID: e.id,
		Success:     true,
		NodeResults: make(map[string]*types.NodeResult, len(e.results)),
		StartTime:   start,
		EndTime:     end,
		TotalTime:   end.Sub(start),
		Waves:       e.waves,
	}

	for _, n := range e.index.nodes {
		r, exists := e.results[n.ID]
		if !exists {
			// only reachable if the driver left a node behind
			r = &types.NodeResult{ID: n.ID, Status: e.status[n.ID], Wave: -1}
		}
		report.NodeResults[n.ID] = r
		report.SequentialTime += r.Duration

		switch r.Status {
		case types.Success:
			report.NodesExecuted++
		case types.Failed:
			report.NodesFailed++
		case types.Skipped:
			report.NodesSkipped++
		}
		if r.Status != types.Success {
			report.Success = false
		}
	}

	report.ParallelSpeedup = parallelSpeedup(report.SequentialTime, report.TotalTime)
	return report
}
