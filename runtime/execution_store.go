package runtime

import (
	"context"

	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"

	"github.com/warriorguo/waveflow/types"
	"github.com/warriorguo/waveflow/utils"
)

const (
	ExecutionPath = "/execution/"
	RecordPath    = "/record/"
)

func recordSavePath(executionID string) string {
	return RecordPath + executionID
}

func newNodeTraceRecord(deps []string, r *types.NodeResult) *types.NodeTraceRecord {
	return &types.NodeTraceRecord{
		ID:           r.ID,
		Dependencies: deps,
		Status:       r.Status,
		Wave:         r.Wave,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		Duration:     r.Duration,
		Error:        r.Error,
	}
}

func newExecutionRecord(report *types.ExecutionReport) *types.ExecutionRecord {
	return &types.ExecutionRecord{
		ExecutionID:     report.ExecutionID,
		Success:         report.Success,
		StartTime:       report.StartTime,
		EndTime:         report.EndTime,
		TotalTime:       report.TotalTime,
		SequentialTime:  report.SequentialTime,
		ParallelSpeedup: report.ParallelSpeedup,
		NodesExecuted:   report.NodesExecuted,
		NodesFailed:     report.NodesFailed,
		NodesSkipped:    report.NodesSkipped,
		Waves:           report.Waves,
	}
}

/**
 * saveExecution writes the node records first and the summary last, so a
 * summary that can be loaded always has its records beside it. A reused
 * execution id replaces the previous history of that id as a whole.
 */
func (e *engine) saveExecution(ctx context.Context, idx *nodeIndex, report *types.ExecutionReport) error {
	if err := e.clearExecution(ctx, report.ExecutionID); err != nil {
		return errors.Trace(err)
	}

	recordPath := recordSavePath(report.ExecutionID)
	for _, n := range idx.nodes {
		r, exists := report.NodeResults[n.ID]
		if !exists {
			continue
		}
		b, err := utils.Serialize(newNodeTraceRecord(idx.deps[n.ID], r))
		if err != nil {
			return errors.Trace(err)
		}
		if err := e.store.Set(ctx, recordPath, n.ID, b); err != nil {
			return errors.Annotatef(err, "save record %s of %s", n.ID, report.ExecutionID)
		}
	}

	b, err := utils.Serialize(newExecutionRecord(report))
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Annotatef(e.store.Set(ctx, ExecutionPath, report.ExecutionID, b), "save execution %s", report.ExecutionID)
}

// clearExecution drops the summary first so no reader sees it beside partial records.
func (e *engine) clearExecution(ctx context.Context, executionID string) error {
	if err := e.store.Remove(ctx, ExecutionPath, executionID); err != nil {
		return errors.Annotatef(err, "remove execution %s", executionID)
	}

	recordPath := recordSavePath(executionID)
	stale := make([]string, 0)
	if err := e.store.List(ctx, recordPath, func(node string) bool {
		stale = append(stale, node)
		return true
	}); err != nil {
		return errors.Annotatef(err, "list records of %s", executionID)
	}
	for _, node := range stale {
		if err := e.store.Remove(ctx, recordPath, node); err != nil {
			return errors.Annotatef(err, "remove record %s of %s", node, executionID)
		}
	}
	return nil
}

func (e *engine) loadExecution(ctx context.Context, executionID string) (*types.ExecutionRecord, error) {
	if e.store == nil {
		return nil, errors.NotSupportedf("execution history without store")
	}
	b, err := e.store.Get(ctx, ExecutionPath, executionID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if b == nil {
		return nil, errors.NotFoundf("execution %s", executionID)
	}

	record := &types.ExecutionRecord{}
	if err := utils.Unserialize(b, record); err != nil {
		return nil, errors.Trace(err)
	}

	records, err := e.loadRecords(ctx, executionID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	record.Nodes = records
	return record, nil
}

func (e *engine) loadRecords(ctx context.Context, executionID string) (map[string]*types.NodeTraceRecord, error) {
	records := make(map[string]*types.NodeTraceRecord)
	recordPath := recordSavePath(executionID)
	err := e.store.List(ctx, recordPath, func(node string) bool {
		b, err := e.store.Get(ctx, recordPath, node)
		if err != nil {
			log.Errorf("load %s %s from store failed: %v", recordPath, node, err)
			return true
		}
		record := &types.NodeTraceRecord{}
		if err := utils.Unserialize(b, record); err != nil {
			log.Errorf("unserialize %s %s from store:%s failed: %v", recordPath, node, string(b), err)
			return true
		}
		records[node] = record
		return true
	})
	return records, errors.Trace(err)
}

func (e *engine) GetExecution(ctx context.Context, executionID string) (*types.ExecutionRecord, error) {
	return e.loadExecution(ctx, executionID)
}

func (e *engine) ListExecutions(ctx context.Context) ([]string, error) {
	if e.store == nil {
		return nil, errors.NotSupportedf("execution history without store")
	}
	ids := make([]string, 0)
	err := e.store.List(ctx, ExecutionPath, func(executionID string) bool {
		ids = append(ids, executionID)
		return true
	})
	return ids, errors.Trace(err)
}

func (e *engine) RenderExecution(ctx context.Context, executionID string) (string, error) {
	record, err := e.loadExecution(ctx, executionID)
	if err != nil {
		return "", errors.Trace(err)
	}
	return newDAGRenderer().generateDOT(executionID, vertexesFromRecords(record.Nodes)), nil
}
