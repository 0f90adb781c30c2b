package runtime

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/warriorguo/waveflow/types"
)

/**
 * execution is the state of one Execute call. status and results are only
 * written by the driver goroutine between waves, never while a wave runs,
 * so they need no lock.
 */
type execution struct {
	id    string
	opts  *types.ExecuteOptions
	index *nodeIndex

	status  map[string]types.StatusType
	results map[string]*types.NodeResult
	pending int
	waves   [][]string

	tracer  trace.Tracer
	metrics *engineMetrics
	logger  *log.Entry
}

func newExecution(id string, idx *nodeIndex, opts *types.ExecuteOptions, tracer trace.Tracer, metrics *engineMetrics, logger *log.Entry) *execution {
	e := &execution{
		id:      id,
		opts:    opts,
		index:   idx,
		status:  make(map[string]types.StatusType, len(idx.nodes)),
		results: make(map[string]*types.NodeResult, len(idx.nodes)),
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
	for _, n := range idx.nodes {
		e.status[n.ID] = types.Pending
	}
	e.pending = len(idx.nodes)
	return e
}

func (e *execution) setStatus(id string, to types.StatusType) bool {
	from := e.status[id]
	if !from.CanTransitionTo(to) {
		e.logger.Errorf("node %s refused to move from %v to %v", id, from, to)
		return false
	}
	e.status[id] = to
	if from == types.Pending {
		e.pending--
	}
	return true
}

func (e *execution) setResult(r *types.NodeResult) {
	if e.setStatus(r.ID, r.Status) {
		e.results[r.ID] = r
	}
}

func (e *execution) pendingIDs() []string {
	ids := make([]string, 0, e.pending)
	for _, n := range e.index.nodes {
		if e.status[n.ID] == types.Pending {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

/**
 * run repeats resolve -> wave until no node is pending. Every iteration
 * either runs a wave of at least one node or fails every pending node as
 * deadlocked, so it always terminates.
 */
func (e *execution) run(ctx context.Context) *types.ExecutionReport {
	ctx, span := e.tracer.Start(ctx, "waveflow.Execute",
		trace.WithAttributes(
			attribute.String("waveflow.execution_id", e.id),
			attribute.Int("waveflow.node_count", len(e.index.nodes)),
			attribute.Int("waveflow.max_workers", e.opts.MaxWorkers),
			attribute.Bool("waveflow.stop_on_fail", e.opts.StopOnFail),
		),
	)
	defer span.End()

	e.logger.Infof("execution started with %d nodes, max workers %d, stop on fail %v",
		len(e.index.nodes), e.opts.MaxWorkers, e.opts.StopOnFail)

	if len(e.index.nodes) == 0 {
		now := time.Now()
		return e.buildReport(now, now)
	}

	wr := newWaveRunner(e.opts.MaxWorkers)
	defer wr.stop()

	start := time.Now()
	for e.pending > 0 {
		ready := readySet(e.index.nodes, e.status, e.results)
		if len(ready) == 0 {
			e.failDeadlocked()
			break
		}

		failed := e.runWave(ctx, wr, ready)
		if failed > 0 && e.opts.StopOnFail {
			e.skipPending()
			break
		}
	}
	report := e.buildReport(start, time.Now())

	span.SetAttributes(
		attribute.Int("waveflow.waves", len(report.Waves)),
		attribute.Float64("waveflow.parallel_speedup", report.ParallelSpeedup),
	)
	if report.Success {
		span.SetStatus(codes.Ok, "")
		e.logger.Infof("execution succeeded: %d nodes in %d waves, %v wall, %v sequential, speedup %.2f",
			report.NodesExecuted, len(report.Waves), report.TotalTime, report.SequentialTime, report.ParallelSpeedup)
	} else {
		span.SetStatus(codes.Error, "execution failed")
		e.logger.Warnf("execution failed: %d succeeded, %d failed, %d skipped in %v",
			report.NodesExecuted, report.NodesFailed, report.NodesSkipped, report.TotalTime)
	}
	return report
}

// runWave runs ready on the pool and returns how many nodes failed.
func (e *execution) runWave(ctx context.Context, wr *waveRunner, ready []string) int {
	waveIdx := len(e.waves)
	e.waves = append(e.waves, ready)

	ctx, span := e.tracer.Start(ctx, "waveflow.Wave",
		trace.WithAttributes(
			attribute.Int("waveflow.wave", waveIdx),
			attribute.StringSlice("waveflow.nodes", ready),
		),
	)
	defer span.End()

	e.metrics.waveSize.Observe(float64(len(ready)))
	e.logger.Debugf("wave %d: %v", waveIdx, ready)

	runtimes := make([]func() *types.NodeResult, 0, len(ready))
	for _, id := range ready {
		e.setStatus(id, types.Running)
		nr := &nodeRuntime{
			executionID: e.id,
			node:        e.index.byID[id],
			wave:        waveIdx,
			tracer:      e.tracer,
			metrics:     e.metrics,
			logger:      e.logger,
		}
		runtimes = append(runtimes, func() *types.NodeResult { return nr.run(ctx) })
	}

	failed := 0
	for _, r := range wr.run(runtimes) {
		e.setResult(r)
		if r.Status == types.Failed {
			failed++
		}
	}
	if failed > 0 {
		span.SetStatus(codes.Error, "wave has failed nodes")
	}
	return failed
}
