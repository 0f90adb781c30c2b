package runtime

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/warriorguo/waveflow/store"
	"github.com/warriorguo/waveflow/types"
)

var (
	_ types.Engine = &engine{}
)

// NewEngine builds an engine on top of s, which may be nil when no history is recorded.
func NewEngine(s store.Store, opts *types.EngineOptions) types.Engine {
	return newEngine(s, opts)
}

/**
 * engine is a handle callers pass around by reference. Everything it keeps
 * across executions lives here, never in package state, so engines stay
 * isolated from each other. Concurrent Execute calls are fine.
 */
type engine struct {
	opts  *types.EngineOptions
	store store.Store

	tracer  trace.Tracer
	metrics *engineMetrics

	statsMu sync.Mutex
	stats   types.Stats

	closed atomic.Bool
}

func newEngine(s store.Store, opts *types.EngineOptions) *engine {
	if opts == nil {
		opts = types.NewEngineOptions()
	}
	return &engine{
		opts:    opts,
		store:   s,
		tracer:  newTracer(opts.TracerProvider),
		metrics: newEngineMetrics(opts.Name, opts.Registerer),
	}
}

func (e *engine) Execute(ctx context.Context, nodes []*types.Node, opts ...types.ExecuteOption) (*types.ExecutionReport, error) {
	if e.closed.Load() {
		return nil, errors.MethodNotAllowedf("engine %s closed", e.opts.Name)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	eo := types.NewExecuteOptions(e.opts, opts...)
	if eo.ExecutionID == "" {
		eo.ExecutionID = uuid.NewString()
	}

	idx, err := newNodeIndex(nodes)
	if err == nil {
		err = idx.validateWork()
	}
	if err != nil {
		return nil, errors.Annotatef(err, "execution %s rejected", eo.ExecutionID)
	}

	logger := log.WithFields(log.Fields{"engine": e.opts.Name, "execution": eo.ExecutionID})
	report := newExecution(eo.ExecutionID, idx, eo, e.tracer, e.metrics, logger).run(ctx)

	e.updateStats(report)
	e.metrics.observe(report)

	if e.opts.RecordExecutions && e.store != nil {
		if err := e.saveExecution(ctx, idx, report); err != nil {
			logger.Errorf("failed to record execution: %v", err)
		}
	}
	return report, nil
}

func (e *engine) updateStats(report *types.ExecutionReport) {
	e.statsMu.Lock()
	defer e.statsMu.Unlock()

	e.stats.TotalExecutions++
	e.stats.TotalNodesExecuted += int64(report.NodesExecuted)
	e.stats.CumulativeParallelTime += report.TotalTime
	e.stats.CumulativeSequentialTime += report.SequentialTime
}

func (e *engine) GetStats() types.Stats {
	e.statsMu.Lock()
	defer e.statsMu.Unlock()

	stats := e.stats
	stats.AverageSpeedup = parallelSpeedup(stats.CumulativeSequentialTime, stats.CumulativeParallelTime)
	return stats
}

func (e *engine) Visualize(nodes []*types.Node) (string, error) {
	idx, err := newNodeIndex(nodes)
	if err != nil {
		return "", errors.Trace(err)
	}
	return visualize(idx)
}

func (e *engine) RenderDOT(nodes []*types.Node, report *types.ExecutionReport) (string, error) {
	idx, err := newNodeIndex(nodes)
	if err != nil {
		return "", errors.Trace(err)
	}
	name := e.opts.Name
	if report != nil {
		name = report.ExecutionID
	}
	return newDAGRenderer().generateDOT(name, vertexesFromReport(idx, report)), nil
}

/**
 * Close refuses further executions and releases the store when it holds
 * external resources. Executions already running are not interrupted.
 */
func (e *engine) Close(ctx context.Context) error {
	if !e.closed.CompareAndSwap(false, true) {
		return nil
	}
	if closer, ok := e.store.(store.Closer); ok {
		return errors.Trace(closer.Close())
	}
	return nil
}
