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
 * nodeRuntime invokes the work of a single node and turns whatever happens
 * into a terminal NodeResult. It never lets an error or a panic escape.
 */
type nodeRuntime struct {
	executionID string
	node        *types.Node
	wave        int

	tracer  trace.Tracer
	metrics *engineMetrics
	logger  *log.Entry
}

func (n *nodeRuntime) runWork(ctx types.Context) (value any, retErr error) {
	defer func() {
		if r := recover(); r != nil {
			retErr = types.NewPanicError(n.node.ID, r)
		}
	}()
	return n.node.Work(ctx)
}

func (n *nodeRuntime) run(ctx context.Context) *types.NodeResult {
	ctx, span := n.tracer.Start(ctx, "waveflow.Node",
		trace.WithAttributes(
			attribute.String("waveflow.execution_id", n.executionID),
			attribute.String("waveflow.node", n.node.ID),
			attribute.StringSlice("waveflow.dependencies", n.node.Dependencies),
			attribute.Int("waveflow.wave", n.wave),
		),
	)
	defer span.End()

	n.metrics.activeNodes.Inc()
	defer n.metrics.activeNodes.Dec()

	result := &types.NodeResult{ID: n.node.ID, Wave: n.wave}
	n.logger.Debugf("running node %s in wave %d", n.node.ID, n.wave)

	result.StartTime = time.Now()
	value, err := n.runWork(newNodeContext(ctx, n.executionID, n.node))
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)

	n.metrics.nodeDuration.Observe(result.Duration.Seconds())

	if err != nil {
		result.Status = types.Failed
		result.Err = err
		result.Error = err.Error()

		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		n.logger.WithField("node", n.node.ID).Warnf("node failed after %v: %v", result.Duration, err)
		return result
	}

	result.Status = types.Success
	result.Value = value
	span.SetStatus(codes.Ok, "")
	n.logger.Debugf("node %s succeeded after %v", n.node.ID, result.Duration)
	return result
}
