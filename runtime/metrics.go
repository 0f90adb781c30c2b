package runtime

import (
	"github.com/juju/errors"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/warriorguo/waveflow/types"
)

const (
	metricsNamespace = "waveflow"
	tracerName       = "github.com/warriorguo/waveflow/runtime"
)

// engineMetrics are owned by one engine, the "engine" const label tells engines apart.
type engineMetrics struct {
	executions        *prometheus.CounterVec
	nodes             *prometheus.CounterVec
	nodeDuration      prometheus.Histogram
	executionDuration prometheus.Histogram
	waveSize          prometheus.Histogram
	activeNodes       prometheus.Gauge
	lastSpeedup       prometheus.Gauge
}

func newEngineMetrics(engineName string, reg prometheus.Registerer) *engineMetrics {
	labels := prometheus.Labels{"engine": engineName}
	m := &engineMetrics{
		executions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "executions_total",
			Help:        "Executions finished, by result (success, failure).",
			ConstLabels: labels,
		}, []string{"result"}),
		nodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "nodes_total",
			Help:        "Nodes reaching a terminal status, by status.",
			ConstLabels: labels,
		}, []string{"status"}),
		nodeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   metricsNamespace,
			Name:        "node_duration_seconds",
			Help:        "Time spent running the work of a node.",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		executionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   metricsNamespace,
			Name:        "execution_duration_seconds",
			Help:        "Wall time of a whole execution.",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.01, 4, 10),
		}),
		waveSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   metricsNamespace,
			Name:        "wave_size",
			Help:        "Number of nodes run concurrently in one wave.",
			ConstLabels: labels,
			Buckets:     []float64{1, 2, 4, 8, 16, 32, 64, 128},
		}),
		activeNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Name:        "active_nodes",
			Help:        "Nodes whose work is currently running.",
			ConstLabels: labels,
		}),
		lastSpeedup: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Name:        "last_parallel_speedup",
			Help:        "Parallel speedup of the most recent execution.",
			ConstLabels: labels,
		}),
	}

	if reg != nil {
		m.executions = register(reg, m.executions).(*prometheus.CounterVec)
		m.nodes = register(reg, m.nodes).(*prometheus.CounterVec)
		m.nodeDuration = register(reg, m.nodeDuration).(prometheus.Histogram)
		m.executionDuration = register(reg, m.executionDuration).(prometheus.Histogram)
		m.waveSize = register(reg, m.waveSize).(prometheus.Histogram)
		m.activeNodes = register(reg, m.activeNodes).(prometheus.Gauge)
		m.lastSpeedup = register(reg, m.lastSpeedup).(prometheus.Gauge)
	}
	return m
}

// register shares the collector already registered by an engine of the same name.
func register(reg prometheus.Registerer, c prometheus.Collector) prometheus.Collector {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector
		}
		log.Errorf("failed to register collector, metrics degraded: %v", err)
	}
	return c
}

func (m *engineMetrics) observe(report *types.ExecutionReport) {
	result := "success"
	if !report.Success {
		result = "failure"
	}
	m.executions.WithLabelValues(result).Inc()
	m.executionDuration.Observe(report.TotalTime.Seconds())
	m.lastSpeedup.Set(report.ParallelSpeedup)
	for _, r := range report.NodeResults {
		m.nodes.WithLabelValues(r.Status.String()).Inc()
	}
}

func newTracer(tp trace.TracerProvider) trace.Tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer(tracerName)
}
