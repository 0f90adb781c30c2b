package types

import (
	"github.com/mcuadros/go-defaults"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

func NewEngineOptions() *EngineOptions {
	opts := &EngineOptions{}
	defaults.SetDefaults(opts)
	return opts
}

type EngineOptions struct {
	/**
	 * default: waveflow
	 * tells engines apart in logs, spans and the "engine" metric label.
	 */
	Name string `default:"waveflow"`
	/**
	 * default: 8
	 * size of the worker pool one execution runs its waves on,
	 * Execute can override it per call.
	 */
	MaxWorkers int `default:"8"`
	/**
	 * default: true
	 * once a node fails, every node that has not started yet is Skipped.
	 * Execute can override it per call.
	 */
	StopOnFail bool `default:"true"`
	/**
	 * default: false
	 * persist the outcome of every execution into the store, so that it
	 * can be fetched or rendered afterwards. EnableMemStore and
	 * WithPostgresConfig turn it on, without a store nothing is kept
	 * between Execute calls.
	 */
	RecordExecutions bool `default:"false"`
	/**
	 * default: false, only set it to true when doing testing or developing.
	 * The memory store is never trimmed.
	 */
	MemStore bool `default:"false"`

	// If both MemStore and PostgresConfig are set, PostgresConfig takes precedence
	PostgresConfig *PostgresConfig

	// nil leaves the engine collectors unregistered
	Registerer prometheus.Registerer
	// nil falls back to the global otel provider
	TracerProvider trace.TracerProvider
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string // disable, require, verify-ca, verify-full
	Table    string
}

type EngineOption func(*EngineOptions)

func SetName(name string) EngineOption {
	return func(opts *EngineOptions) {
		opts.Name = name
	}
}

func SetMaxWorkers(workers int) EngineOption {
	return func(opts *EngineOptions) {
		if workers > 0 {
			opts.MaxWorkers = workers
		}
	}
}

func SetStopOnFail(stopOnFail bool) EngineOption {
	return func(opts *EngineOptions) {
		opts.StopOnFail = stopOnFail
	}
}

func DisableRecord() EngineOption {
	return func(opts *EngineOptions) {
		opts.RecordExecutions = false
	}
}

func EnableMemStore() EngineOption {
	return func(opts *EngineOptions) {
		opts.MemStore = true
		opts.RecordExecutions = true
	}
}

// WithPostgresConfig configures the engine to record executions into PostgreSQL
func WithPostgresConfig(config *PostgresConfig) EngineOption {
	return func(opts *EngineOptions) {
		opts.PostgresConfig = config
		opts.RecordExecutions = config != nil
	}
}

func WithRegisterer(reg prometheus.Registerer) EngineOption {
	return func(opts *EngineOptions) {
		opts.Registerer = reg
	}
}

func WithTracerProvider(tp trace.TracerProvider) EngineOption {
	return func(opts *EngineOptions) {
		opts.TracerProvider = tp
	}
}

type ExecuteOptions struct {
	StopOnFail  bool `default:"true"`
	MaxWorkers  int
	ExecutionID string
}

type ExecuteOption func(*ExecuteOptions)

/**
 * NewExecuteOptions starts from the engine-wide defaults and then applies
 * the per call options.
 */
func NewExecuteOptions(engineOpts *EngineOptions, opts ...ExecuteOption) *ExecuteOptions {
	eo := &ExecuteOptions{}
	defaults.SetDefaults(eo)
	if engineOpts != nil {
		eo.StopOnFail = engineOpts.StopOnFail
		eo.MaxWorkers = engineOpts.MaxWorkers
	}
	for _, opt := range opts {
		opt(eo)
	}
	if eo.MaxWorkers <= 0 {
		eo.MaxWorkers = 1
	}
	return eo
}

func StopOnFail(stopOnFail bool) ExecuteOption {
	return func(opts *ExecuteOptions) {
		opts.StopOnFail = stopOnFail
	}
}

// WithMaxWorkers ignores non-positive values, the engine MaxWorkers stays in effect.
func WithMaxWorkers(workers int) ExecuteOption {
	return func(opts *ExecuteOptions) {
		if workers > 0 {
			opts.MaxWorkers = workers
		}
	}
}

func WithExecutionID(id string) ExecuteOption {
	return func(opts *ExecuteOptions) {
		opts.ExecutionID = id
	}
}
