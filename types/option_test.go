package types

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestEngineOptionsDefaults(t *testing.T) {
	opts := NewEngineOptions()
	assert.Equal(t, "waveflow", opts.Name)
	assert.Equal(t, 8, opts.MaxWorkers)
	assert.True(t, opts.StopOnFail)
	assert.False(t, opts.RecordExecutions)
	assert.False(t, opts.MemStore)
	assert.Nil(t, opts.PostgresConfig)
	assert.Nil(t, opts.Registerer)
	assert.Nil(t, opts.TracerProvider)
}

func TestWithPostgresConfig(t *testing.T) {
	config := &PostgresConfig{
		Host:     "dbhost",
		Port:     5433,
		User:     "user",
		Password: "pass",
		Database: "db",
		SSLMode:  "require",
	}

	opts := NewEngineOptions()
	WithPostgresConfig(config)(opts)

	assert.NotNil(t, opts.PostgresConfig)
	assert.Equal(t, "dbhost", opts.PostgresConfig.Host)
	assert.Equal(t, 5433, opts.PostgresConfig.Port)
	assert.Equal(t, "require", opts.PostgresConfig.SSLMode)
	assert.True(t, opts.RecordExecutions)

	WithPostgresConfig(nil)(opts)
	assert.False(t, opts.RecordExecutions)
}

func TestRecordingFollowsStore(t *testing.T) {
	opts := NewEngineOptions()
	EnableMemStore()(opts)
	assert.True(t, opts.MemStore)
	assert.True(t, opts.RecordExecutions)

	// the last option wins
	DisableRecord()(opts)
	assert.False(t, opts.RecordExecutions)
}

func TestMultipleOptions(t *testing.T) {
	opts := NewEngineOptions()
	reg := prometheus.NewRegistry()

	SetName("docs")(opts)
	SetMaxWorkers(3)(opts)
	SetMaxWorkers(0)(opts)
	SetStopOnFail(false)(opts)
	EnableMemStore()(opts)
	DisableRecord()(opts)
	WithRegisterer(reg)(opts)

	assert.Equal(t, "docs", opts.Name)
	assert.Equal(t, 3, opts.MaxWorkers)
	assert.False(t, opts.StopOnFail)
	assert.False(t, opts.RecordExecutions)
	assert.True(t, opts.MemStore)
	assert.Equal(t, reg, opts.Registerer)
}

func TestExecuteOptions(t *testing.T) {
	eo := NewExecuteOptions(nil)
	assert.True(t, eo.StopOnFail)
	assert.Equal(t, 1, eo.MaxWorkers)
	assert.Empty(t, eo.ExecutionID)

	engineOpts := NewEngineOptions()
	engineOpts.StopOnFail = false
	eo = NewExecuteOptions(engineOpts)
	assert.False(t, eo.StopOnFail)
	assert.Equal(t, 8, eo.MaxWorkers)

	eo = NewExecuteOptions(engineOpts, StopOnFail(true), WithMaxWorkers(2), WithExecutionID("run-1"))
	assert.True(t, eo.StopOnFail)
	assert.Equal(t, 2, eo.MaxWorkers)
	assert.Equal(t, "run-1", eo.ExecutionID)

	eo = NewExecuteOptions(engineOpts, WithMaxWorkers(0))
	assert.Equal(t, 8, eo.MaxWorkers)
	eo = NewExecuteOptions(engineOpts, WithMaxWorkers(-3))
	assert.Equal(t, 8, eo.MaxWorkers)
}
