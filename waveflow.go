package waveflow

import (
	"github.com/juju/errors"
	"github.com/warriorguo/waveflow/runtime"
	"github.com/warriorguo/waveflow/store"
	"github.com/warriorguo/waveflow/store/mem"
	"github.com/warriorguo/waveflow/store/postgres"
	"github.com/warriorguo/waveflow/types"
)

// NewEngine creates a new wave execution engine with the given options
func NewEngine(opts ...types.EngineOption) (types.Engine, error) {
	options := types.NewEngineOptions()
	for _, opt := range opts {
		opt(options)
	}

	var s store.Store
	var err error

	// PostgresConfig takes precedence over MemStore
	switch {
	case !options.RecordExecutions:
		s = nil
	case options.PostgresConfig != nil:
		pgConfig := &postgres.Config{
			Host:     options.PostgresConfig.Host,
			Port:     options.PostgresConfig.Port,
			User:     options.PostgresConfig.User,
			Password: options.PostgresConfig.Password,
			Database: options.PostgresConfig.Database,
			SSLMode:  options.PostgresConfig.SSLMode,
			Table:    options.PostgresConfig.Table,
		}
		s, err = postgres.NewPostgresStore(pgConfig)
		if err != nil {
			return nil, errors.Annotatef(err, "failed to create PostgreSQL store")
		}
	case options.MemStore:
		s = mem.NewMemStore()
	}

	return runtime.NewEngine(s, options), nil
}
