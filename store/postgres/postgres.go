package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/juju/errors"
	_ "github.com/lib/pq"
	"github.com/spf13/cast"
	"github.com/warriorguo/waveflow/store"
)

var (
	_ store.Store  = &pgStore{}
	_ store.Closer = &pgStore{}

	tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
)

const (
	DefaultTable = "waveflow_history"

	connectTimeout = 10 * time.Second
)

// Config holds PostgreSQL connection configuration
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string // disable, require, verify-ca, verify-full
	// Table defaults to DefaultTable
	Table string
}

func DefaultConfig() *Config {
	return &Config{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		Database: "waveflow",
		SSLMode:  "disable",
		Table:    DefaultTable,
	}
}

/**
 * pgStore keeps execution history in one (prefix, key) -> value table.
 * Summaries and node records share the table, told apart by prefix.
 */
type pgStore struct {
	db      *sql.DB
	table   string
	queries historyQueries
}

type historyQueries struct {
	get    string
	upsert string
	remove string
	list   string
}

func newHistoryQueries(table string) historyQueries {
	return historyQueries{
		get: "SELECT value FROM " + table + " WHERE prefix = $1 AND key = $2",
		upsert: "INSERT INTO " + table + " (prefix, key, value, recorded_at) VALUES ($1, $2, $3, CURRENT_TIMESTAMP) " +
			"ON CONFLICT (prefix, key) DO UPDATE SET value = EXCLUDED.value, recorded_at = CURRENT_TIMESTAMP",
		remove: "DELETE FROM " + table + " WHERE prefix = $1 AND key = $2",
		list:   "SELECT key FROM " + table + " WHERE prefix = $1 ORDER BY key",
	}
}

// NewPostgresStore opens a connection pool, pings it and makes sure the history table exists.
func NewPostgresStore(config *Config) (store.Store, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}

	db, err := sql.Open("postgres", config.DSN())
	if err != nil {
		return nil, errors.Annotatef(err, "open history database %s", config.Database)
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Annotatef(err, "history database unreachable at %s:%d", config.Host, config.Port)
	}

	s, err := newStore(db, config.Table)
	if err != nil {
		db.Close()
		return nil, errors.Trace(err)
	}
	return s, nil
}

// NewPostgresStoreWithDB reuses an existing connection pool, which the caller keeps owning.
func NewPostgresStoreWithDB(db *sql.DB, table string) (store.Store, error) {
	if db == nil {
		return nil, errors.NotValidf("nil db")
	}
	return newStore(db, table)
}

func newStore(db *sql.DB, table string) (*pgStore, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableNamePattern.MatchString(table) {
		return nil, errors.NotValidf("table name %q", table)
	}

	s := &pgStore{db: db, table: table, queries: newHistoryQueries(table)}
	if err := s.migrate(context.Background()); err != nil {
		return nil, errors.Annotatef(err, "migrate history table %s", table)
	}
	return s, nil
}

func (p *pgStore) migrate(ctx context.Context) error {
	ddl := []string{
		"CREATE TABLE IF NOT EXISTS " + p.table + ` (
			prefix VARCHAR(255) NOT NULL,
			key VARCHAR(255) NOT NULL,
			value BYTEA,
			recorded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (prefix, key)
		)`,
		"CREATE INDEX IF NOT EXISTS idx_" + p.table + "_recorded_at ON " + p.table + "(recorded_at)",
	}
	for _, stmt := range ddl {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

func (p *pgStore) Get(ctx context.Context, prefix, key string) ([]byte, error) {
	var value []byte
	switch err := p.db.QueryRowContext(ctx, p.queries.get, prefix, key).Scan(&value); {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, errors.Annotatef(err, "get %s%s", prefix, key)
	}
	return value, nil
}

// Set upserts, recording the same prefix + key twice keeps the last value.
func (p *pgStore) Set(ctx context.Context, prefix, key string, value []byte) error {
	_, err := p.db.ExecContext(ctx, p.queries.upsert, prefix, key, value)
	return errors.Annotatef(err, "set %s%s", prefix, key)
}

func (p *pgStore) Remove(ctx context.Context, prefix, key string) error {
	_, err := p.db.ExecContext(ctx, p.queries.remove, prefix, key)
	return errors.Annotatef(err, "remove %s%s", prefix, key)
}

func (p *pgStore) List(ctx context.Context, prefix string, iterator func(key string) bool) error {
	rows, err := p.db.QueryContext(ctx, p.queries.list, prefix)
	if err != nil {
		return errors.Annotatef(err, "list %s", prefix)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return errors.Annotatef(err, "scan key under %s", prefix)
		}
		if !iterator(key) {
			break
		}
	}
	return errors.Trace(rows.Err())
}

func (p *pgStore) Close() error {
	return errors.Trace(p.db.Close())
}

// DSN builds a lib/pq key=value connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

var validSSLModes = map[string]bool{
	"disable":     true,
	"require":     true,
	"verify-ca":   true,
	"verify-full": true,
}

// Validate fills SSLMode and Table when they are empty.
func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.NotValidf("empty host")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errors.NotValidf("port %d", c.Port)
	}
	if c.User == "" {
		return errors.NotValidf("empty user")
	}
	if c.Database == "" {
		return errors.NotValidf("empty database")
	}
	if c.SSLMode == "" {
		c.SSLMode = "disable"
	}
	if !validSSLModes[c.SSLMode] {
		return errors.NotValidf("sslmode %s", c.SSLMode)
	}
	if c.Table == "" {
		c.Table = DefaultTable
	}
	if !tableNamePattern.MatchString(c.Table) {
		return errors.NotValidf("table name %q", c.Table)
	}
	return nil
}

// ParseDSN parses "host=localhost port=5432 user=postgres password=secret dbname=waveflow sslmode=disable"
func ParseDSN(dsn string) (*Config, error) {
	config := DefaultConfig()

	for _, part := range strings.Fields(dsn) {
		key, value, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		switch key {
		case "host":
			config.Host = value
		case "port":
			port, err := cast.ToIntE(value)
			if err != nil {
				return nil, errors.NotValidf("port %q", value)
			}
			config.Port = port
		case "user":
			config.User = value
		case "password":
			config.Password = value
		case "dbname":
			config.Database = value
		case "sslmode":
			config.SSLMode = value
		case "table":
			config.Table = value
		}
	}
	return config, config.Validate()
}
