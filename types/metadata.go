package types

import (
	"encoding/json"
	"time"

	"github.com/juju/errors"
	"github.com/spf13/cast"
)

// Metadata is arbitrary caller context attached to a node. The engine never reads it.
type Metadata map[string]any

func (m Metadata) Get(key string) (any, bool) {
	v, exists := m[key]
	return v, exists
}

func (m Metadata) GetString(key string) (string, bool) {
	v, exists := m.Get(key)
	return cast.ToString(v), exists
}

func (m Metadata) GetInt(key string) (int, bool) {
	v, exists := m.Get(key)
	return cast.ToInt(v), exists
}

func (m Metadata) GetInt64(key string) (int64, bool) {
	v, exists := m.Get(key)
	return cast.ToInt64(v), exists
}

func (m Metadata) GetBool(key string) (bool, bool) {
	v, exists := m.Get(key)
	return cast.ToBool(v), exists
}

func (m Metadata) GetFloat64(key string) (float64, bool) {
	v, exists := m.Get(key)
	return cast.ToFloat64(v), exists
}

func (m Metadata) GetDuration(key string) (time.Duration, bool) {
	v, exists := m.Get(key)
	return cast.ToDuration(v), exists
}

func (m Metadata) GetStringSlice(key string) ([]string, bool) {
	v, exists := m.Get(key)
	return cast.ToStringSlice(v), exists
}

func (m Metadata) GetStruct(key string, s any) error {
	v, exists := m.Get(key)
	if !exists {
		return errors.NotFoundf("metadata key %q", key)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return errors.Annotatef(err, "marshal metadata %q", key)
	}
	return errors.Trace(json.Unmarshal(b, s))
}

// Set lazily allocates, so it must be called on an addressable Metadata.
func (m *Metadata) Set(key string, value any) {
	if *m == nil {
		*m = make(Metadata)
	}
	(*m)[key] = value
}
