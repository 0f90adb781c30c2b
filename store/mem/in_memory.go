package mem

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/warriorguo/waveflow/store"
)

var (
	_ store.Store = &memStore{}
)

const keySep = "|"

func NewMemStore() store.Store {
	return &memStore{
		m: make(map[string][]byte),
		// setup no error as default
		mockErrHandler: defaultNoErr,
	}
}

// NewMemStoreWithErrHandler lets tests inject store failures.
func NewMemStoreWithErrHandler(errHandler func() error) store.Store {
	return &memStore{
		m:              make(map[string][]byte),
		mockErrHandler: errHandler,
	}
}

func defaultNoErr() error {
	return nil
}

/**
 * memStore keeps execution history in memory and grows without bound,
 * it aims to provide a method for debug & testing.
 * NEVER use it in the Production!
 */
type memStore struct {
	mu sync.RWMutex

	mockErrHandler func() error

	m map[string][]byte
}

func formatKey(prefix, key string) string {
	return prefix + keySep + key
}

func (m *memStore) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sb := &strings.Builder{}
	sb.WriteString("\n----------\n")
	for key, value := range m.m {
		fmt.Fprintf(sb, "%s: %s\n", key, string(value))
	}
	sb.WriteString("----------\n")
	return sb.String()
}

func (m *memStore) Get(ctx context.Context, prefix, key string) ([]byte, error) {
	if err := m.mockErrHandler(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, exists := m.m[formatKey(prefix, key)]
	if !exists {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *memStore) Set(ctx context.Context, prefix, key string, value []byte) error {
	if err := m.mockErrHandler(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.m[formatKey(prefix, key)] = append([]byte(nil), value...)
	return nil
}

func (m *memStore) Remove(ctx context.Context, prefix, key string) error {
	if err := m.mockErrHandler(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.m, formatKey(prefix, key))
	return nil
}

// List visits the keys under prefix in lexical order.
func (m *memStore) List(ctx context.Context, prefix string, iterator func(key string) bool) error {
	if err := m.mockErrHandler(); err != nil {
		return err
	}

	m.mu.RLock()
	prefix += keySep
	matchedKeys := make([]string, 0)
	for key := range m.m {
		if k, ok := strings.CutPrefix(key, prefix); ok {
			matchedKeys = append(matchedKeys, k)
		}
	}
	m.mu.RUnlock()

	sort.Strings(matchedKeys)
	for _, key := range matchedKeys {
		if !iterator(key) {
			break
		}
	}
	return nil
}
