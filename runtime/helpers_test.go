package runtime

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/juju/errors"

	"github.com/warriorguo/waveflow/store"
	"github.com/warriorguo/waveflow/store/mem"
	"github.com/warriorguo/waveflow/types"
)

func newOptions(opts ...types.EngineOption) *types.EngineOptions {
	o := types.NewEngineOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// newTestEngine records into memory unless opts turn recording off.
func newTestEngine(opts ...types.EngineOption) *engine {
	return newTestEngineWithStore(mem.NewMemStore(), opts...)
}

func newTestEngineWithStore(s store.Store, opts ...types.EngineOption) *engine {
	return newEngine(s, newOptions(append([]types.EngineOption{types.EnableMemStore()}, opts...)...))
}

func valueNode(id string, value any, deps ...string) *types.Node {
	return types.NewNode(id, func(ctx types.Context) (any, error) {
		return value, nil
	}, deps...)
}

func sleepNode(id string, d time.Duration, deps ...string) *types.Node {
	return types.NewNode(id, func(ctx types.Context) (any, error) {
		time.Sleep(d)
		return id, nil
	}, deps...)
}

func failNode(id string, deps ...string) *types.Node {
	return types.NewNode(id, func(ctx types.Context) (any, error) {
		return nil, errors.Errorf("%s exploded", id)
	}, deps...)
}

// invocationTracker counts how often each node body ran and how many ran at once.
type invocationTracker struct {
	mu     sync.Mutex
	counts map[string]int

	running    int32
	maxRunning int32
}

func newInvocationTracker() *invocationTracker {
	return &invocationTracker{counts: make(map[string]int)}
}

func (it *invocationTracker) node(id string, d time.Duration, deps ...string) *types.Node {
	return types.NewNode(id, func(ctx types.Context) (any, error) {
		it.mu.Lock()
		it.counts[id]++
		it.mu.Unlock()

		now := atomic.AddInt32(&it.running, 1)
		for {
			peak := atomic.LoadInt32(&it.maxRunning)
			if now <= peak || atomic.CompareAndSwapInt32(&it.maxRunning, peak, now) {
				break
			}
		}
		time.Sleep(d)
		atomic.AddInt32(&it.running, -1)
		return id, nil
	}, deps...)
}

func (it *invocationTracker) count(id string) int {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.counts[id]
}

func (it *invocationTracker) total() int {
	it.mu.Lock()
	defer it.mu.Unlock()
	total := 0
	for _, c := range it.counts {
		total += c
	}
	return total
}
