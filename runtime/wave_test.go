package runtime

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warriorguo/waveflow/types"
)

func TestWaveRunnerBarrier(t *testing.T) {
	wr := newWaveRunner(2)
	defer wr.stop()

	var finished int32
	runtimes := make([]func() *types.NodeResult, 0, 5)
	for i := 0; i < 5; i++ {
		runtimes = append(runtimes, func() *types.NodeResult {
			time.Sleep(time.Duration(5-i) * 5 * time.Millisecond)
			atomic.AddInt32(&finished, 1)
			return &types.NodeResult{ID: fmt.Sprintf("n%d", i), Status: types.Success}
		})
	}

	results := wr.run(runtimes)
	assert.Equal(t, int32(5), atomic.LoadInt32(&finished))
	require.Len(t, results, 5)
	for i, r := range results {
		assert.Equal(t, fmt.Sprintf("n%d", i), r.ID)
	}

	// the pool is reused by the next wave
	results = wr.run(runtimes[:1])
	assert.Equal(t, "n0", results[0].ID)
}

func TestWaveRunnerClampsWorkers(t *testing.T) {
	wr := newWaveRunner(0)
	defer wr.stop()
	assert.Equal(t, 1, wr.wp.Size())
}

func TestMaxWorkersBound(t *testing.T) {
	tracker := newInvocationTracker()
	nodes := make([]*types.Node, 0, 10)
	for i := 0; i < 10; i++ {
		nodes = append(nodes, tracker.node(fmt.Sprintf("w%d", i), 20*time.Millisecond))
	}

	report, err := newTestEngine().Execute(context.Background(), nodes, types.WithMaxWorkers(3))
	require.Nil(t, err)
	assert.True(t, report.Success)
	assert.Len(t, report.Waves, 1)
	assert.LessOrEqual(t, atomic.LoadInt32(&tracker.maxRunning), int32(3))
	assert.Equal(t, 10, tracker.total())

	// a single worker serializes the wave
	tracker = newInvocationTracker()
	nodes = nodes[:0]
	for i := 0; i < 4; i++ {
		nodes = append(nodes, tracker.node(fmt.Sprintf("s%d", i), 5*time.Millisecond))
	}
	report, err = newTestEngine(types.SetMaxWorkers(1)).Execute(context.Background(), nodes)
	require.Nil(t, err)
	assert.True(t, report.Success)
	assert.Equal(t, int32(1), atomic.LoadInt32(&tracker.maxRunning))
}

func TestEachNodeRunsOnce(t *testing.T) {
	tracker := newInvocationTracker()
	nodes := []*types.Node{
		tracker.node("A", 0),
		tracker.node("B", 0, "A"),
		tracker.node("C", 0, "A"),
		tracker.node("D", 0, "B", "C"),
		tracker.node("E", 0, "D", "A"),
	}
	report, err := newTestEngine().Execute(context.Background(), nodes)
	require.Nil(t, err)
	assert.True(t, report.Success)
	for _, n := range nodes {
		assert.Equal(t, 1, tracker.count(n.ID), n.ID)
	}
	assert.Equal(t, [][]string{{"A"}, {"B", "C"}, {"D"}, {"E"}}, report.Waves)
}
