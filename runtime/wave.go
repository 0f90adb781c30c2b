package runtime

import (
	"sync"

	"github.com/gammazero/workerpool"
	"github.com/warriorguo/waveflow/types"
)

/**
 * waveRunner owns the bounded worker pool of one execution. The same pool
 * serves every wave, and run is a barrier: it only returns once every node
 * submitted in the wave has a terminal result.
 */
type waveRunner struct {
	wp *workerpool.WorkerPool
}

func newWaveRunner(maxWorkers int) *waveRunner {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	return &waveRunner{wp: workerpool.New(maxWorkers)}
}

// run returns results in the same order as runtimes.
func (w *waveRunner) run(runtimes []func() *types.NodeResult) []*types.NodeResult {
	results := make([]*types.NodeResult, len(runtimes))

	var wg sync.WaitGroup
	wg.Add(len(runtimes))
	for i, rt := range runtimes {
		w.wp.Submit(func() {
			defer wg.Done()
			results[i] = rt()
		})
	}
	wg.Wait()
	return results
}

func (w *waveRunner) stop() {
	w.wp.StopWait()
}
