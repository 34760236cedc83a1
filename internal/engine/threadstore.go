// Package engine wires the compiler and registry together into a running
// pipeline (spec §4.5): it resolves each CallDefinition to a value.Command,
// builds its CommandContext, connects Input/Output streams between adjacent
// pipeline stages, and spawns one goroutine per command.
package engine

import (
	"sync"

	"github.com/phillarmonic/crush/internal/crusherrors"
)

// ThreadStore is the thread/worker bookkeeping component of spec §4.8: it
// tracks every command goroutine spawned for a job so the executor can wait
// for all of them and collect the first error. Grounded on the teacher's
// internal/v2/parallel worker pool (workChan/resultChan over a
// sync.WaitGroup), simplified here since crush spawns exactly one goroutine
// per pipeline stage rather than a bounded worker pool.
type ThreadStore struct {
	wg      sync.WaitGroup
	mu      sync.Mutex
	first   error
	started int
}

func NewThreadStore() *ThreadStore {
	return &ThreadStore{}
}

// Spawn runs fn in its own goroutine, tracked by the store's WaitGroup.
// description is accepted for the cmdctx.ThreadStore interface but is
// not stored or used.
func (t *ThreadStore) Spawn(description string, fn func() error) {
	t.mu.Lock()
	t.started++
	t.mu.Unlock()

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		if err := fn(); err != nil {
			t.mu.Lock()
			if t.first == nil {
				t.first = err
			}
			t.mu.Unlock()
		}
	}()
}

// Wait blocks until every spawned goroutine has returned, then yields the
// first error raised by any of them (spec §4.5: "the job's overall result is
// an error if any stage raised one").
func (t *ThreadStore) Wait() error {
	t.wg.Wait()
	return t.first
}

// Count reports how many goroutines have been spawned so far.
func (t *ThreadStore) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.started
}

var errNoWorkers = crusherrors.NewGeneric("job has no commands to run")
