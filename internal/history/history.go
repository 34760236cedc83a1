// Package history persists executed job source lines across process runs,
// the "job history" feature original_source carries that the distilled
// specification leaves implicit. Grounded on the teacher's
// internal/cache.Manager: the same SoloDB-backed blob store, generalized
// from "cache a remote include's bytes under a content-hash key" to
// "append a job's source text under a monotonic sequence key".
package history

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	solodb "github.com/phillarmonic/SoloDB"
)

const counterKey = "meta:count"

// neverExpire is used for history entries, which persist until explicitly
// trimmed rather than on a TTL the way cached remote includes do.
var neverExpire = time.Now().AddDate(100, 0, 0)

// History is an append-only log of job source lines, keyed by a
// monotonically increasing sequence number so Recent can page backwards
// without a native scan/list operation on the underlying store.
type History struct {
	mu    sync.Mutex
	db    *solodb.DB
	count int64
}

// Open opens (creating if necessary) the history database under dir,
// e.g. "~/.crush/history.solo".
func Open(dir string) (*History, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("history: creating %s: %w", dir, err)
	}
	db, err := solodb.Open(solodb.Options{
		Path:       filepath.Join(dir, "history.solo"),
		Durability: solodb.SyncBatch,
	})
	if err != nil {
		return nil, fmt.Errorf("history: opening database: %w", err)
	}

	h := &History{db: db}
	if rc, _, _, err := db.GetBlob(counterKey); err == nil {
		defer rc.Close()
		data, _ := io.ReadAll(rc)
		h.count, _ = strconv.ParseInt(string(data), 10, 64)
	}
	return h, nil
}

// Append records one executed job's source text.
func (h *History) Append(line string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.count++
	key := fmt.Sprintf("h:%020d", h.count)
	data := []byte(line)
	if err := h.db.SetBlob(key, bytes.NewReader(data), int64(len(data)), neverExpire); err != nil {
		return fmt.Errorf("history: append: %w", err)
	}
	counter := []byte(strconv.FormatInt(h.count, 10))
	if err := h.db.SetBlob(counterKey, bytes.NewReader(counter), int64(len(counter)), neverExpire); err != nil {
		return fmt.Errorf("history: updating counter: %w", err)
	}
	return nil
}

// Recent returns up to n most recent entries, oldest first.
func (h *History) Recent(n int) ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	start := h.count - int64(n) + 1
	if start < 1 {
		start = 1
	}
	var lines []string
	for i := start; i <= h.count; i++ {
		key := fmt.Sprintf("h:%020d", i)
		rc, _, _, err := h.db.GetBlob(key)
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		lines = append(lines, string(data))
	}
	return lines, nil
}

// Close releases the underlying database handle.
func (h *History) Close() error {
	return h.db.Close()
}
