package ingest

import "sync"

// hashLocks serializes ingestion per content hash so two concurrent uploads
// of identical bytes cannot both pass the dedup check and double-embed.
type hashLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newHashLocks() *hashLocks {
	return &hashLocks{locks: make(map[string]*sync.Mutex)}
}

func (h *hashLocks) lock(hash string) *sync.Mutex {
	h.mu.Lock()
	l, ok := h.locks[hash]
	if !ok {
		l = &sync.Mutex{}
		h.locks[hash] = l
	}
	h.mu.Unlock()
	l.Lock()
	return l
}
