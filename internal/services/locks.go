package services

import (
	"sync"
)

// keyedMutex provides one logical lock per string key. Completion side
// effects are serialized per donor (reputation recompute) and per ledger day
// (impact arithmetic); listings belonging to different donors or days proceed
// in parallel. Mutexes are never evicted; the key space (donors, days) grows
// slowly enough that this is not a concern.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key, creating it on first use, and returns the
// unlock function.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
