package services

import "sync"

// manuscriptLocks serializes lifecycle operations per manuscript. Locks are
// reference counted so the map does not grow with every manuscript ever
// touched; operations on different manuscripts never contend.
type manuscriptLocks struct {
	mu    sync.Mutex
	locks map[int]*manuscriptLock
}

type manuscriptLock struct {
	mu   sync.Mutex
	refs int
}

func newManuscriptLocks() *manuscriptLocks {
	return &manuscriptLocks{locks: make(map[int]*manuscriptLock)}
}

// Lock acquires the per-manuscript mutex and returns its release func.
func (l *manuscriptLocks) Lock(manuscriptID int) func() {
	l.mu.Lock()
	entry, ok := l.locks[manuscriptID]
	if !ok {
		entry = &manuscriptLock{}
		l.locks[manuscriptID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, manuscriptID)
		}
		l.mu.Unlock()
	}
}
