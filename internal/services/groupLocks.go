package services

import (
	"sync"

	"github.com/google/uuid"
)

// groupLocks hands out one mutex per group id. Entries are reference
// counted and dropped once no goroutine holds or waits on them.
type groupLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*groupLock
}

type groupLock struct {
	sync.Mutex
	refs int
}

func newGroupLocks() *groupLocks {
	return &groupLocks{locks: make(map[uuid.UUID]*groupLock)}
}

// Lock blocks until the caller owns the group's lock and returns the release func.
func (g *groupLocks) Lock(groupID uuid.UUID) func() {
	g.mu.Lock()
	lock, ok := g.locks[groupID]
	if !ok {
		lock = &groupLock{}
		g.locks[groupID] = lock
	}
	lock.refs++
	g.mu.Unlock()

	lock.Lock()

	return func() {
		lock.Unlock()

		g.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(g.locks, groupID)
		}
		g.mu.Unlock()
	}
}

func (g *groupLocks) size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.locks)
}
