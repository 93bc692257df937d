// Package reentrant provides a recursion-counting mutex.
//
// A node map is serialised by a single lock, but evaluating a node may call
// back into the same map (formula variables, access-mode dependencies,
// callbacks fired while the lock is held). The goroutine holding a Mutex can
// therefore lock it again; it must unlock it the same number of times.
package reentrant

import (
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"
)

// Mutex is a mutual exclusion lock that the owning goroutine may acquire
// recursively. The zero value is an unlocked mutex.
type Mutex struct {
	mu    sync.Mutex
	owner atomic.Int64
	depth int
}

// Lock acquires the mutex. If the calling goroutine already holds it, the
// recursion depth is incremented and Lock returns immediately.
func (m *Mutex) Lock() {
	id := goid.Get()
	if m.owner.Load() == id {
		m.depth++
		return
	}
	m.mu.Lock()
	m.owner.Store(id)
	m.depth = 1
}

// Unlock releases one level of the mutex. It panics if the calling goroutine
// does not hold the mutex.
func (m *Mutex) Unlock() {
	if m.owner.Load() != goid.Get() {
		panic("reentrant: unlock of mutex not held by this goroutine")
	}
	m.depth--
	if m.depth == 0 {
		m.owner.Store(0)
		m.mu.Unlock()
	}
}

// Held reports whether the calling goroutine holds the mutex.
func (m *Mutex) Held() bool {
	return m.owner.Load() == goid.Get()
}

// Depth returns the recursion depth. Only meaningful for the owner.
func (m *Mutex) Depth() int {
	if !m.Held() {
		return 0
	}
	return m.depth
}
