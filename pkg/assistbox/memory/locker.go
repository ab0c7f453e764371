package memory

import "sync"

// lockEntry holds a per-key mutex and a reference count so the entry can be
// removed from the map when no goroutine is using it.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// keyLocker provides per-key mutual exclusion so concurrent writes to the
// same note are serialized while writes to distinct notes proceed in
// parallel. It lazily allocates a mutex per key and removes the entry when
// the last holder unlocks.
type keyLocker struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

func newKeyLocker() *keyLocker {
	return &keyLocker{
		locks: make(map[string]*lockEntry),
	}
}

func (kl *keyLocker) lock(key string) {
	kl.mu.Lock()
	e, ok := kl.locks[key]
	if !ok {
		e = &lockEntry{}
		kl.locks[key] = e
	}
	e.refs++
	kl.mu.Unlock()

	e.mu.Lock()
}

func (kl *keyLocker) unlock(key string) {
	kl.mu.Lock()
	e, ok := kl.locks[key]
	if !ok {
		kl.mu.Unlock()
		return
	}
	e.refs--
	if e.refs == 0 {
		delete(kl.locks, key)
	}
	kl.mu.Unlock()

	e.mu.Unlock()
}
