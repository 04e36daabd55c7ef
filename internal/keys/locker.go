package keys

import "sync"

// Locker hands out exclusive per-key locks. Entries are reference counted
// and dropped once nobody holds or waits for them.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func NewLocker() *Locker {
	return &Locker{locks: make(map[string]*lockEntry)}
}

// Lock acquires every key in canonical order and returns a function that
// releases them. Two callers locking overlapping sets cannot deadlock.
func (l *Locker) Lock(keys ...string) (unlock func()) {
	ordered := Canonical(keys...)
	held := make([]*lockEntry, 0, len(ordered))
	for _, k := range ordered {
		e := l.acquire(k)
		e.mu.Lock()
		held = append(held, e)
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			for i := len(held) - 1; i >= 0; i-- {
				held[i].mu.Unlock()
				l.release(ordered[i])
			}
		})
	}
}

func (l *Locker) acquire(k string) *lockEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.locks[k]
	if !ok {
		e = &lockEntry{}
		l.locks[k] = e
	}
	e.refs++
	return e
}

func (l *Locker) release(k string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e := l.locks[k]
	e.refs--
	if e.refs == 0 {
		delete(l.locks, k)
	}
}

// size is the number of live entries.
func (l *Locker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
