package tradeJournalService

import (
	"slices"
	"sync"
)

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// keyLocker is an in-process Locker. Entries are dropped once no goroutine holds or waits on them.
type keyLocker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

func newKeyLocker() *keyLocker {
	return &keyLocker{locks: make(map[string]*keyLock)}
}

// Lock acquires every (userID, symbol) key in sorted order so that overlapping multi-key callers cannot deadlock.
func (l *keyLocker) Lock(userID string, symbols ...string) func() {
	keys := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		keys = append(keys, userID+"\x00"+symbol)
	}
	slices.Sort(keys)
	keys = slices.Compact(keys)

	for _, key := range keys {
		l.acquire(key)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			for i := len(keys) - 1; i >= 0; i-- {
				l.release(keys[i])
			}
		})
	}
}

func (l *keyLocker) acquire(key string) {
	l.mu.Lock()
	lock, ok := l.locks[key]
	if !ok {
		lock = &keyLock{}
		l.locks[key] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.mu.Lock()
}

func (l *keyLocker) release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock := l.locks[key]
	lock.mu.Unlock()
	lock.refs--
	if lock.refs == 0 {
		delete(l.locks, key)
	}
}

func (l *keyLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
