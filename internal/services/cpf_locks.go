package services

import "sync"

// cpfLocks serializes work on the same CPF while letting different CPFs
// proceed in parallel. Entries are dropped once nobody holds or waits on them.
type cpfLocks struct {
	mu    sync.Mutex
	locks map[string]*cpfLock
}

type cpfLock struct {
	mu   sync.Mutex
	refs int
}

func newCPFLocks() *cpfLocks {
	return &cpfLocks{locks: make(map[string]*cpfLock)}
}

// Lock blocks until cpf is free and returns the matching unlock func
func (l *cpfLocks) Lock(cpf string) func() {
	l.mu.Lock()
	entry, ok := l.locks[cpf]
	if !ok {
		entry = &cpfLock{}
		l.locks[cpf] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, cpf)
		}
		l.mu.Unlock()
	}
}

// size reports how many CPFs currently have a lock entry
func (l *cpfLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
