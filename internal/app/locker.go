package app

import "sync"

// gameLocker serializes operations per game so every load-transition-store
// cycle is atomic with respect to other requests on the same game.
type gameLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newGameLocker() *gameLocker {
	return &gameLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *gameLocker) lock(gameID string) *sync.Mutex {
	l.mu.Lock()
	m, ok := l.locks[gameID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[gameID] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m
}

func (l *gameLocker) forget(gameID string) {
	l.mu.Lock()
	delete(l.locks, gameID)
	l.mu.Unlock()
}
