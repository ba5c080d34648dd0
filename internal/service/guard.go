package service

import "sync"

// actionGuard serializes mutating invite-link and send actions per key.
// TryLock fails instead of blocking: while one generate, revoke or send is
// running for a key, a second request for the same key is rejected rather
// than queued.
type actionGuard struct {
	mu   sync.Mutex
	busy map[string]bool
}

func newActionGuard() *actionGuard {
	return &actionGuard{busy: make(map[string]bool)}
}

// TryLock claims the key. It returns false when the key is already held.
func (g *actionGuard) TryLock(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy[key] {
		return false
	}
	g.busy[key] = true
	return true
}

// Unlock releases the key.
func (g *actionGuard) Unlock(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.busy, key)
}
