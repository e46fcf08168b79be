package token

import (
	"sync"
	"time"
)

// Blacklist holds signed-out refresh tokens by jti. An entry only matters
// until the token would have expired on its own.
type Blacklist interface {
	Blacklist(jti string, userID int64, until time.Time) error
	Contains(jti string) bool
	// Purge drops entries whose token has expired and reports how many went.
	Purge(now time.Time) int
}

type blacklistEntry struct {
	userID int64
	until  time.Time
}

type MemoryBlacklist struct {
	mu      sync.RWMutex
	entries map[string]blacklistEntry
}

func NewMemoryBlacklist() *MemoryBlacklist {
	return &MemoryBlacklist{entries: make(map[string]blacklistEntry)}
}

func (b *MemoryBlacklist) Blacklist(jti string, userID int64, until time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[jti] = blacklistEntry{userID: userID, until: until}
	return nil
}

func (b *MemoryBlacklist) Contains(jti string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.entries[jti]
	return ok
}

func (b *MemoryBlacklist) Purge(now time.Time) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	purged := 0
	for jti, e := range b.entries {
		if !now.Before(e.until) {
			delete(b.entries, jti)
			purged++
		}
	}
	return purged
}

// ForUser counts live entries for a user.
func (b *MemoryBlacklist) ForUser(userID int64) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, e := range b.entries {
		if e.userID == userID {
			n++
		}
	}
	return n
}
