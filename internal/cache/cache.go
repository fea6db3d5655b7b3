package cache

import (
	"log/slog"
	"time"
)

// Cleaner interface for caches that support cleanup
type Cleaner interface {
	CleanExpired() int
}

// Manager handles cache lifecycle and cleanup
type Manager struct {
	caches      []Cleaner
	stopCleanup chan struct{}
	cleanupDone chan struct{}
}

// NewManager creates a new cache manager
func NewManager() *Manager {
	return &Manager{
		caches:      make([]Cleaner, 0),
		stopCleanup: make(chan struct{}),
		cleanupDone: make(chan struct{}),
	}
}

// Register adds a cache to the manager for cleanup. Register before
// StartCleanup; the slice is not guarded.
func (m *Manager) Register(cache Cleaner) {
	m.caches = append(m.caches, cache)
}

// StartCleanup begins periodic cleanup of all registered caches
func (m *Manager) StartCleanup(interval time.Duration) {
	go m.cleanup(interval)
}

func (m *Manager) cleanup(interval time.Duration) {
	defer close(m.cleanupDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			totalCleaned := 0
			for _, cache := range m.caches {
				totalCleaned += cache.CleanExpired()
			}
			if totalCleaned > 0 {
				slog.Debug("Cache cleanup completed", "entries_removed", totalCleaned)
			}
		case <-m.stopCleanup:
			return
		}
	}
}

// Stop gracefully stops the cleanup routine
func (m *Manager) Stop() {
	if m.stopCleanup != nil {
		close(m.stopCleanup)
		<-m.cleanupDone
	}
}
