package cache

import (
	"context"
	"log/slog"
	"time"
)

// Cleaner is any cache that can drop its expired entries.
type Cleaner interface {
	CleanExpired() int
}

// Manager runs the periodic expiry sweep over registered caches.
type Manager struct {
	caches []Cleaner
}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) Register(c Cleaner) {
	m.caches = append(m.caches, c)
}

// StartCleanup sweeps at the given interval until the context is
// cancelled.
func (m *Manager) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				total := 0
				for _, c := range m.caches {
					total += c.CleanExpired()
				}
				if total > 0 {
					slog.DebugContext(ctx, "Cache cleanup removed expired entries", "count", total)
				}
			}
		}
	}()
}
