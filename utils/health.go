package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Redis     map[string]bool `json:"redis,omitempty"`
	CheckedAt time.Time       `json:"checkedAt"`
}

// HealthMonitor pings the named Redis clients periodically and keeps the
// latest snapshot in memory.
type HealthMonitor struct {
	clients  map[string]*redis.Client
	interval time.Duration

	mu      sync.RWMutex
	current HealthStatus
}

func NewHealthMonitor(clients map[string]*redis.Client, interval time.Duration) *HealthMonitor {
	return &HealthMonitor{clients: clients, interval: interval}
}

// Status returns latest stored health snapshot.
func (m *HealthMonitor) Status() HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Healthy is true when every monitored client answered the last ping.
func (m *HealthMonitor) Healthy() bool {
	status := m.Status()
	for _, ok := range status.Redis {
		if !ok {
			return false
		}
	}
	return true
}

// Check pings every client once and stores the result.
func (m *HealthMonitor) Check(ctx context.Context) {
	redisHealth := make(map[string]bool, len(m.clients))
	for name, client := range m.clients {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		redisHealth[name] = client.Ping(pingCtx).Err() == nil
		cancel()
	}

	m.mu.Lock()
	m.current = HealthStatus{Redis: redisHealth, CheckedAt: time.Now()}
	m.mu.Unlock()
}

// Start runs Check on every tick until ctx is done.
func (m *HealthMonitor) Start(ctx context.Context) {
	m.Check(ctx)
	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Check(ctx)
			}
		}
	}()
}
