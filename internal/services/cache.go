package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"macropulse/backend-go/internal/config"
	"macropulse/backend-go/internal/models"
)

// Snapshot is one cached aggregation result. The whole entry is replaced on
// every successful refresh; fields are never mutated in place.
type Snapshot struct {
	Payload   models.MacroResponse `json:"payload"`
	FetchedAt time.Time            `json:"fetched_at"`
}

// Age reports how long ago the snapshot was fetched.
func (s Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}

// Fresh reports whether the snapshot is still inside the TTL window.
// A stale snapshot is not evicted; the caller decides whether serving it
// beats failing the request.
func (s Snapshot) Fresh(now time.Time, ttl time.Duration) bool {
	return s.Age(now) < ttl
}

// SnapshotCache holds at most one aggregated response. Get returns stale
// entries too; staleness is the caller's call, so a failed refetch can
// still fall back to the previous payload.
type SnapshotCache interface {
	Get(ctx context.Context) (Snapshot, bool)
	Put(ctx context.Context, payload models.MacroResponse)
	Backend() string
}

// NewSnapshotCache picks Redis when REDIS_URL is set and reachable,
// otherwise the in-process slot. Either way a cold cache after restart is a
// normal condition.
func NewSnapshotCache(cfg config.Config) SnapshotCache {
	if cfg.RedisURL == "" {
		return NewMemorySnapshotCache(time.Now)
	}
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logrus.WithError(err).Warn("invalid REDIS_URL, using memory cache")
		return NewMemorySnapshotCache(time.Now)
	}
	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logrus.WithError(err).Warn("redis unreachable, using memory cache")
		return NewMemorySnapshotCache(time.Now)
	}
	return &RedisSnapshotCache{client: client, key: "macro:snapshot:v1", now: time.Now}
}

// MemorySnapshotCache is the default single-slot cache. The clock is
// injectable so tests can drive TTL expiry without sleeping.
type MemorySnapshotCache struct {
	mu    sync.Mutex
	entry *Snapshot
	now   func() time.Time
}

func NewMemorySnapshotCache(now func() time.Time) *MemorySnapshotCache {
	if now == nil {
		now = time.Now
	}
	return &MemorySnapshotCache{now: now}
}

func (m *MemorySnapshotCache) Get(_ context.Context) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entry == nil {
		return Snapshot{}, false
	}
	return *m.entry, true
}

func (m *MemorySnapshotCache) Put(_ context.Context, payload models.MacroResponse) {
	entry := &Snapshot{Payload: payload, FetchedAt: m.now()}
	m.mu.Lock()
	m.entry = entry
	m.mu.Unlock()
}

func (m *MemorySnapshotCache) Backend() string { return "memory" }

// RedisSnapshotCache keeps the snapshot under one fixed key with no Redis
// expiry: staleness is judged from FetchedAt so stale entries stay
// available for degraded serving.
type RedisSnapshotCache struct {
	client *redis.Client
	key    string
	now    func() time.Time
}

func (r *RedisSnapshotCache) Get(ctx context.Context) (Snapshot, bool) {
	b, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		return Snapshot{}, false
	}
	var snap Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return Snapshot{}, false
	}
	return snap, true
}

func (r *RedisSnapshotCache) Put(ctx context.Context, payload models.MacroResponse) {
	snap := Snapshot{Payload: payload, FetchedAt: r.now()}
	b, err := json.Marshal(snap)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, r.key, b, 0).Err(); err != nil {
		logrus.WithError(err).Warn("snapshot cache write failed")
	}
}

func (r *RedisSnapshotCache) Backend() string { return "redis" }
