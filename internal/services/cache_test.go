package services

import (
	"context"
	"testing"
	"time"

	"macropulse/backend-go/internal/models"
)

func TestMemorySnapshotCacheColdStart(t *testing.T) {
	cache := NewMemorySnapshotCache(time.Now)
	if _, ok := cache.Get(context.Background()); ok {
		t.Fatal("expected cold cache to miss")
	}
}

func TestMemorySnapshotCacheTTL(t *testing.T) {
	base := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	cache := NewMemorySnapshotCache(func() time.Time { return clock })

	cache.Put(context.Background(), models.MacroResponse{Timestamp: "t1"})

	snap, ok := cache.Get(context.Background())
	if !ok {
		t.Fatal("expected entry after put")
	}
	if !snap.Fresh(base.Add(14*time.Minute), 15*time.Minute) {
		t.Fatal("expected entry fresh at 14 minutes")
	}
	if snap.Fresh(base.Add(15*time.Minute), 15*time.Minute) {
		t.Fatal("expected entry stale at exactly 15 minutes")
	}

	// Stale entries stay readable: the serve-stale decision belongs to the
	// caller, not the cache.
	snap, ok = cache.Get(context.Background())
	if !ok || snap.Payload.Timestamp != "t1" {
		t.Fatal("expected stale entry to remain retrievable")
	}
}

func TestMemorySnapshotCachePutReplacesWholeEntry(t *testing.T) {
	base := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	cache := NewMemorySnapshotCache(func() time.Time { return clock })

	cache.Put(context.Background(), models.MacroResponse{Timestamp: "t1"})
	clock = base.Add(20 * time.Minute)
	cache.Put(context.Background(), models.MacroResponse{Timestamp: "t2"})

	snap, ok := cache.Get(context.Background())
	if !ok {
		t.Fatal("expected entry")
	}
	if snap.Payload.Timestamp != "t2" {
		t.Fatalf("expected replaced payload, got %s", snap.Payload.Timestamp)
	}
	if !snap.FetchedAt.Equal(base.Add(20 * time.Minute)) {
		t.Fatalf("expected restamped fetch time, got %v", snap.FetchedAt)
	}
	if got := snap.Age(base.Add(25 * time.Minute)); got != 5*time.Minute {
		t.Fatalf("expected age 5m, got %v", got)
	}
}
