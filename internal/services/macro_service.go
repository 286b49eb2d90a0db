package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"macropulse/backend-go/internal/config"
	"macropulse/backend-go/internal/models"
)

// SeriesFetcher is what the aggregation needs from the upstream client.
type SeriesFetcher interface {
	FetchSeries(ctx context.Context, seriesID string, limit int) ([]models.Observation, error)
}

// SnapshotMeta describes where a served snapshot came from.
type SnapshotMeta struct {
	Source string // "cache", "fred" or "stale_cache"
	Stale  bool
	Err    string
}

// MacroService runs the aggregation: serve fresh cache, otherwise fetch all
// series concurrently, assemble, cache, and fall back to a stale snapshot
// when a refetch loses the critical series.
type MacroService struct {
	cfg   config.Config
	cache SnapshotCache
	fred  SeriesFetcher
	now   func() time.Time
}

func NewMacroService(cfg config.Config, cache SnapshotCache, fred SeriesFetcher) *MacroService {
	return &MacroService{cfg: cfg, cache: cache, fred: fred, now: time.Now}
}

// Snapshot returns the aggregated dashboard payload. The error is non-nil
// only when no usable data exists at all: fresh fetch failed and the cache
// is cold.
func (s *MacroService) Snapshot(ctx context.Context) (models.MacroResponse, SnapshotMeta, error) {
	now := s.now()
	snap, ok := s.cache.Get(ctx)
	if ok && snap.Fresh(now, s.cfg.CacheTTL) {
		return servedFromCache(snap, now), SnapshotMeta{Source: "cache"}, nil
	}

	results := s.fetchAll(ctx)
	resp, err := Assemble(results, now)
	if err == nil {
		s.cache.Put(ctx, resp)
		return resp, SnapshotMeta{Source: "fred"}, nil
	}

	if ok {
		logrus.WithError(err).Warn("aggregation failed, serving stale snapshot")
		return servedFromCache(snap, now), SnapshotMeta{Source: "stale_cache", Stale: true, Err: err.Error()}, nil
	}
	return models.MacroResponse{}, SnapshotMeta{Source: "error", Err: err.Error()}, err
}

// fetchAll scatter-gathers every tracked series. Each goroutine settles into
// its own slot and always returns nil, so one failed series never cancels
// the others.
func (s *MacroService) fetchAll(ctx context.Context) map[string]SeriesResult {
	ids := TrackedSeries()
	results := make([]SeriesResult, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			obs, err := s.fred.FetchSeries(gctx, id, SeriesLimit(id))
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"series": id,
					"error":  err.Error(),
				}).Warn("series fetch failed")
			}
			results[i] = SeriesResult{ID: id, Obs: obs, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]SeriesResult, len(results))
	for _, r := range results {
		out[r.ID] = r
	}
	return out
}

func servedFromCache(snap Snapshot, now time.Time) models.MacroResponse {
	resp := snap.Payload
	resp.Cached = true
	age := int(snap.Age(now) / time.Minute)
	resp.CacheAge = &age
	return resp
}
