package ticker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dalemusser/jobboard/internal/app/system/timeouts"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrUnavailable means no quote has ever been obtained.
var ErrUnavailable = errors.New("ticker: price quote unavailable")

// DefaultTTL is how long a quote is served before a read triggers a refresh.
const DefaultTTL = 5 * time.Minute

// SharedCache is a cross-process quote cache (Redis in production).
type SharedCache interface {
	Get(ctx context.Context) (Quote, bool)
	Set(ctx context.Context, q Quote) error
}

// Service is the process-wide price cache injected into handlers.
type Service struct {
	src    Source
	shared SharedCache
	ttl    time.Duration
	now    func() time.Time
	log    *zap.Logger

	mu  sync.RWMutex
	cur Quote

	group singleflight.Group
}

// Option customizes a Service.
type Option func(*Service)

// WithSharedCache adds a second-level cache consulted before the upstream.
func WithSharedCache(c SharedCache) Option {
	return func(s *Service) { s.shared = c }
}

// WithClock replaces time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService builds a Service over src. ttl <= 0 uses DefaultTTL.
func NewService(src Source, ttl time.Duration, logger *zap.Logger, opts ...Option) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Service{src: src, ttl: ttl, now: time.Now, log: logger}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Current returns a quote no older than the TTL when possible.
//
// On a refresh failure the last good quote is served (stale) and the error
// is only logged. ErrUnavailable is returned when there is nothing to serve.
func (s *Service) Current(ctx context.Context) (Quote, error) {
	q := s.snapshot()
	if !q.IsZero() && s.fresh(q) {
		return q, nil
	}

	fresh, err := s.load(ctx, false)
	if err == nil {
		return fresh, nil
	}
	if !q.IsZero() {
		s.log.Warn("ticker refresh failed; serving stale quote",
			zap.Error(err),
			zap.Time("fetched_at", q.FetchedAt))
		return q, nil
	}
	return Quote{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// Refresh fetches from the upstream now, ignoring the TTL.
func (s *Service) Refresh(ctx context.Context) error {
	_, err := s.load(ctx, true)
	return err
}

// Snapshot returns the cached quote without refreshing (may be zero).
func (s *Service) Snapshot() Quote { return s.snapshot() }

func (s *Service) snapshot() Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

func (s *Service) fresh(q Quote) bool {
	return s.now().Sub(q.FetchedAt) < s.ttl
}

// load collapses concurrent refreshes into one upstream round trip. The
// shared fetch is detached from the caller that started it and bounded by
// the upstream timeout; each caller waits only on its own context.
func (s *Service) load(ctx context.Context, force bool) (Quote, error) {
	key := "read"
	if force {
		key = "force"
	}
	ch := s.group.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.Upstream())
		defer cancel()

		if !force && s.shared != nil {
			if q, ok := s.shared.Get(fctx); ok && s.fresh(q) {
				s.store(q)
				return q, nil
			}
		}

		q, err := s.src.Fetch(fctx)
		if err != nil {
			return Quote{}, err
		}
		s.store(q)

		if s.shared != nil {
			if err := s.shared.Set(fctx, q); err != nil {
				s.log.Warn("ticker shared cache write failed", zap.Error(err))
			}
		}
		s.log.Debug("ticker refreshed",
			zap.Float64("btc_usd", q.BTCUSD),
			zap.Float64("trx_btc", q.TRXBTC))
		return q, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return Quote{}, res.Err
		}
		return res.Val.(Quote), nil
	case <-ctx.Done():
		return Quote{}, ctx.Err()
	}
}

func (s *Service) store(q Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q.FetchedAt.Before(s.cur.FetchedAt) {
		return
	}
	s.cur = q
}
