package ssb

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Store is the data-access layer shared by the tools. It resolves a
// (table, period) to an immutable Dataset, consulting in order: the
// in-memory copy, the SQLite cache, and finally the network. After the
// first successful fetch an experiment run does not depend on network
// availability until the TTL expires.
//
// Store is safe for concurrent use. A refresh swaps the dataset pointer
// under the lock, so readers see either the old or the new complete
// dataset and never a mix.
type Store struct {
	client        *Client
	cache         *Cache
	ttl           time.Duration
	staleFallback bool
	logger        *slog.Logger

	mu   sync.RWMutex
	live map[string]*Dataset
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithCache attaches a persistent cache.
func WithCache(cache *Cache) StoreOption {
	return func(s *Store) {
		s.cache = cache
	}
}

// WithTTL sets how long a fetched dataset is considered fresh.
// Default is 24 hours.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithStaleFallback controls whether a stale dataset is served when a
// refresh fails. Default is true; every stale serve is logged at Warn,
// since silently outdated financial figures are a trust problem.
func WithStaleFallback(enabled bool) StoreOption {
	return func(s *Store) {
		s.staleFallback = enabled
	}
}

// WithLogger sets the logger for policy decisions (stale serves, cache
// write failures). Default discards.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a Store around the given client.
func NewStore(client *Client, opts ...StoreOption) *Store {
	s := &Store{
		client:        client,
		ttl:           24 * time.Hour,
		staleFallback: true,
		logger:        slog.New(slog.DiscardHandler),
		live:          make(map[string]*Dataset),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dataset returns the dataset for (tableID, period), fetching and caching
// it if needed. On fetch failure with a stale dataset available and the
// stale fallback enabled, the stale dataset is returned and the decision
// logged; otherwise the *FetchError (or *ParseError) is returned.
func (s *Store) Dataset(ctx context.Context, tableID, period string) (*Dataset, error) {
	key := tableID + "|" + period
	now := time.Now()

	s.mu.RLock()
	live := s.live[key]
	s.mu.RUnlock()

	if live != nil && live.Age(now) < s.ttl {
		return live, nil
	}

	// A stale in-memory copy is still a fallback candidate.
	stale := live
	if stale == nil && s.cache != nil {
		cached, err := s.cache.Load(ctx, tableID, period)
		switch {
		case err == nil:
			if cached.Age(now) < s.ttl {
				s.swap(key, cached)
				return cached, nil
			}
			stale = cached
		case !errors.Is(err, ErrCacheMiss):
			s.logger.Warn("ssb: cache read failed", "table", tableID, "period", period, "err", err)
		}
	}

	fresh, err := s.client.FetchHouseholdBudget(ctx, tableID, period)
	if err != nil {
		if stale != nil && s.staleFallback {
			s.logger.Warn("ssb: serving stale dataset after fetch failure",
				"table", tableID, "period", period, "age", stale.Age(now), "err", err)
			s.swap(key, stale)
			return stale, nil
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Store(ctx, fresh); err != nil {
			s.logger.Warn("ssb: cache write failed", "table", tableID, "period", period, "err", err)
		}
	}
	s.swap(key, fresh)
	return fresh, nil
}

// HouseholdBudget is shorthand for Dataset on the household budget table.
func (s *Store) HouseholdBudget(ctx context.Context, period string) (*Dataset, error) {
	if period == "" {
		period = DefaultPeriod
	}
	return s.Dataset(ctx, TableHouseholdBudget, period)
}

func (s *Store) swap(key string, d *Dataset) {
	s.mu.Lock()
	s.live[key] = d
	s.mu.Unlock()
}
