package service

import (
	"context"
	"errors"
	"time"

	"github.com/marelvy/linkpulse/internal/cache"
	"github.com/marelvy/linkpulse/internal/repository"
)

// Destination URLs are immutable after creation, so a cached entry can
// be served for a full day without a freshness check.
const urlCacheTTL = 24 * time.Hour

func urlCacheKey(alias string) string { return "url:" + alias }

// Resolve returns the destination URL for an alias, cache-aside: try
// the cache, fall back to the store, repopulate the cache on the way
// out. Cache failures of any kind degrade to a store read and are never
// surfaced. Resolve never mutates the store.
func (s *Service) Resolve(ctx context.Context, alias string) (string, error) {
	if s.cache != nil {
		longURL, err := s.cache.Get(ctx, urlCacheKey(alias))
		if err == nil {
			return longURL, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.log.Warn("url cache read failed, falling back to store",
				"alias", alias, "error", err.Error())
		}
	}

	rec, err := s.store.GetByAlias(ctx, alias)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, urlCacheKey(alias), rec.LongURL, urlCacheTTL); err != nil {
			s.log.Warn("url cache populate failed",
				"alias", alias, "error", err.Error())
		}
	}

	return rec.LongURL, nil
}
