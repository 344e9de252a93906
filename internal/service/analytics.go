package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/marelvy/linkpulse/internal/cache"
	"github.com/marelvy/linkpulse/internal/model"
	"github.com/marelvy/linkpulse/internal/repository"
)

// Aggregates are cheap to recompute, so they only get a short
// memoization window.
const analyticsCacheTTL = 5 * time.Minute

// clicksByDate only reports the trailing week.
const recentWindow = 7 * 24 * time.Hour

// AliasAnalytics aggregates the click history of a single alias.
// ErrNotFound when the alias does not exist.
func (s *Service) AliasAnalytics(ctx context.Context, alias string) (*model.AliasAnalytics, error) {
	return memoize(ctx, s, "analytics:"+alias, func() (*model.AliasAnalytics, error) {
		rec, err := s.store.GetByAlias(ctx, alias)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}

		events, err := s.store.EventsByAlias(ctx, alias)
		if err != nil {
			return nil, err
		}

		now := s.now()
		return &model.AliasAnalytics{
			TotalClicks:  rec.ClickCount,
			UniqueUsers:  uniqueUsers(events),
			ClicksByDate: clicksByDate(events, now),
			OSType:       osBreakdown(events),
			DeviceType:   deviceBreakdown(events),
		}, nil
	})
}

// TopicAnalytics aggregates across every alias the owner filed under
// topic. Totals sum the per-alias counters; the event histories are
// only loaded for the unique-user and date computations.
func (s *Service) TopicAnalytics(ctx context.Context, ownerID, topic string) (*model.TopicAnalytics, error) {
	key := "analytics:topic:" + ownerID + ":" + topic
	return memoize(ctx, s, key, func() (*model.TopicAnalytics, error) {
		records, err := s.store.ListByOwnerAndTopic(ctx, ownerID, topic)
		if err != nil {
			return nil, err
		}

		result := &model.TopicAnalytics{
			URLs: make([]model.AliasSummary, 0, len(records)),
		}
		var all []model.ClickEvent
		for _, rec := range records {
			events, err := s.store.EventsByAlias(ctx, rec.Alias)
			if err != nil {
				return nil, err
			}
			result.TotalClicks += rec.ClickCount
			result.URLs = append(result.URLs, model.AliasSummary{
				ShortURL:    s.baseURL + "/" + rec.Alias,
				TotalClicks: rec.ClickCount,
				UniqueUsers: uniqueUsers(events),
			})
			all = append(all, events...)
		}

		result.UniqueUsers = uniqueUsers(all)
		result.ClicksByDate = clicksByDate(all, s.now())
		return result, nil
	})
}

// OverallAnalytics aggregates an owner's entire alias set.
func (s *Service) OverallAnalytics(ctx context.Context, ownerID string) (*model.OverallAnalytics, error) {
	key := "analytics:overall:" + ownerID
	return memoize(ctx, s, key, func() (*model.OverallAnalytics, error) {
		records, err := s.store.ListByOwner(ctx, ownerID)
		if err != nil {
			return nil, err
		}

		result := &model.OverallAnalytics{TotalURLs: len(records)}
		var all []model.ClickEvent
		for _, rec := range records {
			events, err := s.store.EventsByAlias(ctx, rec.Alias)
			if err != nil {
				return nil, err
			}
			result.TotalClicks += rec.ClickCount
			all = append(all, events...)
		}

		result.UniqueUsers = uniqueUsers(all)
		result.ClicksByDate = clicksByDate(all, s.now())
		result.OSType = osBreakdown(all)
		result.DeviceType = deviceBreakdown(all)
		return result, nil
	})
}

// memoize serves a computed aggregate from the cache under key, or runs
// compute and caches its serialized result for analyticsCacheTTL.
// Purely an optimization: with a nil or failing cache the caller gets
// the same result, just freshly computed every time.
func memoize[T any](ctx context.Context, s *Service, key string, compute func() (T, error)) (T, error) {
	var zero T

	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			var cached T
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
			s.log.Warn("discarding undecodable cached aggregate", "key", key)
		case !errors.Is(err, cache.ErrMiss):
			s.log.Warn("analytics cache read failed", "key", key, "error", err.Error())
		}
	}

	result, err := compute()
	if err != nil {
		return zero, err
	}

	if s.cache != nil {
		raw, err := json.Marshal(result)
		if err == nil {
			err = s.cache.Set(ctx, key, string(raw), analyticsCacheTTL)
		}
		if err != nil {
			s.log.Warn("analytics cache write failed", "key", key, "error", err.Error())
		}
	}

	return result, nil
}

// ============================================================
// PURE AGGREGATION HELPERS
// ============================================================

// uniqueUsers counts distinct IP addresses across events.
func uniqueUsers(events []model.ClickEvent) int {
	ips := make(map[string]struct{}, len(events))
	for _, e := range events {
		ips[e.IPAddress] = struct{}{}
	}
	return len(ips)
}

// clicksByDate buckets events from the trailing 7 days by UTC calendar
// date. Dates without events are omitted, never zero-filled. Output is
// sorted ascending by date for stable JSON.
func clicksByDate(events []model.ClickEvent, now time.Time) []model.DateClicks {
	cutoff := now.Add(-recentWindow)

	counts := make(map[string]int)
	for _, e := range events {
		if e.Timestamp.Before(cutoff) {
			continue
		}
		counts[e.Timestamp.UTC().Format("2006-01-02")]++
	}

	out := make([]model.DateClicks, 0, len(counts))
	for date, clicks := range counts {
		out = append(out, model.DateClicks{Date: date, Clicks: clicks})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

type groupStat struct {
	clicks int
	ips    map[string]struct{}
}

// groupBy buckets events by an arbitrary string key. Each group's
// unique-user count is local to the group: an IP seen under two
// different keys counts once in each.
func groupBy(events []model.ClickEvent, key func(model.ClickEvent) string) map[string]*groupStat {
	groups := make(map[string]*groupStat)
	for _, e := range events {
		k := key(e)
		g, ok := groups[k]
		if !ok {
			g = &groupStat{ips: make(map[string]struct{})}
			groups[k] = g
		}
		g.clicks++
		g.ips[e.IPAddress] = struct{}{}
	}
	return groups
}

// osBreakdown groups events by operating system, sorted by name.
func osBreakdown(events []model.ClickEvent) []model.OSStat {
	groups := groupBy(events, func(e model.ClickEvent) string { return e.OSType })

	out := make([]model.OSStat, 0, len(groups))
	for name, g := range groups {
		out = append(out, model.OSStat{
			OSName:       name,
			UniqueClicks: g.clicks,
			UniqueUsers:  len(g.ips),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OSName < out[j].OSName })
	return out
}

// deviceBreakdown groups events by device type, sorted by name.
func deviceBreakdown(events []model.ClickEvent) []model.DeviceStat {
	groups := groupBy(events, func(e model.ClickEvent) string { return e.DeviceType })

	out := make([]model.DeviceStat, 0, len(groups))
	for name, g := range groups {
		out = append(out, model.DeviceStat{
			DeviceName:   name,
			UniqueClicks: g.clicks,
			UniqueUsers:  len(g.ips),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeviceName < out[j].DeviceName })
	return out
}
