package service

import (
	"errors"
	"strings"
	"time"

	"github.com/marelvy/linkpulse/internal/agent"
	"github.com/marelvy/linkpulse/internal/cache"
	"github.com/marelvy/linkpulse/internal/geo"
	"github.com/marelvy/linkpulse/internal/logger"
	"github.com/marelvy/linkpulse/internal/repository"
)

// Custom errors for the service layer
var (
	ErrInvalidURL   = errors.New("invalid URL format")
	ErrEmptyURL     = errors.New("URL cannot be empty")
	ErrAliasExists  = errors.New("custom alias already taken")
	ErrInvalidAlias = errors.New("alias contains invalid characters")
	ErrNotFound     = errors.New("alias not found")
)

// Service implements alias resolution, click recording and analytics
// aggregation over an alias store and an optional fast cache.
//
// All external effects are injected: the store, the cache (nil disables
// every caching path for good, it is not a degraded mode), the
// user-agent parser, the geo lookup (nil records clicks without
// location) and the clock (so date-window aggregation is deterministic
// under test).
type Service struct {
	store   repository.Store
	cache   cache.Cache // nil when caching is disabled
	parse   agent.Parser
	locate  geo.Lookup // nil when no geo database is configured
	baseURL string
	log     *logger.Logger
	now     func() time.Time
}

// New creates a service instance. parse must not be nil; cache and
// locate may be.
func New(store repository.Store, c cache.Cache, parse agent.Parser, locate geo.Lookup, baseURL string, log *logger.Logger) *Service {
	return &Service{
		store:   store,
		cache:   c,
		parse:   parse,
		locate:  locate,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
		now:     time.Now,
	}
}
