package directions

import (
	"context"
	"log/slog"
	"time"

	"campusnav.org/internal/cache"
	"campusnav.org/internal/navigation"
)

// CachingProvider memoizes routes of another provider for a TTL. Failures
// are not cached.
type CachingProvider struct {
	next   Provider
	cache  *cache.Cache[*navigation.Route]
	logger *slog.Logger
}

func NewCachingProvider(next Provider, ttl time.Duration, logger *slog.Logger) *CachingProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachingProvider{
		next:   next,
		cache:  cache.New[*navigation.Route](ttl),
		logger: logger.With(slog.String("component", "directions_cache")),
	}
}

func (p *CachingProvider) Route(ctx context.Context, req Request) (*navigation.Route, error) {
	key := req.Key()
	if route, ok := p.cache.Get(key); ok {
		p.logger.Debug("directions cache hit", slog.String("key", key))
		return route, nil
	}

	route, err := p.next.Route(ctx, req)
	if err != nil {
		return nil, err
	}
	p.cache.Set(key, route)
	return route, nil
}

// Close stops the cache sweeper.
func (p *CachingProvider) Close() {
	p.cache.Close()
}
