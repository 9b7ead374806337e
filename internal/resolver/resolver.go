package resolver

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/clintrovert/tricorder/internal/cache"
	"github.com/clintrovert/tricorder/pkg/types"
)

// Upstream is the slice of the Jira client the resolver needs.
type Upstream interface {
	GetIssue(ctx context.Context, key string) (*types.TicketSummary, error)
	CurrentUser(ctx context.Context) (string, error)
}

// Resolver serves ticket summaries from the cache, falling back to a
// single upstream fetch per key on a miss.
type Resolver struct {
	upstream Upstream
	cache    *cache.Cache
	logger   *zap.Logger

	// group coalesces concurrent fetches of the same uncached key into
	// one upstream call.
	group singleflight.Group
}

// New creates a resolver over the given upstream and cache.
func New(upstream Upstream, c *cache.Cache, logger *zap.Logger) *Resolver {
	return &Resolver{
		upstream: upstream,
		cache:    c,
		logger:   logger,
	}
}

// GetSummary returns the summary for key. A valid cache entry is returned
// without blocking; otherwise one upstream call is made and, on success,
// cached. Failures (*jira.NotFoundError, *jira.AuthError,
// *jira.UpstreamError) propagate to the caller and are never cached.
func (r *Resolver) GetSummary(ctx context.Context, key string) (*types.TicketSummary, error) {
	if summary, ok := r.cache.Get(key); ok {
		r.logger.Debug("cache hit", zap.String("key", key))
		return summary, nil
	}

	v, err, shared := r.group.Do(key, func() (interface{}, error) {
		summary, err := r.upstream.GetIssue(ctx, key)
		if err != nil {
			return nil, err
		}
		r.cache.Put(key, summary)
		return summary, nil
	})
	if err != nil {
		r.logger.Warn("upstream fetch failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	r.logger.Debug("fetched summary",
		zap.String("key", key),
		zap.Bool("coalesced", shared),
	)

	return v.(*types.TicketSummary), nil
}

// TestConnection verifies the upstream is reachable with the configured
// credentials and returns the authenticated user's name. It never consults
// the cache.
func (r *Resolver) TestConnection(ctx context.Context) (string, error) {
	user, err := r.upstream.CurrentUser(ctx)
	if err != nil {
		r.logger.Warn("connection test failed", zap.Error(err))
		return "", err
	}
	return user, nil
}
