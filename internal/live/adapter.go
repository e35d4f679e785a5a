// Package live implements the Live Source Adapters (C5): a uniform
// query->Hit[] capability per external source, bounded per-call deadlines,
// a TTL response cache, best-effort HTML sanitization, and the HTTP client
// each adapter shares.
package live

import (
	"context"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docsearch/internal/interfaces"
	"github.com/ternarybob/docsearch/internal/models"
	"golang.org/x/time/rate"
)

// Config controls one adapter's endpoint, timeout, cache TTL and pacing.
type Config struct {
	Name          string
	BaseURL       string
	Timeout       time.Duration
	CacheTTL      time.Duration
	RatePerSecond float64
	Burst         int
}

// baseAdapter carries the plumbing every concrete adapter shares: HTTP
// client, response cache, and rate limiter. Concrete adapters embed it and
// implement their own Query/GetByID against their source's wire format.
type baseAdapter struct {
	cfg     Config
	client  *http.Client
	cache   *ttlCache
	limiter *rate.Limiter
	logger  arbor.ILogger
}

func newBaseAdapter(cfg Config, logger arbor.ILogger) baseAdapter {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	return baseAdapter{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		cache:   newTTLCache(),
		limiter: newLimiter(cfg.RatePerSecond, cfg.Burst),
		logger:  logger,
	}
}

// withDeadline bounds ctx by the adapter's configured timeout: exceeding
// it yields an empty result set, not a request failure.
func (a *baseAdapter) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.cfg.Timeout)
}

func (a *baseAdapter) cacheKey(parts ...string) string {
	key := a.cfg.Name
	for _, p := range parts {
		key += "|" + p
	}
	return key
}

var _ interfaces.LiveAdapter = (*nullAdapter)(nil)

// nullAdapter is a no-op adapter; it always returns an empty, error-free
// result set.
type nullAdapter struct{ name string }

func (n *nullAdapter) Name() string { return n.name }
func (n *nullAdapter) Query(ctx context.Context, query string) ([]models.LiveHit, error) {
	return nil, nil
}
func (n *nullAdapter) GetByID(ctx context.Context, id string) (string, bool) { return "", false }
