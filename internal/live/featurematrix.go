package live

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docsearch/internal/models"
)

// FeatureMatrixAdapter queries the ABAP release/feature matrix: a trivial
// JSON array wire format, so no extra parsing dependency is needed beyond
// the shared HTTP client and encoding/json.
type FeatureMatrixAdapter struct {
	baseAdapter
}

func NewFeatureMatrixAdapter(cfg Config, logger arbor.ILogger) *FeatureMatrixAdapter {
	if cfg.Name == "" {
		cfg.Name = "abap-feature-matrix"
	}
	return &FeatureMatrixAdapter{baseAdapter: newBaseAdapter(cfg, logger)}
}

func (f *FeatureMatrixAdapter) Name() string { return f.cfg.Name }

type featureMatrixEntry struct {
	Feature     string `json:"feature"`
	MinRelease  string `json:"minRelease"`
	Flavor      string `json:"flavor"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Query runs the feature_matrix tool's lookup against the matrix endpoint.
func (f *FeatureMatrixAdapter) Query(ctx context.Context, query string) ([]models.LiveHit, error) {
	key := f.cacheKey("query", query)
	if cached, ok := f.cache.get(key); ok {
		return cached.([]models.LiveHit), nil
	}
	if err := waitLimiter(ctx, f.limiter); err != nil {
		return nil, nil
	}

	ctx, cancel := f.withDeadline(ctx)
	defer cancel()

	endpoint := fmt.Sprintf("%s/feature-matrix?q=%s", f.cfg.BaseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, nil
	}
	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Debug().Err(err).Str("adapter", f.cfg.Name).Msg("live: feature matrix request failed")
		return nil, nil
	}
	defer resp.Body.Close()

	var entries []featureMatrixEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, nil
	}

	hits := make([]models.LiveHit, 0, len(entries))
	for i, e := range entries {
		hits = append(hits, models.LiveHit{
			ID:      fmt.Sprintf("abap-feature-%d", i),
			Title:   fmt.Sprintf("%s (%s, since %s)", e.Feature, e.Flavor, e.MinRelease),
			URL:     e.URL,
			Snippet: e.Description,
			Source:  f.cfg.Name,
		})
	}

	f.cache.set(key, hits, f.cfg.CacheTTL)
	return hits, nil
}

func (f *FeatureMatrixAdapter) GetByID(ctx context.Context, id string) (string, bool) {
	return "", false
}
