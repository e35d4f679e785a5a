package live

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docsearch/internal/models"
)

// CommunityAdapter queries a community forum's search endpoint. The
// community adapter occasionally sits behind bot protection and returns
// HTML instead of JSON; the contract permits degraded empty results but
// must not retry aggressively, so a failed decode is treated as zero hits
// rather than an error.
type CommunityAdapter struct {
	baseAdapter
}

// NewCommunityAdapter returns a community-forum adapter. CacheTTL defaults
// shorter than article-site adapters since community content churns faster.
func NewCommunityAdapter(cfg Config, logger arbor.ILogger) *CommunityAdapter {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * time.Minute
	}
	if cfg.Name == "" {
		cfg.Name = "community"
	}
	return &CommunityAdapter{baseAdapter: newBaseAdapter(cfg, logger)}
}

func (c *CommunityAdapter) Name() string { return c.cfg.Name }

type communitySearchResponse struct {
	Results []struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		URL     string `json:"url"`
		Snippet string `json:"snippet"`
	} `json:"results"`
}

func (c *CommunityAdapter) Query(ctx context.Context, query string) ([]models.LiveHit, error) {
	key := c.cacheKey("query", query)
	if cached, ok := c.cache.get(key); ok {
		return cached.([]models.LiveHit), nil
	}

	if err := waitLimiter(ctx, c.limiter); err != nil {
		return nil, nil
	}

	ctx, cancel := c.withDeadline(ctx)
	defer cancel()

	endpoint := fmt.Sprintf("%s/search?q=%s", c.cfg.BaseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, nil
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("adapter", c.cfg.Name).Msg("live: community request failed")
		return nil, nil
	}
	defer resp.Body.Close()

	var parsed communitySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		// Likely bot-protection HTML rather than JSON; degrade quietly.
		c.logger.Debug().Str("adapter", c.cfg.Name).Msg("live: community response was not JSON, returning empty result")
		return nil, nil
	}

	hits := make([]models.LiveHit, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		hits = append(hits, models.LiveHit{
			ID:      "community-" + r.ID,
			Title:   sanitizeHTML(r.Title),
			URL:     r.URL,
			Snippet: sanitizeHTML(r.Snippet),
			Source:  c.cfg.Name,
		})
	}

	c.cache.set(key, hits, c.cfg.CacheTTL)
	return hits, nil
}

func (c *CommunityAdapter) GetByID(ctx context.Context, id string) (string, bool) {
	key := c.cacheKey("byid", id)
	if cached, ok := c.cache.get(key); ok {
		return cached.(string), true
	}

	ctx, cancel := c.withDeadline(ctx)
	defer cancel()

	endpoint := fmt.Sprintf("%s/posts/%s", c.cfg.BaseURL, url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()

	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", false
	}

	text := htmlSnippetToMarkdown(body.Text)
	c.cache.set(key, text, c.cfg.CacheTTL)
	return text, true
}
