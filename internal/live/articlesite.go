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

// ArticleSiteAdapter queries a third-party SAP article/blog site. Article
// content changes rarely, so its default cache TTL is 24h (the base adapter
// default, against 30 minutes for the community forum).
type ArticleSiteAdapter struct {
	baseAdapter
}

func NewArticleSiteAdapter(cfg Config, logger arbor.ILogger) *ArticleSiteAdapter {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	if cfg.Name == "" {
		cfg.Name = "community-articles"
	}
	return &ArticleSiteAdapter{baseAdapter: newBaseAdapter(cfg, logger)}
}

func (a *ArticleSiteAdapter) Name() string { return a.cfg.Name }

type articleSearchResponse struct {
	Articles []struct {
		Slug    string `json:"slug"`
		Title   string `json:"title"`
		URL     string `json:"url"`
		Excerpt string `json:"excerpt"`
	} `json:"articles"`
}

func (a *ArticleSiteAdapter) Query(ctx context.Context, query string) ([]models.LiveHit, error) {
	key := a.cacheKey("query", query)
	if cached, ok := a.cache.get(key); ok {
		return cached.([]models.LiveHit), nil
	}
	if err := waitLimiter(ctx, a.limiter); err != nil {
		return nil, nil
	}

	ctx, cancel := a.withDeadline(ctx)
	defer cancel()

	endpoint := fmt.Sprintf("%s/search?query=%s", a.cfg.BaseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, nil
	}
	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Debug().Err(err).Str("adapter", a.cfg.Name).Msg("live: article site request failed")
		return nil, nil
	}
	defer resp.Body.Close()

	var parsed articleSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, nil
	}

	hits := make([]models.LiveHit, 0, len(parsed.Articles))
	for _, r := range parsed.Articles {
		hits = append(hits, models.LiveHit{
			ID:      a.cfg.Name + "-" + r.Slug,
			Title:   sanitizeHTML(r.Title),
			URL:     r.URL,
			Snippet: sanitizeHTML(r.Excerpt),
			Source:  a.cfg.Name,
		})
	}

	a.cache.set(key, hits, a.cfg.CacheTTL)
	return hits, nil
}

func (a *ArticleSiteAdapter) GetByID(ctx context.Context, id string) (string, bool) {
	key := a.cacheKey("byid", id)
	if cached, ok := a.cache.get(key); ok {
		return cached.(string), true
	}

	ctx, cancel := a.withDeadline(ctx)
	defer cancel()

	endpoint := fmt.Sprintf("%s/articles/%s", a.cfg.BaseURL, url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", false
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()

	var body struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", false
	}

	text := htmlSnippetToMarkdown(body.Body)
	a.cache.set(key, text, a.cfg.CacheTTL)
	return text, true
}
