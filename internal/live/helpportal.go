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

// HelpPortalAdapter queries the SAP Help Portal's search endpoint. Its
// identifiers carry the "sap-help-" prefix the Document Fetcher (C7)
// dispatches external identifiers on.
type HelpPortalAdapter struct {
	baseAdapter
}

func NewHelpPortalAdapter(cfg Config, logger arbor.ILogger) *HelpPortalAdapter {
	if cfg.Name == "" {
		cfg.Name = "sap-help"
	}
	return &HelpPortalAdapter{baseAdapter: newBaseAdapter(cfg, logger)}
}

func (h *HelpPortalAdapter) Name() string { return h.cfg.Name }

type helpPortalResponse struct {
	Hits []struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		URL      string `json:"url"`
		Abstract string `json:"abstract"`
	} `json:"hits"`
}

func (h *HelpPortalAdapter) Query(ctx context.Context, query string) ([]models.LiveHit, error) {
	key := h.cacheKey("query", query)
	if cached, ok := h.cache.get(key); ok {
		return cached.([]models.LiveHit), nil
	}
	if err := waitLimiter(ctx, h.limiter); err != nil {
		return nil, nil
	}

	ctx, cancel := h.withDeadline(ctx)
	defer cancel()

	endpoint := fmt.Sprintf("%s/api/search?q=%s", h.cfg.BaseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, nil
	}
	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.Debug().Err(err).Str("adapter", h.cfg.Name).Msg("live: help portal request failed")
		return nil, nil
	}
	defer resp.Body.Close()

	var parsed helpPortalResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, nil
	}

	hits := make([]models.LiveHit, 0, len(parsed.Hits))
	for _, r := range parsed.Hits {
		hits = append(hits, models.LiveHit{
			ID:      h.cfg.Name + "-" + r.ID,
			Title:   sanitizeHTML(r.Title),
			URL:     r.URL,
			Snippet: sanitizeHTML(r.Abstract),
			Source:  h.cfg.Name,
		})
	}

	h.cache.set(key, hits, h.cfg.CacheTTL)
	return hits, nil
}

func (h *HelpPortalAdapter) GetByID(ctx context.Context, id string) (string, bool) {
	key := h.cacheKey("byid", id)
	if cached, ok := h.cache.get(key); ok {
		return cached.(string), true
	}

	ctx, cancel := h.withDeadline(ctx)
	defer cancel()

	endpoint := fmt.Sprintf("%s/api/topic/%s", h.cfg.BaseURL, url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", false
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()

	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", false
	}

	text := htmlSnippetToMarkdown(body.Content)
	h.cache.set(key, text, h.cfg.CacheTTL)
	return text, true
}
