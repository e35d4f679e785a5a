// Package search implements the Hybrid Scorer (C4): it fetches FTS
// candidates from the catalog, applies an additive-then-clamped scoring
// function (title/keyword/exact/fuzzy/excerpt matches, context penalties,
// section bias), falls back to a full catalog scan when the FTS engine
// yields nothing, and optionally fuses in live-adapter results via
// reciprocal-rank fusion.
package search

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docsearch/internal/interfaces"
	"github.com/ternarybob/docsearch/internal/models"
	"github.com/ternarybob/docsearch/internal/search/expand"
)

const (
	defaultK       = 10
	maxK           = 50
	candidatesPerVariant = 100
	rrfK           = 60
)

// Scorer implements interfaces.SearchService.
type Scorer struct {
	storage  interfaces.CatalogStorage
	urls     interfaces.URLResolver
	content  interfaces.ContentSource
	adapters []interfaces.LiveAdapter
	logger   arbor.ILogger
}

// New returns a Scorer. urls and content may be nil; adapters may be empty.
func New(storage interfaces.CatalogStorage, urls interfaces.URLResolver, content interfaces.ContentSource, adapters []interfaces.LiveAdapter, logger arbor.ILogger) *Scorer {
	return &Scorer{storage: storage, urls: urls, content: content, adapters: adapters, logger: logger}
}

var _ interfaces.SearchService = (*Scorer)(nil)

// Search runs the six-stage hybrid retrieval pipeline: expand,
// gather candidates, score, apply live-adapter fusion, and attach URLs.
func (s *Scorer) Search(ctx context.Context, query string, opts interfaces.SearchOptions) (models.SearchResult, error) {
	k := opts.Limit
	if k <= 0 {
		k = defaultK
	}
	if k > maxK {
		k = maxK
	}

	exp := expand.Expand(query)

	var notice string
	candidates, usedFallback, err := s.gatherCandidates(exp)
	if err != nil {
		// Index unavailable: degrade to full-scan fallback rather than fail.
		s.logger.Warn().Err(err).Msg("search: fts error, falling back to full catalog scan")
		candidates, err = s.fullScan(opts)
		usedFallback = true
		if err != nil {
			return models.SearchResult{}, err
		}
	}
	if usedFallback {
		notice = "search index unavailable; results served from a full catalog scan"
	}

	candidates = filterLibraries(candidates, opts.LibraryIDs)
	if !opts.IncludeSamples {
		candidates = filterOutSamples(candidates)
	}

	scored := s.scoreAll(exp, candidates)
	sortHits(scored)

	var liveHits []models.SearchHit
	var warning string
	if opts.IncludeOnline && len(s.adapters) > 0 {
		liveHits, warning = s.runAdapters(ctx, exp.Original)
	}

	fused := scored
	if len(liveHits) > 0 {
		fused = fuseRRF(scored, liveHits)
	}

	if len(fused) > k {
		fused = fused[:k]
	}

	for i := range fused {
		s.attachURLAndExcerpt(&fused[i])
	}

	if usedFallback {
		s.logger.Debug().Str("query", query).Msg("search: served from full-scan fallback")
	}

	return models.SearchResult{Hits: fused, Notice: notice, Warning: warning}, nil
}

// gatherCandidates runs each expansion variant through the FTS engine and
// unions the resulting Documents by identifier.
func (s *Scorer) gatherCandidates(exp models.QueryExpansion) ([]*models.Document, bool, error) {
	seen := map[string]*models.Document{}
	for _, variant := range exp.Variants {
		ftsQuery := buildFTSQuery(variant)
		if ftsQuery == "" {
			continue
		}
		docs, err := s.storage.FullTextSearch(ftsQuery, candidatesPerVariant)
		if err != nil {
			return nil, false, err
		}
		for _, d := range docs {
			seen[d.ID] = d
		}
	}

	out := make([]*models.Document, 0, len(seen))
	for _, d := range seen {
		out = append(out, d)
	}

	if len(out) == 0 {
		docs, err := s.fullScan(interfaces.SearchOptions{})
		return docs, err == nil, err
	}
	return out, false, nil
}

// fullScan is a full catalog scan used when FTS produces zero candidates
// or reports an error.
func (s *Scorer) fullScan(opts interfaces.SearchOptions) ([]*models.Document, error) {
	return s.storage.ListDocuments(&interfaces.ListOptions{Limit: 100000})
}

func filterLibraries(docs []*models.Document, libraryIDs []string) []*models.Document {
	if len(libraryIDs) == 0 {
		return docs
	}
	allowed := map[string]bool{}
	for _, id := range libraryIDs {
		allowed[id] = true
	}
	out := docs[:0:0]
	for _, d := range docs {
		if allowed[d.LibraryID] {
			out = append(out, d)
		}
	}
	return out
}

func filterOutSamples(docs []*models.Document) []*models.Document {
	out := docs[:0:0]
	for _, d := range docs {
		if d.Kind != models.KindSample {
			out = append(out, d)
		}
	}
	return out
}

// scoreAll applies the additive-then-clamped scoring function to every
// candidate against every expansion variant, keeping each candidate's best
// score across variants.
func (s *Scorer) scoreAll(exp models.QueryExpansion, candidates []*models.Document) []models.SearchHit {
	lowerOriginal := strings.ToLower(exp.Original)

	hits := make([]models.SearchHit, 0, len(candidates))
	for _, doc := range candidates {
		var best models.ScoreBreakdown
		var bestScore float64 = -1

		content := s.readContent(doc)

		for _, variant := range exp.Variants {
			bd := scoreOne(doc, variant, content)
			total := float64(bd.TitleMatch + bd.KeywordMatch + bd.ExactMatch + bd.FuzzyMatch + bd.ExcerptMatch + bd.ContextPenalty + bd.SectionBias)
			if total > bestScore {
				bestScore = total
				best = bd
			}
		}

		best.ContextPenalty = contextPenalty(lowerOriginal, doc.LibraryID)
		finalScore := float64(best.TitleMatch+best.KeywordMatch+best.ExactMatch+best.FuzzyMatch+best.ExcerptMatch+best.ContextPenalty+best.SectionBias)
		if finalScore < 0 {
			finalScore = 0
		}

		hits = append(hits, models.SearchHit{
			ID:        doc.ID,
			Score:     finalScore,
			Breakdown: best,
			Title:     doc.Title,
			LibraryID: doc.LibraryID,
			Kind:      doc.Kind,
			Source:    "catalog",
		})
	}
	return hits
}

// scoreOne scores a single (document, variant) pair.
func scoreOne(doc *models.Document, variant, content string) models.ScoreBreakdown {
	var bd models.ScoreBreakdown
	lowerTitle := strings.ToLower(doc.Title)
	lowerVariant := strings.ToLower(strings.TrimSpace(variant))
	if lowerVariant == "" {
		return bd
	}

	switch {
	case lowerTitle == lowerVariant:
		bd.TitleMatch = 100
	case strings.HasPrefix(lowerTitle, lowerVariant):
		bd.TitleMatch = 60
	case strings.Contains(lowerTitle, lowerVariant):
		bd.TitleMatch = 30
	}

	keywordBlob := strings.ToLower(keywordBlobFor(doc))
	if keywordBlob != "" {
		tokens := map[string]bool{}
		for _, t := range strings.Fields(lowerVariant) {
			if strings.Contains(keywordBlob, t) {
				tokens[t] = true
			}
		}
		bd.KeywordMatch = len(tokens) * 15
		if bd.KeywordMatch > 60 {
			bd.KeywordMatch = 60
		}
	}

	if doc.Metadata != nil {
		if strings.EqualFold(doc.Metadata.Control, variant) || strings.EqualFold(doc.Metadata.Namespace, variant) {
			bd.ExactMatch = 80
		}
	}

	for _, token := range strings.Fields(lowerVariant) {
		if len(token) < 4 {
			continue
		}
		for _, titleToken := range strings.Fields(lowerTitle) {
			if len(titleToken) < 4 {
				continue
			}
			if levenshtein(token, titleToken, 2) <= 2 {
				bd.FuzzyMatch = 20
				break
			}
		}
		if bd.FuzzyMatch > 0 {
			break
		}
	}

	if content != "" && strings.Contains(strings.ToLower(content), lowerVariant) {
		bd.ExcerptMatch = 10
	}

	if doc.IsSection() && strings.Contains(lowerTitle, lowerVariant) {
		bd.SectionBias = 5
	}

	return bd
}

func keywordBlobFor(doc *models.Document) string {
	if doc.Metadata == nil {
		return ""
	}
	var parts []string
	parts = append(parts, doc.Metadata.Keywords...)
	parts = append(parts, doc.Metadata.Properties...)
	parts = append(parts, doc.Metadata.Events...)
	parts = append(parts, doc.Metadata.Aggregations...)
	return strings.Join(parts, " ")
}

func (s *Scorer) readContent(doc *models.Document) string {
	if s.content == nil || doc.RelFile == "" {
		return ""
	}
	text, err := s.content.Read(doc.LibraryID, doc.RelFile)
	if err != nil {
		return ""
	}
	return text
}

// sortHits sorts by descending score, then longer title-match prefix,
// then lexicographic identifier.
func sortHits(hits []models.SearchHit) {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		if hits[i].Breakdown.TitleMatch != hits[j].Breakdown.TitleMatch {
			return hits[i].Breakdown.TitleMatch > hits[j].Breakdown.TitleMatch
		}
		return hits[i].ID < hits[j].ID
	})
}

// runAdapters queries every live adapter concurrently and returns whatever
// best-effort results arrive; an adapter whose Query returns an error
// yields nothing rather than failing the request, and its name is recorded
// in the returned warning string per spec.md §7's "Upstream unavailable"
// case. An adapter that times out returns no error and is not named.
func (s *Scorer) runAdapters(ctx context.Context, query string) ([]models.SearchHit, string) {
	var mu sync.Mutex
	var out []models.SearchHit
	var failed []string
	var wg sync.WaitGroup

	for _, adapter := range s.adapters {
		wg.Add(1)
		go func(a interfaces.LiveAdapter) {
			defer wg.Done()
			liveHits, err := a.Query(ctx, query)
			if err != nil {
				s.logger.Warn().Err(err).Str("adapter", a.Name()).Msg("search: live adapter failed, omitting contribution")
				mu.Lock()
				failed = append(failed, a.Name())
				mu.Unlock()
				return
			}
			mu.Lock()
			for _, h := range liveHits {
				out = append(out, models.SearchHit{
					ID:        h.ID,
					Title:     h.Title,
					URL:       h.URL,
					Excerpt:   h.Snippet,
					Source:    h.Source,
					LibraryID: "",
					Kind:      models.KindExternalPost,
				})
			}
			mu.Unlock()
		}(adapter)
	}

	wg.Wait()

	var warning string
	if len(failed) > 0 {
		sort.Strings(failed)
		warning = "upstream unavailable: " + strings.Join(failed, ", ")
	}
	return out, warning
}

// fuseRRF merges local and live-adapter result lists via reciprocal rank
// fusion: score = sum(1 / (rrfK + rank)) over every list a hit appears in.
func fuseRRF(local, live []models.SearchHit) []models.SearchHit {
	fusedScore := map[string]float64{}
	byID := map[string]models.SearchHit{}

	for rank, h := range local {
		fusedScore[h.ID] += 1.0 / float64(rrfK+rank+1)
		byID[h.ID] = h
	}
	for rank, h := range live {
		fusedScore[h.ID] += 1.0 / float64(rrfK+rank+1)
		if existing, ok := byID[h.ID]; ok {
			existing.Source = existing.Source + "+" + h.Source
			byID[h.ID] = existing
		} else {
			byID[h.ID] = h
		}
	}

	out := make([]models.SearchHit, 0, len(byID))
	for id, h := range byID {
		h.Score = fusedScore[id]
		h.Breakdown.FusionScore = fusedScore[id]
		out = append(out, h)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// attachURLAndExcerpt resolves a hit's public URL and excerpt text.
func (s *Scorer) attachURLAndExcerpt(hit *models.SearchHit) {
	if hit.URL != "" {
		return // already carries a live-adapter URL
	}
	doc, err := s.storage.GetDocument(hit.ID)
	if err != nil || doc == nil {
		return
	}

	content := s.readContent(doc)
	if s.urls != nil {
		hit.URL = s.urls.Resolve(doc, content)
	}
	if hit.Excerpt == "" {
		hit.Excerpt = excerptFrom(content, doc.Description)
	}
}

func excerptFrom(content, fallback string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if len(trimmed) > 240 {
			trimmed = trimmed[:240]
		}
		return trimmed
	}
	return fallback
}
