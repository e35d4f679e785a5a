package models

// QueryExpansion is the ordered, deduplicated list of query variants produced
// by the query expander. Variants[0] is always the original query, trimmed.
type QueryExpansion struct {
	Original string
	Variants []string
}

// ScoreBreakdown records the per-stage contributions behind a SearchHit's
// final score, kept for diagnostics and tie-breaking; it is not serialized
// into tool output.
type ScoreBreakdown struct {
	TitleMatch     int
	KeywordMatch   int
	ExactMatch     int
	FuzzyMatch     int
	ExcerptMatch   int
	ContextPenalty int
	SectionBias    int
	FusionScore    float64
}

// SearchHit is a single ranked result: a Document identifier, its final
// score, the stage breakdown that produced it, an optional highlighted
// excerpt, and the resolved public URL (empty when unresolvable).
type SearchHit struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Breakdown ScoreBreakdown `json:"-"`
	Excerpt  string         `json:"excerpt,omitempty"`
	URL      string         `json:"url,omitempty"`
	Title    string         `json:"title"`
	LibraryID string        `json:"libraryId"`
	Kind     string         `json:"kind"`
	Source   string         `json:"source,omitempty"` // "catalog" or an adapter's source label
}

// SearchResult is the Hybrid Scorer's response envelope: the ranked hits
// plus the degraded-mode annotations spec.md §7 requires — Notice records
// an index fallback (FTS error, served from a full catalog scan) and
// Warning names the live adapters whose Query returned an error (results
// may be missing online contributions). An adapter that times out returns
// an empty set without an error and is not named.
type SearchResult struct {
	Hits    []SearchHit `json:"results"`
	Notice  string      `json:"notice,omitempty"`
	Warning string      `json:"warning,omitempty"`
}

// LiveHit is a single result from a live source adapter.
type LiveHit struct {
	ID      string
	Title   string
	URL     string
	Snippet string
	Source  string
}
