// Package urlresolve implements the URL Resolver (C6): a pure, deterministic
// mapping from a Document's (libraryId, relFile, content) plus its
// UrlConfig to a canonical public URL, dispatched through a per-library
// strategy table with a generic fallback.
package urlresolve

import (
	"strings"

	"github.com/ternarybob/docsearch/internal/frontmatter"
	"github.com/ternarybob/docsearch/internal/interfaces"
	"github.com/ternarybob/docsearch/internal/models"
)

// strategy produces a URL for a document given its parsed front-matter and
// body. It returns "" when it does not apply, letting the resolver fall
// through to the next strategy or the generic fallback.
type strategy func(cfg models.UrlConfig, doc *models.Document, meta map[string]string, body string) string

// Resolver dispatches to a per-library strategy, falling back to a generic
// pathPattern substitution when no strategy (or no config) applies.
type Resolver struct {
	configs    map[string]models.UrlConfig
	strategies map[string]strategy
	byKind     map[string]strategy
}

var _ interfaces.URLResolver = (*Resolver)(nil)

// New builds a Resolver from the configured per-library UrlConfig set.
// Strategy selection is by library ID first, then by Document.Kind; a
// library with no registered strategy still resolves via the generic
// fallback rather than failing.
func New(configs []models.UrlConfig) *Resolver {
	cfgByID := make(map[string]models.UrlConfig, len(configs))
	for _, c := range configs {
		cfgByID[c.LibraryID] = c
	}
	return &Resolver{
		configs: cfgByID,
		strategies: map[string]strategy{
			"sapui5":        docsifyStrategy,
			"openui5":       docsifyStrategy,
			"openui5-api":   apiReferenceStrategy,
			"openui5-samples": samplesStrategy,
			"abap-docs":       abapKeywordStrategy,
			"abap-docs-cloud": abapKeywordStrategy,
		},
		byKind: map[string]strategy{
			models.KindAPIReference: apiReferenceStrategy,
			models.KindSample:       samplesStrategy,
		},
	}
}

// Resolve never throws. On any unresolvable input it returns "", which
// downstream callers render as "URL unavailable."
func (r *Resolver) Resolve(doc *models.Document, content string) string {
	if doc == nil {
		return ""
	}
	cfg, ok := r.configs[doc.LibraryID]
	if !ok {
		return ""
	}

	meta, body := frontmatter.Split(content)

	if topicURL := topicIDStrategy(cfg, doc, meta, body); topicURL != "" {
		return topicURL
	}

	// Strategy keys omit the leading slash that catalog library IDs carry.
	if strat, ok := r.strategies[strings.TrimPrefix(doc.LibraryID, "/")]; ok {
		if url := strat(cfg, doc, meta, body); url != "" {
			return url
		}
	}
	if strat, ok := r.byKind[doc.Kind]; ok {
		if url := strat(cfg, doc, meta, body); url != "" {
			return url
		}
	}

	return genericFallback(cfg, doc, meta, body)
}

// identifier returns the preferred document identifier: front-matter "id",
// then "slug", then the filename without extension.
func identifier(doc *models.Document, meta map[string]string) string {
	if meta != nil {
		if id := meta["id"]; id != "" {
			return id
		}
		if slug := meta["slug"]; slug != "" {
			return slug
		}
	}
	base := doc.RelFile
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	return base
}

// section derives a coarse path-prefix label ("guides", "features",
// "tutorials", ...) used by the generic composer, or "" when RelFile has
// no recognizable leading directory segment.
func section(relFile string) string {
	relFile = strings.TrimPrefix(relFile, "/")
	i := strings.IndexByte(relFile, '/')
	if i <= 0 {
		return ""
	}
	return relFile[:i]
}

// anchor derives an in-page fragment from the document's title per the
// configured anchor style. Empty title yields no anchor.
func anchor(cfg models.UrlConfig, title string) string {
	if title == "" {
		return ""
	}
	switch cfg.AnchorStyle {
	case models.AnchorStyleGitHub:
		return "#" + githubSlug(title)
	case models.AnchorStyleDocsify:
		return "#" + githubSlug(title)
	default:
		return ""
	}
}

func githubSlug(title string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case r == ' ' || r == '-' || r == '_':
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// genericFallback concatenates base URL + pathPattern (with "{file}"
// substituted) + anchor.
func genericFallback(cfg models.UrlConfig, doc *models.Document, meta map[string]string, body string) string {
	if cfg.PathPattern == "" {
		return ""
	}
	id := identifier(doc, meta)
	path := strings.ReplaceAll(cfg.PathPattern, "{file}", id)
	return strings.TrimRight(cfg.BaseURL, "/") + path + anchor(cfg, doc.Title)
}
