// Package fetch implements the Document Fetcher (C7): resolving a search
// result identifier back to full display text.
package fetch

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docsearch/internal/interfaces"
)

const notFoundBody = "Document not found."

var headingLineRe = regexp.MustCompile(`^(#{1,6})\s`)

// Fetcher resolves three identifier families: local documents, sections
// (identifiers containing "#"), and external posts (library-prefixed
// identifiers matching a registered live adapter).
type Fetcher struct {
	storage  interfaces.CatalogStorage
	content  interfaces.ContentSource
	urls     interfaces.URLResolver
	adapters map[string]interfaces.LiveAdapter
	logger   arbor.ILogger
}

// New builds a Fetcher. adapters is keyed by the identifier prefix each
// live adapter owns (e.g. "sap-help", "community").
func New(storage interfaces.CatalogStorage, content interfaces.ContentSource, urls interfaces.URLResolver, adapters []interfaces.LiveAdapter, logger arbor.ILogger) *Fetcher {
	byPrefix := make(map[string]interfaces.LiveAdapter, len(adapters))
	for _, a := range adapters {
		byPrefix[a.Name()] = a
	}
	return &Fetcher{storage: storage, content: content, urls: urls, adapters: byPrefix, logger: logger}
}

// Fetch resolves id to plain, Markdown-oriented text. It never returns an
// error across the tool-surface boundary: a missing or malformed identifier
// yields a short "not found" body instead.
func (f *Fetcher) Fetch(id string) string {
	if id == "" {
		return notFoundBody
	}

	if adapterName, externalID, ok := f.splitExternalID(id); ok {
		if adapter, ok := f.adapters[adapterName]; ok {
			if body, found := adapter.GetByID(context.Background(), externalID); found {
				return body
			}
		}
		return notFoundBody
	}

	if parentID, _, ok := strings.Cut(id, "#"); ok && parentID != "" {
		return f.fetchSection(id, parentID)
	}

	return f.fetchLocal(id)
}

func (f *Fetcher) fetchLocal(id string) string {
	doc, err := f.storage.GetDocument(id)
	if err != nil || doc == nil {
		return notFoundBody
	}
	body, err := f.content.Read(doc.LibraryID, doc.RelFile)
	if err != nil {
		if f.logger != nil {
			f.logger.Debug().Err(err).Str("id", id).Msg("fetch: local document content unreadable")
		}
		return notFoundBody
	}
	url := f.urls.Resolve(doc, body)
	return provenanceHeader(doc.Title, url) + body
}

func (f *Fetcher) fetchSection(id, parentID string) string {
	doc, err := f.storage.GetDocument(id)
	if err != nil || doc == nil || !doc.IsSection() {
		return notFoundBody
	}
	parent, err := f.storage.GetDocument(parentID)
	if err != nil || parent == nil {
		return notFoundBody
	}
	full, err := f.content.Read(parent.LibraryID, parent.RelFile)
	if err != nil {
		return notFoundBody
	}

	excerpt := sliceSection(full, doc.StartLine, doc.HeadingLevel)
	url := f.urls.Resolve(parent, full)
	return provenanceHeader(doc.Title, url) + excerpt
}

// sliceSection returns the lines spanning a section's heading through the
// line before the next heading of equal-or-lesser level.
// startLine is 1-based and points at the heading line itself.
func sliceSection(content string, startLine, headingLevel int) string {
	lines := strings.Split(content, "\n")
	start := startLine - 1
	if start < 0 || start >= len(lines) {
		return ""
	}

	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		m := headingLineRe.FindStringSubmatch(lines[i])
		if m != nil && len(m[1]) <= headingLevel {
			end = i
			break
		}
	}
	return strings.TrimSpace(strings.Join(lines[start:end], "\n"))
}

// splitExternalID reports whether id belongs to a registered live adapter,
// e.g. "sap-help-123456" -> ("sap-help", "123456", true). When several
// adapter names prefix id ("community" and "community-articles"), the
// longest one wins.
func (f *Fetcher) splitExternalID(id string) (adapterName, externalID string, ok bool) {
	for name := range f.adapters {
		prefix := name + "-"
		if strings.HasPrefix(id, prefix) && len(name) > len(adapterName) {
			adapterName, externalID, ok = name, strings.TrimPrefix(id, prefix), true
		}
	}
	return adapterName, externalID, ok
}

func provenanceHeader(title, url string) string {
	if url == "" {
		url = "URL unavailable"
	}
	return fmt.Sprintf("# %s\nSource: %s\n\n", title, url)
}
