package harvest

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ternarybob/docsearch/internal/frontmatter"
	"github.com/ternarybob/docsearch/internal/models"
)

var h1Re = regexp.MustCompile(`(?m)^#\s+(.+?)\s*#*\s*$`)

// extractMarkdown is the "markdown" extractor: strip front-matter, derive
// title/description/snippet count, and synthesize Section Documents from
// any level 2-4 headings in the body.
func extractMarkdown(libraryID, relFile, content string) (*models.Document, []*models.Document) {
	meta, body := frontmatter.Split(content)

	title := firstH1(body)
	if title == "" {
		title = titleFromFilename(relFile)
	}

	description := meta["synopsis"]
	if description == "" {
		description = firstBodyLine(body)
	}

	id := libraryID + "/" + slugify(strings.TrimSuffix(filepath.Base(relFile), filepath.Ext(relFile)))
	if fmID, ok := meta["id"]; ok && fmID != "" {
		id = libraryID + "/" + fmID
	}

	doc := &models.Document{
		ID:           id,
		LibraryID:    libraryID,
		Kind:         models.KindGuide,
		Title:        title,
		Description:  description,
		RelFile:      relFile,
		SnippetCount: countFences(body),
	}

	sections := splitSections(libraryID, doc.ID, body)
	return doc, sections
}

func firstH1(body string) string {
	m := h1Re.FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func firstBodyLine(body string) string {
	inFence := false
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence || trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		return truncate(trimmed, 300)
	}
	return ""
}

func titleFromFilename(relFile string) string {
	base := filepath.Base(relFile)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ReplaceAll(base, "-", " ")
	base = strings.ReplaceAll(base, "_", " ")
	return strings.TrimSpace(base)
}
