package harvest

import (
	"regexp"
	"strings"

	"github.com/ternarybob/docsearch/internal/models"
)

// extendRe matches a UI5-style class-extension marker, e.g.
// `sap.m.Button = BaseClass.extend("sap.m.Button", {` or
// `.extend("sap.ui.core.Control", {`.
var extendRe = regexp.MustCompile(`\.extend\(\s*"([A-Za-z0-9_.]+)"\s*,`)

var metadataBlockRe = regexp.MustCompile(`metadata\s*:\s*\{`)

var leadingCommentRe = regexp.MustCompile(`(?s)/\*\*(.*?)\*/`)

var mapKeyRe = regexp.MustCompile(`(?m)^\s*([A-Za-z0-9_$]+)\s*:\s*\{`)

// isJSDocLike reports whether content is eligible for the "jsdoc-like"
// extractor: it must contain both a class-extension marker and a metadata
// block.
func isJSDocLike(content string) bool {
	return extendRe.MatchString(content) && metadataBlockRe.MatchString(content)
}

// extractJSDoc is the "jsdoc-like" extractor.
func extractJSDoc(libraryID, relFile, content string) *models.Document {
	m := extendRe.FindStringSubmatch(content)
	if m == nil {
		return nil
	}
	fqName := m[1]
	namespace, shortName := splitFQName(fqName)

	description := leadingDescription(content)

	meta := &models.StructuredMetadata{
		Control:   shortName,
		Namespace: namespace,
	}
	if block := extractBraceBalanced(content, metadataBlockRe); block != "" {
		meta.Properties = topLevelKeys(block, "properties")
		meta.Events = topLevelKeys(block, "events")
		meta.Aggregations = topLevelKeys(block, "aggregations")
		meta.Keywords = append(append(append([]string{}, meta.Properties...), meta.Events...), meta.Aggregations...)
	}

	return &models.Document{
		ID:          libraryID + "/" + slugify(fqName),
		LibraryID:   libraryID,
		Kind:        models.KindAPIReference,
		Title:       fqName,
		Description: description,
		RelFile:     relFile,
		Metadata:    meta,
	}
}

func splitFQName(fqName string) (namespace, shortName string) {
	idx := strings.LastIndex(fqName, ".")
	if idx < 0 {
		return "", fqName
	}
	return fqName[:idx], fqName[idx+1:]
}

// leadingDescription captures the leading block comment before the first
// @-tag as the description.
func leadingDescription(content string) string {
	m := leadingCommentRe.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	body := m[1]
	if idx := strings.Index(body, "@"); idx >= 0 {
		body = body[:idx]
	}

	var lines []string
	for _, l := range strings.Split(body, "\n") {
		l = strings.TrimSpace(l)
		l = strings.TrimPrefix(l, "*")
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return truncate(strings.Join(lines, " "), 400)
}

// extractBraceBalanced returns the substring spanning the opening "{" found
// by re through its matching closing "}", scanning with brace-depth
// tracking so nested objects don't terminate the match early.
func extractBraceBalanced(content string, re *regexp.Regexp) string {
	loc := re.FindStringIndex(content)
	if loc == nil {
		return ""
	}
	start := strings.Index(content[loc[0]:], "{")
	if start < 0 {
		return ""
	}
	start += loc[0]

	depth := 0
	for i := start; i < len(content); i++ {
		switch content[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return content[start : i+1]
			}
		}
	}
	return ""
}

// topLevelKeys finds the named sub-map (e.g. "properties") within a
// metadata block and returns its single-level "name:" keys.
func topLevelKeys(metadataBlock, field string) []string {
	fieldRe := regexp.MustCompile(field + `\s*:\s*\{`)
	sub := extractBraceBalanced(metadataBlock, fieldRe)
	if sub == "" {
		return nil
	}
	// Strip the outer braces, then match only keys at depth 1 within sub.
	inner := sub[1 : len(sub)-1]
	depth := 0
	var keys []string
	matches := mapKeyRe.FindAllStringSubmatchIndex(inner, -1)
	for _, idx := range matches {
		// Recompute depth up to this match's start.
		before := inner[:idx[0]]
		d := strings.Count(before, "{") - strings.Count(before, "}")
		if d == depth {
			keys = append(keys, inner[idx[2]:idx[3]])
		}
	}
	return keys
}
