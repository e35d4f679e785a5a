package harvest

import (
	"regexp"
	"strings"

	"github.com/ternarybob/docsearch/internal/models"
)

const minSectionBodyLength = 100
const minSectionTitleLength = 3

var headingRe = regexp.MustCompile(`^(#{2,4})\s+(.+?)\s*#*\s*$`)
var nonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)

// slugify lowercases title and replaces non-alphanumeric runs with "-",
// trimming leading/trailing dashes, to form a stable section identifier.
func slugify(title string) string {
	s := strings.ToLower(title)
	s = nonAlnumRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// splitSections scans body line-by-line, opening a section at any ##/###/####
// heading and closing it at the next heading of equal-or-lesser level (or at
// EOF). Headings inside fenced code blocks are ignored. Only sections whose
// body length and title length clear the minimums become Documents.
func splitSections(libraryID, parentID, body string) []*models.Document {
	lines := strings.Split(body, "\n")

	type open struct {
		title string
		level int
		start int // 0-based line index of the heading line
	}

	var sections []*models.Document
	var stack []open
	inFence := false

	closeTo := func(level int, endLine int) {
		for len(stack) > 0 && stack[len(stack)-1].level >= level {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			sectionBody := strings.TrimSpace(strings.Join(lines[top.start+1:endLine], "\n"))
			if len(sectionBody) >= minSectionBodyLength && len(top.title) >= minSectionTitleLength {
				sections = append(sections, &models.Document{
					ID:           parentID + "#" + slugify(top.title),
					LibraryID:    libraryID,
					Kind:         models.KindSection,
					Title:        top.title,
					Description:  firstLine(sectionBody),
					ParentID:     parentID,
					HeadingLevel: top.level,
					StartLine:    top.start + 1, // 1-based
					SnippetCount: countFences(sectionBody),
				})
			}
		}
	}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}

		m := headingRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		level := len(m[1])
		title := strings.TrimSpace(m[2])

		closeTo(level, i)
		stack = append(stack, open{title: title, level: level, start: i})
	}
	closeTo(2, len(lines))

	return sections
}

func firstLine(s string) string {
	for _, l := range strings.Split(s, "\n") {
		l = strings.TrimSpace(l)
		if l != "" && !strings.HasPrefix(l, "#") {
			return truncate(l, 200)
		}
	}
	return ""
}

func countFences(s string) int {
	count := 0
	for _, line := range strings.Split(s, "\n") {
		t := strings.TrimSpace(line)
		if strings.HasPrefix(t, "```") || strings.HasPrefix(t, "~~~") {
			count++
		}
	}
	return count / 2
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

