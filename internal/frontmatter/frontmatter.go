// Package frontmatter implements a minimal YAML subset for per-document
// front-matter: scalars, quoted strings, and single-level sequences. It
// deliberately does not depend on a full YAML engine - malformed
// front-matter yields an empty map, never an error.
package frontmatter

import "strings"

// Split separates a leading "---\n...\n---\n" front-matter block from the
// remainder of the document body. If content does not open with a
// front-matter delimiter, the whole of content is returned as body with a
// nil map.
func Split(content string) (meta map[string]string, body string) {
	const delim = "---"

	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != delim {
		return nil, content
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == delim {
			end = i
			break
		}
	}
	if end == -1 {
		return nil, content
	}

	meta = Parse(strings.Join(lines[1:end], "\n"))
	body = strings.Join(lines[end+1:], "\n")
	return meta, body
}

// Parse reads "key: value" scalar lines and single-level "key:\n  - item"
// sequences (flattened to a comma-joined value) out of a YAML-subset block.
// Anything it cannot confidently parse is skipped rather than erroring.
func Parse(block string) map[string]string {
	out := map[string]string{}
	lines := strings.Split(block, "\n")

	var pendingKey string
	var seqItems []string

	flushSeq := func() {
		if pendingKey != "" && len(seqItems) > 0 {
			out[pendingKey] = strings.Join(seqItems, ",")
		}
		pendingKey = ""
		seqItems = nil
	}

	for _, raw := range lines {
		line := strings.TrimRight(raw, " \t")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if strings.HasPrefix(trimmed, "- ") || trimmed == "-" {
			if pendingKey != "" {
				item := strings.TrimSpace(strings.TrimPrefix(trimmed, "-"))
				seqItems = append(seqItems, unquote(item))
			}
			continue
		}

		flushSeq()

		idx := strings.Index(trimmed, ":")
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(trimmed[:idx])
		val := strings.TrimSpace(trimmed[idx+1:])
		if val == "" {
			// Possibly the start of a sequence on following lines.
			pendingKey = key
			continue
		}
		out[key] = unquote(val)
	}
	flushSeq()

	return out
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
