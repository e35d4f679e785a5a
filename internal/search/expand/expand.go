// Package expand produces bounded, ordered query variant lists for the
// hybrid scorer. It is a stateless, rune-safe text transform in the same
// spirit as a tokenizer: no I/O, no external state.
package expand

import (
	"strings"
	"unicode"

	"github.com/ternarybob/docsearch/internal/models"
)

// synonyms is a static bidirectional substitution table. Each pair is tried
// in both directions against the raw query.
var synonyms = [][2]string{
	{"wizard", "multi-step process"},
	{"odata", "data protocol"},
	{"cds entity", "entity definition"},
	{"annotation", "metadata decoration"},
	{"binding", "data connection"},
}

// domainAliases are one-directional rewrites applied after synonyms.
var domainAliases = map[string]string{
	"cds entity": "entity definition",
}

// Expand derives the ordered list of query variants for q, per the five
// rules: raw trimmed query, synonym substitution, namespace heuristics,
// compound splits, and domain aliases. Duplicates are removed after
// case-folding; the first variant is always the trimmed original.
func Expand(q string) models.QueryExpansion {
	original := strings.TrimSpace(q)

	seen := make(map[string]bool)
	var variants []string

	add := func(v string) {
		v = strings.TrimSpace(v)
		if v == "" {
			return
		}
		key := strings.ToLower(v)
		if seen[key] {
			return
		}
		seen[key] = true
		variants = append(variants, v)
	}

	add(original)

	if original == "" {
		return models.QueryExpansion{Original: original, Variants: variants}
	}

	lower := strings.ToLower(original)
	for _, pair := range synonyms {
		if strings.Contains(lower, pair[0]) {
			add(strings.ReplaceAll(lower, pair[0], pair[1]))
		}
		if strings.Contains(lower, pair[1]) {
			add(strings.ReplaceAll(lower, pair[1], pair[0]))
		}
	}

	if short, namespace, ok := splitNamespace(original); ok {
		add(short)
		add(namespace)
	}

	for _, token := range strings.Fields(original) {
		if split := splitCompound(token); split != token {
			add(split)
		}
	}

	if alias, ok := domainAliases[lower]; ok {
		add(alias)
	}

	return models.QueryExpansion{Original: original, Variants: variants}
}

// splitNamespace recognizes a UI5-style dotted identifier, e.g.
// "sap.m.Button", and returns its unqualified short name ("Button") and its
// namespace prefix ("sap.m") as separate candidate variants.
func splitNamespace(q string) (short, namespace string, ok bool) {
	token := strings.TrimSpace(q)
	if strings.ContainsAny(token, " \t\n") {
		return "", "", false
	}
	idx := strings.LastIndex(token, ".")
	if idx <= 0 || idx == len(token)-1 {
		return "", "", false
	}
	for _, r := range token {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '_' {
			return "", "", false
		}
	}
	return token[idx+1:], token[:idx], true
}

// splitCompound splits a camelCase or dotted token into space-separated
// words. Tokens with no internal case transitions or dots are returned
// unchanged.
func splitCompound(token string) string {
	if strings.Contains(token, ".") {
		return strings.ReplaceAll(token, ".", " ")
	}

	var b strings.Builder
	runes := []rune(token)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && !unicode.IsUpper(runes[i-1]) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
