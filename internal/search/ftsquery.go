package search

import (
	"strings"
	"unicode"
)

// buildFTSQuery turns a query-expansion variant into an FTS5 MATCH
// expression: each token is ORed together, and tokens of four characters or
// more get a prefix wildcard so partial words still surface candidates.
func buildFTSQuery(variant string) string {
	fields := strings.FieldsFunc(variant, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
	if len(fields) == 0 {
		return ""
	}

	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = escapeFTS(f)
		if f == "" {
			continue
		}
		if len(f) >= 4 {
			terms = append(terms, f+"*")
		} else {
			terms = append(terms, f)
		}
	}
	if len(terms) == 0 {
		return ""
	}
	return strings.Join(terms, " OR ")
}

func escapeFTS(token string) string {
	return strings.ReplaceAll(token, `"`, "")
}
