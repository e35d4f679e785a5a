package search

import "strings"

// contextVocab associates a set of query terms with the libraries that are
// their natural home. A query whose terms fall within one vocabulary but
// whose candidate Document belongs to a different vocabulary's library
// incurs a context penalty.
type contextVocab struct {
	terms     []string
	libraries []string
}

var contextVocabs = []contextVocab{
	{
		terms:     []string{"cap", "cds", "service", "entity", "odata", "annotation"},
		libraries: []string{"/cap"},
	},
	{
		terms:     []string{"wizard", "control", "aggregation", "binding", "fiori elements", "sap.m", "sap.ui"},
		libraries: []string{"/sapui5", "/openui5-api"},
	},
	{
		terms:     []string{"cloud sdk", "resilience", "destination", "connectivity"},
		libraries: []string{"/cloud-sdk"},
	},
	{
		terms:     []string{"locator", "wdi5", "opa5", "testing framework"},
		libraries: []string{"/wdi5"},
	},
	{
		terms:     []string{"abap", "keyword documentation", "open sql"},
		libraries: []string{"/abap-docs", "/abap-docs-cloud"},
	},
}

// contextPenalty returns the context-aware penalty (0 or -25) for a
// candidate belonging to candidateLibrary against a lowercased query.
func contextPenalty(lowerQuery, candidateLibrary string) int {
	matchedAny := false
	for _, vocab := range contextVocabs {
		matched := false
		for _, term := range vocab.terms {
			if strings.Contains(lowerQuery, term) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		matchedAny = true
		if containsLibrary(vocab.libraries, candidateLibrary) {
			return 0
		}
	}
	if matchedAny && isContextualLibrary(candidateLibrary) {
		return -25
	}
	return 0
}

func containsLibrary(libs []string, lib string) bool {
	for _, l := range libs {
		if l == lib {
			return true
		}
	}
	return false
}

func isContextualLibrary(lib string) bool {
	for _, vocab := range contextVocabs {
		if containsLibrary(vocab.libraries, lib) {
			return true
		}
	}
	return false
}
