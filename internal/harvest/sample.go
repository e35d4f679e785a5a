package harvest

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ternarybob/docsearch/internal/models"
)

var funcDefRe = regexp.MustCompile(`\bfunction\b|\w+\s*:\s*function\s*\(`)
var eventBindingRe = regexp.MustCompile(`\bon[A-Z]\w*\s*:`)
var tagStartRe = regexp.MustCompile(`<[A-Za-z][\w.:-]*`)
var bindingRe = regexp.MustCompile(`\{[A-Za-z/][\w./>\- ]*\}`)
var scriptTagRe = regexp.MustCompile(`(?i)<script\b`)

// extractSample is the "sample" extractor: derive a control name from the
// path segment following "sample/", assign title and description by file
// suffix, and count syntactic patterns as a snippet count proxy.
func extractSample(libraryID, relFile, content string) *models.Document {
	control := controlFromSamplePath(relFile)
	if control == "" {
		return nil
	}

	base := path.Base(relFile)
	ext := strings.ToLower(path.Ext(base))

	var title, description string
	switch {
	case ext == ".js" && strings.Contains(strings.ToLower(base), "component"):
		title = control + " sample component"
		description = "Component definition for the " + control + " sample."
	case ext == ".js":
		title = control + " sample controller"
		description = "Controller logic for the " + control + " sample."
	case ext == ".xml":
		title = control + " sample view"
		description = "XML view markup for the " + control + " sample."
	case ext == ".json" && strings.Contains(strings.ToLower(base), "manifest"):
		title = control + " sample manifest"
		description = "App descriptor for the " + control + " sample."
	case ext == ".json":
		title = control + " sample model"
		description = "Model data for the " + control + " sample."
	case ext == ".html":
		title = control + " sample page"
		description = "Bootstrap page for the " + control + " sample."
	default:
		title = control + " sample file"
		description = "Supporting file for the " + control + " sample."
	}

	return &models.Document{
		ID:           libraryID + "/" + slugify(control) + "/sample/" + slugify(strings.TrimSuffix(base, path.Ext(base))),
		LibraryID:    libraryID,
		Kind:         models.KindSample,
		Title:        title,
		Description:  description,
		RelFile:      relFile,
		SnippetCount: countSyntacticPatterns(content),
		Metadata:     &models.StructuredMetadata{Control: control},
	}
}

// controlFromSamplePath extracts the first path segment following any
// "sample/" component in relFile.
func controlFromSamplePath(relFile string) string {
	parts := strings.Split(filepath.ToSlash(relFile), "/")
	for i, p := range parts {
		if p == "sample" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}

func countSyntacticPatterns(content string) int {
	count := 0
	count += len(funcDefRe.FindAllString(content, -1))
	count += len(eventBindingRe.FindAllString(content, -1))
	count += len(tagStartRe.FindAllString(content, -1))
	count += len(bindingRe.FindAllString(content, -1))
	count += len(scriptTagRe.FindAllString(content, -1))
	return count
}
