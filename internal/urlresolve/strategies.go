package urlresolve

import (
	"regexp"
	"strings"

	"github.com/ternarybob/docsearch/internal/models"
)

var (
	loioCommentRe = regexp.MustCompile(`(?i)loio[0-9a-f]{10,}`)
	uuidRe        = regexp.MustCompile(`(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)
	apiPathRe     = regexp.MustCompile(`src/([A-Za-z0-9.]+)/(?:.*/)?([A-Za-z0-9]+)\.js$`)
)

// topicIDStrategy matches library pages that carry a stable topic
// identifier: a front-matter id, a "loio<hex>" HTML comment, or a UUID
// embedded in the filename. Produces "<base>/#/topic/<id>".
func topicIDStrategy(cfg models.UrlConfig, doc *models.Document, meta map[string]string, body string) string {
	var topic string
	if m := loioCommentRe.FindString(body); m != "" {
		topic = m
	} else if m := uuidRe.FindString(doc.RelFile); m != "" {
		topic = m
	} else if meta != nil && strings.HasPrefix(meta["id"], "loio") {
		topic = meta["id"]
	}
	if topic == "" {
		return ""
	}
	return strings.TrimRight(cfg.BaseURL, "/") + "/#/topic/" + topic
}

// docsifyStrategy yields "<base>/#/<section>/<id>" or, when pathPattern
// names a "docs" prefix, "<base>/docs/#/<section>/<id>".
func docsifyStrategy(cfg models.UrlConfig, doc *models.Document, meta map[string]string, body string) string {
	id := identifier(doc, meta)
	sec := section(doc.RelFile)
	if sec == "" {
		sec = "guides"
	}
	prefix := "/#/"
	if strings.Contains(cfg.PathPattern, "/docs/") {
		prefix = "/docs/#/"
	}
	return strings.TrimRight(cfg.BaseURL, "/") + prefix + sec + "/" + id + anchor(cfg, doc.Title)
}

// apiReferenceStrategy extracts "namespace.ShortName" from a path shaped
// like "src/<namespace>/.../<ShortName>.js" and yields
// "<base>/#/api/<namespace>.<ShortName>". In a slash-separated layout
// ("src/sap/m/<ShortName>.js") the directories under src/ are joined with
// dots to form the namespace. Falls back to the Document's already-split
// Metadata.Namespace when the path itself doesn't match.
func apiReferenceStrategy(cfg models.UrlConfig, doc *models.Document, meta map[string]string, body string) string {
	var namespace, short string
	if m := apiPathRe.FindStringSubmatch(doc.RelFile); m != nil {
		namespace, short = m[1], m[2]
		if !strings.Contains(namespace, ".") {
			if i := strings.LastIndex(doc.RelFile, "src/"); i >= 0 {
				if dir := strings.TrimSuffix(doc.RelFile[i+len("src/"):], "/"+short+".js"); dir != "" {
					namespace = strings.ReplaceAll(dir, "/", ".")
				}
			}
		}
	} else if doc.Metadata != nil && doc.Metadata.Namespace != "" {
		namespace = doc.Metadata.Namespace
		short = lastSegment(doc.Title)
	}
	if namespace == "" || short == "" {
		return ""
	}
	return strings.TrimRight(cfg.BaseURL, "/") + "/#/api/" + namespace + "." + short
}

// samplesStrategy yields "<base>/entity/<control>/sample/<sampleName>".
func samplesStrategy(cfg models.UrlConfig, doc *models.Document, meta map[string]string, body string) string {
	if doc.Metadata == nil || doc.Metadata.Control == "" {
		return ""
	}
	sampleName := identifier(doc, meta)
	return strings.TrimRight(cfg.BaseURL, "/") + "/entity/" + doc.Metadata.Control + "/sample/" + sampleName
}

// abapKeywordStrategy maps a filename to "<base>/<filename>.html"; the base
// is chosen per-library by UrlConfig (on-premise vs cloud flavor configs
// are registered as distinct LibraryID entries).
func abapKeywordStrategy(cfg models.UrlConfig, doc *models.Document, meta map[string]string, body string) string {
	id := identifier(doc, meta)
	if id == "" {
		return ""
	}
	return strings.TrimRight(cfg.BaseURL, "/") + "/" + id + ".html"
}

func lastSegment(s string) string {
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return s[i+1:]
	}
	return s
}
