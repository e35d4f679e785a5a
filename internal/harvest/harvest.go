package harvest

import (
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docsearch/internal/models"
)

// Result is the outcome of harvesting one Source: its Documents (including
// synthesized sections) and the LibraryBundle it belongs to.
type Result struct {
	Bundle    models.LibraryBundle
	Documents []*models.Document
}

// Harvester walks the configured Registry and emits uniform Document
// records. Per-file errors are logged and the file is skipped; a batch
// never aborts because of one bad file.
type Harvester struct {
	logger arbor.ILogger
}

// New returns a Harvester that logs per-file failures through logger.
func New(logger arbor.ILogger) *Harvester {
	return &Harvester{logger: logger}
}

// HarvestAll walks every Source in reg and returns one Result per source.
func (h *Harvester) HarvestAll(reg Registry) []Result {
	results := make([]Result, 0, len(reg.Sources))
	for _, src := range reg.Sources {
		results = append(results, h.HarvestSource(src))
	}
	return results
}

// HarvestSource walks a single Source's directory tree, matching files
// against its include/exclude globs and dispatching each match to the
// source's declared extractor.
func (h *Harvester) HarvestSource(src Source) Result {
	result := Result{
		Bundle: models.LibraryBundle{
			ID:          src.LibraryID,
			DisplayName: src.DisplayName,
		},
	}

	err := filepath.Walk(src.Dir, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			h.logger.Warn().Err(walkErr).Str("path", path).Msg("harvest: walk error, skipping")
			return nil
		}
		if info.IsDir() {
			return nil
		}

		relFile, err := filepath.Rel(src.Dir, path)
		if err != nil {
			relFile = path
		}
		relFile = filepath.ToSlash(relFile)

		if src.Include != "" {
			if ok, _ := filepath.Match(src.Include, filepath.Base(path)); !ok {
				if ok2, _ := filepath.Match(src.Include, relFile); !ok2 {
					return nil
				}
			}
		}
		if src.Exclude != "" {
			if ok, _ := filepath.Match(src.Exclude, filepath.Base(path)); ok {
				return nil
			}
			if ok, _ := filepath.Match(src.Exclude, relFile); ok {
				return nil
			}
		}

		docs, err := h.extractFile(src, relFile, path)
		if err != nil {
			h.logger.Warn().Err(err).Str("path", path).Str("library", src.LibraryID).Msg("harvest: extraction failed, skipping file")
			return nil
		}
		result.Documents = append(result.Documents, docs...)
		return nil
	})
	if err != nil {
		h.logger.Error().Err(err).Str("dir", src.Dir).Msg("harvest: source walk failed")
	}

	return result
}

func (h *Harvester) extractFile(src Source, relFile, absPath string) ([]*models.Document, error) {
	raw, err := os.ReadFile(absPath)
	if err != nil {
		return nil, err
	}
	content := string(raw)

	switch src.Extractor {
	case ExtractorMarkdown:
		doc, sections := extractMarkdown(src.LibraryID, relFile, content)
		return append([]*models.Document{doc}, sections...), nil

	case ExtractorJSDoc:
		if !isJSDocLike(content) {
			return nil, nil
		}
		doc := extractJSDoc(src.LibraryID, relFile, content)
		if doc == nil {
			return nil, nil
		}
		return []*models.Document{doc}, nil

	case ExtractorSample:
		doc := extractSample(src.LibraryID, relFile, content)
		if doc == nil {
			return nil, nil
		}
		return []*models.Document{doc}, nil

	default:
		return nil, nil
	}
}
