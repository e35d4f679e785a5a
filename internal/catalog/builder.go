// Package catalog implements the Catalog & FTS Builder (C2): it persists
// the harvested Document catalog as human-readable JSON artifacts and
// drives the SQLite-backed FTS projection through interfaces.CatalogStorage.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docsearch/internal/harvest"
	"github.com/ternarybob/docsearch/internal/interfaces"
	"github.com/ternarybob/docsearch/internal/models"
)

// Builder writes index.json and per-library data_<libid>.json mirrors into
// a catalog directory, and upserts the same Documents into storage before
// rebuilding the FTS projection in one idempotent pass.
type Builder struct {
	storage   interfaces.CatalogStorage
	logger    arbor.ILogger
	outputDir string
}

// New returns a Builder writing JSON artifacts to outputDir and Documents to
// storage.
func New(storage interfaces.CatalogStorage, logger arbor.ILogger, outputDir string) *Builder {
	return &Builder{storage: storage, logger: logger, outputDir: outputDir}
}

// indexEntry is one library's listing inside index.json.
type indexEntry struct {
	Bundle    models.LibraryBundle `json:"bundle"`
	DocumentIDs []string           `json:"documentIds"`
}

// Rebuild clears the existing catalog, persists the Documents and libraries
// of every harvest result it is given, rebuilds the FTS projection, and writes the JSON
// mirrors. The whole operation is idempotent: safe to call repeatedly.
func (b *Builder) Rebuild(results []harvest.Result) error {
	if err := b.storage.ClearAll(); err != nil {
		return fmt.Errorf("catalog: clear before rebuild: %w", err)
	}

	index := map[string]indexEntry{}

	for _, res := range results {
		if err := b.storage.SaveLibraries([]*models.LibraryBundle{&res.Bundle}); err != nil {
			return fmt.Errorf("catalog: save library %s: %w", res.Bundle.ID, err)
		}
		if err := b.storage.SaveDocuments(res.Documents); err != nil {
			return fmt.Errorf("catalog: save documents for %s: %w", res.Bundle.ID, err)
		}

		entry := indexEntry{Bundle: res.Bundle}
		for _, d := range res.Documents {
			entry.DocumentIDs = append(entry.DocumentIDs, d.ID)
		}
		index[res.Bundle.ID] = entry

		if err := b.writeLibraryMirror(res.Bundle.ID, res.Documents); err != nil {
			return err
		}

		b.logger.Info().
			Str("library", res.Bundle.ID).
			Int("documents", len(res.Documents)).
			Msg("catalog: harvested library")
	}

	if err := b.storage.RebuildFTSIndex(); err != nil {
		return fmt.Errorf("catalog: rebuild fts index: %w", err)
	}

	if err := b.writeIndex(index); err != nil {
		return err
	}

	count, _ := b.storage.CountDocuments()
	b.logger.Info().Int("total_documents", count).Msg("catalog: rebuild complete")
	return nil
}

func (b *Builder) writeIndex(index map[string]indexEntry) error {
	if err := os.MkdirAll(b.outputDir, 0755); err != nil {
		return fmt.Errorf("catalog: create output dir: %w", err)
	}
	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("catalog: marshal index: %w", err)
	}
	path := filepath.Join(b.outputDir, "index.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("catalog: write index.json: %w", err)
	}
	return nil
}

func (b *Builder) writeLibraryMirror(libraryID string, docs []*models.Document) error {
	if err := os.MkdirAll(b.outputDir, 0755); err != nil {
		return fmt.Errorf("catalog: create output dir: %w", err)
	}
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("catalog: marshal library mirror for %s: %w", libraryID, err)
	}
	filename := fmt.Sprintf("data_%s.json", sanitizeLibraryID(libraryID))
	path := filepath.Join(b.outputDir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("catalog: write %s: %w", filename, err)
	}
	return nil
}

func sanitizeLibraryID(id string) string {
	out := make([]rune, 0, len(id))
	for _, r := range id {
		if r == '/' || r == '\\' {
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
