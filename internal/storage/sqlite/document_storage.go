package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docsearch/internal/interfaces"
	"github.com/ternarybob/docsearch/internal/models"
)

// CatalogStore persists the Document catalog, library bundles, and the FTS5
// projection backing full-text search. A single writer lock matches the
// SQLite connection pool's max-open-conns=1 setting.
type CatalogStore struct {
	db     *SQLiteDB
	logger arbor.ILogger
	mu     sync.Mutex
}

// NewCatalogStore wraps an open SQLiteDB as a CatalogStorage implementation.
func NewCatalogStore(db *SQLiteDB, logger arbor.ILogger) *CatalogStore {
	return &CatalogStore{db: db, logger: logger}
}

var _ interfaces.CatalogStorage = (*CatalogStore)(nil)

// SaveDocuments upserts a batch of Documents in one transaction. Library
// bundles are saved separately by SaveLibraries.
func (c *CatalogStore) SaveDocuments(docs []*models.Document) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := c.db.DB().Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO documents (
			id, library_id, kind, title, description, rel_file, snippet_count,
			control_name, namespace, keyword_blob, metadata_json,
			parent_id, heading_level, start_line
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			library_id=excluded.library_id,
			kind=excluded.kind,
			title=excluded.title,
			description=excluded.description,
			rel_file=excluded.rel_file,
			snippet_count=excluded.snippet_count,
			control_name=excluded.control_name,
			namespace=excluded.namespace,
			keyword_blob=excluded.keyword_blob,
			metadata_json=excluded.metadata_json,
			parent_id=excluded.parent_id,
			heading_level=excluded.heading_level,
			start_line=excluded.start_line
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, doc := range docs {
		control, namespace, keywordBlob := keywordColumns(doc)

		metaJSON, err := json.Marshal(doc.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata for %s: %w", doc.ID, err)
		}

		if _, err := stmt.Exec(
			doc.ID, doc.LibraryID, doc.Kind, doc.Title, doc.Description, doc.RelFile, doc.SnippetCount,
			control, namespace, keywordBlob, string(metaJSON),
			doc.ParentID, doc.HeadingLevel, doc.StartLine,
		); err != nil {
			return fmt.Errorf("failed to upsert document %s: %w", doc.ID, err)
		}
	}

	return tx.Commit()
}

// keywordColumns derives the FTS-relevant columns from a Document's
// optional structured metadata.
func keywordColumns(doc *models.Document) (control, namespace, keywordBlob string) {
	if doc.Metadata == nil {
		return "", "", ""
	}
	var parts []string
	parts = append(parts, doc.Metadata.Keywords...)
	parts = append(parts, doc.Metadata.Properties...)
	parts = append(parts, doc.Metadata.Events...)
	parts = append(parts, doc.Metadata.Aggregations...)
	return doc.Metadata.Control, doc.Metadata.Namespace, strings.Join(parts, " ")
}

// GetDocument returns a single Document by identifier, or nil if absent.
func (c *CatalogStore) GetDocument(id string) (*models.Document, error) {
	row := c.db.DB().QueryRow(`
		SELECT id, library_id, kind, title, description, rel_file, snippet_count,
			control_name, namespace, keyword_blob, metadata_json, parent_id, heading_level, start_line
		FROM documents WHERE id = ?`, id)
	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return doc, err
}

// ListDocuments returns Documents matching the given filters, most recently
// inserted last (rowid order).
func (c *CatalogStore) ListDocuments(opts *interfaces.ListOptions) ([]*models.Document, error) {
	query := `
		SELECT id, library_id, kind, title, description, rel_file, snippet_count,
			control_name, namespace, keyword_blob, metadata_json, parent_id, heading_level, start_line
		FROM documents WHERE 1=1`
	var args []interface{}

	if opts != nil {
		if opts.LibraryID != "" {
			query += " AND library_id = ?"
			args = append(args, opts.LibraryID)
		}
		if opts.Kind != "" {
			query += " AND kind = ?"
			args = append(args, opts.Kind)
		}
	}

	query += " ORDER BY rowid"

	limit := 1000
	if opts != nil && opts.Limit > 0 {
		limit = opts.Limit
	}
	query += " LIMIT ?"
	args = append(args, limit)

	rows, err := c.db.DB().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

// ListLibraries returns every registered LibraryBundle.
func (c *CatalogStore) ListLibraries() ([]*models.LibraryBundle, error) {
	rows, err := c.db.DB().Query(`SELECT id, display_name, description FROM libraries ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list libraries: %w", err)
	}
	defer rows.Close()

	var out []*models.LibraryBundle
	for rows.Next() {
		var b models.LibraryBundle
		if err := rows.Scan(&b.ID, &b.DisplayName, &b.Description); err != nil {
			return nil, fmt.Errorf("failed to scan library: %w", err)
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}

// SaveLibraries upserts the library bundle registry.
func (c *CatalogStore) SaveLibraries(bundles []*models.LibraryBundle) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := c.db.DB().Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO libraries (id, display_name, description) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET display_name=excluded.display_name, description=excluded.description
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare library upsert: %w", err)
	}
	defer stmt.Close()

	for _, b := range bundles {
		if _, err := stmt.Exec(b.ID, b.DisplayName, b.Description); err != nil {
			return fmt.Errorf("failed to upsert library %s: %w", b.ID, err)
		}
	}

	return tx.Commit()
}

// FullTextSearch runs an FTS5 MATCH query against the documents_fts
// projection, joined back to documents, ranked by FTS5's own bm25 order.
func (c *CatalogStore) FullTextSearch(query string, limit int) ([]*models.Document, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := c.db.DB().Query(`
		SELECT d.id, d.library_id, d.kind, d.title, d.description, d.rel_file, d.snippet_count,
			d.control_name, d.namespace, d.keyword_blob, d.metadata_json, d.parent_id, d.heading_level, d.start_line
		FROM documents d
		INNER JOIN documents_fts fts ON d.rowid = fts.rowid
		WHERE documents_fts MATCH ?
		ORDER BY rank
		LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("fts query failed: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

// RebuildFTSIndex delegates to the schema-level idempotent rebuild.
func (c *CatalogStore) RebuildFTSIndex() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.RebuildFTSIndex()
}

// CountDocuments returns the total number of Documents in the catalog.
func (c *CatalogStore) CountDocuments() (int, error) {
	var count int
	err := c.db.DB().QueryRow(`SELECT COUNT(*) FROM documents`).Scan(&count)
	return count, err
}

// ClearAll removes every Document and library bundle. Used by the indexer
// before a full re-harvest.
func (c *CatalogStore) ClearAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := c.db.DB().Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM documents`); err != nil {
		return fmt.Errorf("failed to clear documents: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM libraries`); err != nil {
		return fmt.Errorf("failed to clear libraries: %w", err)
	}

	return tx.Commit()
}

// Close closes the underlying database connection.
func (c *CatalogStore) Close() error {
	return c.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDocument(row rowScanner) (*models.Document, error) {
	var doc models.Document
	var control, namespace, keywordBlob, metaJSON string

	err := row.Scan(
		&doc.ID, &doc.LibraryID, &doc.Kind, &doc.Title, &doc.Description, &doc.RelFile, &doc.SnippetCount,
		&control, &namespace, &keywordBlob, &metaJSON, &doc.ParentID, &doc.HeadingLevel, &doc.StartLine,
	)
	if err != nil {
		return nil, err
	}

	if control != "" || namespace != "" || keywordBlob != "" || metaJSON != "{}" && metaJSON != "" {
		var meta models.StructuredMetadata
		if err := json.Unmarshal([]byte(metaJSON), &meta); err == nil {
			doc.Metadata = &meta
		}
	}

	return &doc, nil
}

func scanDocuments(rows *sql.Rows) ([]*models.Document, error) {
	var docs []*models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
