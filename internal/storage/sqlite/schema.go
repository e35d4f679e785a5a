package sqlite

import (
	"context"
	"fmt"
)

// schemaSQL creates the documents table and its FTS5 projection.
//
// FTS5 is kept as an external-content table against documents, synced by
// triggers, so the FTS index never drifts from the rows it projects.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS documents (
	id             TEXT PRIMARY KEY,
	library_id     TEXT NOT NULL,
	kind           TEXT NOT NULL,
	title          TEXT NOT NULL,
	description    TEXT NOT NULL DEFAULT '',
	rel_file       TEXT NOT NULL DEFAULT '',
	snippet_count  INTEGER NOT NULL DEFAULT 0,
	control_name   TEXT NOT NULL DEFAULT '',
	namespace      TEXT NOT NULL DEFAULT '',
	keyword_blob   TEXT NOT NULL DEFAULT '',
	metadata_json  TEXT NOT NULL DEFAULT '{}',
	parent_id      TEXT NOT NULL DEFAULT '',
	heading_level  INTEGER NOT NULL DEFAULT 0,
	start_line     INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_documents_library ON documents(library_id);
CREATE INDEX IF NOT EXISTS idx_documents_kind ON documents(kind);
CREATE INDEX IF NOT EXISTS idx_documents_parent ON documents(parent_id);

CREATE TABLE IF NOT EXISTS libraries (
	id           TEXT PRIMARY KEY,
	display_name TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT ''
);

CREATE VIRTUAL TABLE IF NOT EXISTS documents_fts USING fts5(
	title,
	description,
	keyword_blob,
	control_name,
	namespace,
	content=documents,
	content_rowid=rowid
);

CREATE TRIGGER IF NOT EXISTS documents_ai AFTER INSERT ON documents BEGIN
	INSERT INTO documents_fts(rowid, title, description, keyword_blob, control_name, namespace)
	VALUES (new.rowid, new.title, new.description, new.keyword_blob, new.control_name, new.namespace);
END;

CREATE TRIGGER IF NOT EXISTS documents_ad AFTER DELETE ON documents BEGIN
	INSERT INTO documents_fts(documents_fts, rowid, title, description, keyword_blob, control_name, namespace)
	VALUES ('delete', old.rowid, old.title, old.description, old.keyword_blob, old.control_name, old.namespace);
END;

CREATE TRIGGER IF NOT EXISTS documents_au AFTER UPDATE ON documents BEGIN
	INSERT INTO documents_fts(documents_fts, rowid, title, description, keyword_blob, control_name, namespace)
	VALUES ('delete', old.rowid, old.title, old.description, old.keyword_blob, old.control_name, old.namespace);
	INSERT INTO documents_fts(rowid, title, description, keyword_blob, control_name, namespace)
	VALUES (new.rowid, new.title, new.description, new.keyword_blob, new.control_name, new.namespace);
END;
`

// InitSchema creates the catalog schema if it does not already exist.
func (s *SQLiteDB) InitSchema() error {
	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return tx.Commit()
}

// RebuildFTSIndex drops and recreates the documents_fts projection from the
// documents table in a single transaction. Idempotent: safe to call after a
// partial prior rebuild or on a freshly created schema.
func (s *SQLiteDB) RebuildFTSIndex() error {
	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin rebuild transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS documents_fts`); err != nil {
		return fmt.Errorf("failed to drop fts table: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		CREATE VIRTUAL TABLE documents_fts USING fts5(
			title, description, keyword_blob, control_name, namespace,
			content=documents, content_rowid=rowid
		)`); err != nil {
		return fmt.Errorf("failed to recreate fts table: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO documents_fts(documents_fts) VALUES('rebuild')`); err != nil {
		return fmt.Errorf("failed to rebuild fts index: %w", err)
	}

	return tx.Commit()
}
