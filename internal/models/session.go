package models

import "time"

// Session is a live MCP transport session: an opaque high-entropy identifier
// and activity timestamps used by the inactivity sweep. Its event log is kept
// separately, in the transport's EventStore.
type Session struct {
	ID           string
	CreatedAt    time.Time
	LastActivity time.Time
}

// EventLogEntry is one resumable SSE event within a session's stream.
// EventID is strictly increasing per stream; Payload is the already-
// serialized JSON-RPC message.
type EventLogEntry struct {
	StreamID string
	EventID  int64
	Payload  string
}

// UrlConfig is per-library, immutable-at-runtime configuration consumed by
// the URL resolver.
type UrlConfig struct {
	LibraryID   string `toml:"library_id"`
	BaseURL     string `toml:"base_url"`
	PathPattern string `toml:"path_pattern"` // contains a "{file}" placeholder
	AnchorStyle string `toml:"anchor_style"` // "github-flavored", "docsify-flavored", or "raw"
}

const (
	AnchorStyleGitHub  = "github-flavored"
	AnchorStyleDocsify = "docsify-flavored"
	AnchorStyleRaw     = "raw"
)
