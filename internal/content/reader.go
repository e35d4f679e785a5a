// Package content resolves a Document's RelFile back to its on-disk source
// text. It backs both the Hybrid Scorer's excerpt/file-content scoring
// stage and the Document Fetcher's local/section identifier families.
package content

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Source maps library identifiers to the source directory they were
// harvested from, so RelFile (recorded relative to that directory) can be
// resolved back to an absolute path.
type Source struct {
	mu   sync.RWMutex
	dirs map[string]string
}

// NewSource returns an empty Source; use Register to wire library roots.
func NewSource() *Source {
	return &Source{dirs: map[string]string{}}
}

// Register associates libraryID with the directory its Documents were
// harvested from.
func (s *Source) Register(libraryID, dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirs[libraryID] = dir
}

// Read returns the full text of relFile within libraryID's source tree.
func (s *Source) Read(libraryID, relFile string) (string, error) {
	s.mu.RLock()
	dir, ok := s.dirs[libraryID]
	s.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("content: no source directory registered for library %q", libraryID)
	}

	data, err := os.ReadFile(filepath.Join(dir, relFile))
	if err != nil {
		return "", fmt.Errorf("content: read %s/%s: %w", libraryID, relFile, err)
	}
	return string(data), nil
}
