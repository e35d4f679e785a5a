package transport

import (
	"sync"

	"github.com/ternarybob/docsearch/internal/models"
)

// EventStore is the append-only, bounded event log backing SSE resumption.
// Per stream, a ring of the last N EventLogEntry values; identifiers are
// strictly increasing per stream so replay can resume from a client's
// Last-Event-Id.
type EventStore struct {
	mu        sync.Mutex
	retention int
	streams   map[string]*streamLog
}

type streamLog struct {
	nextID  int64
	entries []models.EventLogEntry // ordered ascending by EventID, bounded to retention
}

// NewEventStore builds an EventStore retaining up to retention entries per
// stream (100 if retention is not positive).
func NewEventStore(retention int) *EventStore {
	if retention <= 0 {
		retention = 100
	}
	return &EventStore{retention: retention, streams: make(map[string]*streamLog)}
}

// StoreEvent appends payload to streamId's log and returns its strictly
// increasing event identifier.
func (s *EventStore) StoreEvent(streamID, payload string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	log, ok := s.streams[streamID]
	if !ok {
		log = &streamLog{}
		s.streams[streamID] = log
	}
	log.nextID++
	entry := models.EventLogEntry{StreamID: streamID, EventID: log.nextID, Payload: payload}
	log.entries = append(log.entries, entry)
	if len(log.entries) > s.retention {
		log.entries = log.entries[len(log.entries)-s.retention:]
	}
	return entry.EventID
}

// ReplayAfter returns every retained entry in streamId's log with an
// identifier greater than lastEventID, in original order. If lastEventID
// predates the retained window or the stream is unknown, it returns
// whatever is retained (an empty slice for an unknown stream): an
// unresumable Last-Event-Id degrades to a fresh stream rather than an
// error.
func (s *EventStore) ReplayAfter(streamID string, lastEventID int64) []models.EventLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	log, ok := s.streams[streamID]
	if !ok {
		return nil
	}
	out := make([]models.EventLogEntry, 0, len(log.entries))
	for _, e := range log.entries {
		if e.EventID > lastEventID {
			out = append(out, e)
		}
	}
	return out
}

// DropStream discards a stream's retained log, called on session destroy.
func (s *EventStore) DropStream(streamID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.streams, streamID)
}
