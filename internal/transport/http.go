package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docsearch/internal/models"
	"github.com/ternarybob/docsearch/internal/tools"
)

const sessionHeader = "Mcp-Session-Id"

// Server is the /mcp streaming HTTP endpoint plus /health and /status,
// with explicit timeouts, graceful shutdown, and a subscriber-broadcast
// SSE pattern.
type Server struct {
	sessions  *SessionRegistry
	events    *EventStore
	registry  *tools.Registry
	logger    arbor.ILogger
	startedAt time.Time
	version   string

	subMu       sync.Mutex
	subscribers map[string]map[chan models.EventLogEntry]struct{}

	stopSweep func()
}

// Config controls the HTTP server's session lifecycle knobs.
type Config struct {
	Addr                 string
	SessionSweepInterval time.Duration
	SessionIdleTimeout   time.Duration
	EventLogRetention    int
	Version              string
}

// NewServer builds the transport server over the shared Tool Surface.
func NewServer(registry *tools.Registry, cfg Config, logger arbor.ILogger) *Server {
	s := &Server{
		sessions:    NewSessionRegistry(),
		events:      NewEventStore(cfg.EventLogRetention),
		registry:    registry,
		logger:      logger,
		startedAt:   time.Now(),
		version:     cfg.Version,
		subscribers: make(map[string]map[chan models.EventLogEntry]struct{}),
	}
	if cfg.SessionSweepInterval > 0 {
		s.stopSweep = s.sessions.RunSweeper(cfg.SessionSweepInterval, cfg.SessionIdleTimeout, logger)
	}
	return s
}

// Close stops the background session sweep. It does not close the
// underlying http.Server; callers own that via BuildHTTPServer's Shutdown.
func (s *Server) Close() {
	if s.stopSweep != nil {
		s.stopSweep()
	}
}

// BuildHTTPServer wraps Server's handler in an http.Server with the
// teacher's explicit Read/Write/Idle timeouts.
func BuildHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// Routes registers this Server's endpoints on mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/mcp", s.withCORS(s.handleMCP))
	mux.HandleFunc("/health", s.withCORS(s.handleHealth))
	mux.HandleFunc("/status", s.withCORS(s.handleStatus))
}

func (s *Server) withCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+sessionHeader+", Last-Event-Id")
		w.Header().Set("Access-Control-Expose-Headers", sessionHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handlePost(w, r)
	case http.MethodGet:
		s.handleGet(w, r)
	case http.MethodDelete:
		s.handleDelete(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(sessionHeader)

	var req RPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONRPCError(w, nil, ErrCodeInvalid, "malformed request body")
		return
	}

	var session *models.Session
	if sessionID == "" {
		if req.Method != "initialize" {
			writeJSONRPCError(w, req.ID, ErrCodeSession, "missing session header")
			return
		}
		session = s.sessions.Create()
	} else {
		session = s.sessions.Get(sessionID)
		if session == nil {
			writeJSONRPCError(w, req.ID, ErrCodeSession, "unknown or terminated session")
			return
		}
		s.sessions.Touch(sessionID)
	}

	ctx, cancel := context.WithTimeout(r.Context(), 25*time.Second)
	defer cancel()

	dispatcher := NewDispatcher(s.registry)
	resp := dispatcher.Handle(ctx, req)

	w.Header().Set(sessionHeader, session.ID)

	payload, err := json.Marshal(resp)
	if err != nil {
		writeJSONRPCError(w, req.ID, ErrCodeInternal, "failed to encode response")
		return
	}
	eventID := s.events.StoreEvent(session.ID, string(payload))
	s.broadcast(session.ID, models.EventLogEntry{StreamID: session.ID, EventID: eventID, Payload: string(payload)})

	if acceptsSSE(r) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("X-Accel-Buffering", "no")
		fmt.Fprintf(w, "id: %d\n", eventID)
		fmt.Fprintf(w, "data: %s\n\n", payload)
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(sessionHeader)
	session := s.sessions.Get(sessionID)
	if session == nil {
		http.Error(w, "unknown or terminated session", http.StatusNotFound)
		return
	}
	s.sessions.Touch(sessionID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}
	flusher.Flush()

	if lastEventHeader := r.Header.Get("Last-Event-Id"); lastEventHeader != "" {
		lastID, _ := strconv.ParseInt(lastEventHeader, 10, 64)
		for _, entry := range s.events.ReplayAfter(sessionID, lastID) {
			writeSSEEvent(w, flusher, entry)
		}
	}

	sub := make(chan models.EventLogEntry, 256)
	s.addSubscriber(sessionID, sub)
	defer s.removeSubscriber(sessionID, sub)

	pingTicker := time.NewTicker(15 * time.Second)
	defer pingTicker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case entry := <-sub:
			writeSSEEvent(w, flusher, entry)
		case <-pingTicker.C:
			fmt.Fprintf(w, "event: ping\ndata: {}\n\n")
			flusher.Flush()
		}
	}
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(sessionHeader)
	if sessionID == "" || !s.sessions.Destroy(sessionID) {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	s.events.DropStream(sessionID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"service":         "docsearch-mcp",
		"version":         s.version,
		"transport":       "http",
		"protocolVersion": ProtocolVersion,
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"service":      "docsearch-mcp",
		"version":      s.version,
		"uptimeSec":    int(time.Since(s.startedAt).Seconds()),
		"sessionCount": s.sessions.Count(),
		"startedAt":    s.startedAt.UTC().Format(time.RFC3339),
	})
}

func (s *Server) addSubscriber(streamID string, ch chan models.EventLogEntry) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if s.subscribers[streamID] == nil {
		s.subscribers[streamID] = make(map[chan models.EventLogEntry]struct{})
	}
	s.subscribers[streamID][ch] = struct{}{}
}

func (s *Server) removeSubscriber(streamID string, ch chan models.EventLogEntry) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	delete(s.subscribers[streamID], ch)
	if len(s.subscribers[streamID]) == 0 {
		delete(s.subscribers, streamID)
	}
}

func (s *Server) broadcast(streamID string, entry models.EventLogEntry) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subscribers[streamID] {
		select {
		case ch <- entry:
		default:
			if s.logger != nil {
				s.logger.Warn().Str("stream", streamID).Msg("transport: SSE subscriber buffer full, dropping event")
			}
		}
	}
}

func writeSSEEvent(w http.ResponseWriter, flusher http.Flusher, entry models.EventLogEntry) {
	fmt.Fprintf(w, "id: %d\n", entry.EventID)
	fmt.Fprintf(w, "data: %s\n\n", entry.Payload)
	flusher.Flush()
}

func acceptsSSE(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/event-stream")
}

func writeJSONRPCError(w http.ResponseWriter, id json.RawMessage, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(RPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &RPCError{Code: code, Message: msg},
	})
}
