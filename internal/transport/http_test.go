package transport

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/docsearch/internal/tools"
)

func newTestServer() (*Server, *httptest.Server) {
	registry := tools.New(tools.Dependencies{})
	srv := NewServer(registry, Config{EventLogRetention: 100}, nil)
	mux := http.NewServeMux()
	srv.Routes(mux)
	return srv, httptest.NewServer(mux)
}

func postJSON(t *testing.T, url, sessionID string, body RPCRequest) (*http.Response, RPCResponse) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, url+"/mcp", bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(sessionHeader, sessionID)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var parsed RPCResponse
	json.NewDecoder(resp.Body).Decode(&parsed)
	return resp, parsed
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	_, ts := newTestServer()
	defer ts.Close()

	resp, _ := postJSON(t, ts.URL, "", RPCRequest{JSONRPC: "2.0", Method: "initialize"})
	sessionID := resp.Header.Get(sessionHeader)
	require.NotEmpty(t, sessionID, "expected Mcp-Session-Id header on initialize response")

	_, second := postJSON(t, ts.URL, sessionID, RPCRequest{JSONRPC: "2.0", Method: "tools/list"})
	assert.Nil(t, second.Error, "expected tools/list to succeed with valid session")

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/mcp", nil)
	require.NoError(t, err)
	req.Header.Set(sessionHeader, sessionID)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	delResp.Body.Close()
	assert.Equal(t, http.StatusNoContent, delResp.StatusCode)

	_, third := postJSON(t, ts.URL, sessionID, RPCRequest{JSONRPC: "2.0", Method: "tools/list"})
	require.NotNil(t, third.Error)
	assert.Equal(t, ErrCodeSession, third.Error.Code)
}

func TestHealthEndpointIndependentOfSessions(t *testing.T) {
	_, ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
