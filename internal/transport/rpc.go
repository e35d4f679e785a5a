package transport

import (
	"context"
	"encoding/json"

	"github.com/ternarybob/docsearch/internal/tools"
)

// ProtocolVersion is the MCP protocol date this server advertises,
// supporting tools and prompts capabilities and explicitly not resources.
const ProtocolVersion = "2025-07-09"

// JSON-RPC error codes used across the transport boundary.
const (
	ErrCodeSession  = -32000
	ErrCodeInvalid  = -32602
	ErrCodeInternal = -32603
)

// RPCRequest is the JSON-RPC-style envelope a session's dispatcher accepts.
type RPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// RPCResponse is the JSON-RPC-style envelope returned for a request.
type RPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is a JSON-RPC-style error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Dispatcher routes JSON-RPC requests to the Tool Surface. It carries no
// state and no internal concurrency of its own. The HTTP handler builds one
// per POST and serves each POST on its own goroutine, so concurrent POSTs
// on the same session are not serialized and may complete in any order.
type Dispatcher struct {
	registry *tools.Registry
}

// NewDispatcher builds a dispatcher over the shared Tool Surface.
func NewDispatcher(registry *tools.Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Handle executes req and returns the JSON-RPC response envelope. It never
// panics: malformed params or an unknown method becomes a structured
// error, never an exception across the transport boundary.
func (d *Dispatcher) Handle(ctx context.Context, req RPCRequest) RPCResponse {
	resp := RPCResponse{JSONRPC: "2.0", ID: req.ID}

	switch req.Method {
	case "initialize":
		resp.Result = map[string]interface{}{
			"protocolVersion": ProtocolVersion,
			"capabilities": map[string]interface{}{
				"tools":   map[string]interface{}{},
				"prompts": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{"name": "docsearch-mcp"},
		}
	case "tools/list":
		resp.Result = map[string]interface{}{"tools": listToolSchemas(d.registry)}
	case "tools/call":
		var params struct {
			Name      string                 `json:"name"`
			Arguments map[string]interface{} `json:"arguments"`
		}
		if err := json.Unmarshal(req.Params, &params); err != nil {
			resp.Error = &RPCError{Code: ErrCodeInvalid, Message: "malformed tools/call params"}
			return resp
		}
		result, err := d.registry.Call(ctx, params.Name, tools.Args(params.Arguments))
		if err != nil {
			resp.Error = &RPCError{Code: ErrCodeInvalid, Message: err.Error()}
			return resp
		}
		resp.Result = result
	case "prompts/list":
		resp.Result = map[string]interface{}{"prompts": d.registry.Prompts().List()}
	case "prompts/get":
		var params struct {
			Name      string            `json:"name"`
			Arguments map[string]string `json:"arguments"`
		}
		if err := json.Unmarshal(req.Params, &params); err != nil {
			resp.Error = &RPCError{Code: ErrCodeInvalid, Message: "malformed prompts/get params"}
			return resp
		}
		body, ok := d.registry.Prompts().Get(params.Name, params.Arguments)
		if !ok {
			resp.Error = &RPCError{Code: ErrCodeInvalid, Message: "unknown prompt " + params.Name}
			return resp
		}
		resp.Result = map[string]interface{}{"body": body}
	default:
		resp.Error = &RPCError{Code: ErrCodeInternal, Message: "unknown method " + req.Method}
	}
	return resp
}

func listToolSchemas(registry *tools.Registry) []map[string]interface{} {
	defs := registry.List()
	out := make([]map[string]interface{}, 0, len(defs))
	for _, t := range defs {
		out = append(out, map[string]interface{}{
			"name":        t.Name,
			"description": t.Description,
			"inputSchema": t.Schema,
		})
	}
	return out
}
