package tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterStdio declares every Registry tool on an mcp-go server using its
// declarative mcp.NewTool schema builder. Handlers route straight into the
// shared Registry.Call so stdio and HTTP frontends never diverge in
// behavior.
func (r *Registry) RegisterStdio(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("search",
		mcp.WithDescription("Search the SAP documentation catalog with hybrid local+live ranking"),
		mcp.WithString("query", mcp.Required(), mcp.Description("Free-text query")),
		mcp.WithNumber("k", mcp.Description("Maximum number of hits (default 10, max 50)")),
		mcp.WithBoolean("includeOnline", mcp.Description("Enable live source adapters")),
		mcp.WithBoolean("includeSamples", mcp.Description("Include sample-kind documents")),
		mcp.WithArray("sources", mcp.WithStringItems(), mcp.Description("Restrict to these library identifiers")),
		mcp.WithString("flavor", mcp.Description("Language-variant corpus, e.g. on-prem vs cloud")),
	), r.stdioHandler("search"))

	s.AddTool(mcp.NewTool("fetch",
		mcp.WithDescription("Resolve a search result identifier to its full display text"),
		mcp.WithString("id", mcp.Required(), mcp.Description("Document, section, or external identifier")),
	), r.stdioHandler("fetch"))

	s.AddTool(mcp.NewTool("feature_matrix",
		mcp.WithDescription("Query the ABAP release/feature matrix live adapter"),
		mcp.WithString("query", mcp.Required(), mcp.Description("Feature or keyword to look up")),
		mcp.WithNumber("limit", mcp.Description("Maximum entries to return")),
	), r.stdioHandler("feature_matrix"))

	s.AddTool(mcp.NewTool("community_search",
		mcp.WithDescription("Query the community forum live adapter only"),
		mcp.WithString("query", mcp.Required(), mcp.Description("Free-text query")),
	), r.stdioHandler("community_search"))
}

// stdioHandler adapts Registry.Call to mcp-go's server.ToolHandlerFunc.
func (r *Registry) stdioHandler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var raw map[string]interface{}
		if b, err := json.Marshal(request.GetArguments()); err == nil {
			_ = json.Unmarshal(b, &raw)
		}

		result, err := r.Call(ctx, name, Args(raw))
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{mcp.NewTextContent("Error: " + err.Error())},
				IsError: true,
			}, nil
		}

		body, err := json.Marshal(result)
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{mcp.NewTextContent("Error: failed to encode result")},
				IsError: true,
			}, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent(string(body))},
		}, nil
	}
}
