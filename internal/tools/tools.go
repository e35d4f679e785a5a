// Package tools declares the Tool Surface (C9): a small, stable set of
// operations shared verbatim between the stdio and HTTP transport
// frontends, built as a framework-agnostic registry so the same handlers
// serve both mcp-go's stdio server and the custom JSON-RPC dispatcher in
// internal/transport.
package tools

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docsearch/internal/interfaces"
)

// ValidationError describes a malformed or missing argument. Transport
// layers translate it into their own structured error shape (JSON-RPC
// -32602 over HTTP, a text block over stdio).
type ValidationError struct {
	Param string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Param, e.Msg)
}

// Args is the loosely-typed argument bag every tool handler receives,
// matching the shape a JSON-RPC params.arguments object decodes to.
type Args map[string]interface{}

func (a Args) str(key, def string) string {
	if v, ok := a[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

func (a Args) int(key, def int) int {
	if v, ok := a[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case int64:
			return int(n)
		case float64:
			return int(n)
		}
	}
	return def
}

func (a Args) bool(key, def bool) bool {
	if v, ok := a[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

func (a Args) strSlice(key string) []string {
	v, ok := a[key]
	if !ok {
		return nil
	}
	switch s := v.(type) {
	case []string:
		return s
	case []interface{}:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

// Tool is a single declared operation: its wire schema plus its handler.
type Tool struct {
	Name        string
	Description string
	Schema      map[string]interface{}
	Execute     func(ctx context.Context, args Args) (interface{}, error)
}

// Registry is the complete Tool Surface, built once at startup and shared
// by every transport frontend.
type Registry struct {
	tools     []Tool
	byName    map[string]*Tool
	validate  *validator.Validate
	prompts   *PromptSet
	logger    arbor.ILogger
}

// Dependencies wires the Registry to the components each tool dispatches
// to: the hybrid scorer (C3/C4/C5 via Search), the fetcher (C7), and the
// two live adapters exposed directly as standalone tools.
type Dependencies struct {
	Search        interfaces.SearchService
	Fetch         func(id string) string
	FeatureMatrix interfaces.LiveAdapter
	Community     interfaces.LiveAdapter
	Logger        arbor.ILogger
}

// New builds the Tool Surface: search, fetch, feature_matrix,
// community_search, plus the prompts/list and prompts/get pseudo-tools.
func New(deps Dependencies) *Registry {
	r := &Registry{
		validate: validator.New(),
		prompts:  NewPromptSet(),
		logger:   deps.Logger,
	}
	r.tools = []Tool{
		searchTool(r, deps),
		fetchTool(r, deps),
		featureMatrixTool(r, deps),
		communitySearchTool(r, deps),
	}
	r.byName = make(map[string]*Tool, len(r.tools))
	for i := range r.tools {
		r.byName[r.tools[i].Name] = &r.tools[i]
	}
	return r
}

// List enumerates the tool surface with a schema per tool.
func (r *Registry) List() []Tool {
	return r.tools
}

// Call dispatches by name after validating the tool exists. Handlers
// themselves validate their own arguments and never panic across the
// boundary.
func (r *Registry) Call(ctx context.Context, name string, args Args) (interface{}, error) {
	t, ok := r.byName[name]
	if !ok {
		return nil, &ValidationError{Param: "name", Msg: "unknown tool " + name}
	}
	return t.Execute(ctx, args)
}

// Prompts exposes the fixed prompt-template set for prompts/list and
// prompts/get.
func (r *Registry) Prompts() *PromptSet {
	return r.prompts
}

// searchArgs mirrors the search tool's enumerated arguments; validator
// tags enforce the required/bounded constraints before dispatch.
type searchArgs struct {
	Query          string   `validate:"required"`
	K              int      `validate:"gte=0,lte=50"`
	IncludeOnline  bool
	IncludeSamples bool
	Sources        []string
	Flavor         string
}

func searchTool(r *Registry, deps Dependencies) Tool {
	return Tool{
		Name:        "search",
		Description: "Search the SAP documentation catalog with hybrid local+live ranking",
		Schema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query":          map[string]string{"type": "string"},
				"k":              map[string]string{"type": "integer"},
				"includeOnline":  map[string]string{"type": "boolean"},
				"includeSamples": map[string]string{"type": "boolean"},
				"sources":        map[string]interface{}{"type": "array", "items": map[string]string{"type": "string"}},
				"flavor":         map[string]string{"type": "string"},
			},
			"required": []string{"query"},
		},
		Execute: func(ctx context.Context, args Args) (interface{}, error) {
			sa := searchArgs{
				Query:          args.str("query", ""),
				K:              args.int("k", 10),
				IncludeOnline:  args.bool("includeOnline", false),
				IncludeSamples: args.bool("includeSamples", false),
				Sources:        args.strSlice("sources"),
				Flavor:         args.str("flavor", ""),
			}
			if sa.K == 0 {
				sa.K = 10
			}
			if err := r.validate.Struct(sa); err != nil {
				param := "query"
				if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 && ve[0].Field() == "K" {
					param = "k"
				}
				return nil, &ValidationError{Param: param, Msg: err.Error()}
			}

			result, err := deps.Search.Search(ctx, sa.Query, interfaces.SearchOptions{
				Limit:          sa.K,
				LibraryIDs:     sa.Sources,
				IncludeOnline:  sa.IncludeOnline,
				IncludeSamples: sa.IncludeSamples,
			})
			if err != nil {
				if r.logger != nil {
					r.logger.Warn().Err(err).Str("query", sa.Query).Msg("tools: search failed")
				}
				return nil, err
			}
			if result.Notice != "" && r.logger != nil {
				r.logger.Warn().Str("query", sa.Query).Str("notice", result.Notice).Msg("tools: search degraded, returning partial results")
			}
			if result.Warning != "" && r.logger != nil {
				r.logger.Warn().Str("query", sa.Query).Str("warning", result.Warning).Msg("tools: search adapter degraded, returning partial results")
			}
			out := map[string]interface{}{"results": result.Hits}
			if result.Notice != "" {
				out["notice"] = result.Notice
			}
			if result.Warning != "" {
				out["warning"] = result.Warning
			}
			return out, nil
		},
	}
}

type fetchArgs struct {
	ID string `validate:"required"`
}

func fetchTool(r *Registry, deps Dependencies) Tool {
	return Tool{
		Name:        "fetch",
		Description: "Resolve a search result identifier to its full display text",
		Schema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{"id": map[string]string{"type": "string"}},
			"required":   []string{"id"},
		},
		Execute: func(ctx context.Context, args Args) (interface{}, error) {
			fa := fetchArgs{ID: args.str("id", "")}
			if err := r.validate.Struct(fa); err != nil {
				return nil, &ValidationError{Param: "id", Msg: err.Error()}
			}
			text := deps.Fetch(fa.ID)
			return map[string]interface{}{"id": fa.ID, "text": text}, nil
		},
	}
}

type featureMatrixArgs struct {
	Query string `validate:"required"`
	Limit int    `validate:"gte=0"`
}

func featureMatrixTool(r *Registry, deps Dependencies) Tool {
	return Tool{
		Name:        "feature_matrix",
		Description: "Query the ABAP release/feature matrix live adapter",
		Schema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]string{"type": "string"},
				"limit": map[string]string{"type": "integer"},
			},
			"required": []string{"query"},
		},
		Execute: func(ctx context.Context, args Args) (interface{}, error) {
			fa := featureMatrixArgs{Query: args.str("query", ""), Limit: args.int("limit", 20)}
			if err := r.validate.Struct(fa); err != nil {
				param := "query"
				if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 && ve[0].Field() == "Limit" {
					param = "limit"
				}
				return nil, &ValidationError{Param: param, Msg: err.Error()}
			}
			if deps.FeatureMatrix == nil {
				return map[string]interface{}{"results": []interface{}{}}, nil
			}
			hits, err := deps.FeatureMatrix.Query(ctx, fa.Query)
			if err != nil && r.logger != nil {
				r.logger.Warn().Err(err).Msg("tools: feature_matrix adapter failed, returning empty")
			}
			if fa.Limit > 0 && len(hits) > fa.Limit {
				hits = hits[:fa.Limit]
			}
			return map[string]interface{}{"results": hits}, nil
		},
	}
}

type communitySearchArgs struct {
	Query string `validate:"required"`
}

func communitySearchTool(r *Registry, deps Dependencies) Tool {
	return Tool{
		Name:        "community_search",
		Description: "Query the community forum live adapter only",
		Schema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{"query": map[string]string{"type": "string"}},
			"required":   []string{"query"},
		},
		Execute: func(ctx context.Context, args Args) (interface{}, error) {
			ca := communitySearchArgs{Query: args.str("query", "")}
			if err := r.validate.Struct(ca); err != nil {
				return nil, &ValidationError{Param: "query", Msg: err.Error()}
			}
			if deps.Community == nil {
				return map[string]interface{}{"results": []interface{}{}}, nil
			}
			hits, err := deps.Community.Query(ctx, ca.Query)
			if err != nil && r.logger != nil {
				r.logger.Warn().Err(err).Msg("tools: community_search adapter failed, returning empty")
			}
			return map[string]interface{}{"results": hits}, nil
		},
	}
}
