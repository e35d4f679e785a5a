package tools

import "strings"

// PromptTemplate is a fixed, named prompt with a declared argument set and
// a template body using "{{arg}}" placeholders. Unknown arguments
// interpolate to empty strings rather than erroring.
type PromptTemplate struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Args        []string `json:"args"`
	Body        string   `json:"-"`
}

// PromptSet is the fixed prompts/list + prompts/get catalog.
type PromptSet struct {
	templates []PromptTemplate
	byName    map[string]*PromptTemplate
}

// NewPromptSet builds the standing prompt catalog.
func NewPromptSet() *PromptSet {
	templates := []PromptTemplate{
		{
			Name:        "search_and_summarize",
			Description: "Search the catalog for a topic and summarize the top results",
			Args:        []string{"query"},
			Body:        "Search the SAP documentation catalog for \"{{query}}\" and summarize the top results, citing each result's title and URL.",
		},
		{
			Name:        "control_usage_example",
			Description: "Produce a minimal usage example for a named UI5 control",
			Args:        []string{"control", "flavor"},
			Body:        "Using the indexed samples and API reference for {{control}} ({{flavor}}), write a minimal, working usage example.",
		},
	}
	ps := &PromptSet{templates: templates, byName: make(map[string]*PromptTemplate, len(templates))}
	for i := range ps.templates {
		ps.byName[ps.templates[i].Name] = &ps.templates[i]
	}
	return ps
}

// List returns the fixed prompt catalog, for prompts/list.
func (p *PromptSet) List() []PromptTemplate {
	return p.templates
}

// Get interpolates name's template with args, for prompts/get. Unknown
// arguments are silently ignored; declared arguments missing from args
// interpolate to "". Returns ok=false for an unknown prompt name.
func (p *PromptSet) Get(name string, args map[string]string) (string, bool) {
	t, ok := p.byName[name]
	if !ok {
		return "", false
	}
	body := t.Body
	for _, arg := range t.Args {
		val := args[arg]
		body = strings.ReplaceAll(body, "{{"+arg+"}}", val)
	}
	return body, true
}
