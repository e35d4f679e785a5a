package harvest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMarkdownTitleAndSections(t *testing.T) {
	content := `---
synopsis: A quick overview of wizards.
---
# Wizard Control

This is the introductory paragraph describing the wizard control in enough
detail to clear the minimum section body length threshold required before
a heading becomes its own section document in the catalog.

## Getting Started

Follow these steps to add a wizard to your application and configure its
steps, buttons, and validation behavior across every step in the sequence.

` + "```js\nvar x = 1;\n```" + `
`

	doc, sections := extractMarkdown("/sapui5", "wizard.md", content)

	assert.Equal(t, "Wizard Control", doc.Title)
	assert.Equal(t, "A quick overview of wizards.", doc.Description)
	require.Len(t, sections, 1)
	assert.Equal(t, "Getting Started", sections[0].Title)
	assert.True(t, strings.HasSuffix(sections[0].ID, "#getting-started"), "expected slugified section id, got %q", sections[0].ID)
	assert.Equal(t, doc.ID, sections[0].ParentID)
}

func TestExtractMarkdownFallsBackToFilename(t *testing.T) {
	doc, _ := extractMarkdown("/cap", "getting-started.md", "No heading here, just text.")
	assert.Equal(t, "getting started", doc.Title)
}

func TestIsJSDocLikeRequiresBothMarkers(t *testing.T) {
	assert.False(t, isJSDocLike(`sap.ui.define([], function() { return {}; });`))

	content := `
/**
 * A button control.
 * @extends sap.ui.core.Control
 */
sap.m.Button = Control.extend("sap.m.Button", {
	metadata: {
		properties: {
			text: { type: "string" }
		},
		events: {
			press: {}
		}
	}
});
`
	assert.True(t, isJSDocLike(content))

	doc := extractJSDoc("/openui5-api", "src/sap.m/src/sap/m/Button.js", content)
	require.NotNil(t, doc)
	assert.Equal(t, "sap.m.Button", doc.Title)
	require.NotNil(t, doc.Metadata)
	assert.Equal(t, "sap.m", doc.Metadata.Namespace)
	assert.Equal(t, "Button", doc.Metadata.Control)
	require.Len(t, doc.Metadata.Properties, 1)
	assert.Equal(t, "text", doc.Metadata.Properties[0])
	require.Len(t, doc.Metadata.Events, 1)
	assert.Equal(t, "press", doc.Metadata.Events[0])
}

func TestExtractSampleDerivesControlAndKind(t *testing.T) {
	doc := extractSample("/sapui5", "sample/WizardSample/Component.js", "function onInit() {}")
	require.NotNil(t, doc)
	assert.Equal(t, "WizardSample", doc.Metadata.Control)
	assert.EqualValues(t, "sample", doc.Kind)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "column-micro-chart", slugify("Column Micro Chart!"))
}
