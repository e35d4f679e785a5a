package expand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandOriginalFirst(t *testing.T) {
	exp := Expand("  sap.m.Button  ")
	require.NotEmpty(t, exp.Variants)
	assert.Equal(t, "sap.m.Button", exp.Variants[0])
}

func TestExpandNamespaceHeuristic(t *testing.T) {
	exp := Expand("sap.m.Button")
	assert.Contains(t, exp.Variants, "Button")
	assert.Contains(t, exp.Variants, "sap.m")
}

func TestExpandSynonymSubstitution(t *testing.T) {
	exp := Expand("odata service")
	assert.Contains(t, exp.Variants, "data protocol service")
}

func TestExpandDedupeCaseFold(t *testing.T) {
	exp := Expand("Button")
	count := 0
	for _, v := range exp.Variants {
		if v == "Button" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestExpandEmptyQuery(t *testing.T) {
	exp := Expand("   ")
	assert.Empty(t, exp.Variants)
}

func TestExpandCompoundSplit(t *testing.T) {
	exp := Expand("onButtonPress")
	assert.Contains(t, exp.Variants, "on Button Press")
}

func TestExpandStableAcrossInvocations(t *testing.T) {
	a := Expand("sap.m.Wizard")
	b := Expand("sap.m.Wizard")
	assert.Equal(t, a.Variants, b.Variants)
}
