package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/chriserin/tgherkin/gherkin"
	"github.com/chriserin/tgherkin/gherkin/model"
)

func TestParse_YAML(t *testing.T) {
	st := newTestState(t, map[string]string{"cart.feature": cartFeature}, nil)
	var buf bytes.Buffer
	require.NoError(t, RunParse(&buf, st, []string{"cart.feature"}))

	var doc model.Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "cart.feature", doc.URI)
	require.NotNil(t, doc.Feature)
	assert.Equal(t, "Cart", doc.Feature.Name)
	require.Len(t, doc.Feature.Scenarios, 1)
	assert.Equal(t, "the cart has 1 item", doc.Feature.Scenarios[0].Steps[2].Text)
	assert.Equal(t, model.KeywordTypeOutcome, doc.Feature.Scenarios[0].Steps[2].KeywordType)
}

func TestParse_JSON(t *testing.T) {
	st := newTestState(t, map[string]string{"cart.feature": cartFeature}, nil, "--format", "json")
	var buf bytes.Buffer
	require.NoError(t, RunParse(&buf, st, []string{"cart.feature"}))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "en", doc["language"])
	feature := doc["feature"].(map[string]any)
	assert.Equal(t, "Feature", feature["keyword"])
}

func TestParse_DiagnosticsAreData(t *testing.T) {
	st := newTestState(t, map[string]string{"bad.feature": "Feature: a\n  Given stray\n"}, nil, "-f", "json")
	var buf bytes.Buffer
	require.NoError(t, RunParse(&buf, st, []string{"bad.feature"}))

	assert.Contains(t, buf.String(), `"severity": "error"`)
	assert.Contains(t, buf.String(), `"category": "structural"`)
}

func TestParse_StrictPrintsThenFails(t *testing.T) {
	st := newTestState(t, map[string]string{
		"bad.feature":  "Feature: a\n  Given stray\n",
		"cart.feature": cartFeature,
	}, nil, "--strict")
	var buf bytes.Buffer
	err := RunParse(&buf, st, []string{"bad.feature", "cart.feature"})
	assert.ErrorIs(t, err, gherkin.ErrStrict)
	assert.Contains(t, buf.String(), "name: Cart", "documents after the failure are still printed")
}

func TestParse_UnknownLanguage(t *testing.T) {
	st := newTestState(t, map[string]string{"cart.feature": cartFeature}, map[string]string{"TGHERKIN_LANGUAGE": "xx"})
	var buf bytes.Buffer
	assert.ErrorIs(t, RunParse(&buf, st, []string{"cart.feature"}), gherkin.ErrUnknownLanguage)
}

func TestTree(t *testing.T) {
	st := newTestState(t, map[string]string{"bad.feature": "Feature: a\n  Given stray\n"}, nil)
	var buf bytes.Buffer
	require.NoError(t, RunTree(&buf, st, []string{"bad.feature"}))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Document\n"), out)
	assert.Contains(t, out, "Error")
	assert.Contains(t, out, "bad.feature:2:3: error:")
}
