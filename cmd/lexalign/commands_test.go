package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lexalign-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestKeywordsCommand(t *testing.T) {
	out, err := run(t, "", "keywords", "custody", "and", "the", "house")
	require.NoError(t, err)
	assert.JSONEq(t, `{"keywords":["custody","house"]}`, out)
}

func TestGapsCommand_Stdin(t *testing.T) {
	out, err := run(t, "the children are 5 and 8", "gaps", "--file", "-")
	require.NoError(t, err)

	var res struct {
		CaseType string               `json:"case_type"`
		Gaps     []models.EvidenceGap `json:"gaps"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "parenting", res.CaseType)
	require.NotEmpty(t, res.Gaps)
	assert.Equal(t, "safety_risk", res.Gaps[0].Element)
}

func TestValidateCommand(t *testing.T) {
	out, err := run(t, "", "validate", "Under s79 and s999 the court divided the assets")
	require.NoError(t, err)

	var res models.ValidationResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.False(t, res.Valid)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, "s999", res.Issues[0].Invalid)
}

func TestAlignCommand_LocalFiles(t *testing.T) {
	dir := t.TempDir()
	cases := filepath.Join(dir, "cases.jsonl")
	require.NoError(t, os.WriteFile(cases, []byte(
		`{"citation":"[2020] HCA 5","text":"custody of the child","outcome":"shared parental responsibility"}`+"\n"+
			`{"citation":"Family Law Act 1975","text":"custody"}`+"\n",
	), 0o644))
	story := filepath.Join(dir, "story.txt")
	require.NoError(t, os.WriteFile(story, []byte("We disagree about custody of our child."), 0o644))

	out, err := run(t, "", "align", "--cases", cases, "--file", story)
	require.NoError(t, err)

	var res models.StatutoryAlignment
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.SimilarCases, 1)
	assert.Equal(t, "[2020] HCA 5", res.SimilarCases[0].Citation)
	require.NotNil(t, res.Prediction.Outcome)
	assert.Equal(t, "shared parental responsibility", *res.Prediction.Outcome)
	assert.Empty(t, res.ApplicableLaw)
}

func TestCommands_RequireText(t *testing.T) {
	_, err := run(t, "", "factorize")
	assert.ErrorContains(t, err, "no text given")

	_, err = run(t, "", "align", "--file", filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorContains(t, err, "failed to read")
}
