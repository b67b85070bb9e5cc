package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewlens/internal/config"
	"reviewlens/internal/model"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCmdRegistersSubcommands(t *testing.T) {
	root := NewRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}

	assert.Contains(t, names, "fetch")
	assert.Contains(t, names, "analyze")
	assert.Contains(t, names, "prompt")
	assert.Contains(t, names, "version")
}

func TestVersionCommand(t *testing.T) {
	SetVersionInfo("1.2.3", "abcdef0", "2026-01-01")
	defer SetVersionInfo("dev", "unknown", "unknown")

	out, err := runCommand(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "reviewlens version 1.2.3")
	assert.Contains(t, out, "commit: abcdef0")
}

func TestParsePRNumber(t *testing.T) {
	n, err := parsePRNumber("123")
	require.NoError(t, err)
	assert.Equal(t, 123, n)

	for _, bad := range []string{"abc", "0", "-4", ""} {
		_, err := parsePRNumber(bad)
		assert.Error(t, err, bad)
	}
}

func TestAnalyzeRequiresInputOrPRNumber(t *testing.T) {
	_, err := runCommand(t, "analyze", "--config", filepath.Join(t.TempDir(), "none.json"))
	assert.ErrorContains(t, err, "either a PR number or --input is required")
}

func TestAnalyzeRejectsInvalidPRNumber(t *testing.T) {
	_, err := runCommand(t, "analyze", "abc", "--config", filepath.Join(t.TempDir(), "none.json"))
	assert.ErrorContains(t, err, "invalid PR number")
}

func writeRecordSet(t *testing.T) string {
	t.Helper()
	record := map[string]any{
		"pr_number": 7,
		"pr_title":  "Add exporter",
		"owner":     "acme",
		"repo":      "widgets",
		"inline_comments": []map[string]any{
			{
				"id": 1, "author": map[string]any{"login": "coderabbitai[bot]"},
				"created_at": "2024-03-01T10:00:00Z",
				"body":       "⚠️ Potential issue\n\nThe rows iterator is never closed.",
				"file_path":  "pkg/db.go", "line": 14,
			},
		},
		"review_comments": []map[string]any{
			{
				"id": 2, "author": "coderabbitai[bot]",
				"created_at": "2024-03-01T10:05:00Z",
				"body":       "**Actionable comments posted: 1**\n\n- `pkg/db.go:14` - rows iterator never closed",
			},
		},
		"pr_comments": []map[string]any{},
	}

	data, err := json.Marshal(record)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "record.json")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestAnalyzeFromInputFile(t *testing.T) {
	path := writeRecordSet(t)

	out, err := runCommand(t, "analyze",
		"--input", path,
		"--format", "json",
		"--config", filepath.Join(t.TempDir(), "none.json"))
	require.NoError(t, err)

	var analyzed model.AnalyzedComments
	require.NoError(t, json.Unmarshal([]byte(out), &analyzed))
	assert.Equal(t, 7, analyzed.Metadata.PRNumber)
	assert.Equal(t, 2, analyzed.Metadata.TotalComments)
	assert.Equal(t, 2, analyzed.Metadata.BotComments)
	require.Len(t, analyzed.ReviewComments, 1)
	assert.Equal(t, 1, analyzed.ReviewComments[0].ActionableCount)
}

func TestAnalyzeRejectsMalformedRecordSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"inline_comments": "nope"}`), 0644))

	_, err := runCommand(t, "analyze",
		"--input", path,
		"--config", filepath.Join(t.TempDir(), "none.json"))
	assert.ErrorContains(t, err, "inline_comments")
}

func TestPromptFromInputFile(t *testing.T) {
	path := writeRecordSet(t)

	out, err := runCommand(t, "prompt",
		"--input", path,
		"--config", filepath.Join(t.TempDir(), "none.json"))
	require.NoError(t, err)

	assert.Contains(t, out, "You are resolving code review feedback on acme/widgets PR #7.")
	assert.Contains(t, out, "File: pkg/db.go:14")
}

func TestAnalyzerOptionsFromConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.BotSettings.BotLogin = "reviewdog"
	cfg.BotSettings.ResolutionMarker = "DEFAULT_MARKER"
	cfg.AnalysisSettings.MinDescriptionLength = 8
	cfg.AnalysisSettings.StreamingEnabled = true
	cfg.AnalysisSettings.BatchSize = 25
	cfg.PriorityRules.Critical = []string{"outage"}

	opts := analyzerOptions(cfg, "")
	assert.Equal(t, "reviewdog", opts.BotLogin)
	assert.Equal(t, "DEFAULT_MARKER", opts.ResolutionMarker)
	assert.Equal(t, 8, opts.MinDescriptionLen)
	assert.True(t, opts.Streaming)
	assert.Equal(t, 25, opts.BatchSize)
	assert.Equal(t, []string{"outage"}, opts.PriorityKeywords.Critical)
	assert.NotNil(t, opts.Logger)

	// An explicit marker overrides the configured one.
	opts = analyzerOptions(cfg, "CUSTOM")
	assert.Equal(t, "CUSTOM", opts.ResolutionMarker)
}
