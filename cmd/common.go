package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"reviewlens/internal/analysis"
	"reviewlens/internal/config"
	"reviewlens/internal/github"
	"reviewlens/internal/model"
)

// resolveRepo returns owner/repo from flags or the git remote.
func resolveRepo() (string, string, error) {
	if flagOwner != "" && flagRepo != "" {
		return flagOwner, flagRepo, nil
	}
	owner, repo, err := github.GetRepoInfo()
	if err != nil {
		return "", "", fmt.Errorf("repository not specified and not detectable from git remote: %w", err)
	}
	if flagOwner != "" {
		owner = flagOwner
	}
	if flagRepo != "" {
		repo = flagRepo
	}
	return owner, repo, nil
}

// parsePRNumber parses the positional PR number argument.
func parsePRNumber(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid PR number: %s", arg)
	}
	return n, nil
}

// fetchInput fetches the comment record set for a PR from GitHub.
func fetchInput(ctx context.Context, prNumber int) (*model.CommentInput, error) {
	owner, repo, err := resolveRepo()
	if err != nil {
		return nil, err
	}

	client, err := github.NewClient(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	return client.FetchCommentInput(ctx, prNumber)
}

// readInputFile loads a previously fetched record set from a JSON file and
// runs it through the same validation as any external input.
func readInputFile(path string) (*model.CommentInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse input file: %w", err)
	}

	return analysis.DecodeCommentInput(raw)
}

// analyzerOptions maps configuration to analysis options.
func analyzerOptions(cfg *config.Config, marker string) analysis.Options {
	if marker == "" {
		marker = cfg.BotSettings.ResolutionMarker
	}

	return analysis.Options{
		BotLogin:           cfg.BotSettings.BotLogin,
		ResolutionMarker:   marker,
		MinDescriptionLen:  cfg.AnalysisSettings.MinDescriptionLength,
		ClassifierStrategy: cfg.AnalysisSettings.ClassifierStrategy,
		PriorityKeywords: &analysis.PriorityKeywords{
			Critical: cfg.PriorityRules.Critical,
			High:     cfg.PriorityRules.High,
			Medium:   cfg.PriorityRules.Medium,
			Low:      cfg.PriorityRules.Low,
		},
		Streaming:         cfg.AnalysisSettings.StreamingEnabled,
		BatchSize:         cfg.AnalysisSettings.BatchSize,
		WorkerCount:       cfg.AnalysisSettings.WorkerCount,
		MemoryThresholdMB: cfg.AnalysisSettings.MemoryThresholdMB,
		Logger:            newLogger(cfg),
	}
}
