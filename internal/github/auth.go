package github

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GetGitHubToken retrieves the GitHub token from the supported sources in
// priority order: tool-specific env var, generic env var, gh CLI config.
func GetGitHubToken() (string, error) {
	if token := os.Getenv("REVIEWLENS_GITHUB_TOKEN"); token != "" {
		return token, nil
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}

	if token, err := getGHToken(); err == nil && token != "" {
		return token, nil
	}

	return "", fmt.Errorf("no GitHub token found: set REVIEWLENS_GITHUB_TOKEN or GITHUB_TOKEN, or authenticate with the gh CLI")
}

// getGHToken reads the oauth token from the gh CLI configuration using
// simple line parsing.
func getGHToken() (string, error) {
	configDir := os.Getenv("GH_CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(homeDir, ".config", "gh")
	}

	data, err := os.ReadFile(filepath.Join(configDir, "hosts.yml"))
	if err != nil {
		return "", err
	}

	inGithubSection := false
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)

		if trimmed == "github.com:" {
			inGithubSection = true
			continue
		}

		if inGithubSection && strings.HasPrefix(trimmed, "oauth_token:") {
			parts := strings.SplitN(trimmed, ":", 2)
			if len(parts) == 2 {
				return strings.TrimSpace(parts[1]), nil
			}
		}

		// Another top-level section ends the github.com block.
		if inGithubSection && trimmed != "" && !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") {
			inGithubSection = false
		}
	}

	return "", fmt.Errorf("oauth_token not found in gh config")
}
