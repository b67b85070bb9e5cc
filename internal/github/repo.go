package github

import (
	"fmt"
	"os/exec"
	"strings"
)

// GetRepoInfo resolves the owner and repository name from the git remote of
// the current working directory. Both SSH and HTTPS remote formats are
// supported.
func GetRepoInfo() (string, string, error) {
	cmd := exec.Command("git", "remote", "get-url", "origin")
	output, err := cmd.Output()
	if err != nil {
		return "", "", fmt.Errorf("failed to get git remote URL: %w", err)
	}

	return ParseRemoteURL(strings.TrimSpace(string(output)))
}

// ParseRemoteURL extracts owner and repo from a GitHub remote URL.
// SSH:   git@github.com:owner/repo.git
// HTTPS: https://github.com/owner/repo.git
func ParseRemoteURL(url string) (string, string, error) {
	var path string

	switch {
	case strings.HasPrefix(url, "git@github.com:"):
		path = strings.TrimPrefix(url, "git@github.com:")
	case strings.Contains(url, "github.com/"):
		idx := strings.Index(url, "github.com/")
		path = url[idx+len("github.com/"):]
	default:
		return "", "", fmt.Errorf("unsupported remote URL format: %s", url)
	}

	path = strings.TrimSuffix(path, ".git")
	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("cannot parse owner/repo from remote URL: %s", url)
	}

	return parts[0], parts[1], nil
}
