package github

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetGitHubTokenFromEnv(t *testing.T) {
	t.Setenv("REVIEWLENS_GITHUB_TOKEN", "tool-token")
	t.Setenv("GITHUB_TOKEN", "generic-token")

	token, err := GetGitHubToken()
	require.NoError(t, err)
	assert.Equal(t, "tool-token", token)
}

func TestGetGitHubTokenGenericFallback(t *testing.T) {
	t.Setenv("REVIEWLENS_GITHUB_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "generic-token")

	token, err := GetGitHubToken()
	require.NoError(t, err)
	assert.Equal(t, "generic-token", token)
}

func TestGetGitHubTokenFromGHConfig(t *testing.T) {
	t.Setenv("REVIEWLENS_GITHUB_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")

	dir := t.TempDir()
	hosts := `github.com:
    user: alice
    oauth_token: gho_testtoken
    git_protocol: https
other.example.com:
    oauth_token: wrong-token
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hosts.yml"), []byte(hosts), 0600))
	t.Setenv("GH_CONFIG_DIR", dir)

	token, err := GetGitHubToken()
	require.NoError(t, err)
	assert.Equal(t, "gho_testtoken", token)
}

func TestGetGitHubTokenIgnoresOtherHosts(t *testing.T) {
	t.Setenv("REVIEWLENS_GITHUB_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")

	dir := t.TempDir()
	hosts := `other.example.com:
    oauth_token: wrong-token
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hosts.yml"), []byte(hosts), 0600))
	t.Setenv("GH_CONFIG_DIR", dir)

	_, err := GetGitHubToken()
	assert.Error(t, err)
}

func TestGetGitHubTokenMissingEverywhere(t *testing.T) {
	t.Setenv("REVIEWLENS_GITHUB_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GH_CONFIG_DIR", t.TempDir())

	_, err := GetGitHubToken()
	assert.ErrorContains(t, err, "no GitHub token found")
}
