package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigInitWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, err := execute(t, "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "direction")
	assert.Contains(t, string(data), "hide_delay")

	_, err = execute(t, "config", "init", "--config", path)
	assert.ErrorContains(t, err, "already exists")

	_, err = execute(t, "config", "init", "--force", "--config", path)
	assert.NoError(t, err)
}

func TestConfigShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[reader]\ndirection = \"horizontal\"\n"), 0644))

	out, err := execute(t, "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "# "+path)
	assert.Contains(t, out, "horizontal")
	assert.Contains(t, out, "thumb_color")
}

func TestConfigShowRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[reader]\ndirection = \"diagonal\"\n"), 0644))

	_, err := execute(t, "config", "show", "--config", path)
	assert.Error(t, err)
}

func TestConfigPath(t *testing.T) {
	out, err := execute(t, "config", "path", "--config", "/tmp/elsewhere.toml")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/elsewhere.toml\n", out)
}

func TestReaderRequiresFile(t *testing.T) {
	_, err := execute(t)
	assert.Error(t, err)
}

func TestReaderRejectsBadDirection(t *testing.T) {
	book := filepath.Join(t.TempDir(), "book.txt")
	require.NoError(t, os.WriteFile(book, []byte("text"), 0644))

	_, err := execute(t, "--log-file", "", "--config", filepath.Join(t.TempDir(), "none.toml"), "--direction", "diagonal", book)
	assert.ErrorContains(t, err, "invalid direction")
}

func TestReaderReportsMissingBook(t *testing.T) {
	_, err := execute(t, "--log-file", "", "--config", filepath.Join(t.TempDir(), "none.toml"), filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
