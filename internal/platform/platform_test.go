package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceExecutable(t *testing.T) {
	dir := t.TempDir()
	execPath := filepath.Join(dir, "quill")
	artifactPath := filepath.Join(dir, "staged.pkg")

	require.NoError(t, os.WriteFile(execPath, []byte("old binary"), 0o755))
	require.NoError(t, os.WriteFile(artifactPath, []byte("new binary"), 0o644))

	require.NoError(t, replaceExecutable(artifactPath, execPath))

	replaced, err := os.ReadFile(execPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("new binary"), replaced)

	info, err := os.Stat(execPath)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0o100, "replacement must be executable")

	_, err = os.Stat(execPath + ".bak")
	assert.True(t, os.IsNotExist(err), "backup must be removed after a successful swap")
	_, err = os.Stat(execPath + ".new")
	assert.True(t, os.IsNotExist(err), "staged copy must be consumed")
}

func TestReplaceExecutableMissingArtifact(t *testing.T) {
	dir := t.TempDir()
	execPath := filepath.Join(dir, "quill")
	require.NoError(t, os.WriteFile(execPath, []byte("old binary"), 0o755))

	err := replaceExecutable(filepath.Join(dir, "missing.pkg"), execPath)
	require.Error(t, err)

	// a failed install must leave the application runnable
	original, readErr := os.ReadFile(execPath)
	require.NoError(t, readErr)
	assert.Equal(t, []byte("old binary"), original)
}

func TestOpenURLRejectsNonWebSchemes(t *testing.T) {
	opened := ""
	orig := openRun
	openRun = func(target string) error {
		opened = target
		return nil
	}
	defer func() { openRun = orig }()

	assert.Error(t, OpenURL("quill://settings"))
	assert.Error(t, OpenURL("file:///etc/passwd"))
	assert.Empty(t, opened)

	require.NoError(t, OpenURL("https://quillchat.io/releases"))
	assert.Equal(t, "https://quillchat.io/releases", opened)
}
