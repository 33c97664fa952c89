package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/camt2csv/internal/config"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "camt2csv-test-*")
	if err != nil {
		panic(err)
	}

	binaryPath = filepath.Join(tmpDir, "camt2csv")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/camt2csv")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		os.RemoveAll(tmpDir)
		panic("failed to build binary: " + err.Error())
	}

	code := m.Run()
	os.RemoveAll(tmpDir)
	os.Exit(code)
}

// runIn executes the binary with dir as working directory and returns stdout
// and stderr combined.
func runIn(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestInit_WritesDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	out, err := runIn(t, dir, "init", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, config.FileName)

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestInit_DefaultsToWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	_, err := runIn(t, dir, "init")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, config.FileName))
	assert.NoError(t, err)
}

func TestInit_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "project")
	_, err := runIn(t, t.TempDir(), "init", dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, config.FileName))
	assert.NoError(t, err)
}

func TestInit_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)
	require.NoError(t, os.WriteFile(path, []byte("scope: statement\n"), 0o644))

	out, err := runIn(t, dir, "init", dir)
	require.Error(t, err)
	assert.Contains(t, out, "already exists")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "scope: statement\n", string(data))
}

func TestInit_Force(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)
	require.NoError(t, os.WriteFile(path, []byte("scope: statement\n"), 0o644))

	_, err := runIn(t, dir, "init", dir, "--force")
	require.NoError(t, err)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.ScopeDocument, cfg.Scope)
}

func TestVersion(t *testing.T) {
	out, err := runIn(t, t.TempDir(), "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "dev (commit: none")
}
