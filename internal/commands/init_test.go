package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledger/internal/accounts"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "ledger-test-*")
	if err != nil {
		panic(err)
	}

	binaryPath = filepath.Join(tmpDir, "ledger")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/ledger")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	code := m.Run()
	os.RemoveAll(tmpDir)
	os.Exit(code)
}

// runLedger runs the binary with USD formatting so amounts are predictable.
func runLedger(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "LEDGER_CURRENCY=USD")
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestInit_Config(t *testing.T) {
	dir := t.TempDir()
	_, err := runLedger(t, "init", dir, "--name", "Nile Freight")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "ledger.yaml"))
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Nile Freight")
	assert.Contains(t, contents, "driver: csv")
	assert.Contains(t, contents, "code: EGP")
}

func TestInit_Accounts(t *testing.T) {
	dir := t.TempDir()
	_, err := runLedger(t, "init", dir, "--name", "Nile Freight")
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(dir, "accounts", "chart-of-accounts.csv"))
	require.NoError(t, err)
	defer f.Close()

	tree, err := accounts.ReadAccounts(f)
	require.NoError(t, err)
	assert.Len(t, tree, 5, "five root classes")
	assert.Len(t, accounts.Flatten(tree), 45, "default freight chart has 45 accounts")
}

func TestInit_GitRepo(t *testing.T) {
	dir := t.TempDir()
	_, err := runLedger(t, "init", dir, "--name", "Nile Freight")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git should exist")

	assert.Contains(t, gitLog(t, dir, "%s"), "init: Initialize Nile Freight")
	assert.Contains(t, gitLog(t, dir, "%an <%ae>"), "Ledger <ledger@cleared.dev>")
}

func TestInit_Gitignore(t *testing.T) {
	dir := t.TempDir()
	_, err := runLedger(t, "init", dir, "--name", "Nile Freight")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	for _, pattern := range []string{".env", "*.db", "exports/"} {
		assert.Contains(t, string(data), pattern, ".gitignore should contain %s", pattern)
	}
}

func TestInit_Bolt(t *testing.T) {
	dir := t.TempDir()
	_, err := runLedger(t, "init", dir, "--name", "Nile Freight", "--store", "bolt")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "ledger.db"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, ".git"))
	assert.True(t, os.IsNotExist(err), "bolt ledgers are not git tracked")

	out, err := runLedger(t, "-C", dir, "account", "list", "--type", "revenue")
	require.NoError(t, err, out)
	assert.Contains(t, out, "4100")
	assert.NotContains(t, out, "1110")
}

func TestInit_RequiresName(t *testing.T) {
	_, err := runLedger(t, "init", t.TempDir())
	require.Error(t, err, "init without --name should fail")
}

func TestInit_Twice(t *testing.T) {
	dir := t.TempDir()
	_, err := runLedger(t, "init", dir, "--name", "A", "--no-git")
	require.NoError(t, err)

	out, err := runLedger(t, "init", dir, "--name", "B", "--no-git")
	require.Error(t, err)
	assert.Contains(t, out, "already exists")
}

func gitLog(t *testing.T, dir, format string) string {
	t.Helper()
	cmd := exec.Command("git", "log", "--format="+format, "-1")
	cmd.Dir = dir
	out, err := cmd.Output()
	require.NoError(t, err)
	return string(out)
}
