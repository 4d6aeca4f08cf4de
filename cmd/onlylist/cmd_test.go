package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/onlylist/pkg/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag so the global command tree can be reused between runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func run(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("ONLYLIST_STORAGE", "file")
	t.Setenv("ONLYLIST_KEY", "tasks")

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--dir", dir}, args...))
	err := rootCmd.Execute()
	resetFlags(rootCmd)
	return stdout.String(), stderr.String(), err
}

func TestCommands_Workflow(t *testing.T) {
	dir := t.TempDir()

	out, _, err := run(t, dir, "add", "Buy", "milk")
	require.NoError(t, err)
	assert.Equal(t, "Added task 1\n", out)

	_, _, err = run(t, dir, "add", "Walk dog")
	require.NoError(t, err)

	out, _, err = run(t, dir, "done", "2")
	require.NoError(t, err)
	assert.Equal(t, "Task 2 marked done\n", out)

	_, _, err = run(t, dir, "edit", "1", "Buy", "oat", "milk")
	require.NoError(t, err)

	out, _, err = run(t, dir, "ls")
	require.NoError(t, err)
	assert.Equal(t, "1. [ ] Buy oat milk\n2. [x] Walk dog\n", out)

	data, err := os.ReadFile(filepath.Join(dir, "tasks.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"text":"Buy oat milk","completed":false},{"text":"Walk dog","completed":true}]`, string(data))

	out, _, err = run(t, dir, "rm", "1")
	require.NoError(t, err)
	assert.Equal(t, "Deleted \"Buy oat milk\"\n", out)

	out, _, err = run(t, dir, "ls", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"text":"Walk dog","completed":true}]`, out)

	out, _, err = run(t, dir, "clear")
	require.NoError(t, err)
	assert.Equal(t, "Removed 1 tasks\n", out)

	out, _, err = run(t, dir, "ls")
	require.NoError(t, err)
	assert.Equal(t, "No tasks yet.\n", out)
}

func TestCommands_EmptyInput(t *testing.T) {
	dir := t.TempDir()

	_, stderr, err := run(t, dir, "add", "   ")
	assert.ErrorIs(t, err, errReported)
	assert.Equal(t, domain.MsgEmptyAdd+"\n", stderr)

	_, err = os.Stat(filepath.Join(dir, "tasks.json"))
	assert.True(t, os.IsNotExist(err), "nothing is written on rejection")

	_, _, err = run(t, dir, "add", "A")
	require.NoError(t, err)
	_, stderr, err = run(t, dir, "edit", "1")
	assert.ErrorIs(t, err, errReported)
	assert.Equal(t, domain.MsgEmptyEdit+"\n", stderr)
}

func TestCommands_BadPositions(t *testing.T) {
	dir := t.TempDir()

	_, _, err := run(t, dir, "done", "0")
	assert.ErrorContains(t, err, "invalid position")

	_, _, err = run(t, dir, "rm", "x")
	assert.ErrorContains(t, err, "invalid position")

	_, _, err = run(t, dir, "done", "3")
	assert.EqualError(t, err, "no task at position 3")
}

func TestCommands_Version(t *testing.T) {
	out, _, err := run(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "onlylist version ")
}
