package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ccprov/internal/config"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "ccprov-query", cmd.Use)
	assert.Contains(t, cmd.Long, "provenance")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"init", "commands", "slowest", "treemap"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	outputFlag := cmd.PersistentFlags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "text", outputFlag.DefValue)

	dbFlag := cmd.PersistentFlags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, "", dbFlag.DefValue)

	rootFlag := cmd.PersistentFlags().Lookup("source-root")
	require.NotNil(t, rootFlag)
	assert.Equal(t, "", rootFlag.DefValue)
}

func TestSlowestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	slowestCmd, _, err := cmd.Find([]string{"slowest"})
	require.NoError(t, err)

	limitFlag := slowestCmd.Flags().Lookup("limit")
	require.NotNil(t, limitFlag)
	assert.Equal(t, "n", limitFlag.Shorthand)
	assert.Equal(t, "10", limitFlag.DefValue)
}

func TestTreemapCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	treemapCmd, _, err := cmd.Find([]string{"treemap"})
	require.NoError(t, err)

	depthFlag := treemapCmd.Flags().Lookup("depth")
	require.NotNil(t, depthFlag)
	assert.Equal(t, "2", depthFlag.DefValue)
}

func TestRejectsInvalidOutput(t *testing.T) {
	_, _, err := execute(t, NewRootCommand(), "--output", "yaml", "slowest", "--db", "unused.db")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestResolveDatabase_FlagWins(t *testing.T) {
	clearQueryEnv(t)
	t.Setenv(config.EnvDatabase, "/env/ignored.db")

	opts := &RootOptions{DB: "/flag/build.db"}
	assert.Equal(t, "/flag/build.db", opts.resolveDatabase())
}

func TestResolveDatabase_EnvironmentFallback(t *testing.T) {
	clearQueryEnv(t)
	t.Setenv(config.EnvDatabase, "/env/build.db")

	opts := &RootOptions{}
	assert.Equal(t, "/env/build.db", opts.resolveDatabase())
}

func TestResolveDatabase_DefaultName(t *testing.T) {
	clearQueryEnv(t)

	opts := &RootOptions{}
	assert.Equal(t, config.DefaultDatabase, opts.resolveDatabase())
}

func TestResolveDatabase_RelativeAgainstSourceRoot(t *testing.T) {
	clearQueryEnv(t)

	opts := &RootOptions{DB: "build.db", SourceRoot: "/src"}
	assert.Equal(t, filepath.Join("/src", "build.db"), opts.resolveDatabase())
}

func TestResolveDatabase_EnvironmentRoot(t *testing.T) {
	clearQueryEnv(t)
	t.Setenv(config.EnvSourceRoot, "/src")

	opts := &RootOptions{}
	assert.Equal(t, filepath.Join("/src", config.DefaultDatabase), opts.resolveDatabase())
}
