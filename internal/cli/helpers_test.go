package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ccprov/internal/config"
	"github.com/roach88/ccprov/internal/store"
)

// execute runs a command with captured stdout/stderr.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// seedDatabase writes records for the query commands to read back.
func seedDatabase(t *testing.T, dbPath string, invs ...store.Invocation) {
	t.Helper()
	st, err := store.Open(dbPath, store.Options{})
	require.NoError(t, err)
	defer st.Close()

	for _, inv := range invs {
		require.NoError(t, st.RecordInvocation(context.Background(), inv))
	}
}

// seededDatabase builds a database with a small spread of records:
// two compiles of base/foo.cc, a same-basename file elsewhere, and a
// slow one under lib/.
func seededDatabase(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "build_commands.db")
	seedDatabase(t, dbPath,
		store.Invocation{InputFileName: "base/foo.cc", OutputFileName: "base/foo.o", Cwd: "base", Command: "g++ -c foo.cc -o foo.o", ExitCode: 0, Duration: 0.25},
		store.Invocation{InputFileName: "base/foo.cc", OutputFileName: "base/foo.o", Cwd: "base", Command: "g++ -O2 -c foo.cc -o foo.o", ExitCode: 2, Duration: 1.5},
		store.Invocation{InputFileName: "other/foo.cc", OutputFileName: "other/foo.o", Cwd: "other", Command: "g++ -c foo.cc -o foo.o", ExitCode: 0, Duration: 0.75},
		store.Invocation{InputFileName: "lib/bar.cc", OutputFileName: "lib/bar.o", Cwd: "lib", Command: "g++ -c bar.cc -o bar.o", ExitCode: 0, Duration: 3.0},
	)
	return dbPath
}

// clearQueryEnv isolates tests from ambient CCPROV_ configuration.
func clearQueryEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{config.EnvDatabase, config.EnvSourceRoot} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}
