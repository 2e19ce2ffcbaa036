package store

import (
	"path/filepath"
	"testing"
)

// createTestStore creates a store backed by a temp file for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, Options{})
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestInvocation builds an invocation with plausible defaults for
// the given input path.
func createTestInvocation(input string) Invocation {
	output := ""
	if input != "" {
		output = input[:len(input)-len(filepath.Ext(input))] + ".o"
	}
	return Invocation{
		InputFileName:  input,
		OutputFileName: output,
		Cwd:            "src",
		Command:        "-c " + input + " -o " + output,
		ExitCode:       0,
		Duration:       0.25,
	}
}
