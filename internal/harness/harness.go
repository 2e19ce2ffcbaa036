package harness

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/roach88/ccprov/internal/classify"
	"github.com/roach88/ccprov/internal/testutil"
)

// Result captures one scenario's classification.
type Result struct {
	ScenarioName string `json:"scenario_name"`
	Output       string `json:"output,omitempty"`
	Input        string `json:"input,omitempty"`
}

// Run materializes the scenario's tree under a fresh source root and
// classifies its argument vector. Setup failures abort the test;
// classification misses are results, not failures.
func Run(t *testing.T, scenario *Scenario) *Result {
	t.Helper()

	root := testutil.TempRoot(t)
	if len(scenario.Files) > 0 {
		testutil.WriteTree(t, root, scenario.Files...)
	}
	for link, target := range scenario.Symlinks {
		linkPath := filepath.Join(root, filepath.FromSlash(link))
		if err := os.MkdirAll(filepath.Dir(linkPath), 0o755); err != nil {
			t.Fatalf("creating symlink parent: %v", err)
		}
		if err := os.Symlink(filepath.FromSlash(target), linkPath); err != nil {
			t.Fatalf("creating symlink %s: %v", link, err)
		}
	}

	cwd := root
	if scenario.Cwd != "" {
		cwd = filepath.Join(root, filepath.FromSlash(scenario.Cwd))
	}

	classifier, err := classify.New(root, cwd, scenario.Profile.apply(classify.DefaultProfile()))
	if err != nil {
		t.Fatalf("building classifier: %v", err)
	}

	cls := classifier.Classify(expandArgs(scenario.Args, root))

	return &Result{
		ScenarioName: scenario.Name,
		Output:       cls.Output,
		Input:        cls.Input,
	}
}

// Check asserts the result matches the scenario's expectation.
func Check(t *testing.T, scenario *Scenario, result *Result) {
	t.Helper()

	if result.Output != scenario.Expect.Output {
		t.Errorf("output = %q, want %q", result.Output, scenario.Expect.Output)
	}
	if result.Input != scenario.Expect.Input {
		t.Errorf("input = %q, want %q", result.Input, scenario.Expect.Input)
	}
}

// expandArgs substitutes the $ROOT placeholder so scenarios can name
// absolute paths without knowing the temp directory.
func expandArgs(args []string, root string) []string {
	expanded := make([]string, len(args))
	for i, arg := range args {
		expanded[i] = strings.ReplaceAll(arg, "$ROOT", root)
	}
	return expanded
}
