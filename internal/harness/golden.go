package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot is one scenario's entry in a golden file: the raw argument
// vector alongside the classification it produced.
type Snapshot struct {
	ScenarioName string   `json:"scenario_name"`
	Args         []string `json:"args"`
	Output       string   `json:"output,omitempty"`
	Input        string   `json:"input,omitempty"`
}

// NewSnapshot pairs a scenario with its result.
func NewSnapshot(scenario *Scenario, result *Result) Snapshot {
	return Snapshot{
		ScenarioName: scenario.Name,
		Args:         scenario.Args,
		Output:       result.Output,
		Input:        result.Input,
	}
}

// AssertGolden compares snapshots against testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func AssertGolden(t *testing.T, name string, snapshots []Snapshot) {
	t.Helper()

	data, err := json.MarshalIndent(snapshots, "", "  ")
	if err != nil {
		t.Fatalf("marshaling snapshots: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}
