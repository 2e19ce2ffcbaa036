package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ccprov/internal/classify"
)

// Scenario defines one classification scenario: a source tree, a
// compiler invocation, and the expected classification.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Files lists root-relative paths to materialize before the run.
	Files []string `yaml:"files,omitempty"`

	// Symlinks maps root-relative link paths to their targets, created
	// after Files so links can point at materialized entries.
	Symlinks map[string]string `yaml:"symlinks,omitempty"`

	// Cwd is the invocation working directory, relative to the root.
	// Empty means the root itself.
	Cwd string `yaml:"cwd,omitempty"`

	// Args is the argument vector as the wrapper sees it. The literal
	// $ROOT expands to the absolute source root at run time.
	Args []string `yaml:"args"`

	// Profile optionally overrides toolchain constants.
	Profile *ProfileOverride `yaml:"profile,omitempty"`

	// Expect is the classification the scenario must produce. Empty
	// fields assert absence.
	Expect ExpectClause `yaml:"expect"`
}

// ProfileOverride adjusts classifier constants for one scenario.
// Unset fields keep their defaults.
type ProfileOverride struct {
	OutputFlag     string   `yaml:"output_flag,omitempty"`
	CompileFlag    string   `yaml:"compile_flag,omitempty"`
	ObjectSuffix   string   `yaml:"object_suffix,omitempty"`
	SourceSuffixes []string `yaml:"source_suffixes,omitempty"`
}

// apply merges the override onto a base profile.
func (o *ProfileOverride) apply(p classify.Profile) classify.Profile {
	if o == nil {
		return p
	}
	if o.OutputFlag != "" {
		p.OutputFlag = o.OutputFlag
	}
	if o.CompileFlag != "" {
		p.CompileFlag = o.CompileFlag
	}
	if o.ObjectSuffix != "" {
		p.ObjectSuffix = o.ObjectSuffix
	}
	if len(o.SourceSuffixes) > 0 {
		p.SourceSuffixes = o.SourceSuffixes
	}
	return p
}

// ExpectClause specifies the expected classification.
type ExpectClause struct {
	Output string `yaml:"output,omitempty"`
	Input  string `yaml:"input,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "expects:" vs "expect:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml scenario in dir, sorted by filename
// so golden snapshots are stable.
func LoadScenarios(dir string) ([]*Scenario, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no scenario files in %s", dir)
	}
	sort.Strings(matches)

	scenarios := make([]*Scenario, 0, len(matches))
	for _, path := range matches {
		scenario, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, scenario)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Args) == 0 {
		return fmt.Errorf("args list is required and must be non-empty")
	}
	for link, target := range s.Symlinks {
		if link == "" || target == "" {
			return fmt.Errorf("symlink entries need both link and target")
		}
	}
	return nil
}
