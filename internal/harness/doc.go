// Package harness provides scenario-driven conformance testing for the
// argument classifier.
//
// A scenario describes a source tree, one compiler invocation, and the
// classification it must produce. Scenarios are the executable form of
// the classifier's contract: each heuristic rule (first output flag
// wins, object-suffix gate, stem matching, symlink resolution) has a
// scenario pinning it down.
//
// # Scenario Format
//
// Scenarios are defined in YAML files, one scenario per file:
//
//	name: compile_unit
//	description: "Plain compile of one translation unit"
//	files:
//	  - base/foo.cc
//	cwd: base
//	args: ["-c", "foo.cc", "-o", "foo.o"]
//	expect:
//	  output: base/foo.o
//	  input: base/foo.cc
//
// Files are materialized under a fresh source root before the scenario
// runs; cwd is relative to that root. The literal $ROOT in an argument
// expands to the absolute root, so scenarios can exercise absolute-path
// invocations without knowing the temp directory.
//
// An optional profile block overrides toolchain constants:
//
//	profile:
//	  object_suffix: .obj
//	  source_suffixes: [".c"]
//
// # Deterministic Testing
//
// Every scenario runs against its own temp tree, so results depend only
// on the scenario file. The golden snapshot across all scenarios guards
// the classifier against silent behavior drift.
package harness
