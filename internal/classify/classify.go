package classify

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Classification is the result of scanning one argument vector.
// Empty fields mean the corresponding path could not be determined;
// that is a normal outcome for link steps, preprocessor runs, and
// argument shapes the heuristic does not cover.
type Classification struct {
	// Output is the inferred output path, relative to the source root.
	Output string

	// Input is the inferred input source. When matched via the compile-only
	// flag it is resolved and root-relative like Output; when matched via a
	// source extension it is the argument text verbatim.
	Input string
}

// Classifier scans compiler argument vectors for one source root and
// working directory. It performs no store I/O; the filesystem is touched
// only to resolve symlinks.
type Classifier struct {
	root    string
	cwd     string
	profile Profile
}

// New returns a Classifier for the given source root and working directory.
// The root must be absolute; a trailing separator is normalized away.
// The working directory is where the wrapped compiler runs, so relative
// arguments resolve against it.
func New(root, cwd string, profile Profile) (*Classifier, error) {
	if !filepath.IsAbs(root) {
		return nil, fmt.Errorf("source root must be absolute, got %q", root)
	}
	if !filepath.IsAbs(cwd) {
		return nil, fmt.Errorf("working directory must be absolute, got %q", cwd)
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{
		root:    filepath.Clean(root),
		cwd:     filepath.Clean(cwd),
		profile: profile,
	}, nil
}

// Root returns the classifier's cleaned source root.
func (c *Classifier) Root() string {
	return c.root
}

// Classify runs the two-stage scan over args.
// The stages and their first-match tie-breaks are documented on the package;
// both are load-bearing for downstream consumers and must not be reordered.
func (c *Classifier) Classify(args []string) Classification {
	var cls Classification

	out, ok := c.outputPath(args)
	if !ok {
		return cls
	}
	cls.Output = out

	// Input inference only applies to object-producing invocations.
	if !strings.HasSuffix(out, c.profile.ObjectSuffix) {
		return cls
	}
	stem := strings.TrimSuffix(filepath.Base(out), c.profile.ObjectSuffix)
	cls.Input = c.inputPath(args, stem)

	return cls
}

// outputPath scans for the first occurrence of the output flag. Only that
// occurrence is ever considered: if it is the final token there is no
// output, even when the flag appears again later.
func (c *Classifier) outputPath(args []string) (string, bool) {
	for i, arg := range args {
		if arg != c.profile.OutputFlag {
			continue
		}
		if i+1 >= len(args) {
			return "", false
		}
		return c.relToRoot(realPath(c.absolute(args[i+1]))), true
	}
	return "", false
}

// inputPath scans for the first argument containing stem that qualifies as
// an input. Arguments containing the stem without qualifying do not stop
// the scan; the first qualifying match does.
func (c *Classifier) inputPath(args []string, stem string) string {
	for i, arg := range args {
		if !strings.Contains(arg, stem) {
			continue
		}
		if i > 0 && args[i-1] == c.profile.CompileFlag {
			return c.relToRoot(realPath(c.absolute(arg)))
		}
		if c.profile.isSourceExt(filepath.Ext(arg)) {
			return arg
		}
	}
	return ""
}

// absolute resolves arg against the invocation working directory.
func (c *Classifier) absolute(arg string) string {
	if filepath.IsAbs(arg) {
		return arg
	}
	return filepath.Join(c.cwd, arg)
}

// relToRoot expresses path relative to the source root. Paths outside the
// root keep their ".." elements; a path on another volume is returned
// unchanged.
func (c *Classifier) relToRoot(path string) string {
	rel, err := filepath.Rel(c.root, path)
	if err != nil {
		return path
	}
	return rel
}

// realPath resolves symlinks in path, tolerating components that do not
// exist yet: a failed or dry-run compile names an output file that was
// never created. The deepest existing ancestor is resolved and the
// remainder rejoined lexically.
func realPath(path string) string {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved
	}
	clean := filepath.Clean(path)
	dir := filepath.Dir(clean)
	if dir == clean {
		return clean
	}
	return filepath.Join(realPath(dir), filepath.Base(clean))
}
