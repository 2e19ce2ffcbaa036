package classify

import "fmt"

// Profile holds the toolchain literals the classifier scans for.
// The zero value is not usable; start from DefaultProfile.
type Profile struct {
	// OutputFlag is the literal flag whose following argument names the
	// output file ("-o" for the GCC family).
	OutputFlag string

	// CompileFlag is the literal compile-only flag ("-c"). An argument
	// directly preceded by it is treated as the input source.
	CompileFlag string

	// ObjectSuffix is the object-file suffix (".o"). Input inference only
	// runs when the inferred output ends with it.
	ObjectSuffix string

	// SourceSuffixes are the extensions recognized as compilable sources.
	SourceSuffixes []string
}

// DefaultProfile returns the profile for the GCC/Clang toolchain family.
func DefaultProfile() Profile {
	return Profile{
		OutputFlag:     "-o",
		CompileFlag:    "-c",
		ObjectSuffix:   ".o",
		SourceSuffixes: []string{".c", ".cpp", ".cc", ".m", ".mm"},
	}
}

// Validate checks that every literal the scan depends on is present.
func (p Profile) Validate() error {
	if p.OutputFlag == "" {
		return fmt.Errorf("profile: output flag is required")
	}
	if p.CompileFlag == "" {
		return fmt.Errorf("profile: compile flag is required")
	}
	if p.ObjectSuffix == "" {
		return fmt.Errorf("profile: object suffix is required")
	}
	if len(p.SourceSuffixes) == 0 {
		return fmt.Errorf("profile: at least one source suffix is required")
	}
	return nil
}

// isSourceExt reports whether ext is one of the recognized source suffixes.
func (p Profile) isSourceExt(ext string) bool {
	for _, s := range p.SourceSuffixes {
		if s == ext {
			return true
		}
	}
	return false
}
