// Package profile loads toolchain profiles from CUE files.
//
// A profile overrides the classifier's toolchain literals (flag
// spellings, object suffix, source extensions) for non-GCC toolchains.
// Files are validated against an embedded schema; an unset profile path
// means the built-in defaults.
package profile

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/ccprov/internal/classify"
)

//go:embed schema.cue
var schemaCUE string

// Error code constants for profile loading.
const (
	ErrCodeGeneric    = "E201" // Generic/unknown error
	ErrCodeReadFailed = "E202" // Profile file not readable
	ErrCodeParse      = "E203" // CUE parse/compile failed
	ErrCodeSchema     = "E204" // Schema violation
	ErrCodeBadValue   = "E205" // Well-typed but unusable value
)

// LoadError represents an error that occurred during profile loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Load reads a toolchain profile from path and merges it over the
// built-in defaults. An empty path returns the defaults unchanged.
func Load(path string) (classify.Profile, error) {
	if path == "" {
		return classify.DefaultProfile(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return classify.Profile{}, &LoadError{
			Code:    ErrCodeReadFailed,
			Message: fmt.Sprintf("reading profile: %v", err),
		}
	}

	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return classify.Profile{}, cueError(ErrCodeGeneric, err)
	}

	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return classify.Profile{}, cueError(ErrCodeParse, err)
	}

	// The file itself must define the profile struct; a file that sets
	// nothing is more likely a typo than an intentional all-defaults
	// profile.
	if !value.LookupPath(cue.ParsePath("profile")).Exists() {
		return classify.Profile{}, &LoadError{
			Code:    ErrCodeSchema,
			Message: "profile struct is required",
			Pos:     value.Pos(),
		}
	}

	unified := schema.Unify(value)
	if err := unified.Validate(); err != nil {
		return classify.Profile{}, cueError(ErrCodeSchema, err)
	}

	profileVal := unified.LookupPath(cue.ParsePath("profile"))

	p := classify.DefaultProfile()
	if err := stringField(profileVal, "output_flag", &p.OutputFlag); err != nil {
		return classify.Profile{}, err
	}
	if err := stringField(profileVal, "compile_flag", &p.CompileFlag); err != nil {
		return classify.Profile{}, err
	}
	if err := stringField(profileVal, "object_suffix", &p.ObjectSuffix); err != nil {
		return classify.Profile{}, err
	}
	if err := suffixList(profileVal, &p.SourceSuffixes); err != nil {
		return classify.Profile{}, err
	}

	if err := p.Validate(); err != nil {
		return classify.Profile{}, &LoadError{
			Code:    ErrCodeBadValue,
			Message: err.Error(),
			Pos:     profileVal.Pos(),
		}
	}

	return p, nil
}

// stringField copies an optional string field into dst, leaving dst
// untouched when the field is absent.
func stringField(v cue.Value, name string, dst *string) error {
	fv := v.LookupPath(cue.ParsePath(name))
	if !fv.Exists() {
		return nil
	}
	s, err := fv.String()
	if err != nil {
		return cueError(ErrCodeSchema, err)
	}
	*dst = s
	return nil
}

// suffixList copies the optional source_suffixes list into dst.
func suffixList(v cue.Value, dst *[]string) error {
	fv := v.LookupPath(cue.ParsePath("source_suffixes"))
	if !fv.Exists() {
		return nil
	}

	iter, err := fv.List()
	if err != nil {
		return cueError(ErrCodeSchema, err)
	}

	suffixes := []string{}
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return cueError(ErrCodeSchema, err)
		}
		suffixes = append(suffixes, s)
	}
	*dst = suffixes
	return nil
}

// cueError extracts position info from CUE errors into a LoadError.
func cueError(code string, err error) *LoadError {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error()}
	}

	firstErr := errs[0]
	loadErr := &LoadError{Code: code, Message: firstErr.Error()}
	if positions := errors.Positions(firstErr); len(positions) > 0 {
		loadErr.Pos = positions[0]
	}
	return loadErr
}
