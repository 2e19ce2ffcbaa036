// Package cli implements the ccprov-query command tree: read-side
// queries over a provenance database plus schema initialization. The
// wrapper binary records; this binary answers questions.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/ccprov/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DB         string // database path; falls back to CCPROV_DATABASE
	SourceRoot string // source root; falls back to CCPROV_SOURCE_ROOT
	Output     string // "text" | "json"
	Verbose    bool
}

// ValidOutputs defines the allowed output formats.
var ValidOutputs = []string{"text", "json"}

// NewRootCommand creates the root command for ccprov-query.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "ccprov-query",
		Short: "Query recorded compiler invocations",
		Long: `Query the provenance database written by the ccprov compiler wrapper.

Records are keyed by the inferred input source file; queries look up the
history of a file, rank compiles by duration, or aggregate compile time
into a directory tree.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidOutput(opts.Output) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid output %q: must be one of %v", opts.Output, ValidOutputs))
			}

			logLevel := slog.LevelWarn
			if opts.Verbose {
				logLevel = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: logLevel,
			})))
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "path to the provenance database (default $CCPROV_DATABASE)")
	cmd.PersistentFlags().StringVar(&opts.SourceRoot, "source-root", "", "source root relative paths resolve against (default $CCPROV_SOURCE_ROOT)")
	cmd.PersistentFlags().StringVar(&opts.Output, "output", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewCommandsCommand(opts))
	cmd.AddCommand(NewSlowestCommand(opts))
	cmd.AddCommand(NewTreemapCommand(opts))

	return cmd
}

// isValidOutput checks if the format is one of the allowed values.
func isValidOutput(output string) bool {
	for _, o := range ValidOutputs {
		if o == output {
			return true
		}
	}
	return false
}

// resolveDatabase applies the flag/environment fallback chain the
// wrapper uses: --db, then CCPROV_DATABASE, then the default name.
// A relative path resolves against --source-root / CCPROV_SOURCE_ROOT
// when one is known.
func (o *RootOptions) resolveDatabase() string {
	db := o.DB
	if db == "" {
		db = os.Getenv(config.EnvDatabase)
	}
	if db == "" {
		db = config.DefaultDatabase
	}

	root := o.SourceRoot
	if root == "" {
		root = os.Getenv(config.EnvSourceRoot)
	}
	if !filepath.IsAbs(db) && root != "" {
		db = filepath.Join(root, db)
	}
	return db
}

// formatter builds the output formatter every command shares.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Output,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}
