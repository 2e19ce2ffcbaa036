package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/ccprov/internal/store"
)

// InitOptions holds flags for the init command.
type InitOptions struct {
	*RootOptions
}

// InitResult reports where the schema was created.
type InitResult struct {
	Database string `json:"database"`
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the provenance database schema",
		Long: `Create the provenance database and its schema ahead of a build.

Wrappers create the database on first use, but under a parallel build the
first compile then pays for schema setup while holding the write lock.
Running init beforehand keeps that out of the measured build.

Example:
  ccprov-query init --db ./build_commands.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(opts, cmd)
		},
	}

	return cmd
}

func runInit(opts *InitOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	dbPath := opts.resolveDatabase()

	st, err := store.Open(dbPath, store.Options{})
	if err != nil {
		_ = formatter.Error(ErrCodeOpenDatabase, "failed to initialize database", err.Error())
		return WrapExitError(ExitCommandError, "failed to initialize database", err)
	}
	if err := st.Close(); err != nil {
		return WrapExitError(ExitFailure, "failed to close database", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(InitResult{Database: dbPath})
	}
	return formatter.Success("Initialized provenance database at " + dbPath + "\n")
}
