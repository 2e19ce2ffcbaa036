package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ccprov/internal/report"
	"github.com/roach88/ccprov/internal/store"
)

// CommandsOptions holds flags for the commands command.
type CommandsOptions struct {
	*RootOptions
}

// CommandRecord is the JSON shape of one recorded invocation.
type CommandRecord struct {
	ID       int64   `json:"id"`
	Input    string  `json:"input,omitempty"`
	Output   string  `json:"output,omitempty"`
	Cwd      string  `json:"cwd,omitempty"`
	Command  string  `json:"command"`
	ExitCode int     `json:"exit_code"`
	Duration float64 `json:"duration"`
}

// CommandsResult holds the lookup output.
type CommandsResult struct {
	File    string          `json:"file"`
	Records []CommandRecord `json:"records"`
}

// NewCommandsCommand creates the commands command.
func NewCommandsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CommandsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "commands <file>",
		Short: "Show recorded invocations for a source file",
		Long: `Show every recorded compiler invocation for a source file.

A bare filename matches by basename across all directories; a path
containing a separator matches the exact root-relative name.

Examples:
  ccprov-query commands foo.cc
  ccprov-query commands base/foo.cc --output json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommands(opts, args[0], cmd)
		},
	}

	return cmd
}

func runCommands(opts *CommandsOptions, file string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx := context.Background()

	st, err := openReadOnly(formatter, opts.resolveDatabase())
	if err != nil {
		return err
	}
	defer st.Close()

	var records []store.BuildCommand
	if strings.ContainsRune(file, '/') {
		records, err = st.CommandsForName(ctx, file)
	} else {
		records, err = st.CommandsForBasename(ctx, file)
	}
	if err != nil {
		_ = formatter.Error(ErrCodeQuery, "lookup failed", err.Error())
		return WrapExitError(ExitFailure, "lookup failed", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(CommandsResult{File: file, Records: commandRecords(records)})
	}
	return formatter.Success(report.RenderCommands(records))
}

// openReadOnly opens the store for querying, mapping the failure to the
// command-error exit code. Missing databases land here: mode=ro never
// creates one.
func openReadOnly(formatter *OutputFormatter, dbPath string) (*store.Store, error) {
	st, err := store.OpenReadOnly(dbPath)
	if err != nil {
		_ = formatter.Error(ErrCodeOpenDatabase, "failed to open database", err.Error())
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// commandRecords maps store rows onto the JSON shape. Empty result sets
// encode as [], not null.
func commandRecords(cmds []store.BuildCommand) []CommandRecord {
	records := make([]CommandRecord, 0, len(cmds))
	for _, c := range cmds {
		records = append(records, CommandRecord{
			ID:       c.ID,
			Input:    c.InputFileName,
			Output:   c.OutputFileName,
			Cwd:      c.Cwd,
			Command:  c.Command,
			ExitCode: c.ExitCode,
			Duration: c.Duration,
		})
	}
	return records
}
