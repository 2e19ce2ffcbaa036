package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/ccprov/internal/report"
)

// SlowestOptions holds flags for the slowest command.
type SlowestOptions struct {
	*RootOptions
	Limit int
}

// SlowestResult holds the ranking output.
type SlowestResult struct {
	Records []CommandRecord `json:"records"`
}

// NewSlowestCommand creates the slowest command.
func NewSlowestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SlowestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "slowest",
		Short: "Rank recorded compiles by duration",
		Long: `Rank recorded compiler invocations by wall-clock duration,
slowest first. Invocations whose input could not be classified are
listed by their command line.

Examples:
  ccprov-query slowest
  ccprov-query slowest -n 25 --output json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSlowest(opts, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 10, "number of records to show")

	return cmd
}

func runSlowest(opts *SlowestOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	st, err := openReadOnly(formatter, opts.resolveDatabase())
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := st.Slowest(context.Background(), opts.Limit)
	if err != nil {
		_ = formatter.Error(ErrCodeQuery, "ranking failed", err.Error())
		return WrapExitError(ExitFailure, "ranking failed", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(SlowestResult{Records: commandRecords(records)})
	}
	return formatter.Success(report.RenderSlowest(records))
}
