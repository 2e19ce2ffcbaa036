package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/ccprov/internal/report"
)

// TreemapOptions holds flags for the treemap command.
type TreemapOptions struct {
	*RootOptions
	Depth int
}

// NewTreemapCommand creates the treemap command.
func NewTreemapCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TreemapOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "treemap",
		Short: "Aggregate compile time by directory",
		Long: `Aggregate recorded compile durations into a directory tree.

Every directory row covers its whole subtree, so the root carries the
total build time and nested rows show where it went. Records without a
classified input do not appear.

Examples:
  ccprov-query treemap
  ccprov-query treemap --depth 1
  ccprov-query treemap --output json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTreemap(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Depth, "depth", 2, "directory levels to show (negative for all)")

	return cmd
}

func runTreemap(opts *TreemapOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	st, err := openReadOnly(formatter, opts.resolveDatabase())
	if err != nil {
		return err
	}
	defer st.Close()

	dirs, err := st.DirectoryDurations(context.Background())
	if err != nil {
		_ = formatter.Error(ErrCodeQuery, "aggregation failed", err.Error())
		return WrapExitError(ExitFailure, "aggregation failed", err)
	}

	tree := report.BuildTree(dirs).Prune(opts.Depth)

	if formatter.Format == "json" {
		return formatter.Success(tree)
	}
	return formatter.Success(report.RenderTree(tree))
}
