package main

import (
	"github.com/spf13/cobra"
)

func newMergeCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "merge",
		Short: "Print the merged store config",
		Long: `Load the init config, fold every plugin and print a summary of the result.
Functions are reported by name or count.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.load(cmd.Context())
			if err != nil {
				return err
			}
			return writeSummary(cmd.OutOrStdout(), o.output, cfg.Describe())
		},
	}
}
