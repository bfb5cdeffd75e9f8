package main

import (
	"fmt"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-storecfg/config"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

func newValidateCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the shape of the init config",
		Long: `Load the init config and run the shape checks, ignoring the production
setting. Every violation is printed and the command fails when there is any.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			_, err := o.load(cmd.Context(), config.WithProduction(false))
			if err == nil {
				fmt.Fprintln(out, text.FgGreen.Sprint("init config is valid"))
				return nil
			}

			var e *errors.Error
			if errors.As(err, &e) && e.TextCode == "INIT_CONFIG_SHAPE" {
				violations, _ := e.Metadata["violations"].([]string)
				for _, v := range violations {
					fmt.Fprintf(out, "%s %s\n", text.FgRed.Sprint("✗"), v)
				}
			}
			return err
		},
	}
}
