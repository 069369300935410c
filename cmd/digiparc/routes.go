package main

import (
	"fmt"

	"digiparc/internal/web"
	"github.com/spf13/cobra"
)

func newRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the registered page routes, most specific first",
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := web.RouteTable()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, pattern := range table.Patterns() {
				if _, err := fmt.Fprintln(out, pattern); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
