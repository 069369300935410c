package main

import (
	"fmt"

	"digiparc/framework/templgen"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newTemplCmd(opts *rootOptions) *cobra.Command {
	var (
		basePath string
		check    bool
	)

	cmd := &cobra.Command{
		Use:   "templ [dir...]",
		Short: "Regenerate the Go code behind the .templ views",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				paths = []string{"internal/web/components"}
			}

			result, err := templgen.Run(templgen.Config{
				Paths:    paths,
				BasePath: basePath,
				Check:    check,
			})
			if err != nil {
				return fmt.Errorf("templ: %w", err)
			}

			opts.logger.Info("templ views compiled",
				zap.Int("sources", len(result.Sources)),
				zap.Strings("changed", result.Changed),
				zap.Bool("check", check),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&basePath, "base", ".", "base path for file names embedded in generated code")
	cmd.Flags().BoolVar(&check, "check", false, "fail when generated files are out of date instead of writing them")
	return cmd
}
