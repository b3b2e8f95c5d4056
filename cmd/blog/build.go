package main

import (
	"fmt"

	"github.com/spf13/cobra"

	blog "github.com/gcaraciolo/blog"
	"github.com/gcaraciolo/blog/build"
)

func newBuildCmd(opts *globalOptions) *cobra.Command {
	var output string
	var drafts bool
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render the site into the output directory",
		Long: `build loads every collection and the docs from the source directory and
writes the static site to build_<env>/ (or --output). The output directory
is removed first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if output != "" {
				cfg.OutputDir = output
			}
			if drafts {
				cfg.IncludeDrafts = true
			}
			res, err := build.New(cfg, blog.DefaultViews()).Build(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Built %d posts and %d docs into %s\n", res.Posts, res.Docs, res.Output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default build_<env>)")
	cmd.Flags().BoolVar(&drafts, "drafts", false, "include posts marked as drafts")
	return cmd
}
