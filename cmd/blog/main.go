// Command blog builds and previews the blog.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	blog "github.com/gcaraciolo/blog"
)

// version is set at build time via ldflags.
var version = "dev"

// globalOptions are the flags shared by every subcommand.
type globalOptions struct {
	configDir string
	env       string
	verbose   bool
}

// loadConfig reads the site config for the selected environment.
func (o *globalOptions) loadConfig() (blog.SiteConfig, error) {
	return blog.LoadConfig(o.configDir, o.env)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:           "blog",
		Short:         "Build and preview the blog",
		Long:          "blog renders markdown posts and docs into a static site and serves a live preview with optional analytics.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(stderr, opts.verbose)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVarP(&opts.configDir, "config-dir", "c", ".", "directory holding config.yaml")
	root.PersistentFlags().StringVarP(&opts.env, "env", "e", blog.EnvOr("BLOG_ENV", "local"), "environment; merges config.<env>.yaml")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newBuildCmd(opts),
		newServeCmd(opts),
		newNewCmd(),
		newPostCmd(opts),
		newVersionCmd(),
	)
	return root
}

func setupLogging(w io.Writer, verbose bool) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339})
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the blog version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "blog %s\n", version)
		},
	}
}
