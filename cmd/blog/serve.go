package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	blog "github.com/gcaraciolo/blog"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	var addr string
	var watch bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live preview of the site",
		Long: `serve renders pages on request from the source directory. With --watch
the content cache is dropped whenever a source file changes. Analytics and
the admin dashboard are enabled by analytics_enabled in the config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			var appOpts []blog.Option
			if watch {
				appOpts = append(appOpts, blog.WithWatch())
			}
			app := blog.New(cfg, blog.DefaultViews(), appOpts...)
			if err := app.Setup(); err != nil {
				return err
			}

			errc := make(chan error, 1)
			go func() { errc <- app.Start() }()

			select {
			case err := <-errc:
				app.Close()
				return err
			case <-cmd.Context().Done():
			}

			log.Info().Msg("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return app.Shutdown(ctx)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config, :3000)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload content when source files change")
	return cmd
}
