package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/naka-gawa/repo-insights/internal/chart"
	"github.com/naka-gawa/repo-insights/internal/web"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the interactive metrics dashboard over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, "", true)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.Addr, _ = cmd.Flags().GetString("addr")
			if err := cfg.Validate(true); err != nil {
				return err
			}
		}
		logger := newLogger(cmd)

		collector, err := newCollector(cfg, logger)
		if err != nil {
			return err
		}
		srv := web.New(cfg, collector, chart.NewRenderer(chart.BluePalette), logger)
		fmt.Fprintf(cmd.ErrOrStderr(), "Serving dashboard on http://%s\n", cfg.Addr)

		ctx := cmd.Context()
		eg, egCtx := errgroup.WithContext(ctx)
		eg.Go(srv.Start)
		eg.Go(func() error {
			<-egCtx.Done()
			return srv.Shutdown(context.WithoutCancel(ctx))
		})
		if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address host:port (default from REPO_INSIGHTS_ADDR or 127.0.0.1:8080)")
}
