package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kbukum/localstt/bootstrap"
	"github.com/kbukum/localstt/server"
)

type serveOptions struct {
	host    string
	port    int
	preload bool
}

func newServeCmd(app *appState) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve status, models and transcription over HTTP until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runServe(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.host, "host", "", "Listen host (default: server.host from config)")
	cmd.Flags().IntVar(&opts.port, "port", 0, "Listen port (default: server.port from config)")
	cmd.Flags().BoolVar(&opts.preload, "preload", false, "Start the inference server before accepting requests")
	return cmd
}

func (a *appState) runServe(ctx context.Context, opts *serveOptions) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if opts.host != "" {
		cfg.Server.Host = opts.host
	}
	if opts.port != 0 {
		cfg.Server.Port = opts.port
	}

	rt, err := a.build(cfg, true)
	if err != nil {
		return err
	}

	// Runs after the plugin's configure callback registered in build.
	rt.app.OnConfigure(func(_ context.Context, host *bootstrap.App[*AppConfig]) error {
		srv := server.New(host.Cfg.Server, host.Logger)
		srv.RegisterRoutes(host.Name, host.Components.HealthAll, rt.provider())
		return host.RegisterComponent(server.NewComponent(srv))
	})
	if opts.preload {
		rt.app.OnReady(func(ctx context.Context) error {
			defer rt.progress.Finish()
			return rt.provider().EnsureRunning(ctx)
		})
	}
	return rt.app.Run(ctx)
}
