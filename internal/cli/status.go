package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kbukum/localstt/component"
	"github.com/kbukum/localstt/plugin"
	"github.com/kbukum/localstt/stt"
)

func newStatusCmd(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print provider status as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runTask(cmd.Context(), func(ctx context.Context, rt *runtime) error {
				report, err := callTool(ctx, rt, plugin.ToolGetStatus)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(app.out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			})
		},
	}
}

func newModelsCmd(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List supported models; the configured one is marked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runTask(cmd.Context(), func(ctx context.Context, rt *runtime) error {
				res, err := callTool(ctx, rt, plugin.ToolListModels)
				if err != nil {
					return err
				}
				list, ok := res.(stt.ModelList)
				if !ok {
					return fmt.Errorf("unexpected %s result %T", plugin.ToolListModels, res)
				}
				for _, m := range list.Models {
					marker := " "
					if m == list.Current {
						marker = "*"
					}
					fmt.Fprintf(app.out, "%s %s\n", marker, m)
				}
				return nil
			})
		},
	}
}

func newHealthCmd(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the container runtime and the inference server",
		Long:  "Reports every component's health and exits non-zero when the inference server does not answer its probe. The server is never started.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runTask(cmd.Context(), func(ctx context.Context, rt *runtime) error {
				w := tabwriter.NewWriter(app.out, 0, 4, 2, ' ', 0)
				for _, h := range rt.app.Components.HealthAll(ctx) {
					fmt.Fprintf(w, "%s\t%s\t%s\n", h.Name, h.Status, h.Message)
				}
				baseURL := rt.provider().Config().BaseURL()
				healthy := rt.provider().HealthCheck(ctx)
				status := component.StatusHealthy
				if !healthy {
					status = component.StatusUnhealthy
				}
				fmt.Fprintf(w, "inference-server\t%s\t%s\n", status, baseURL)
				if err := w.Flush(); err != nil {
					return err
				}
				if !healthy {
					return fmt.Errorf("inference server is not reachable at %s", baseURL)
				}
				return nil
			})
		},
	}
}

func callTool(ctx context.Context, rt *runtime, name string) (any, error) {
	tool, ok := rt.plugin.Tool(name)
	if !ok {
		return nil, fmt.Errorf("tool %s not found", name)
	}
	return tool.Handler(ctx)
}
