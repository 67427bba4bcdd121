package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/localstt/version"
)

func newVersionCmd(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			info := version.Get()
			fmt.Fprintf(app.out, "%s %s\n", serviceName, info)
			if info.BuildTime != "" {
				fmt.Fprintf(app.out, "built %s with %s\n", info.BuildTime, info.GoVersion)
			}
			return nil
		},
	}
}
