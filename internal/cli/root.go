package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kbukum/localstt/config"
	"github.com/kbukum/localstt/logger"
	"github.com/kbukum/localstt/version"
	"github.com/kbukum/localstt/workload"
)

const serviceName = "localstt"

type appState struct {
	configFile string
	verbose    bool
	jsonLogs   bool
	noProgress bool

	out    io.Writer
	errOut io.Writer

	newManager  func(cfg *AppConfig, log *logger.Logger) (workload.Manager, error)
	interactive func() bool
}

// NewRootCmd builds the localstt command tree.
func NewRootCmd() *cobra.Command {
	app := &appState{
		out:         os.Stdout,
		errOut:      os.Stderr,
		newManager:  newWorkloadManager,
		interactive: stderrIsTerminal,
	}
	return app.rootCmd()
}

func (a *appState) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           serviceName,
		Short:         "Local speech-to-text backed by a containerized Whisper server",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Get().String(),
	}
	cmd.SetOut(a.out)
	cmd.SetErr(a.errOut)
	cmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", a.configFile, "Path to a config file (default: ./localstt.yml, ./config.yml or the user config dir)")
	flags.BoolVar(&a.verbose, "verbose", a.verbose, "Enable debug logs")
	flags.BoolVar(&a.jsonLogs, "json-logs", a.jsonLogs, "Emit logs as JSON")
	flags.BoolVar(&a.noProgress, "no-progress", a.noProgress, "Disable the image pull progress bar")

	cmd.AddCommand(newTranscribeCmd(a))
	cmd.AddCommand(newStatusCmd(a))
	cmd.AddCommand(newModelsCmd(a))
	cmd.AddCommand(newHealthCmd(a))
	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newVersionCmd(a))
	return cmd
}

// loadConfig reads the config file and environment, then applies the
// logging flags on top.
func (a *appState) loadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}
	var opts []config.LoaderOption
	if a.configFile != "" {
		opts = append(opts, config.WithConfigFile(a.configFile))
	}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	if a.verbose {
		cfg.Debug = true
		cfg.Logging.Level = "debug"
	}
	if a.jsonLogs {
		cfg.Logging.Format = "json"
	}
	return cfg, nil
}

func (a *appState) progressEnabled() bool {
	if a.noProgress || a.interactive == nil {
		return false
	}
	return a.interactive()
}

func stderrIsTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

func newWorkloadManager(cfg *AppConfig, log *logger.Logger) (workload.Manager, error) {
	return workload.New(cfg.Workload, &cfg.Docker, log)
}
