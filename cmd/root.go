package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ikigai-ua/formrelay/internal/config"
)

// ConfigLoader produces the application configuration.
type ConfigLoader func() (*config.AppConfig, error)

// annotationNeedsConfig marks commands that read AppConfig when they run.
const annotationNeedsConfig = "formrelay/needs-config"

var needsConfig = map[string]string{annotationNeedsConfig: "true"}

// NewRootCmd builds the command tree. Configuration is loaded by load only
// right before a command that needs it runs, so help and version work with a
// broken environment.
func NewRootCmd(load ConfigLoader) *cobra.Command {
	cfg := &config.AppConfig{}

	root := &cobra.Command{
		Use:   "formrelay",
		Short: "Contact-form relay for the Ikigai landing page",
		Long: `formrelay accepts contact-form submissions over HTTP, emails them to the
site owner and keeps a copy in a local SQLite database or MongoDB.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[annotationNeedsConfig] == "" {
				return nil
			}
			loaded, err := load()
			if err != nil {
				return err
			}
			*cfg = *loaded
			return nil
		},
	}

	root.AddCommand(NewServeCmd(cfg))
	root.AddCommand(NewSubmissionsCmd(cfg))
	root.AddCommand(NewTestMailCmd(cfg))
	root.AddCommand(NewVersionCmd())
	return root
}

// Execute runs the root command with configuration from the environment.
func Execute() {
	if err := NewRootCmd(config.Load).Execute(); err != nil {
		os.Exit(1)
	}
}
