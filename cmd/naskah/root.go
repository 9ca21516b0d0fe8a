package main

import (
	"github.com/spf13/cobra"

	"github.com/penerbit-id/naskah/internal/config"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "naskah",
		Short: "Manuscript submission service for a publishing house",
		Long: `naskah serves the four-step manuscript submission wizard, the multipart
submission endpoint and the editorial admin API, and ships the tools around them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a JSON or YAML config file")

	cmd.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newWizardCmd(opts),
		newSubmitCmd(opts),
		newCheckCmd(),
	)
	return cmd
}

// load reads and validates the configuration.
func (o *rootOptions) load() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
