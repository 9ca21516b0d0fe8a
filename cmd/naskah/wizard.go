package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/penerbit-id/naskah/internal/client"
	"github.com/penerbit-id/naskah/internal/ui/tui"
	"github.com/penerbit-id/naskah/internal/ui/wizard"
)

func newWizardCmd(root *rootOptions) *cobra.Command {
	var serverURL string
	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Fill in and send a manuscript from the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			if serverURL == "" {
				serverURL = "http://" + cfg.Server.Listen()
			}
			// the terminal belongs to the wizard; only the log file gets entries
			logger, closeLog, err := newLogger(cfg, "naskah-wizard", io.Discard)
			if err != nil {
				return err
			}
			defer closeLog()

			final, err := tui.Run(cmd.Context(), tui.Options{
				Backend:   client.New(serverURL),
				Logger:    logger,
				AltScreen: true,
			})
			if err != nil {
				return err
			}
			if final.Phase == wizard.PhaseSucceeded && final.Receipt != nil {
				fmt.Fprintln(cmd.OutOrStdout(), final.Receipt.Message)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&serverURL, "server", "", "base URL of the naskah server (defaults to the configured listen address)")
	return cmd
}
