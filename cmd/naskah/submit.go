package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/penerbit-id/naskah/internal/client"
	"github.com/penerbit-id/naskah/internal/ui/wizard"
	"github.com/penerbit-id/naskah/logging"
)

func newSubmitCmd(root *rootOptions) *cobra.Command {
	var serverURL string
	var form *formFlags
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Send a manuscript to a running naskah server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if serverURL == "" {
				cfg, err := root.load()
				if err != nil {
					return err
				}
				serverURL = "http://" + cfg.Server.Listen()
			}
			out := cmd.OutOrStdout()
			c := client.New(serverURL)

			publishers, err := c.Publishers(cmd.Context())
			if err != nil {
				return fmt.Errorf("load publishers: %w", err)
			}
			w, err := form.wizard(publishers)
			if err != nil {
				return err
			}
			if w.Phase != wizard.PhaseConfirming {
				printErrors(out, w.Errors)
				return errInvalidForm
			}
			printSummary(out, w.Summary())

			orch := &wizard.Orchestrator{
				Submitter: c,
				Logger:    logging.New("naskah-submit", logging.WARN, cmd.ErrOrStderr()),
			}
			next, err := orch.Submit(cmd.Context(), w)
			switch next.Phase {
			case wizard.PhaseSucceeded:
				fmt.Fprintf(out, "%s\nNomor naskah: %s\n", next.Receipt.Message, next.Receipt.ID)
				return nil
			case wizard.PhaseEditing:
				fmt.Fprintln(out, next.Alert)
				printErrors(out, next.Errors)
				return errInvalidForm
			default:
				return fmt.Errorf("%s: %w", next.Alert, err)
			}
		},
	}
	cmd.Flags().StringVar(&serverURL, "server", "", "base URL of the naskah server (defaults to the configured listen address)")
	form = bindFormFlags(cmd)
	return cmd
}

func printSummary(out io.Writer, s wizard.Summary) {
	fmt.Fprintf(out, "Judul: %s\n", s.Title)
	fmt.Fprintf(out, "Penerbit (%d): %v\n", s.PublisherCount, s.PublisherNames)
	fmt.Fprintf(out, "File: %s (%s)\n", s.FileName, s.FileSize)
	fmt.Fprintf(out, "Penulis: %s <%s>\n", s.AuthorName, s.Email)
}
