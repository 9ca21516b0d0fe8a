package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/penerbit-id/naskah/internal/ui/wizard"
)

func newCheckCmd() *cobra.Command {
	var form *formFlags
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a manuscript submission without sending it",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := form.wizard(nil)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if w.Phase != wizard.PhaseConfirming {
				printErrors(out, w.Errors)
				return errInvalidForm
			}
			fmt.Fprintln(out, "Naskah siap dikirim.")
			return nil
		},
	}
	form = bindFormFlags(cmd)
	return cmd
}
