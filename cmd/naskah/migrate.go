package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/penerbit-id/naskah/internal/manuscripts"
)

func newMigrateCmd(root *rootOptions) *cobra.Command {
	var seedPath string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Prepare the store and seed publishers",
		Long: `migrate creates the tables (or data files) the configured store needs and,
when a seed file is given, registers the publishers it lists. Publishers that
already exist by name are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			if seedPath == "" {
				seedPath = cfg.Store.SeedFile
			}
			logger, closeLog, err := newLogger(cfg, "naskah-migrate", cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeLog()

			svc, closeStore, err := newService(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "store %s siap\n", cfg.Store.Driver)

			if seedPath == "" {
				return nil
			}
			return seedPublishers(cmd, svc, seedPath, out)
		},
	}
	cmd.Flags().StringVar(&seedPath, "seed", "", "YAML or JSON file listing publishers to register")
	return cmd
}

func seedPublishers(cmd *cobra.Command, svc *manuscripts.Service, path string, out io.Writer) error {
	reqs, err := manuscripts.LoadSeed(path)
	if err != nil {
		return err
	}
	added, err := svc.SeedPublishers(cmd.Context(), reqs)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d penerbit ditambahkan, %d sudah terdaftar\n", added, len(reqs)-added)
	return nil
}
