package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/penerbit-id/naskah/internal/ui/server"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var listen, dataDir, templatesDir string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the submission wizard, the submission endpoint and the admin API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			if dataDir != "" {
				cfg.App.Data = dataDir
			}
			if templatesDir != "" {
				cfg.App.Templates = templatesDir
			}
			if listen == "" {
				listen = cfg.Server.Listen()
			}

			logger, closeLog, err := newLogger(cfg, "naskah", os.Stdout)
			if err != nil {
				return err
			}
			defer closeLog()

			ctx := cmd.Context()
			svc, closeStore, err := newService(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			err = server.Run(ctx, server.Options{
				Listen:         listen,
				DataDir:        cfg.App.Data,
				TemplatesDir:   cfg.App.Templates,
				LogFile:        cfg.Log.Path(),
				SiteName:       cfg.App.Name,
				AdminToken:     cfg.Admin.Token,
				SessionTTL:     time.Duration(cfg.App.SessionTTL),
				MaxUploadBytes: cfg.App.MaxUploadBytes,
				Service:        svc,
				Logger:         logger,
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "address to listen on (defaults to server.addr:server.port)")
	cmd.Flags().StringVar(&dataDir, "data", "", "directory for submissions, manuscripts and staged uploads")
	cmd.Flags().StringVar(&templatesDir, "templates", "", "directory with html/template overrides")
	return cmd
}
