package main

import (
	"github.com/spf13/cobra"

	"reelsync/internal/config"
	"reelsync/internal/notion"
	"reelsync/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the endpoint that opens a catalog entry's file on this machine",
		Long: `Start the file-open server. Notion pages link to /play/{page-id}; the
server reads the page's NAS path and opens the file with the desktop's
default player.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.configFor(config.FeatureNotion, config.FeatureServer)
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return err
			}
			store, err := notion.NewStoreFromConfig(cfg, logger)
			if err != nil {
				return err
			}
			runCtx, cancel := signalContext(cmd)
			defer cancel()
			srv := server.New(cfg.Server.Bind, store, logger, server.WithLockPath(cfg.ServerLockPath()))
			return srv.Run(runCtx)
		},
	}
}
