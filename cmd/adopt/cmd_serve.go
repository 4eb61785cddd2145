package main

import (
	"github.com/spf13/cobra"

	"pet-adoption-web/internal/platform/config"
	"pet-adoption-web/internal/platform/logger"
	"pet-adoption-web/internal/server"
)

var servePort string

// serveCmd levanta el mismo BFF que cmd/web.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web BFF (same as the web binary)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if apiURL != "" {
			cfg.APIBaseURL = apiURL
		}
		if servePort != "" {
			cfg.Port = servePort
		}
		log := logger.New(logger.Options{
			Level:  logger.ParseLevel(cfg.LogLevel),
			Format: logger.ParseFormat(cfg.LogFormat),
			App:    cfg.AppName,
		})
		return server.Run(cmd.Context(), cfg, log)
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "listen port (default PORT)")
}
