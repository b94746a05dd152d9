// Package commands implements the skyblock-shop command line: the API
// server, a catalog dump/validation tool and the catalog event consumer.
package commands

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iliyamo/skyblock-shop/internal/catalog"
	"github.com/iliyamo/skyblock-shop/internal/config"
	"github.com/iliyamo/skyblock-shop/internal/logging"
)

var envFile string

// Execute runs the root command.  Without a subcommand the API is served.
func Execute() error {
	root := &cobra.Command{
		Use:          "skyblock-shop",
		Short:        "Skyblock shop pricing API",
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "env file loaded before reading the environment")

	root.AddCommand(serveCmd(), catalogCmd(), consumeCmd())
	return root.Execute()
}

// bootstrap loads configuration and builds the logger shared by commands.
func bootstrap() (config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.Config{}, nil, err
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.IsDevelopment())
	return cfg, log, nil
}

// loadCatalog returns the catalog from path, or the built-in one when path
// is empty, together with a label naming its source.
func loadCatalog(path string) (*catalog.Catalog, string, error) {
	if path == "" {
		return catalog.Default(), "builtin", nil
	}
	c, err := catalog.LoadFile(path)
	if err != nil {
		return nil, "", err
	}
	return c, path, nil
}
