// Command errpage runs the error page feedback embed service.
//
// Subcommands:
//
//	errpage serve     start the HTTP server (and the group backfiller)
//	errpage migrate   create or update the database schema
//	errpage backfill  link stored reports to groups once and exit
//
// Configuration comes from the environment; a .env file in the working
// directory is loaded first when present.
package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tbourn/go-errpage-embed/internal/config"
	"github.com/tbourn/go-errpage-embed/internal/repo"
	"github.com/tbourn/go-errpage-embed/internal/sysutil"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

// app carries what every subcommand needs after startup.
type app struct {
	cfg    config.Config
	logger zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "errpage",
		Short:         "Error page feedback embed service",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.init()
		},
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	root.AddCommand(a.serveCmd(), a.migrateCmd(), a.backfillCmd())
	return root
}

// init loads .env and the configuration, then installs the global logger.
func (a *app) init() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg
	a.logger = sysutil.SetupLogger(cfg.LogLevel, cfg.LogPretty, os.Stderr)
	gin.SetMode(cfg.GinMode)
	return nil
}

func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(_ *cobra.Command, _ []string) error {
			db, err := repo.Open(a.cfg)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer func() { _ = closeDB(db) }()
			if err := repo.AutoMigrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			a.logger.Info().Str("driver", a.cfg.DBDriver).Msg("schema up to date")
			return nil
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "errpage: %v\n", err)
		os.Exit(1)
	}
}
