package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/phenrril/backoffice/internal/adapters/repo/postgres"
	"github.com/phenrril/backoffice/internal/app"
	"github.com/phenrril/backoffice/internal/config"
	"github.com/phenrril/backoffice/internal/domain"
)

var cfg *config.Config

// seams for tests
var (
	openDB        = postgres.Open
	countrySource domain.CountrySource
)

var rootCmd = &cobra.Command{
	Use:           "backoffice",
	Short:         "Provider and service back office",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		c, err := config.Load()
		if err != nil {
			return err
		}
		cfg = c
		setupLogger(c)
		return nil
	},
}

func setupLogger(c *config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if c.Production() {
		zlog.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
		return
	}
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
}

// newApp opens the database and wires the application.
func newApp() (*app.App, error) {
	db, err := openDB(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return app.NewApp(cfg, db, countrySource)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		zlog.Error().Err(err).Msg("backoffice")
		os.Exit(1)
	}
}
