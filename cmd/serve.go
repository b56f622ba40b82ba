package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/crukhq/supporter-engagement/internal/config"
	"github.com/crukhq/supporter-engagement/internal/db"
	"github.com/crukhq/supporter-engagement/internal/llm"
	"github.com/crukhq/supporter-engagement/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the supporter engagement HTTP service",
	Long:  `Starts the HTTP service: the personalization agent, profile and search APIs, and the engagement context store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if servePort > 0 {
			cfg.Port = servePort
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		log := newLogger()

		provider, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
		if err != nil {
			return fmt.Errorf("creating LLM provider: %w", err)
		}
		provider = llm.NewRateLimitedProvider(provider, cfg.RequestsPerMinute)

		if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating data directory: %w", err)
			}
		}
		database, err := db.Open(cfg.DatabasePath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		srv := server.New(*cfg, database, provider, log)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			log.Info().Msg("shutting down")
			srv.Shutdown(context.Background())
		}()

		log.Info().
			Str("version", Version).
			Str("database", cfg.DatabasePath).
			Str("provider", string(cfg.Provider)).
			Str("model", cfg.Model).
			Msg("starting supporter engagement service")

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "override the configured port")
	rootCmd.AddCommand(serveCmd)
}
