package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fsnd-labs/fsnd-api/internal/api"
)

//go:embed sql/schema
var embeddedSchema embed.FS

var (
	envPath string
	port    string
)

var rootCmd = &cobra.Command{
	Use:           "fsnd-api",
	Short:         "Trivia and coffee shop HTTP APIs",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var triviaCmd = &cobra.Command{
	Use:   "trivia",
	Short: "Serve the trivia question API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer cfg.Close()
		return serve(cmd.Context(), cfg, api.SetupTriviaMux(cfg))
	},
}

var coffeeCmd = &cobra.Command{
	Use:   "coffee",
	Short: "Serve the coffee shop drinks API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer cfg.Close()
		if err := cfg.RequireIdentityProvider(); err != nil {
			return err
		}
		return serve(cmd.Context(), cfg, api.SetupCoffeeMux(cfg))
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return cfg.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envPath, "env", ".env", "path to a .env file")
	rootCmd.PersistentFlags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	rootCmd.AddCommand(triviaCmd, coffeeCmd, migrateCmd)
}

func loadConfig() (*api.APIConfig, error) {
	if port != "" {
		if err := os.Setenv("PORT", port); err != nil {
			return nil, err
		}
	}
	cfg := api.LoadEnvConfig(envPath)

	schema, err := fs.Sub(embeddedSchema, "sql/schema")
	if err != nil {
		return nil, err
	}
	if err := cfg.ConnectToDB(schema); err != nil {
		return nil, err
	}
	return cfg, nil
}

func serve(ctx context.Context, cfg *api.APIConfig, handler http.Handler) error {
	srv := &http.Server{
		Addr:              ":" + cfg.Port(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", slog.String("error", err.Error()))
		}
	}()

	slog.Info("serving", slog.String("addr", srv.Addr))
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
