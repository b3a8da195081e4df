// File: cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log" // Standard log for messages before zap is active
	"os"
	"os/signal"
	"syscall"
	"time"

	"sinergia_backend/internal/app"
	"sinergia_backend/internal/config"
	"sinergia_backend/internal/platform/crypto"
	"sinergia_backend/internal/user"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// application bundles what the CLI commands need from the injector.
type application struct {
	server *app.Server
	db     *gorm.DB
	users  user.Service
	logger *zap.Logger
}

func newApplication(server *app.Server, db *gorm.DB, users user.Service, logger *zap.Logger) *application {
	return &application{server: server, db: db, users: users, logger: logger}
}

func main() {
	rootCmd := &cobra.Command{
		Use:          "sinergia-server",
		Short:        "Sinergia Pro telehealth scheduling API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(createAdminCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := bootstrap()
			if err != nil {
				return err
			}
			defer cleanup()
			return app.Migrate(a.db, a.logger)
		},
	}
}

func createAdminCmd() *cobra.Command {
	var email, name, password string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		Long:  "Create an admin account. When --password is omitted a temporary password is generated and printed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			generated := false
			if password == "" {
				p, err := crypto.GenerateTemporaryPassword(crypto.TemporaryPasswordLength)
				if err != nil {
					return err
				}
				password, generated = p, true
			}

			a, cleanup, err := bootstrap()
			if err != nil {
				return err
			}
			defer cleanup()

			if err := app.Migrate(a.db, a.logger); err != nil {
				return err
			}
			admin, created, err := a.users.EnsureAdmin(cmd.Context(), email, password, name)
			if err != nil {
				return err
			}
			if !created {
				fmt.Fprintf(cmd.OutOrStdout(), "Admin %s already exists (id %d)\n", admin.Email, admin.ID)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Admin %s created (id %d)\n", admin.Email, admin.ID)
			if generated {
				fmt.Fprintf(cmd.OutOrStdout(), "Temporary password: %s\n", password)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email (required)")
	cmd.Flags().StringVar(&name, "name", "Administrator", "admin display name")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// bootstrap loads configuration and wires the application. The cleanup
// function closes the database and flushes the logger.
func bootstrap() (*application, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	a, cleanup, err := initializeApplication(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	return a, func() {
		cleanup()
		_ = a.logger.Sync()
	}, nil
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("FATAL: Failed to load configuration: %v", err)
		return err
	}

	a, cleanup, err := initializeApplication(cfg)
	if err != nil {
		log.Printf("FATAL: Failed to initialize server: %v", err)
		return err
	}
	defer func() {
		cleanup()
		_ = a.logger.Sync()
	}()

	if cfg.DBAutoMigrate {
		if err := app.Migrate(a.db, a.logger); err != nil {
			a.logger.Error("Database migration failed", zap.Error(err))
			return err
		}
	}
	if err := app.BootstrapAdmin(context.Background(), cfg, a.users, a.logger); err != nil {
		a.logger.Error("Admin bootstrap failed", zap.Error(err))
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		if err != nil {
			return err
		}
		return errors.New("server stopped unexpectedly")
	case sig := <-quit:
		a.logger.Info("Received signal, shutting down server", zap.String("signal", sig.String()))
	}

	timeout := cfg.ServerTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}
	a.logger.Info("Server shutdown complete")
	return nil
}
