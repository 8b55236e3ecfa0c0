package main // Entry point package

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/iliyamo/fleet-scheduling/internal/config"
	"github.com/iliyamo/fleet-scheduling/internal/logging"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "fleetd",
	Short:        "Fleet scheduling service",
	SilenceUsage: true,
	// Running without a subcommand serves the API.
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE:  runMigrate,
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an ADMIN account",
	RunE:  runCreateAdmin,
}

var consumerCmd = &cobra.Command{
	Use:   "consumer",
	Short: "Append flight and maintenance audit events to log files",
	RunE:  runConsumer,
}

func init() {
	createAdminCmd.Flags().String("username", "", "login name of the new admin")
	createAdminCmd.Flags().String("password", "", "password of the new admin")
	_ = createAdminCmd.MarkFlagRequired("username")
	_ = createAdminCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(serveCmd, migrateCmd, createAdminCmd, consumerCmd)
}

// bootstrap loads .env (if present) and the configuration, then builds the
// process logger.  The caller must defer logger.Close().
func bootstrap(component string) (config.Config, *logging.Logger, error) {
	_ = godotenv.Load() // a missing .env is fine; real env vars still apply
	cfg := config.Load()
	lg, err := logging.New(cfg.Log)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("init logging: %w", err)
	}
	lg.Hello(component)
	return cfg, lg, nil
}
