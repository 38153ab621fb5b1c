// @title Pet Care Planner API
// @version 1.0
// @description Tareas, grooming, salud, recordatorios y locales cercanos para mascotas.
// @BasePath /
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pet-care-planner/internal/config"
	"pet-care-planner/internal/platform/logger"
)

var (
	configPath string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:           "pet-care-planner",
	Short:         "API de agenda de cuidado de mascotas",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "archivo YAML de configuración (opcional)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "archivo .env (opcional)")

	rootCmd.AddCommand(serveCmd, migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(configPath, envFile)
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
	})
	return cfg, log, nil
}

func syncLogger(log logger.Logger) {
	if s, ok := log.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
}
