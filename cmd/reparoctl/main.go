// reparoctl tareas de administración: migraciones del esquema y datos de demostración.
//
// Uso:
//
//	reparoctl migrate up [--steps N]
//	reparoctl migrate down [--steps N]
//	reparoctl migrate version
//	reparoctl seed demo --email admin@demo.com.br --password secreto123
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jhoicas/reparo-api/pkg/config"
	"github.com/jhoicas/reparo-api/pkg/logger"
)

var (
	cfg *config.Config
	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:           "reparoctl",
	Short:         "Administración de reparo-api",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		log = logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
		return nil
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.AddCommand(newMigrateCmd(), newSeedCmd())
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
