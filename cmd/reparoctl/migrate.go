package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/reparo-api/internal/infrastructure/postgres"
)

func newMigrateCmd() *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migraciones del esquema (embebidas en el binario)",
	}

	run := func(direction string) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			if err := postgres.Migrate(cfg.DB.ConnectionString(), direction, steps); err != nil {
				return fmt.Errorf("migrate %s: %w", direction, err)
			}
			version, dirty, err := postgres.MigrationVersion(cfg.DB.ConnectionString())
			if err != nil {
				return err
			}
			log.Info().Str("direction", direction).Uint("version", version).Bool("dirty", dirty).Msg("migraciones aplicadas")
			return nil
		}
	}

	up := &cobra.Command{Use: "up", Short: "Aplica migraciones pendientes", Args: cobra.NoArgs, RunE: run(postgres.MigrateUp)}
	down := &cobra.Command{Use: "down", Short: "Revierte migraciones", Args: cobra.NoArgs, RunE: run(postgres.MigrateDown)}
	for _, c := range []*cobra.Command{up, down} {
		c.Flags().IntVar(&steps, "steps", 0, "cantidad de pasos (0 = todas)")
	}

	version := &cobra.Command{
		Use:   "version",
		Short: "Muestra la versión aplicada",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, dirty, err := postgres.MigrationVersion(cfg.DB.ConnectionString())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "versión %d (dirty=%t)\n", v, dirty)
			return nil
		},
	}

	cmd.AddCommand(up, down, version)
	return cmd
}
