package postgres

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Direcciones de migración.
const (
	MigrateUp   = "up"
	MigrateDown = "down"
)

// Migrate aplica las migraciones embebidas en la dirección indicada.
// steps > 0 limita la cantidad de pasos; 0 aplica todas. Sin cambios pendientes no es error.
func Migrate(dsn, direction string, steps int) error {
	if dsn == "" {
		return errors.New("migrate: DSN vacío; definir DATABASE_URL o DB_HOST/DB_NAME")
	}
	if direction != MigrateUp && direction != MigrateDown {
		return fmt.Errorf("migrate: dirección debe ser up o down, recibido %q", direction)
	}

	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("migrate source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	switch {
	case steps > 0 && direction == MigrateUp:
		err = m.Steps(steps)
	case steps > 0:
		err = m.Steps(-steps)
	case direction == MigrateUp:
		err = m.Up()
	default:
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// MigrationVersion devuelve la versión aplicada y si quedó marcada como dirty.
func MigrationVersion(dsn string) (uint, bool, error) {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return 0, false, fmt.Errorf("migrate source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return 0, false, fmt.Errorf("migrate: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}
