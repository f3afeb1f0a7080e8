package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/reparo-api/internal/application/ports"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos ports.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(reposFor(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// reposFor arma el juego completo de repositorios sobre un Querier (pool o tx).
func reposFor(q Querier) ports.TxRepos {
	return ports.TxRepos{
		Customers:     NewCustomerRepository(q),
		Devices:       NewDeviceRepository(q),
		Services:      NewServiceOrderRepository(q),
		Products:      NewProductRepository(q),
		Movements:     NewInventoryMovementRepository(q),
		Fiscal:        NewFiscalDocumentRepository(q),
		Organizations: NewOrganizationRepository(q),
		Modules:       NewOrganizationModuleRepository(q),
		Users:         NewUserRepository(q),
		Notifications: NewNotificationRepository(q),
	}
}

// Repositories devuelve los repositorios sobre el pool, fuera de transacción.
func Repositories(pool *pgxpool.Pool) ports.TxRepos {
	return reposFor(pool)
}
