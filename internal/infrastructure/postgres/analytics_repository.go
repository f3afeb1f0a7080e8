package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/reparo-api/internal/domain/entity"
	"github.com/jhoicas/reparo-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para los tableros.
// Usa el pool directamente: cada consulta puede ir en su propia conexión (el caso de uso las paraleliza).
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// ServicesByStatus cuenta órdenes por estado.
func (r *AnalyticsRepo) ServicesByStatus(ctx context.Context, orgID string) (map[string]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM services WHERE organization_id = $1 GROUP BY status`, orgID)
	if err != nil {
		return nil, fmt.Errorf("analytics.ServicesByStatus: %w", err)
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("analytics.ServicesByStatus scan: %w", err)
		}
		out[status] = n
	}
	return out, rows.Err()
}

// FiscalRevenue suma los documentos autorizados del rango [start, end).
// Un documento cancelado tiene status canceled y por eso no suma.
func (r *AnalyticsRepo) FiscalRevenue(ctx context.Context, orgID string, start, end time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_value), 0)
		FROM fiscal_documents
		WHERE organization_id = $1 AND status = $2 AND issue_date >= $3 AND issue_date < $4`,
		orgID, entity.FiscalStatusAuthorized, start, end).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("analytics.FiscalRevenue: %w", err)
	}
	return total, nil
}

// CountCompletedServices órdenes con completed_at en [start, end).
func (r *AnalyticsRepo) CountCompletedServices(ctx context.Context, orgID string, start, end time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM services
		WHERE organization_id = $1 AND completed_at >= $2 AND completed_at < $3`,
		orgID, start, end).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("analytics.CountCompletedServices: %w", err)
	}
	return n, nil
}

// CountOpenServices órdenes no entregadas.
func (r *AnalyticsRepo) CountOpenServices(ctx context.Context, orgID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM services WHERE organization_id = $1 AND status <> $2`,
		orgID, entity.ServiceStatusDelivered).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("analytics.CountOpenServices: %w", err)
	}
	return n, nil
}

// CountLowStock productos en o bajo el mínimo.
func (r *AnalyticsRepo) CountLowStock(ctx context.Context, orgID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE organization_id = $1 AND min_stock > 0 AND stock <= min_stock`,
		orgID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("analytics.CountLowStock: %w", err)
	}
	return n, nil
}

// reportTimeZone zona en la que se agrupan los meses de los reportes.
const reportTimeZone = "America/Sao_Paulo"

// RevenueByMonth serie mensual de ingresos autorizados. Los meses sin documentos no aparecen;
// el caso de uso completa los huecos. El mes se corta en hora de Brasília y vuelve como
// timestamp sin zona (pgx lo entrega con año y mes intactos).
func (r *AnalyticsRepo) RevenueByMonth(ctx context.Context, orgID string, start, end time.Time) ([]repository.MonthlyRevenue, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT date_trunc('month', issue_date AT TIME ZONE $5) AS month,
		       COALESCE(SUM(total_value), 0)   AS revenue,
		       COUNT(*)                        AS documents
		FROM fiscal_documents
		WHERE organization_id = $1 AND status = $2 AND issue_date >= $3 AND issue_date < $4
		GROUP BY month
		ORDER BY month`,
		orgID, entity.FiscalStatusAuthorized, start, end, reportTimeZone)
	if err != nil {
		return nil, fmt.Errorf("analytics.RevenueByMonth: %w", err)
	}
	defer rows.Close()
	var out []repository.MonthlyRevenue
	for rows.Next() {
		var m repository.MonthlyRevenue
		if err := rows.Scan(&m.Month, &m.Revenue, &m.Documents); err != nil {
			return nil, fmt.Errorf("analytics.RevenueByMonth scan: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// TechnicianStats órdenes terminadas por técnico en [start, end), con mano de obra + repuestos.
func (r *AnalyticsRepo) TechnicianStats(ctx context.Context, orgID string, start, end time.Time) ([]repository.TechnicianStats, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.name,
		       COUNT(s.id)                                  AS completed,
		       COALESCE(SUM(s.price + s.parts_total), 0)    AS revenue
		FROM services s
		JOIN users u ON u.id = s.technician_id
		WHERE s.organization_id = $1 AND s.completed_at >= $2 AND s.completed_at < $3
		GROUP BY u.id, u.name
		ORDER BY completed DESC, u.name`,
		orgID, start, end)
	if err != nil {
		return nil, fmt.Errorf("analytics.TechnicianStats: %w", err)
	}
	defer rows.Close()
	var out []repository.TechnicianStats
	for rows.Next() {
		var t repository.TechnicianStats
		if err := rows.Scan(&t.TechnicianID, &t.TechnicianName, &t.CompletedServices, &t.Revenue); err != nil {
			return nil, fmt.Errorf("analytics.TechnicianStats scan: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
