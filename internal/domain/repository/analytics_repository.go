package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyRevenue ingreso autorizado de un mes.
// Month es el primer día del mes en hora de Brasília como fecha de calendario:
// solo importan año y mes, no la zona del valor.
type MonthlyRevenue struct {
	Month     time.Time
	Revenue   decimal.Decimal
	Documents int
}

// TechnicianStats productividad de un técnico en el período.
type TechnicianStats struct {
	TechnicianID      string
	TechnicianName    string
	CompletedServices int
	Revenue           decimal.Decimal // precio + repuestos de las órdenes terminadas
}

// AnalyticsRepository define las consultas de lectura para los tableros.
// Las implementaciones son read-only (no modifican datos).
type AnalyticsRepository interface {
	// ServicesByStatus cuenta órdenes por estado (estados sin órdenes no aparecen).
	ServicesByStatus(ctx context.Context, orgID string) (map[string]int, error)

	// FiscalRevenue suma total_value de documentos autorizados emitidos en el rango.
	// Los cancelados no suman.
	FiscalRevenue(ctx context.Context, orgID string, start, end time.Time) (decimal.Decimal, error)

	// CountCompletedServices órdenes terminadas (completed_at) en el rango.
	CountCompletedServices(ctx context.Context, orgID string, start, end time.Time) (int, error)

	// CountOpenServices órdenes que aún no fueron entregadas.
	CountOpenServices(ctx context.Context, orgID string) (int, error)

	// CountLowStock productos en o bajo el stock mínimo.
	CountLowStock(ctx context.Context, orgID string) (int, error)

	// RevenueByMonth serie mensual desde start (inclusive) hasta end (exclusive).
	RevenueByMonth(ctx context.Context, orgID string, start, end time.Time) ([]MonthlyRevenue, error)

	// TechnicianStats órdenes terminadas y facturación por técnico en el rango.
	TechnicianStats(ctx context.Context, orgID string, start, end time.Time) ([]TechnicianStats, error)
}
