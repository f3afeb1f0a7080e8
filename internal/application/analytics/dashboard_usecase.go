// Package analytics contiene los casos de uso de los tableros: resumen del mes,
// serie de ingresos y productividad de técnicos.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/reparo-api/internal/application/dto"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
	"github.com/jhoicas/reparo-api/internal/domain/repository"
)

// DashboardUseCase genera el resumen de la asistencia técnica.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
type DashboardUseCase struct {
	repo repository.AnalyticsRepository
	loc  *time.Location
	now  func() time.Time
}

// NewDashboardUseCase construye el caso de uso. Los meses se cortan en horario de Brasília.
func NewDashboardUseCase(repo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{
		repo: repo,
		loc:  time.FixedZone("BRT", -3*60*60),
		now:  time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetSummary ejecuta las cinco consultas en paralelo; si una falla se cancela el resto.
func (uc *DashboardUseCase) GetSummary(ctx context.Context, orgID string) (*dto.DashboardDTO, error) {
	now := uc.now().In(uc.loc)
	monthStart := startOfMonth(now)
	monthEnd := monthStart.AddDate(0, 1, 0)

	var (
		byStatus  map[string]int
		revenue   decimal.Decimal
		completed int
		open      int
		lowStock  int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		byStatus, err = uc.repo.ServicesByStatus(gctx, orgID)
		return wrap("órdenes por estado", err)
	})
	g.Go(func() (err error) {
		revenue, err = uc.repo.FiscalRevenue(gctx, orgID, monthStart, monthEnd)
		return wrap("ingresos del mes", err)
	})
	g.Go(func() (err error) {
		completed, err = uc.repo.CountCompletedServices(gctx, orgID, monthStart, monthEnd)
		return wrap("órdenes terminadas", err)
	})
	g.Go(func() (err error) {
		open, err = uc.repo.CountOpenServices(gctx, orgID)
		return wrap("órdenes abiertas", err)
	})
	g.Go(func() (err error) {
		lowStock, err = uc.repo.CountLowStock(gctx, orgID)
		return wrap("stock bajo", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Todos los estados aparecen, aunque estén en cero.
	statuses := make(map[string]int, len(entity.ServiceStatuses))
	for _, s := range entity.ServiceStatuses {
		statuses[s] = byStatus[s]
	}

	return &dto.DashboardDTO{
		ServicesByStatus:       statuses,
		MonthlyRevenue:         revenue.Round(2),
		CompletedServicesMonth: completed,
		OpenServices:           open,
		LowStockProducts:       lowStock,
		DateLabel:              monthLabel(now),
	}, nil
}

func wrap(what string, err error) error {
	if err != nil {
		return fmt.Errorf("dashboard: %s: %w", what, err)
	}
	return nil
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// monthLabel etiqueta legible del mes, ej: "Março 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
		"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
