package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/reparo-api/internal/application/analytics"
	"github.com/jhoicas/reparo-api/internal/domain"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
	"github.com/jhoicas/reparo-api/internal/domain/repository"
)

type stubRepo struct {
	byStatus   map[string]int
	revenue    decimal.Decimal
	completed  int
	open       int
	low        int
	months     []repository.MonthlyRevenue
	techs      []repository.TechnicianStats
	failStatus error

	revStart, revEnd time.Time
}

func (s *stubRepo) ServicesByStatus(context.Context, string) (map[string]int, error) {
	return s.byStatus, s.failStatus
}

func (s *stubRepo) FiscalRevenue(_ context.Context, _ string, start, end time.Time) (decimal.Decimal, error) {
	s.revStart, s.revEnd = start, end
	return s.revenue, nil
}

func (s *stubRepo) CountCompletedServices(context.Context, string, time.Time, time.Time) (int, error) {
	return s.completed, nil
}

func (s *stubRepo) CountOpenServices(context.Context, string) (int, error) { return s.open, nil }
func (s *stubRepo) CountLowStock(context.Context, string) (int, error) { return s.low, nil }

func (s *stubRepo) RevenueByMonth(context.Context, string, time.Time, time.Time) ([]repository.MonthlyRevenue, error) {
	return s.months, nil
}

func (s *stubRepo) TechnicianStats(context.Context, string, time.Time, time.Time) ([]repository.TechnicianStats, error) {
	return s.techs, nil
}

var brt = time.FixedZone("BRT", -3*60*60)

// 2026-03-01 01:00 UTC todavía es febrero en Brasília.
var clock = time.Date(2026, 3, 1, 1, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newUC(repo *stubRepo) *analytics.DashboardUseCase {
	return analytics.NewDashboardUseCase(repo).WithClock(func() time.Time { return clock })
}

func TestGetSummary(t *testing.T) {
	repo := &stubRepo{
		byStatus:  map[string]int{entity.ServiceStatusPending: 3, entity.ServiceStatusCompleted: 1},
		revenue:   d("1234.567"),
		completed: 4,
		open:      5,
		low:       2,
	}
	out, err := newUC(repo).GetSummary(context.Background(), "org")
	require.NoError(t, err)

	assert.Len(t, out.ServicesByStatus, len(entity.ServiceStatuses))
	assert.Equal(t, 3, out.ServicesByStatus[entity.ServiceStatusPending])
	assert.Equal(t, 0, out.ServicesByStatus[entity.ServiceStatusDelivered])
	assert.True(t, out.MonthlyRevenue.Equal(d("1234.57")))
	assert.Equal(t, 4, out.CompletedServicesMonth)
	assert.Equal(t, 5, out.OpenServices)
	assert.Equal(t, 2, out.LowStockProducts)
	assert.Equal(t, "Fevereiro 2026", out.DateLabel)

	assert.True(t, repo.revStart.Equal(time.Date(2026, 2, 1, 0, 0, 0, 0, brt)))
	assert.True(t, repo.revEnd.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, brt)))
}

func TestGetSummary_ErrorDeUnaConsulta(t *testing.T) {
	boom := errors.New("db caída")
	_, err := newUC(&stubRepo{failStatus: boom}).GetSummary(context.Background(), "org")
	assert.ErrorIs(t, err, boom)
}

func TestRevenueSeries_RellenaMesesVacios(t *testing.T) {
	repo := &stubRepo{months: []repository.MonthlyRevenue{
		// timestamp sin zona: pgx lo entrega en UTC con la fecha de Brasília
		{Month: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), Revenue: d("300"), Documents: 2},
		{Month: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), Revenue: d("150.5"), Documents: 1},
	}}
	out, err := newUC(repo).RevenueSeries(context.Background(), "org", 3)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, "2025-12", out[0].Month)
	assert.True(t, out[0].Revenue.Equal(d("300")))
	assert.Equal(t, "2026-01", out[1].Month)
	assert.True(t, out[1].Revenue.IsZero())
	assert.Equal(t, 0, out[1].Documents)
	assert.Equal(t, "2026-02", out[2].Month)
	assert.Equal(t, 1, out[2].Documents)
}

func TestRevenueSeries_MesActualNoSeCorre(t *testing.T) {
	repo := &stubRepo{months: []repository.MonthlyRevenue{
		{Month: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), Revenue: d("150.5"), Documents: 1},
	}}
	out, err := newUC(repo).RevenueSeries(context.Background(), "org", 2)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "2026-01", out[0].Month)
	assert.True(t, out[0].Revenue.IsZero())
	assert.Equal(t, "2026-02", out[1].Month)
	assert.True(t, out[1].Revenue.Equal(d("150.5")))
}

func TestRevenueSeries_LimitaMeses(t *testing.T) {
	out, err := newUC(&stubRepo{}).RevenueSeries(context.Background(), "org", 0)
	require.NoError(t, err)
	assert.Len(t, out, 6)

	out, err = newUC(&stubRepo{}).RevenueSeries(context.Background(), "org", 100)
	require.NoError(t, err)
	assert.Len(t, out, 24)
}

func TestTechnicians_TicketMedioYOrden(t *testing.T) {
	repo := &stubRepo{techs: []repository.TechnicianStats{
		{TechnicianID: "a", TechnicianName: "Ana", CompletedServices: 2, Revenue: d("500")},
		{TechnicianID: "b", TechnicianName: "Bruno", CompletedServices: 3, Revenue: d("100")},
		{TechnicianID: "c", TechnicianName: "Caio", CompletedServices: 0, Revenue: decimal.Zero},
	}}
	out, err := newUC(repo).Technicians(context.Background(), "org", "2026-01-01", "2026-01-31")
	require.NoError(t, err)
	require.Len(t, out.Items, 3)

	assert.Equal(t, "b", out.Items[0].TechnicianID)
	assert.True(t, out.Items[0].AverageTicket.Equal(d("33.33")))
	assert.True(t, out.Items[1].AverageTicket.Equal(d("250")))
	assert.True(t, out.Items[2].AverageTicket.IsZero())
	assert.True(t, out.To.After(time.Date(2026, 1, 31, 23, 0, 0, 0, brt)))
}

func TestTechnicians_PeriodoInvalido(t *testing.T) {
	uc := newUC(&stubRepo{})
	_, err := uc.Technicians(context.Background(), "org", "2026-02-10", "2026-02-01")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Technicians(context.Background(), "org", "10/02/2026", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
