package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/reparo-api/internal/application/analytics"
	"github.com/jhoicas/reparo-api/internal/application/dto"
	"github.com/jhoicas/reparo-api/internal/domain/entity"
	"github.com/jhoicas/reparo-api/internal/domain/repository"
	apphttp "github.com/jhoicas/reparo-api/internal/interfaces/http"
)

type stubAnalytics struct {
	byStatus map[string]int
	revenue  decimal.Decimal
	open     int
	fail     error
	orgSeen  string
}

func (s *stubAnalytics) ServicesByStatus(_ context.Context, orgID string) (map[string]int, error) {
	s.orgSeen = orgID
	return s.byStatus, s.fail
}

func (s *stubAnalytics) FiscalRevenue(context.Context, string, time.Time, time.Time) (decimal.Decimal, error) {
	return s.revenue, nil
}

func (s *stubAnalytics) CountCompletedServices(context.Context, string, time.Time, time.Time) (int, error) {
	return 0, nil
}

func (s *stubAnalytics) CountOpenServices(context.Context, string) (int, error) { return s.open, nil }
func (s *stubAnalytics) CountLowStock(context.Context, string) (int, error) { return 0, nil }

func (s *stubAnalytics) RevenueByMonth(context.Context, string, time.Time, time.Time) ([]repository.MonthlyRevenue, error) {
	return nil, nil
}

func (s *stubAnalytics) TechnicianStats(context.Context, string, time.Time, time.Time) ([]repository.TechnicianStats, error) {
	return nil, nil
}

func reportApp(repo repository.AnalyticsRepository) *fiber.App {
	uc := analytics.NewDashboardUseCase(repo).
		WithClock(func() time.Time { return time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC) })
	h := apphttp.NewReportHandler(uc)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(apphttp.LocalOrganizationID, testOrgID)
		return c.Next()
	})
	app.Get("/dashboard", h.Dashboard)
	app.Get("/revenue", h.Revenue)
	app.Get("/technicians", h.Technicians)
	return app
}

func TestReportHandler_Dashboard(t *testing.T) {
	repo := &stubAnalytics{
		byStatus: map[string]int{entity.ServiceStatusPending: 2},
		revenue:  decimal.RequireFromString("1500.5"),
		open:     2,
	}
	resp, err := reportApp(repo).Test(httptest.NewRequest(http.MethodGet, "/dashboard", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.DashboardDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, testOrgID, repo.orgSeen)
	assert.Len(t, out.ServicesByStatus, len(entity.ServiceStatuses))
	assert.Equal(t, 2, out.ServicesByStatus[entity.ServiceStatusPending])
	assert.True(t, out.MonthlyRevenue.Equal(decimal.RequireFromString("1500.5")))
	assert.Equal(t, "Março 2026", out.DateLabel)
}

func TestReportHandler_ErrorInternoNoExponeDetalle(t *testing.T) {
	repo := &stubAnalytics{fail: errors.New("pq: connection refused")}
	resp, err := reportApp(repo).Test(httptest.NewRequest(http.MethodGet, "/dashboard", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := bodyString(t, resp)
	assert.Contains(t, body, "INTERNAL")
	assert.NotContains(t, body, "connection refused")
}

func TestReportHandler_PeriodoInvalido(t *testing.T) {
	resp, err := reportApp(&stubAnalytics{}).Test(httptest.NewRequest(http.MethodGet, "/technicians?from=14-03-2026", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "VALIDATION")
}

func TestReportHandler_RevenueRellenaMeses(t *testing.T) {
	resp, err := reportApp(&stubAnalytics{}).Test(httptest.NewRequest(http.MethodGet, "/revenue?months=3", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out []dto.RevenuePointDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out, 3)
	assert.Equal(t, "2026-01", out[0].Month)
	assert.Equal(t, "2026-03", out[2].Month)
}
