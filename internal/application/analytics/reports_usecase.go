package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/reparo-api/internal/application/dto"
	"github.com/jhoicas/reparo-api/internal/domain"
)

const (
	defaultMonths = 6
	maxMonths     = 24
)

// RevenueSeries ingresos autorizados de los últimos months meses (incluido el actual).
// Los meses sin documentos aparecen con cero.
func (uc *DashboardUseCase) RevenueSeries(ctx context.Context, orgID string, months int) ([]dto.RevenuePointDTO, error) {
	if months <= 0 {
		months = defaultMonths
	}
	if months > maxMonths {
		months = maxMonths
	}
	current := startOfMonth(uc.now().In(uc.loc))
	start := current.AddDate(0, -(months - 1), 0)
	end := current.AddDate(0, 1, 0)

	rows, err := uc.repo.RevenueByMonth(ctx, orgID, start, end)
	if err != nil {
		return nil, fmt.Errorf("reports: ingresos por mes: %w", err)
	}
	byMonth := make(map[string]dto.RevenuePointDTO, len(rows))
	for _, r := range rows {
		// fecha de calendario: no se convierte de zona
		key := r.Month.Format("2006-01")
		byMonth[key] = dto.RevenuePointDTO{Month: key, Revenue: r.Revenue.Round(2), Documents: r.Documents}
	}

	out := make([]dto.RevenuePointDTO, 0, months)
	for m := start; m.Before(end); m = m.AddDate(0, 1, 0) {
		key := m.Format("2006-01")
		p, ok := byMonth[key]
		if !ok {
			p = dto.RevenuePointDTO{Month: key, Revenue: decimal.Zero}
		}
		out = append(out, p)
	}
	return out, nil
}

// Technicians órdenes terminadas y facturación por técnico en [from, to].
// Fechas YYYY-MM-DD; vacías = mes en curso.
func (uc *DashboardUseCase) Technicians(ctx context.Context, orgID, from, to string) (*dto.TechnicianReportResponse, error) {
	start, end, err := uc.parsePeriod(from, to)
	if err != nil {
		return nil, err
	}
	rows, err := uc.repo.TechnicianStats(ctx, orgID, start, end)
	if err != nil {
		return nil, fmt.Errorf("reports: técnicos: %w", err)
	}
	items := make([]dto.TechnicianReportDTO, 0, len(rows))
	for _, r := range rows {
		avg := decimal.Zero
		if r.CompletedServices > 0 {
			avg = r.Revenue.Div(decimal.NewFromInt(int64(r.CompletedServices))).Round(2)
		}
		items = append(items, dto.TechnicianReportDTO{
			TechnicianID:      r.TechnicianID,
			TechnicianName:    r.TechnicianName,
			CompletedServices: r.CompletedServices,
			Revenue:           r.Revenue.Round(2),
			AverageTicket:     avg,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CompletedServices != items[j].CompletedServices {
			return items[i].CompletedServices > items[j].CompletedServices
		}
		return items[i].Revenue.GreaterThan(items[j].Revenue)
	})
	return &dto.TechnicianReportResponse{From: start, To: end, Items: items}, nil
}

// parsePeriod end es inclusivo hasta el final del día.
func (uc *DashboardUseCase) parsePeriod(from, to string) (start, end time.Time, err error) {
	now := uc.now().In(uc.loc)
	if to == "" {
		end = now
	} else {
		end, err = time.ParseInLocation("2006-01-02", to, uc.loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: to inválido", domain.ErrInvalidInput)
		}
		end = end.Add(24*time.Hour - time.Second)
	}
	if from == "" {
		start = startOfMonth(now)
	} else {
		start, err = time.ParseInLocation("2006-01-02", from, uc.loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: from inválido", domain.ErrInvalidInput)
		}
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: from no puede ser posterior a to", domain.ErrInvalidInput)
	}
	return start, end, nil
}
