package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardDTO respuesta de GET /api/reports/dashboard.
type DashboardDTO struct {
	ServicesByStatus       map[string]int  `json:"services_by_status"`
	MonthlyRevenue         decimal.Decimal `json:"monthly_revenue"` // documentos autorizados del mes
	CompletedServicesMonth int             `json:"completed_services_month"`
	OpenServices           int             `json:"open_services"`
	LowStockProducts       int             `json:"low_stock_products"`
	DateLabel              string          `json:"date_label"` // ej: "Março 2026"
}

// RevenuePointDTO un mes de la serie de ingresos.
type RevenuePointDTO struct {
	Month     string          `json:"month"` // YYYY-MM
	Revenue   decimal.Decimal `json:"revenue"`
	Documents int             `json:"documents"`
}

// TechnicianReportDTO productividad de un técnico.
type TechnicianReportDTO struct {
	TechnicianID      string          `json:"technician_id"`
	TechnicianName    string          `json:"technician_name"`
	CompletedServices int             `json:"completed_services"`
	Revenue           decimal.Decimal `json:"revenue"`
	AverageTicket     decimal.Decimal `json:"average_ticket"`
}

// TechnicianReportResponse reporte del período.
type TechnicianReportResponse struct {
	From  time.Time             `json:"from"`
	To    time.Time             `json:"to"`
	Items []TechnicianReportDTO `json:"items"`
}
