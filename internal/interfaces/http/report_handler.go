package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/reparo-api/internal/application/analytics"
)

// ReportHandler tableros de la organización.
type ReportHandler struct {
	uc *analytics.DashboardUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *analytics.DashboardUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Dashboard godoc
// @Summary      Resumen del mes
// @Description  Órdenes por estado, ingresos autorizados del mes, órdenes terminadas, abiertas y repuestos con stock bajo.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardDTO
// @Router       /api/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.uc.GetSummary(c.UserContext(), GetOrganizationID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Revenue godoc
// @Summary      Serie mensual de ingresos
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        months  query  int  false  "meses (por defecto 6, máx. 24)"
// @Success      200  {array}  dto.RevenuePointDTO
// @Router       /api/reports/revenue [get]
func (h *ReportHandler) Revenue(c *fiber.Ctx) error {
	out, err := h.uc.RevenueSeries(c.UserContext(), GetOrganizationID(c), c.QueryInt("months"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Technicians godoc
// @Summary      Productividad por técnico
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "YYYY-MM-DD (por defecto inicio del mes)"
// @Param        to    query  string  false  "YYYY-MM-DD inclusive"
// @Success      200  {object}  dto.TechnicianReportResponse
// @Router       /api/reports/technicians [get]
func (h *ReportHandler) Technicians(c *fiber.Ctx) error {
	out, err := h.uc.Technicians(c.UserContext(), GetOrganizationID(c), c.Query("from"), c.Query("to"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
