package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/reparo-api/internal/application/dto"
	"github.com/jhoicas/reparo-api/internal/application/organization"
)

// OrganizationHandler datos de la organización y sus módulos.
type OrganizationHandler struct {
	uc *organization.UseCase
}

// NewOrganizationHandler construye el handler.
func NewOrganizationHandler(uc *organization.UseCase) *OrganizationHandler {
	return &OrganizationHandler{uc: uc}
}

// Get godoc
// @Summary      Organización del usuario
// @Tags         organization
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.OrganizationResponse
// @Router       /api/organization [get]
func (h *OrganizationHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetOrganizationID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar datos del emisor (admin)
// @Tags         organization
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateOrganizationRequest  true  "campos"
// @Success      200   {object}  dto.OrganizationResponse
// @Router       /api/organization [put]
func (h *OrganizationHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateOrganizationRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetOrganizationID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListModules godoc
// @Summary      Módulos contratados
// @Tags         organization
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ModuleResponse
// @Router       /api/organization/modules [get]
func (h *OrganizationHandler) ListModules(c *fiber.Ctx) error {
	out, err := h.uc.ListModules(c.UserContext(), GetOrganizationID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateModule godoc
// @Summary      Activar o desactivar un módulo (admin)
// @Tags         organization
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        name  path  string                   true  "módulo"
// @Param        body  body  dto.UpdateModuleRequest  true  "is_active, expires_at"
// @Success      200   {object}  dto.ModuleResponse
// @Router       /api/organization/modules/{name} [put]
func (h *OrganizationHandler) UpdateModule(c *fiber.Ctx) error {
	var in dto.UpdateModuleRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.UpdateModule(c.UserContext(), GetOrganizationID(c), c.Params("name"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
