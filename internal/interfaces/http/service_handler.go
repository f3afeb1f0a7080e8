package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/reparo-api/internal/application/dto"
	"github.com/jhoicas/reparo-api/internal/application/serviceorder"
)

// ServiceHandler órdenes de servicio.
type ServiceHandler struct {
	uc *serviceorder.UseCase
}

// NewServiceHandler construye el handler.
func NewServiceHandler(uc *serviceorder.UseCase) *ServiceHandler {
	return &ServiceHandler{uc: uc}
}

// Create godoc
// @Summary      Abrir orden de servicio
// @Tags         services
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateServiceRequest  true  "cliente, aparato, problema"
// @Success      201   {object}  dto.ServiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/services [post]
func (h *ServiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateServiceRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetOrganizationID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar órdenes
// @Tags         services
// @Security     Bearer
// @Produce      json
// @Param        status         query  string  false  "pending, in_progress, waiting_parts, completed, delivered"
// @Param        technician_id  query  string  false  "técnico"
// @Param        customer_id    query  string  false  "cliente"
// @Param        q              query  string  false  "código, problema o cliente"
// @Success      200  {object}  dto.ServiceListResponse
// @Router       /api/services [get]
func (h *ServiceHandler) List(c *fiber.Ctx) error {
	var in dto.ServiceListRequest
	if err := bindQuery(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), GetOrganizationID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener orden con repuestos
// @Tags         services
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "orden"
// @Success      200  {object}  dto.ServiceResponse
// @Router       /api/services/{id} [get]
func (h *ServiceHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar orden (técnico, diagnóstico, precio)
// @Tags         services
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "orden"
// @Param        body  body  dto.UpdateServiceRequest  true  "campos"
// @Success      200   {object}  dto.ServiceResponse
// @Router       /api/services/{id} [put]
func (h *ServiceHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateServiceRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetOrganizationID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado de la orden
// @Tags         services
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "orden"
// @Param        body  body  dto.UpdateServiceStatusRequest  true  "status"
// @Success      200   {object}  dto.ServiceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/services/{id}/status [patch]
func (h *ServiceHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateServiceStatusRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), GetOrganizationID(c), GetUserID(c), c.Params("id"), in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AddPart godoc
// @Summary      Consumir repuesto del inventario
// @Tags         services
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "orden"
// @Param        body  body  dto.AddServicePartRequest  true  "product_id, quantity"
// @Success      201   {object}  dto.ServiceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/services/{id}/parts [post]
func (h *ServiceHandler) AddPart(c *fiber.Ctx) error {
	var in dto.AddServicePartRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.AddPart(c.UserContext(), GetOrganizationID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Delete godoc
// @Summary      Borrar orden sin repuestos
// @Tags         services
// @Security     Bearer
// @Param        id  path  string  true  "orden"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/services/{id} [delete]
func (h *ServiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetOrganizationID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
