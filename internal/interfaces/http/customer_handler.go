package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/reparo-api/internal/application/customer"
	"github.com/jhoicas/reparo-api/internal/application/dto"
)

// CustomerHandler clientes y sus aparatos.
type CustomerHandler struct {
	uc *customer.UseCase
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *customer.UseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

// Create godoc
// @Summary      Crear cliente
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CustomerRequest  true  "cliente (CPF/CNPJ opcional)"
// @Success      201   {object}  dto.CustomerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CustomerRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetOrganizationID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar clientes
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        q       query  string  false  "nombre, documento, teléfono o email"
// @Param        limit   query  int     false  "máx. 100"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {object}  dto.CustomerListResponse
// @Router       /api/customers [get]
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := bindQuery(c, &page); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), GetOrganizationID(c), c.Query("q"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener cliente
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "cliente"
// @Success      200  {object}  dto.CustomerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [get]
func (h *CustomerHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar cliente
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "cliente"
// @Param        body  body  dto.CustomerRequest  true  "cliente"
// @Success      200   {object}  dto.CustomerResponse
// @Router       /api/customers/{id} [put]
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	var in dto.CustomerRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetOrganizationID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrar cliente con sus aparatos y órdenes
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "cliente"
// @Success      200  {object}  dto.DeleteCustomerResponse
// @Router       /api/customers/{id} [delete]
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	out, err := h.uc.Delete(c.UserContext(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Contact godoc
// @Summary      Enlaces tel:, sms:, mailto: y WhatsApp del cliente
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "cliente"
// @Success      200  {object}  dto.ContactLinksResponse
// @Router       /api/customers/{id}/contact [get]
func (h *CustomerHandler) Contact(c *fiber.Ctx) error {
	out, err := h.uc.Contact(c.UserContext(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ── Aparatos ──────────────────────────────────────────────────────────────────

// ListDevices godoc
// @Summary      Aparatos del cliente
// @Tags         devices
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "cliente"
// @Success      200  {array}  dto.DeviceResponse
// @Router       /api/customers/{id}/devices [get]
func (h *CustomerHandler) ListDevices(c *fiber.Ctx) error {
	out, err := h.uc.ListDevices(c.UserContext(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateDevice godoc
// @Summary      Registrar aparato
// @Tags         devices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "cliente"
// @Param        body  body  dto.DeviceRequest  true  "aparato"
// @Success      201   {object}  dto.DeviceResponse
// @Router       /api/customers/{id}/devices [post]
func (h *CustomerHandler) CreateDevice(c *fiber.Ctx) error {
	var in dto.DeviceRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateDevice(c.UserContext(), GetOrganizationID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetDevice godoc
// @Summary      Obtener aparato
// @Tags         devices
// @Security     Bearer
// @Produce      json
// @Param        id        path  string  true  "cliente"
// @Param        deviceId  path  string  true  "aparato"
// @Success      200  {object}  dto.DeviceResponse
// @Router       /api/customers/{id}/devices/{deviceId} [get]
func (h *CustomerHandler) GetDevice(c *fiber.Ctx) error {
	out, err := h.uc.GetDevice(c.UserContext(), GetOrganizationID(c), c.Params("id"), c.Params("deviceId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateDevice godoc
// @Summary      Editar aparato
// @Tags         devices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id        path  string             true  "cliente"
// @Param        deviceId  path  string             true  "aparato"
// @Param        body      body  dto.DeviceRequest  true  "aparato"
// @Success      200  {object}  dto.DeviceResponse
// @Router       /api/customers/{id}/devices/{deviceId} [put]
func (h *CustomerHandler) UpdateDevice(c *fiber.Ctx) error {
	var in dto.DeviceRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.UpdateDevice(c.UserContext(), GetOrganizationID(c), c.Params("id"), c.Params("deviceId"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteDevice godoc
// @Summary      Borrar aparato
// @Tags         devices
// @Security     Bearer
// @Param        id        path  string  true  "cliente"
// @Param        deviceId  path  string  true  "aparato"
// @Success      204
// @Router       /api/customers/{id}/devices/{deviceId} [delete]
func (h *CustomerHandler) DeleteDevice(c *fiber.Ctx) error {
	if err := h.uc.DeleteDevice(c.UserContext(), GetOrganizationID(c), c.Params("id"), c.Params("deviceId")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
