package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/reparo-api/internal/application/dto"
	"github.com/jhoicas/reparo-api/internal/application/fiscal"
)

// FiscalHandler ciclo de vida de documentos fiscales y sus representaciones.
type FiscalHandler struct {
	uc   *fiscal.UseCase
	docs *fiscal.DocumentUseCase
}

// NewFiscalHandler construye el handler.
func NewFiscalHandler(uc *fiscal.UseCase, docs *fiscal.DocumentUseCase) *FiscalHandler {
	return &FiscalHandler{uc: uc, docs: docs}
}

// List godoc
// @Summary      Listar documentos fiscales
// @Description  Filtra por estado, tipo, período y texto. Sin documentos guardados devuelve el conjunto de demostración (demo=true).
// @Tags         fiscal
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "draft, pending, authorized, canceled"
// @Param        type    query  string  false  "nf, nfce, nfs"
// @Param        from    query  string  false  "YYYY-MM-DD"
// @Param        to      query  string  false  "YYYY-MM-DD inclusive"
// @Param        q       query  string  false  "número, chave, cliente o descripción"
// @Success      200  {object}  dto.FiscalDocumentListResponse
// @Router       /api/fiscal-documents [get]
func (h *FiscalHandler) List(c *fiber.Ctx) error {
	var in dto.FiscalDocumentListRequest
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
// @Summary      Obtener documento
// @Tags         fiscal
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "documento"
// @Success      200  {object}  dto.FiscalDocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/fiscal-documents/{id} [get]
func (h *FiscalHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear borrador
// @Tags         fiscal
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateFiscalDocumentRequest  true  "tipo, ítems, cliente u orden"
// @Success      201   {object}  dto.FiscalDocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/fiscal-documents [post]
func (h *FiscalHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateFiscalDocumentRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetOrganizationID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Import godoc
// @Summary      Registrar documento emitido fuera del sistema
// @Description  Queda en estado pending hasta confirmarse con status-check.
// @Tags         fiscal
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ImportFiscalDocumentRequest  true  "documento externo"
// @Success      201   {object}  dto.FiscalDocumentResponse
// @Router       /api/fiscal-documents/import [post]
func (h *FiscalHandler) Import(c *fiber.Ctx) error {
	var in dto.ImportFiscalDocumentRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Import(c.UserContext(), GetOrganizationID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Issue godoc
// @Summary      Emitir (autorizar) borrador
// @Tags         fiscal
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "documento"
// @Success      200  {object}  dto.FiscalDocumentResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/fiscal-documents/{id}/issue [post]
func (h *FiscalHandler) Issue(c *fiber.Ctx) error {
	out, err := h.uc.Issue(c.UserContext(), GetOrganizationID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar documento autorizado
// @Description  Solo dentro del plazo configurado para el tipo (por defecto NFC-e 72 h, NF-e y NFS-e 30 días).
// @Tags         fiscal
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                           true  "documento"
// @Param        body  body  dto.CancelFiscalDocumentRequest  true  "reason"
// @Success      200   {object}  dto.FiscalDocumentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/fiscal-documents/{id}/cancel [post]
func (h *FiscalHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelFiscalDocumentRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Cancel(c.UserContext(), GetOrganizationID(c), GetUserID(c), c.Params("id"), in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reissue godoc
// @Summary      Reemitir documento
// @Description  Crea un documento nuevo con número y chave propios; el original no cambia.
// @Tags         fiscal
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "documento"
// @Success      201  {object}  dto.FiscalDocumentResponse
// @Router       /api/fiscal-documents/{id}/reissue [post]
func (h *FiscalHandler) Reissue(c *fiber.Ctx) error {
	out, err := h.uc.Reissue(c.UserContext(), GetOrganizationID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// StatusCheck godoc
// @Summary      Consultar estado externo de un documento importado
// @Tags         fiscal
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "documento"
// @Success      200  {object}  dto.StatusCheckResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/fiscal-documents/{id}/status-check [post]
func (h *FiscalHandler) StatusCheck(c *fiber.Ctx) error {
	out, err := h.uc.StatusCheck(c.UserContext(), GetOrganizationID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrar borrador
// @Tags         fiscal
// @Security     Bearer
// @Param        id  path  string  true  "documento"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/fiscal-documents/{id} [delete]
func (h *FiscalHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetOrganizationID(c), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ── Representaciones ──────────────────────────────────────────────────────────

// Receipt godoc
// @Summary      Comprobante HTML imprimible
// @Tags         fiscal
// @Security     Bearer
// @Produce      html
// @Param        id        path   string  true   "documento"
// @Param        layout    query  string  false  "thermal (80mm) o a4"
// @Param        download  query  bool    false  "descargar como archivo"
// @Success      200
// @Router       /api/fiscal-documents/{id}/receipt [get]
func (h *FiscalHandler) Receipt(c *fiber.Ctx) error {
	out, err := h.docs.Receipt(c.UserContext(), GetOrganizationID(c), c.Params("id"), c.Query("layout"))
	if err != nil {
		return respondError(c, err)
	}
	return sendRendered(c, out, c.QueryBool("download"))
}

// PDF godoc
// @Summary      DANFE simplificado en PDF
// @Tags         fiscal
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "documento"
// @Success      200
// @Failure      422  {object}  dto.ErrorResponse  "borrador sin chave"
// @Router       /api/fiscal-documents/{id}/pdf [get]
func (h *FiscalHandler) PDF(c *fiber.Ctx) error {
	out, err := h.docs.PDF(c.UserContext(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return sendRendered(c, out, true)
}

// XML godoc
// @Summary      XML de la nota
// @Tags         fiscal
// @Security     Bearer
// @Produce      application/xml
// @Param        id  path  string  true  "documento"
// @Success      200
// @Failure      422  {object}  dto.ErrorResponse  "borrador sin chave"
// @Router       /api/fiscal-documents/{id}/xml [get]
func (h *FiscalHandler) XML(c *fiber.Ctx) error {
	out, err := h.docs.XML(c.UserContext(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return sendRendered(c, out, true)
}

// Share godoc
// @Summary      Texto y enlaces para enviar el comprobante al cliente
// @Tags         fiscal
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "documento"
// @Success      200  {object}  dto.ShareResponse
// @Router       /api/fiscal-documents/{id}/share [get]
func (h *FiscalHandler) Share(c *fiber.Ctx) error {
	out, err := h.docs.Share(c.UserContext(), GetOrganizationID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func sendRendered(c *fiber.Ctx, r *fiscal.Rendered, attachment bool) error {
	c.Set(fiber.HeaderContentType, r.ContentType)
	disposition := "inline"
	if attachment {
		disposition = "attachment"
	}
	c.Set(fiber.HeaderContentDisposition, disposition+`; filename="`+r.Filename+`"`)
	return c.Send(r.Body)
}
