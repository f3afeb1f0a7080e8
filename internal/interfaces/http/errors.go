package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/reparo-api/internal/application/dto"
	"github.com/jhoicas/reparo-api/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// errorMapping sentinela de dominio → status y código.
var errorMapping = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrUserNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION"},
	{domain.ErrCancelWindowExpired, fiber.StatusConflict, "CANCEL_WINDOW_EXPIRED"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrInvalidDocumentType, fiber.StatusBadRequest, "INVALID_DOCUMENT_TYPE"},
	{domain.ErrInvalidDocument, fiber.StatusBadRequest, "INVALID_DOCUMENT"},
	{domain.ErrNotIssued, fiber.StatusUnprocessableEntity, "NOT_ISSUED"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrUpstream, fiber.StatusBadGateway, "UPSTREAM"},
}

// respondError traduce un error de caso de uso a dto.ErrorResponse.
// Los errores no mapeados son 500; el detalle queda en el log del request, no en la respuesta.
func respondError(c *fiber.Ctx, err error) error {
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	c.Locals(localInternalError, err)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

// bindJSON parsea el cuerpo y valida las etiquetas validate del DTO.
func bindJSON(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fmt.Errorf("%w: cuerpo inválido", domain.ErrInvalidInput)
	}
	return validateDTO(out)
}

// bindQuery igual que bindJSON para la query string.
func bindQuery(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return fmt.Errorf("%w: parámetros inválidos", domain.ErrInvalidInput)
	}
	return validateDTO(out)
}

func validateDTO(out any) error {
	if err := validate.Struct(out); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, validationMessage(err))
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" es requerido")
		case "email":
			msgs = append(msgs, field+" debe ser un email válido")
		case "oneof":
			msgs = append(msgs, field+" debe ser uno de: "+fe.Param())
		case "min", "max", "len":
			msgs = append(msgs, field+" no cumple "+fe.Tag()+"="+fe.Param())
		default:
			msgs = append(msgs, field+" inválido ("+fe.Tag()+")")
		}
	}
	return strings.Join(msgs, "; ")
}
