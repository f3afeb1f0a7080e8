package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/reparo-api/internal/application/dto"
	"github.com/jhoicas/reparo-api/pkg/logger"
)

// moduleChecker es el contrato mínimo que necesita el middleware para verificar módulos.
// Lo implementa *organization.UseCase.
type moduleChecker interface {
	HasActiveModule(ctx context.Context, orgID, moduleName string) (bool, error)
}

// RequireModule verifica que la organización del token tenga el módulo activo.
// Debe usarse DESPUÉS de AuthMiddleware.
//
//   - 403 Forbidden → módulo no contratado o vencido.
//   - 503 Service Unavailable → fallo al consultar la DB.
func RequireModule(moduleName string, checker moduleChecker, log *logger.Logger) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx) error {
		orgID := GetOrganizationID(c)
		if orgID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "organization_id no encontrado en el token",
			})
		}

		active, err := checker.HasActiveModule(c.UserContext(), orgID, moduleName)
		if err != nil {
			log.Error().Err(err).Str("module", moduleName).Str("org", orgID).Msg("verificación de módulo")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "MODULE_CHECK_FAILED",
				Message: "no se pudo verificar el módulo, intente más tarde",
			})
		}
		if !active {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "MODULE_DISABLED",
				Message: "el módulo '" + moduleName + "' no está activo para esta organización",
			})
		}
		return c.Next()
	}
}
