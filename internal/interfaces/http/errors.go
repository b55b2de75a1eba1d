package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/finanzas-api/internal/application/dto"
	"github.com/jhoicas/finanzas-api/internal/application/ledger"
	"github.com/jhoicas/finanzas-api/internal/domain"
)

// errorStatus traduce la taxonomía de dominio a status y código HTTP.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrInvalidPolicyArgument):
		return fiber.StatusBadRequest, "INVALID_POLICY_ARGUMENT"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrDuplicateName):
		return fiber.StatusConflict, "DUPLICATE_NAME"
	case errors.Is(err, domain.ErrStorage):
		return fiber.StatusServiceUnavailable, "STORAGE"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}

// publicError arma el cuerpo visible por el cliente: los 5xx no exponen la causa.
func publicError(err error) (int, dto.ErrorResponse) {
	status, code := errorStatus(err)
	msg := err.Error()
	switch status {
	case fiber.StatusServiceUnavailable:
		msg = "almacenamiento no disponible"
	case fiber.StatusInternalServerError:
		msg = "error interno"
	}
	return status, dto.ErrorResponse{Code: code, Message: msg}
}

// writeError responde con el error; los 5xx se registran.
func writeError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	status, body := publicError(err)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("petición fallida")
	}
	return c.Status(status).JSON(body)
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "user_id requerido"})
}

// badBody responde 400 y deja el fallo de decodificación en el slot del dueño.
func badBody(c *fiber.Ctx, cmd *ledger.Commands, err error) error {
	cmd.Record(domain.Validation("cuerpo inválido: %v", err))
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
