package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/finanzas-api/internal/application/dto"
	"github.com/jhoicas/finanzas-api/internal/application/ledger"
)

// LedgerHandler operaciones sobre el libro completo del usuario y su último error.
type LedgerHandler struct {
	commands *ledger.Registry
	log      zerolog.Logger
}

func NewLedgerHandler(commands *ledger.Registry, log zerolog.Logger) *LedgerHandler {
	return &LedgerHandler{commands: commands, log: log}
}

// Clear godoc
// @Summary      Borrar todas las transacciones y categorías del usuario
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ClearLedgerResponse
// @Router       /api/ledger [delete]
func (h *LedgerHandler) Clear(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	res, err := h.commands.For(userID).ClearAll(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToClearLedgerResponse(res))
}

// LastError godoc
// @Summary      Último error registrado por los comandos del usuario
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.LastErrorResponse
// @Router       /api/ledger/last-error [get]
func (h *LedgerHandler) LastError(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	err := h.commands.For(userID).LastError()
	if err == nil {
		return c.JSON(dto.LastErrorResponse{})
	}
	_, body := publicError(err)
	return c.JSON(dto.LastErrorResponse{Present: true, Code: body.Code, Message: body.Message})
}

// ClearLastError godoc
// @Summary      Descartar el último error
// @Tags         ledger
// @Security     Bearer
// @Success      204
// @Router       /api/ledger/last-error [delete]
func (h *LedgerHandler) ClearLastError(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	h.commands.For(userID).ClearError()
	return c.SendStatus(fiber.StatusNoContent)
}
