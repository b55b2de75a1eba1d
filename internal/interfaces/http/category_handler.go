package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/finanzas-api/internal/application/analytics"
	"github.com/jhoicas/finanzas-api/internal/application/dto"
	"github.com/jhoicas/finanzas-api/internal/application/ledger"
)

// CategoryHandler maneja las peticiones HTTP de categorías (protegido).
type CategoryHandler struct {
	commands *ledger.Registry
	engine   *analytics.Engine
	log      zerolog.Logger
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(commands *ledger.Registry, engine *analytics.Engine, log zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{commands: commands, engine: engine, log: log}
}

// List godoc
// @Summary      Listar categorías con su número de transacciones
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CategoryListResponse
// @Router       /api/categories [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	rows, err := h.engine.CategoriesWithCounts(c.UserContext(), userID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToCategoryListResponse(rows))
}

// Create godoc
// @Summary      Crear categoría
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CategoryRequest  true  "Nombre"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	cmd := h.commands.For(userID)
	var in dto.CategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, cmd, err)
	}
	cat, err := cmd.AddCategory(c.UserContext(), in.Name)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToCategoryResponse(cat))
}

// Rename godoc
// @Summary      Renombrar categoría
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la categoría"
// @Param        body  body  dto.CategoryRequest  true  "Nuevo nombre"
// @Success      200   {object}  dto.CategoryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [put]
func (h *CategoryHandler) Rename(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	cmd := h.commands.For(userID)
	var in dto.CategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, cmd, err)
	}
	cat, err := cmd.RenameCategory(c.UserContext(), c.Params("id"), in.Name)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToCategoryResponse(cat))
}

// Delete godoc
// @Summary      Eliminar categoría según política
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la categoría"
// @Param        policy  query  string  true   "MOVE | UNCATEGORIZE | DELETE_TRANSACTIONS"
// @Param        target  query  string  false  "Categoría destino (solo MOVE)"
// @Success      200     {object}  dto.DeleteCategoryResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	cmd := h.commands.For(userID)
	policy, err := ledger.ParsePolicy(c.Query("policy"))
	if err != nil {
		return writeError(c, h.log, cmd.Record(err))
	}
	var target *string
	if t := c.Query("target"); t != "" {
		target = &t
	}
	res, err := cmd.DeleteCategory(c.UserContext(), c.Params("id"), policy, target)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToDeleteCategoryResponse(res))
}
