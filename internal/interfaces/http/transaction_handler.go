package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/finanzas-api/internal/application/analytics"
	"github.com/jhoicas/finanzas-api/internal/application/dto"
	"github.com/jhoicas/finanzas-api/internal/application/ledger"
	"github.com/jhoicas/finanzas-api/internal/domain"
	"github.com/jhoicas/finanzas-api/internal/domain/entity"
)

const maxListLimit = 500

// TransactionHandler maneja las peticiones HTTP de transacciones (protegido).
type TransactionHandler struct {
	commands *ledger.Registry
	engine   *analytics.Engine
	log      zerolog.Logger
	today    func() entity.Day
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(commands *ledger.Registry, engine *analytics.Engine, log zerolog.Logger) *TransactionHandler {
	return &TransactionHandler{
		commands: commands,
		engine:   engine,
		log:      log,
		today:    func() entity.Day { return entity.DayOf(time.Now()) },
	}
}

// toInput valida kind y fecha del request; el monto lo valida el caso de uso.
func (h *TransactionHandler) toInput(in dto.TransactionRequest) (ledger.TransactionInput, error) {
	kind, err := entity.ParseKind(in.Kind)
	if err != nil {
		return ledger.TransactionInput{}, domain.Validation("kind debe ser INCOME o EXPENSE")
	}
	day := h.today()
	if strings.TrimSpace(in.Date) != "" {
		day, err = entity.ParseDay(in.Date)
		if err != nil {
			return ledger.TransactionInput{}, domain.Validation("date debe tener formato YYYY-MM-DD")
		}
	}
	return ledger.TransactionInput{
		Amount:     in.Amount,
		Kind:       kind,
		Note:       in.Note,
		Date:       day,
		CategoryID: in.CategoryID,
	}, nil
}

// parseFilter lee kind, category, uncategorized, from, to, sort y limit de la query.
func parseFilter(c *fiber.Ctx) (entity.TransactionFilter, error) {
	f := entity.TransactionFilter{Kind: entity.KindFilterAll, Sort: entity.SortNewest}
	switch k := entity.KindFilter(strings.ToUpper(c.Query("kind"))); k {
	case "", entity.KindFilterAll:
	case entity.KindFilterIncome, entity.KindFilterExpense:
		f.Kind = k
	default:
		return f, domain.Validation("kind inválido %q", c.Query("kind"))
	}
	if cat := c.Query("category"); cat != "" {
		f.CategoryID = &cat
	}
	f.UncategorizedOnly = c.QueryBool("uncategorized", false)
	if f.UncategorizedOnly && f.CategoryID != nil {
		return f, domain.Validation("category y uncategorized son excluyentes")
	}
	for _, p := range []struct {
		key string
		dst **entity.Day
	}{{"from", &f.From}, {"to", &f.To}} {
		if v := c.Query(p.key); v != "" {
			d, err := entity.ParseDay(v)
			if err != nil {
				return f, domain.Validation("%s debe tener formato YYYY-MM-DD", p.key)
			}
			*p.dst = &d
		}
	}
	switch s := entity.SortOrder(strings.ToUpper(c.Query("sort"))); s {
	case "":
	case entity.SortNewest, entity.SortOldest, entity.SortAmountDesc, entity.SortAmountAsc:
		f.Sort = s
	default:
		return f, domain.Validation("sort inválido %q", c.Query("sort"))
	}
	limit := c.QueryInt("limit", 0)
	if limit < 0 {
		limit = 0
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	f.Limit = limit
	return f, nil
}

// List godoc
// @Summary      Listar transacciones con filtros
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        kind           query  string  false  "ALL | INCOME | EXPENSE"
// @Param        category       query  string  false  "ID de categoría"
// @Param        uncategorized  query  bool    false  "Solo sin categoría"
// @Param        from           query  string  false  "Desde (YYYY-MM-DD, inclusivo)"
// @Param        to             query  string  false  "Hasta (YYYY-MM-DD, inclusivo)"
// @Param        sort           query  string  false  "NEWEST | OLDEST | AMOUNT_DESC | AMOUNT_ASC"
// @Param        limit          query  int     false  "Límite"
// @Success      200            {object}  dto.TransactionListResponse
// @Router       /api/transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	f, err := parseFilter(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	list, err := h.engine.Transactions(c.UserContext(), userID, f)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToTransactionListResponse(list))
}

// GetByID godoc
// @Summary      Obtener transacción por ID
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la transacción"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [get]
func (h *TransactionHandler) GetByID(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	t, err := h.engine.Transaction(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToTransactionResponse(t))
}

// Create godoc
// @Summary      Registrar transacción
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransactionRequest  true  "Datos de la transacción"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/transactions [post]
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	cmd := h.commands.For(userID)
	var body dto.TransactionRequest
	if err := c.BodyParser(&body); err != nil {
		return badBody(c, cmd, err)
	}
	in, err := h.toInput(body)
	if err != nil {
		return writeError(c, h.log, cmd.Record(err))
	}
	t, err := cmd.AddTransaction(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToTransactionResponse(t))
}

// Update godoc
// @Summary      Reemplazar transacción
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la transacción"
// @Param        body  body  dto.TransactionRequest  true  "Registro completo"
// @Success      200   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [put]
func (h *TransactionHandler) Update(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	cmd := h.commands.For(userID)
	var body dto.TransactionRequest
	if err := c.BodyParser(&body); err != nil {
		return badBody(c, cmd, err)
	}
	in, err := h.toInput(body)
	if err != nil {
		return writeError(c, h.log, cmd.Record(err))
	}
	t, err := cmd.UpdateTransaction(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToTransactionResponse(t))
}

// Delete godoc
// @Summary      Eliminar transacción
// @Tags         transactions
// @Security     Bearer
// @Param        id   path  string  true  "ID de la transacción"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	if err := h.commands.For(userID).DeleteTransaction(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
