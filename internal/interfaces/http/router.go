package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/finanzas-api/internal/application/analytics"
	"github.com/jhoicas/finanzas-api/internal/application/ledger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Commands *ledger.Registry
	Engine   *analytics.Engine
	Auth     AuthConfig
	Log      zerolog.Logger
	// BaseContext acota los streams SSE; se cancela al apagar el servidor.
	BaseContext context.Context
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", RequestLogger(deps.Log))

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.Auth))

	// Categories
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.Commands, deps.Engine, deps.Log)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", categoryHandler.Create)
	categories.Put("/:id", categoryHandler.Rename)
	categories.Delete("/:id", categoryHandler.Delete)

	// Transactions
	transactions := protected.Group("/transactions")
	transactionHandler := NewTransactionHandler(deps.Commands, deps.Engine, deps.Log)
	transactions.Get("/", transactionHandler.List)
	transactions.Post("/", transactionHandler.Create)
	transactions.Get("/:id", transactionHandler.GetByID)
	transactions.Put("/:id", transactionHandler.Update)
	transactions.Delete("/:id", transactionHandler.Delete)

	// Dashboard
	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.Engine, deps.Log, deps.BaseContext)
	dashboard.Get("/", dashboardHandler.GetSummary)
	dashboard.Get("/stream", dashboardHandler.Stream)

	// Ledger
	ledgerGroup := protected.Group("/ledger")
	ledgerHandler := NewLedgerHandler(deps.Commands, deps.Log)
	ledgerGroup.Delete("/", ledgerHandler.Clear)
	ledgerGroup.Get("/last-error", ledgerHandler.LastError)
	ledgerGroup.Delete("/last-error", ledgerHandler.ClearLastError)
}
