package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/finanzas-api/internal/application/analytics"
	"github.com/jhoicas/finanzas-api/internal/application/ledger"
	"github.com/jhoicas/finanzas-api/internal/infrastructure/events"
	"github.com/jhoicas/finanzas-api/internal/infrastructure/memory"
	"github.com/jhoicas/finanzas-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/finanzas-api/internal/interfaces/http"
	"github.com/jhoicas/finanzas-api/pkg/config"
	"github.com/jhoicas/finanzas-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// ledgerStore almacén completo: mutaciones atómicas y lecturas consistentes.
type ledgerStore interface {
	ledger.TxRunner
	analytics.SnapshotReader
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	if err := cfg.Validate(); err != nil {
		panic("configuración inválida: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	// se cancela con SIGINT/SIGTERM: detiene el listener y cierra los streams SSE
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := events.NewHub()
	store, closeStore, err := openStore(ctx, cfg, hub, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén")
	}
	defer closeStore()

	categoryUC := ledger.NewCategoryUseCase(store, log.Component("categories"))
	transactionUC := ledger.NewTransactionUseCase(store, log.Component("transactions"))
	engine := analytics.NewEngine(store, hub, log.Component("analytics"), cfg.Dashboard.RecentLimit)

	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		ReadTimeout: time.Second * 10,
		// sin WriteTimeout: /api/dashboard/stream mantiene la respuesta abierta
		IdleTimeout: time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Finanzas API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Commands:    ledger.NewRegistry(categoryUC, transactionUC),
		Engine:      engine,
		Auth:        httpRouter.AuthConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer},
		Log:         log.Component("http"),
		BaseContext: ctx,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openStore construye el almacén elegido por STORE_DRIVER. Con postgres aplica migraciones
// y arranca el listener de avisos entre procesos.
func openStore(ctx context.Context, cfg *config.Config, hub *events.Hub, log *logger.Logger) (ledgerStore, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
		return memory.New(hub), func() {}, nil

	case config.StoreDriverPostgres:
		dsn := cfg.DB.ConnectionString()
		if err := postgres.RunMigrations(dsn); err != nil {
			return nil, nil, fmt.Errorf("migraciones: %w", err)
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		store := postgres.NewStore(pool, hub, cfg.DB.NotifyChannel, log.Component("postgres"))
		if cfg.DB.NotifyChannel != "" {
			listener := postgres.NewListener(pool, cfg.DB.NotifyChannel, store.InstanceID(), hub, log.Component("listener"))
			go listener.Run(ctx)
		}
		return store, pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("driver de almacén desconocido %q", cfg.Store.Driver)
	}
}
