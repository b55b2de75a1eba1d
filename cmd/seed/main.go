// seed carga movimientos en el libro de un usuario y emite un token de desarrollo para ese usuario.
//
// Uso: go run ./cmd/seed --user <id> [--file movimientos.csv] [--charset iso-8859-1]
// Sin --file carga un conjunto de demostración. El CSV tiene columnas
// date,kind,amount,category,note (la cabecera es opcional; category y note pueden ir vacías).
// Usa el almacén configurado (STORE_DRIVER, DATABASE_URL, ...).
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/finanzas-api/internal/application/analytics"
	"github.com/jhoicas/finanzas-api/internal/application/ledger"
	"github.com/jhoicas/finanzas-api/internal/infrastructure/events"
	"github.com/jhoicas/finanzas-api/internal/infrastructure/memory"
	"github.com/jhoicas/finanzas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/finanzas-api/pkg/config"
	"github.com/jhoicas/finanzas-api/pkg/jwt"
	"github.com/jhoicas/finanzas-api/pkg/logger"
)

const demoCSV = `date,kind,amount,category,note
2024-01-01,INCOME,"$2,500.00",Salary,enero
2024-01-02,EXPENSE,850,Rent,
2024-01-05,EXPENSE,64.30,Food,supermercado
2024-01-09,EXPENSE,12.5,Food,
2024-01-12,EXPENSE,40,,efectivo
2024-01-15,EXPENSE,19.99,Subscriptions,streaming
`

func main() {
	flags := pflag.NewFlagSet("seed", pflag.ExitOnError)
	userID := flags.String("user", "", "dueño de los datos (obligatorio)")
	file := flags.String("file", "", "CSV a importar; vacío = datos de demostración")
	charset := flags.String("charset", "utf-8", "codificación del CSV: utf-8 | iso-8859-1 | windows-1252")
	reset := flags.Bool("reset", false, "vaciar el libro del usuario antes de importar")
	_ = flags.Parse(os.Args[1:])

	if strings.TrimSpace(*userID) == "" {
		fmt.Fprintln(os.Stderr, "--user es obligatorio")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuración inválida: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: "development", Level: cfg.App.LogLevel, Service: "seed"})
	ctx := context.Background()

	var store interface {
		ledger.TxRunner
		analytics.SnapshotReader
	}
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		dsn := cfg.DB.ConnectionString()
		if err := postgres.RunMigrations(dsn); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		// los procesos en escucha reciben el aviso por el canal configurado
		store = postgres.NewStore(pool, nil, cfg.DB.NotifyChannel, log.Component("postgres"))
	default:
		log.Warn().Str("driver", cfg.Store.Driver).Msg("almacén no persistente: solo se valida el archivo")
		store = memory.New(nil)
	}

	var src io.Reader = strings.NewReader(demoCSV)
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			log.Fatal().Err(err).Msg("abrir CSV")
		}
		defer f.Close()
		src, err = decodeCharset(f, *charset)
		if err != nil {
			log.Fatal().Err(err).Msg("codificación")
		}
	}

	imp := newImporter(
		ledger.NewCategoryUseCase(store, log.Component("categories")),
		ledger.NewTransactionUseCase(store, log.Component("transactions")),
		analytics.NewEngine(store, events.NewHub(), log.Component("analytics"), 0),
	)
	if *reset {
		res, err := imp.categories.ClearAll(ctx, *userID)
		if err != nil {
			log.Fatal().Err(err).Msg("vaciar libro")
		}
		log.Info().Int64("transactions", res.Transactions).Int64("categories", res.Categories).Msg("libro vaciado")
	}

	stats, err := imp.Import(ctx, *userID, src)
	if err != nil {
		log.Fatal().Err(err).Msg("importar")
	}
	for _, rerr := range stats.Rejected {
		log.Warn().Err(rerr).Msg("fila rechazada")
	}
	log.Info().
		Int("transactions", stats.Transactions).
		Int("categories", stats.Categories).
		Int("rejected", len(stats.Rejected)).
		Msg("importación terminada")

	token, err := jwt.Generate(cfg.JWT.Secret, *userID, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		log.Fatal().Err(err).Msg("generar token")
	}
	fmt.Println(token)
}

// decodeCharset envuelve r para convertir a UTF-8 las exportaciones bancarias en Latin-1.
func decodeCharset(r io.Reader, charset string) (io.Reader, error) {
	switch strings.ToLower(strings.ReplaceAll(charset, "_", "-")) {
	case "", "utf-8", "utf8":
		return r, nil
	case "iso-8859-1", "iso8859-1", "latin1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("charset no soportado %q", charset)
	}
}
