package postgres

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jhoicas/finanzas-api/internal/application/analytics"
	"github.com/jhoicas/finanzas-api/internal/application/ledger"
	"github.com/jhoicas/finanzas-api/internal/domain"
	"github.com/jhoicas/finanzas-api/internal/domain/repository"
)

// Ensure Store implements ledger.TxRunner and analytics.SnapshotReader.
var (
	_ ledger.TxRunner          = (*Store)(nil)
	_ analytics.SnapshotReader = (*Store)(nil)
)

// Store ejecuta mutaciones y lecturas del libro dentro de transacciones PostgreSQL.
type Store struct {
	pool       *pgxpool.Pool
	notifier   repository.ChangeNotifier
	channel    string
	instanceID string
	log        zerolog.Logger
}

// NewStore construye el store. channel vacío desactiva pg_notify; notifier puede ser nil.
func NewStore(pool *pgxpool.Pool, notifier repository.ChangeNotifier, channel string, log zerolog.Logger) *Store {
	return &Store{
		pool:       pool,
		notifier:   notifier,
		channel:    channel,
		instanceID: uuid.NewString(),
		log:        log,
	}
}

// InstanceID identifica a este proceso en el payload de pg_notify.
func (s *Store) InstanceID() string { return s.instanceID }

// notifyPayload "<instancia>/<dueño>"; el listener descarta los avisos propios.
func notifyPayload(instanceID, ownerID string) string {
	return instanceID + "/" + ownerID
}

func parsePayload(payload string) (instanceID, ownerID string, ok bool) {
	instanceID, ownerID, ok = strings.Cut(payload, "/")
	return instanceID, ownerID, ok && ownerID != ""
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// pg_notify se emite dentro de la tx: los demás procesos solo lo reciben si hay commit.
func (s *Store) Run(ctx context.Context, ownerID string, fn ledger.RepoFunc) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.NewStorageError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewCategoryRepository(tx), NewTransactionRepository(tx)); err != nil {
		return err
	}
	if s.channel != "" {
		if _, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, s.channel, notifyPayload(s.instanceID, ownerID)); err != nil {
			return domain.NewStorageError("notify", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		s.log.Error().Err(err).Str("owner_id", ownerID).Msg("commit fallido")
		return domain.NewStorageError("commit transaction", err)
	}
	if s.notifier != nil {
		s.notifier.Notify(ownerID)
	}
	return nil
}

// View abre una transacción REPEATABLE READ de solo lectura: todas las consultas de fn ven el mismo snapshot.
func (s *Store) View(ctx context.Context, fn func(repository.LedgerReader) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return domain.NewStorageError("begin snapshot", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewReader(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.NewStorageError("commit snapshot", err)
	}
	return nil
}
