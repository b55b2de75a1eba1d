package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jhoicas/finanzas-api/internal/domain/repository"
)

const (
	listenMinBackoff = 500 * time.Millisecond
	listenMaxBackoff = 30 * time.Second
)

// ResyncNotifier además de avisos por dueño puede avisar a todos los suscriptores.
type ResyncNotifier interface {
	repository.ChangeNotifier
	NotifyAll()
}

// Listener reenvía al hub local los avisos pg_notify emitidos por otros procesos.
type Listener struct {
	pool       *pgxpool.Pool
	channel    string
	instanceID string
	notifier   ResyncNotifier
	log        zerolog.Logger
}

// NewListener construye el listener. instanceID es el del Store local (sus avisos ya llegaron al hub).
func NewListener(pool *pgxpool.Pool, channel, instanceID string, notifier ResyncNotifier, log zerolog.Logger) *Listener {
	return &Listener{pool: pool, channel: channel, instanceID: instanceID, notifier: notifier, log: log}
}

// Run escucha hasta que ctx se cancele; ante errores reconecta con espera exponencial.
func (l *Listener) Run(ctx context.Context) {
	backoff := listenMinBackoff
	resync := false
	for {
		listening, err := l.listen(ctx, resync)
		if ctx.Err() != nil {
			return
		}
		if listening {
			backoff = listenMinBackoff
			resync = true
		}
		l.log.Warn().Err(err).Str("channel", l.channel).Dur("retry_in", backoff).Msg("listener desconectado")
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > listenMaxBackoff {
			backoff = listenMaxBackoff
		}
	}
}

// listen devuelve listening=true si llegó a ejecutar LISTEN antes de fallar.
// Con resync, tras volver a escuchar avisa a todos los suscriptores: los avisos del corte se perdieron.
func (l *Listener) listen(ctx context.Context, resync bool) (listening bool, err error) {
	pc, err := l.pool.Acquire(ctx)
	if err != nil {
		return false, err
	}
	// la conexión queda en estado LISTEN: no se devuelve al pool
	conn := pc.Hijack()
	defer func() { _ = conn.Close(context.Background()) }()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return false, err
	}
	l.log.Info().Str("channel", l.channel).Bool("resync", resync).Msg("escuchando cambios")
	if resync {
		l.notifier.NotifyAll()
	}

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return true, err
		}
		instanceID, ownerID, ok := parsePayload(n.Payload)
		if !ok {
			l.log.Warn().Str("payload", n.Payload).Msg("aviso con formato inválido")
			continue
		}
		if instanceID == l.instanceID {
			continue
		}
		l.notifier.Notify(ownerID)
	}
}
