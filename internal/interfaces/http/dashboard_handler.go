package http

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/jhoicas/finanzas-api/internal/application/analytics"
	"github.com/jhoicas/finanzas-api/internal/application/dto"
	"github.com/jhoicas/finanzas-api/internal/domain/entity"
)

const defaultPingInterval = 15 * time.Second

// DashboardHandler maneja los endpoints del tablero (protegido).
type DashboardHandler struct {
	engine *analytics.Engine
	log    zerolog.Logger
	// base acota la vida de los streams: al cancelarse (apagado) se cierran todos.
	base         context.Context
	pingInterval time.Duration
}

// NewDashboardHandler construye el handler. base nil equivale a context.Background().
func NewDashboardHandler(engine *analytics.Engine, log zerolog.Logger, base context.Context) *DashboardHandler {
	if base == nil {
		base = context.Background()
	}
	return &DashboardHandler{engine: engine, log: log, base: base, pingInterval: defaultPingInterval}
}

// GetSummary godoc
// @Summary      Tablero: balance, recientes y gasto por categoría
// @Description  Calculado sobre un único estado del libro.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/dashboard [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	snap, err := h.engine.Dashboard(c.UserContext(), userID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToDashboardResponse(snap))
}

type sseEvent struct {
	name string
	data any
}

// Stream godoc
// @Summary      Tablero en vivo (server-sent events)
// @Description  Emite "dashboard" al conectar y tras cada cambio del libro; "error" si un recálculo falla.
// @Tags         dashboard
// @Security     Bearer
// @Produce      text/event-stream
// @Success      200
// @Router       /api/dashboard/stream [get]
func (h *DashboardHandler) Stream(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	ctx, cancel := context.WithCancel(h.base)
	events := make(chan sseEvent, 1)
	sub := h.engine.WatchDashboard(ctx, userID, func(snap *entity.DashboardSnapshot, err error) {
		ev := sseEvent{name: "dashboard"}
		if err != nil {
			_, body := publicError(err)
			ev = sseEvent{name: "error", data: body}
		} else {
			ev.data = dto.ToDashboardResponse(snap)
		}
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	})
	log := h.log.With().Str("owner_id", userID).Logger()
	log.Debug().Msg("stream de tablero abierto")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer log.Debug().Msg("stream de tablero cerrado")
		defer sub.Cancel()
		defer cancel()

		ping := time.NewTicker(h.pingInterval)
		defer ping.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-events:
				if err := writeEvent(w, ev); err != nil {
					return
				}
			case <-ping.C:
				// un fallo de escritura indica que el cliente se desconectó
				if _, err := w.WriteString(": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))
	return nil
}

func writeEvent(w *bufio.Writer, ev sseEvent) error {
	payload, err := json.Marshal(ev.data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.name, payload); err != nil {
		return err
	}
	return w.Flush()
}
