package http

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/jhoicas/topmei-api/internal/application/dto"
	"github.com/jhoicas/topmei-api/internal/application/usecase"
	"github.com/jhoicas/topmei-api/pkg/logger"
)

// keepAliveInterval comentario SSE para que proxies no cierren la conexión.
const keepAliveInterval = 25 * time.Second

// NotificationHandler notificaciones del usuario y stream SSE.
type NotificationHandler struct {
	uc  *usecase.NotificationUseCase
	log *logger.Logger
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(uc *usecase.NotificationUseCase, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{uc: uc, log: log}
}

// List últimas notificaciones (?limit=, por defecto 10).
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), session(c), c.QueryInt("limit", usecase.DefaultNotificationLimit))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	n, err := h.uc.UnreadCount(c.UserContext(), session(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.UnreadCountResponse{Unread: n})
}

// MarkRead idempotente.
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.uc.MarkRead(c.UserContext(), session(c), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete godoc
// @Summary      Excluir notificação própria
// @Tags         notifications
// @Security     BearerAuth
// @Param        id   path  string  true  "ID da notificação"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), session(c), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	n, err := h.uc.MarkAllRead(c.UserContext(), session(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"updated": n})
}

// Stream godoc
// @Summary      Notificações em tempo real (Server-Sent Events)
// @Description  Eventos "notification" com a notificação nova e "unread" com o contador.
// @Tags         notifications
// @Produce      text/event-stream
// @Router       /api/notifications/stream [get]
func (h *NotificationHandler) Stream(c *fiber.Ctx) error {
	s := session(c)
	// la suscripción vive hasta que el cliente se desconecta, no lo que dura el handler
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := h.uc.Subscribe(ctx, s)
	if err != nil {
		cancel()
		return writeError(c, h.log, err)
	}
	unread, err := h.uc.UnreadCount(c.UserContext(), s)
	if err != nil {
		cancel()
		return writeError(c, h.log, err)
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	log := h.log
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		if err := writeEvent(w, "unread", dto.UnreadCountResponse{Unread: unread}); err != nil {
			return
		}
		ticker := time.NewTicker(keepAliveInterval)
		defer ticker.Stop()
		for {
			select {
			case n, ok := <-ch:
				if !ok {
					return
				}
				unread++
				if err := writeEvent(w, "notification", usecase.ToNotificationResponse(n)); err != nil {
					log.Debug().Err(err).Str("user_id", s.UserID).Msg("sse: cliente desconectado")
					return
				}
				if err := writeEvent(w, "unread", dto.UnreadCountResponse{Unread: unread}); err != nil {
					return
				}
			case <-ticker.C:
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

func writeEvent(w *bufio.Writer, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	return w.Flush()
}
