package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/topmei-api/internal/application/auth"
	"github.com/jhoicas/topmei-api/internal/application/dto"
	"github.com/jhoicas/topmei-api/internal/domain"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/domain/repository"
)

// DefaultNotificationLimit cantidad de notificaciones del panel.
const DefaultNotificationLimit = 10

// NotificationUseCase lectura de notificaciones del usuario de la sesión.
type NotificationUseCase struct {
	repo   repository.NotificationRepository
	stream NotificationStream
}

// NewNotificationUseCase construye el caso de uso. stream puede ser nil (sin tiempo real).
func NewNotificationUseCase(repo repository.NotificationRepository, stream NotificationStream) *NotificationUseCase {
	return &NotificationUseCase{repo: repo, stream: stream}
}

// List últimas notificaciones, más recientes primero, con el contador de no leídas.
func (uc *NotificationUseCase) List(ctx context.Context, s auth.Session, limit int) (*dto.NotificationListResponse, error) {
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	list, err := uc.repo.ListByUser(ctx, s.UserID, min(limit, maxLimit))
	if err != nil {
		return nil, err
	}
	unread, err := uc.repo.UnreadCount(ctx, s.UserID)
	if err != nil {
		return nil, err
	}
	out := &dto.NotificationListResponse{Items: make([]dto.NotificationResponse, 0, len(list)), Unread: unread}
	for _, n := range list {
		out.Items = append(out.Items, entityToNotificationResponse(n))
	}
	return out, nil
}

// UnreadCount no leídas del usuario.
func (uc *NotificationUseCase) UnreadCount(ctx context.Context, s auth.Session) (int, error) {
	return uc.repo.UnreadCount(ctx, s.UserID)
}

// MarkRead marca como leída. Idempotente: repetirlo no cambia las fechas de lectura.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, s auth.Session, id string) error {
	ok, err := uc.repo.MarkRead(ctx, id, s.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: notificação %s", domain.ErrNotFound, id)
	}
	return nil
}

// Delete borra una notificación propia; la de otro usuario responde como inexistente.
func (uc *NotificationUseCase) Delete(ctx context.Context, s auth.Session, id string) error {
	ok, err := uc.repo.Delete(ctx, id, s.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: notificação %s", domain.ErrNotFound, id)
	}
	return nil
}

// MarkAllRead marca todas las del usuario y devuelve cuántas cambiaron.
func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, s auth.Session) (int64, error) {
	return uc.repo.MarkAllRead(ctx, s.UserID)
}

// Subscribe canal de notificaciones nuevas del usuario; se cierra al terminar ctx.
func (uc *NotificationUseCase) Subscribe(ctx context.Context, s auth.Session) (<-chan *entity.Notification, error) {
	if uc.stream == nil {
		return nil, fmt.Errorf("%w: tempo real indisponível", domain.ErrUpstream)
	}
	return uc.stream.Subscribe(ctx, s.UserID), nil
}
