package repository

import (
	"context"

	"github.com/jhoicas/topmei-api/internal/domain/entity"
)

// NotificationRepository notificaciones por usuario.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	// MarkRead marca una notificación del usuario. Las fechas de lectura sólo se fijan la primera vez.
	// Devuelve false si no existe o pertenece a otro usuario.
	MarkRead(ctx context.Context, id, userID string) (bool, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	// Delete borra una notificación del usuario. false si no existe o pertenece a otro usuario.
	Delete(ctx context.Context, id, userID string) (bool, error)
}
