package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo tabla notificacao.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador. Pasar pool o tx.
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

const notificationColumns = `id, user_id, tipo, titulo, mensagem, link, lida, data_leitura, visualizado, dt_visualizacao, created_at`

func scanNotification(row pgx.Row) (*entity.Notification, error) {
	var n entity.Notification
	err := row.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Link, &n.Read, &n.ReadAt, &n.Viewed, &n.ViewedAt, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Create inserta la notificación.
func (r *NotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	_, err := r.q.Exec(ctx, `INSERT INTO notificacao (`+notificationColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		n.ID, n.UserID, n.Type, n.Title, n.Message, n.Link, n.Read, n.ReadAt, n.Viewed, n.ViewedAt, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notificacao: %w", err)
	}
	return nil
}

// ListByUser últimas notificaciones del usuario.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Notification, error) {
	rows, err := r.q.Query(ctx, `SELECT `+notificationColumns+` FROM notificacao WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notificacao: %w", err)
	}
	return collect(rows, scanNotification)
}

// UnreadCount no leídas del usuario.
func (r *NotificationRepo) UnreadCount(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM notificacao WHERE user_id = $1 AND NOT lida`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count notificacao: %w", err)
	}
	return n, nil
}

// MarkRead fija lida/visualizado; COALESCE conserva las fechas de la primera lectura.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID string) (bool, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE notificacao
		SET lida = TRUE, data_leitura = COALESCE(data_leitura, NOW()),
		    visualizado = TRUE, dt_visualizacao = COALESCE(dt_visualizacao, NOW())
		WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("mark notificacao: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// MarkAllRead marca las no leídas del usuario.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE notificacao
		SET lida = TRUE, data_leitura = COALESCE(data_leitura, NOW()),
		    visualizado = TRUE, dt_visualizacao = COALESCE(dt_visualizacao, NOW())
		WHERE user_id = $1 AND NOT lida`, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all notificacao: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// Delete borra la notificación sólo si pertenece al usuario.
func (r *NotificationRepo) Delete(ctx context.Context, id, userID string) (bool, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM notificacao WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete notificacao: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}
