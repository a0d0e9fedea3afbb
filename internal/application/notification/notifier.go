// Package notification inserta notificaciones junto con la escritura que las origina y,
// tras el commit, las empuja a los publicadores (broker en memoria, NATS).
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/domain/repository"
	"github.com/jhoicas/topmei-api/pkg/logger"
)

// Publisher destino de las notificaciones ya persistidas.
type Publisher interface {
	Publish(ctx context.Context, n *entity.Notification) error
}

// Message notificación a crear.
type Message struct {
	UserID string
	Type   string
	Title  string
	Text   string
	Link   string
}

// Notifier crea y publica notificaciones. Los fallos de publicación se registran y nunca se devuelven.
type Notifier struct {
	publishers []Publisher
	log        *logger.Logger
	now        func() time.Time
}

// NewNotifier construye el notifier con los publicadores indicados (pueden ser cero).
func NewNotifier(log *logger.Logger, publishers ...Publisher) *Notifier {
	return &Notifier{publishers: publishers, log: log, now: time.Now}
}

// Notify inserta una fila por mensaje con el repo recibido (el de la transacción del llamador).
// Se omiten los mensajes cuyo destinatario es el propio actor o que no tienen destinatario.
func (n *Notifier) Notify(ctx context.Context, repo repository.NotificationRepository, actorID string, msgs ...Message) ([]*entity.Notification, error) {
	var created []*entity.Notification
	for _, m := range msgs {
		if m.UserID == "" || m.UserID == actorID {
			continue
		}
		row := &entity.Notification{
			ID:        uuid.New().String(),
			UserID:    m.UserID,
			Type:      m.Type,
			Title:     m.Title,
			Message:   m.Text,
			Link:      m.Link,
			CreatedAt: n.now(),
		}
		if err := repo.Create(ctx, row); err != nil {
			return nil, fmt.Errorf("notificação %s: %w", m.Type, err)
		}
		created = append(created, row)
	}
	return created, nil
}

// Publish empuja las notificaciones ya confirmadas. Llamar sólo después del commit.
func (n *Notifier) Publish(ctx context.Context, list []*entity.Notification) {
	for _, row := range list {
		for _, p := range n.publishers {
			if err := p.Publish(ctx, row); err != nil {
				n.log.Warn().Err(err).
					Str("notification_id", row.ID).
					Str("type", row.Type).
					Msg("notification: falha ao publicar (não fatal)")
			}
		}
	}
}
