package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/jhoicas/topmei-api/internal/application/notification"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/pkg/logger"
)

var _ notification.Publisher = (*NATSPublisher)(nil)

// NATSPublisher publica cada notificación en <prefix>.<tipo> para consumidores externos.
// Los errores se devuelven al Notifier, que sólo los registra.
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
	log    *logger.Logger
}

// Event esquema JSON publicado.
type Event struct {
	EventType  string    `json:"event_type"`
	ID         string    `json:"id"`
	Recipients []string  `json:"recipients"`
	Title      string    `json:"title"`
	Message    string    `json:"message,omitempty"`
	ActionURL  string    `json:"action_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ConnectNATS abre la conexión con reconexión ilimitada.
func ConnectNATS(url, name string, log *logger.Logger) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("nats: desconectado")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrl()).Msg("nats: reconectado")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("conectar nats: %w", err)
	}
	return conn, nil
}

// NewNATSPublisher construye el publicador sobre una conexión abierta.
func NewNATSPublisher(conn *nats.Conn, prefix string, log *logger.Logger) *NATSPublisher {
	return &NATSPublisher{conn: conn, prefix: prefix, log: log}
}

// Subject asunto para un tipo de notificación.
func (p *NATSPublisher) Subject(eventType string) string {
	return fmt.Sprintf("%s.%s", p.prefix, eventType)
}

// Publish serializa y publica la notificación.
func (p *NATSPublisher) Publish(_ context.Context, n *entity.Notification) error {
	if p.conn == nil {
		return nil
	}
	data, err := json.Marshal(Event{
		EventType:  n.Type,
		ID:         n.ID,
		Recipients: []string{n.UserID},
		Title:      n.Title,
		Message:    n.Message,
		ActionURL:  n.Link,
		CreatedAt:  n.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("serializar evento: %w", err)
	}
	subject := p.Subject(n.Type)
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publicar %s: %w", subject, err)
	}
	p.log.Debug().Str("subject", subject).Str("notification_id", n.ID).Msg("notification: evento publicado")
	return nil
}
