// Package realtime entrega las notificaciones nuevas a los suscriptores conectados
// (stream SSE) y, opcionalmente, las publica en NATS.
package realtime

import (
	"context"
	"sync"

	"github.com/jhoicas/topmei-api/internal/application/notification"
	"github.com/jhoicas/topmei-api/internal/application/usecase"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/pkg/logger"
)

var (
	_ notification.Publisher     = (*Broker)(nil)
	_ usecase.NotificationStream = (*Broker)(nil)
)

// subscriberBuffer frames pendientes por suscriptor antes de descartar.
const subscriberBuffer = 16

// Broker fan-out en proceso por usuario. El envío nunca bloquea: un suscriptor lento pierde
// frames y vuelve a sincronizar con GET /notifications.
type Broker struct {
	mu     sync.Mutex
	subs   map[string]map[chan *entity.Notification]struct{}
	log    *logger.Logger
	closed bool
}

// NewBroker construye el broker vacío.
func NewBroker(log *logger.Logger) *Broker {
	return &Broker{subs: make(map[string]map[chan *entity.Notification]struct{}), log: log}
}

// Subscribe registra un canal para userID; se cierra y se elimina al terminar ctx.
func (b *Broker) Subscribe(ctx context.Context, userID string) <-chan *entity.Notification {
	ch := make(chan *entity.Notification, subscriberBuffer)
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch
	}
	set, ok := b.subs[userID]
	if !ok {
		set = make(map[chan *entity.Notification]struct{})
		b.subs[userID] = set
	}
	set[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.remove(userID, ch)
	}()
	return ch
}

func (b *Broker) remove(userID string, ch chan *entity.Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	set, ok := b.subs[userID]
	if !ok {
		return
	}
	if _, ok := set[ch]; !ok {
		return
	}
	delete(set, ch)
	close(ch)
	if len(set) == 0 {
		delete(b.subs, userID)
	}
}

// Publish entrega n a los suscriptores de su destinatario.
func (b *Broker) Publish(_ context.Context, n *entity.Notification) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs[n.UserID] {
		select {
		case ch <- n:
		default:
			b.log.Debug().Str("user_id", n.UserID).Str("notification_id", n.ID).Msg("realtime: suscriptor lento, frame descartado")
		}
	}
	return nil
}

// Subscribers conexiones abiertas del usuario.
func (b *Broker) Subscribers(userID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[userID])
}

// Close cierra todos los canales (apagado del servidor).
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for userID, set := range b.subs {
		for ch := range set {
			close(ch)
		}
		delete(b.subs, userID)
	}
}
