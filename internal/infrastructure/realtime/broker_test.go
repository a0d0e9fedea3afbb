package realtime_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/infrastructure/realtime"
	"github.com/jhoicas/topmei-api/pkg/logger"
)

func TestBroker_EntregaSoloAlDestinatario(t *testing.T) {
	b := realtime.NewBroker(logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mine := b.Subscribe(ctx, "cliente-1")
	other := b.Subscribe(ctx, "cliente-2")

	require.NoError(t, b.Publish(ctx, &entity.Notification{ID: "n1", UserID: "cliente-1", Type: entity.NotificationCompanyApproved}))

	select {
	case n := <-mine:
		assert.Equal(t, "n1", n.ID)
	case <-time.After(time.Second):
		t.Fatal("notificação não entregue")
	}
	select {
	case n := <-other:
		t.Fatalf("entregue ao usuário errado: %v", n)
	default:
	}
}

func TestBroker_NoBloqueaConSuscriptorLento(t *testing.T) {
	b := realtime.NewBroker(logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_ = b.Subscribe(ctx, "cliente-1")

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			_ = b.Publish(ctx, &entity.Notification{ID: "n", UserID: "cliente-1"})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish bloqueou")
	}
}

func TestBroker_CierraAlCancelar(t *testing.T) {
	b := realtime.NewBroker(logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	ch := b.Subscribe(ctx, "cliente-1")
	assert.Equal(t, 1, b.Subscribers("cliente-1"))

	cancel()
	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("canal não foi fechado")
	}
	assert.Eventually(t, func() bool { return b.Subscribers("cliente-1") == 0 }, time.Second, 10*time.Millisecond)
}

func TestNATSPublisher_Subject(t *testing.T) {
	p := realtime.NewNATSPublisher(nil, "notifications.topmei", logger.Nop())
	assert.Equal(t, "notifications.topmei.nfse_emitida", p.Subject(entity.NotificationInvoiceIssued))
	assert.NoError(t, p.Publish(context.Background(), &entity.Notification{Type: entity.NotificationInvoiceIssued}))
}
