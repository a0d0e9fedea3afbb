package notification_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/topmei-api/internal/application/notification"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/infrastructure/memory"
	"github.com/jhoicas/topmei-api/pkg/logger"
)

type recorder struct {
	got []*entity.Notification
	err error
}

func (r *recorder) Publish(_ context.Context, n *entity.Notification) error {
	r.got = append(r.got, n)
	return r.err
}

func TestNotify_OmiteAlActor(t *testing.T) {
	store := memory.New()
	n := notification.NewNotifier(logger.Nop())

	rows, err := n.Notify(context.Background(), store.Repos().Notifications, "actor",
		notification.Message{UserID: "actor", Type: "x"},
		notification.Message{UserID: "dono", Type: entity.NotificationDocumentApproved, Title: "ok"},
		notification.Message{Type: "sem-destino"},
	)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "dono", rows[0].UserID)
	assert.False(t, rows[0].Read)

	count, err := store.Repos().Notifications.UnreadCount(context.Background(), "dono")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPublish_ErroresNoSePropagan(t *testing.T) {
	failing := &recorder{err: errors.New("nats caído")}
	ok := &recorder{}
	n := notification.NewNotifier(logger.Nop(), failing, ok)

	rows := []*entity.Notification{{ID: "1", UserID: "u"}, {ID: "2", UserID: "u"}}
	n.Publish(context.Background(), rows)

	assert.Len(t, failing.got, 2)
	assert.Len(t, ok.got, 2, "un publicador caído no impide a los demás")
}

func TestNotify_ErrorDeInsercion(t *testing.T) {
	store := memory.New()
	store.FailOn("notifications.create", errors.New("db"))
	n := notification.NewNotifier(logger.Nop())

	_, err := n.Notify(context.Background(), store.Repos().Notifications, "a", notification.Message{UserID: "b", Type: "t"})
	assert.Error(t, err)
}
