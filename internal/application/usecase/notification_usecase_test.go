package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/topmei-api/internal/application/usecase"
	"github.com/jhoicas/topmei-api/internal/domain"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
)

func seedNotifications(t *testing.T, f *fixture, userID string, n int) []*entity.Notification {
	t.Helper()
	base := time.Now().Add(-time.Hour)
	out := make([]*entity.Notification, 0, n)
	for i := 0; i < n; i++ {
		row := &entity.Notification{
			ID:        fmt.Sprintf("n-%s-%02d", userID, i),
			UserID:    userID,
			Type:      entity.NotificationDocumentApproved,
			Title:     "Documento aprovado",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, f.store.Repos().Notifications.Create(context.Background(), row))
		out = append(out, row)
	}
	return out
}

func TestMarkRead_Idempotente(t *testing.T) {
	f := newFixture(t)
	uc := usecase.NewNotificationUseCase(f.store.Repos().Notifications, nil)
	ctx := context.Background()
	rows := seedNotifications(t, f, owner.UserID, 2)

	require.NoError(t, uc.MarkRead(ctx, owner, rows[0].ID))
	first, err := uc.List(ctx, owner, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Unread)

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, uc.MarkRead(ctx, owner, rows[0].ID))
	second, err := uc.List(ctx, owner, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Unread, "marcar duas vezes não altera o contador")

	var readAt1, readAt2 *time.Time
	for _, n := range first.Items {
		if n.ID == rows[0].ID {
			readAt1 = n.ReadAt
		}
	}
	for _, n := range second.Items {
		if n.ID == rows[0].ID {
			readAt2 = n.ReadAt
		}
	}
	require.NotNil(t, readAt1)
	require.NotNil(t, readAt2)
	assert.True(t, readAt1.Equal(*readAt2), "data de leitura fixada na primeira vez")

	changed, err := uc.MarkAllRead(ctx, owner)
	require.NoError(t, err)
	assert.EqualValues(t, 1, changed)
	unread, err := uc.UnreadCount(ctx, owner)
	require.NoError(t, err)
	assert.Zero(t, unread)

	changed, err = uc.MarkAllRead(ctx, owner)
	require.NoError(t, err)
	assert.Zero(t, changed)
	unread, err = uc.UnreadCount(ctx, owner)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, unread, 0)
}

func TestMarkRead_NotificacaoDeOutroUsuario(t *testing.T) {
	f := newFixture(t)
	uc := usecase.NewNotificationUseCase(f.store.Repos().Notifications, nil)
	rows := seedNotifications(t, f, owner.UserID, 1)

	err := uc.MarkRead(context.Background(), otherOwner, rows[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	unread, err := uc.UnreadCount(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, 1, unread)
}

func TestListNotifications_UltimasDezPrimeiro(t *testing.T) {
	f := newFixture(t)
	uc := usecase.NewNotificationUseCase(f.store.Repos().Notifications, nil)
	rows := seedNotifications(t, f, owner.UserID, 12)

	out, err := uc.List(context.Background(), owner, 0)
	require.NoError(t, err)
	require.Len(t, out.Items, usecase.DefaultNotificationLimit)
	assert.Equal(t, rows[11].ID, out.Items[0].ID)
	assert.Equal(t, 12, out.Unread)

	_, err = uc.Subscribe(context.Background(), owner)
	assert.ErrorIs(t, err, domain.ErrUpstream)
}
