package services

import (
	"context"
	"testing"

	"github.com/luckyseats/lottery-backend/internal/apperrors"
	"github.com/luckyseats/lottery-backend/internal/models"
)

func TestNotifications(t *testing.T) {
	ctx := context.Background()

	t.Run("notify, list and mark read", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.createUser(t, 0)

		if err := env.notification.Notify(ctx, user.ID, "Welcome", "Thanks for joining", models.NotificationTypeGeneral); err != nil {
			t.Fatalf("notify: %v", err)
		}
		if err := env.notification.Notify(ctx, user.ID, "You won!", "Seat 5 won", models.NotificationTypeWinner); err != nil {
			t.Fatalf("notify: %v", err)
		}

		list, err := env.notification.UserNotifications(ctx, user.ID, 1, 10)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(list) != 2 {
			t.Fatalf("notifications = %d, want 2", len(list))
		}

		count, err := env.notification.UnreadCount(ctx, user.ID)
		if err != nil {
			t.Fatalf("unread: %v", err)
		}
		if count != 2 {
			t.Fatalf("unread = %d, want 2", count)
		}

		if err := env.notification.MarkRead(ctx, list[0].ID, user.ID); err != nil {
			t.Fatalf("mark read: %v", err)
		}
		count, _ = env.notification.UnreadCount(ctx, user.ID)
		if count != 1 {
			t.Fatalf("unread after read = %d, want 1", count)
		}
	})

	t.Run("cannot read another user's notification", func(t *testing.T) {
		env := newTestEnv(t)
		alice := env.createUser(t, 0)
		bob := env.createUser(t, 0)

		if err := env.notification.Notify(ctx, alice.ID, "Private", "for alice", models.NotificationTypeGeneral); err != nil {
			t.Fatalf("notify: %v", err)
		}
		list, _ := env.notification.UserNotifications(ctx, alice.ID, 1, 10)
		if len(list) != 1 {
			t.Fatalf("notifications = %d, want 1", len(list))
		}

		if err := env.notification.MarkRead(ctx, list[0].ID, bob.ID); !apperrors.Is(err, apperrors.NotFound) {
			t.Fatalf("err = %v, want NotFound", err)
		}
	})
}
