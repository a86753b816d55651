package services

import (
	"context"
	"errors"
	"time"

	"golang.org/x/exp/slog"

	"github.com/luckyseats/lottery-backend/internal/apperrors"
	"github.com/luckyseats/lottery-backend/internal/models"
	"github.com/luckyseats/lottery-backend/internal/repositories"
	"github.com/luckyseats/lottery-backend/pkg/mailgateway"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationServiceImpl implements NotificationService. Every
// notification is persisted in-app; mail delivery is best effort on top.
type NotificationServiceImpl struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	mail             mailgateway.Gateway
	logger           *slog.Logger
}

// NewNotificationService creates a new notification service.
func NewNotificationService(notificationRepo repositories.NotificationRepository, userRepo repositories.UserRepository, mail mailgateway.Gateway, logger *slog.Logger) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		mail:             mail,
		logger:           logger,
	}
}

var _ NotificationService = (*NotificationServiceImpl)(nil)

// Notify persists an in-app notification and, for notification types a user
// cares about urgently, mirrors it to mail. Mail failures never fail the
// notification.
func (s *NotificationServiceImpl) Notify(ctx context.Context, userID primitive.ObjectID, title, message, notificationType string) error {
	notification := &models.Notification{
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      notificationType,
		CreatedAt: time.Now(),
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return apperrors.Wrap(apperrors.Internal, err, "failed to store notification")
	}

	if notificationType == models.NotificationTypeWinner || notificationType == models.NotificationTypeWithdrawal {
		user, err := s.userRepo.FindByID(ctx, userID)
		if err != nil {
			s.logger.Warn("notification mail skipped, user lookup failed", "userId", userID.Hex(), "error", err)
			return nil
		}
		if err := s.mail.SendMail(ctx, user.Email, title, message); err != nil {
			s.logger.Warn("notification mail failed", "userId", userID.Hex(), "error", err)
		}
	}
	return nil
}

// UserNotifications pages through the user's notifications, including
// broadcasts, newest first.
func (s *NotificationServiceImpl) UserNotifications(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.Notification, error) {
	notifications, err := s.notificationRepo.FindByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, err, "failed to fetch notifications")
	}
	return notifications, nil
}

// MarkRead marks one of the user's notifications as read.
func (s *NotificationServiceImpl) MarkRead(ctx context.Context, id, userID primitive.ObjectID) error {
	if err := s.notificationRepo.MarkRead(ctx, id, userID, time.Now()); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.Wrap(apperrors.NotFound, err, "notification not found")
		}
		return apperrors.Wrap(apperrors.Internal, err, "failed to mark notification read")
	}
	return nil
}

// UnreadCount counts the user's unread notifications.
func (s *NotificationServiceImpl) UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	count, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.Internal, err, "failed to count unread notifications")
	}
	return count, nil
}
