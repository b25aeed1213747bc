package services

import (
	"context"
	"log/slog"

	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/models"
	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/domain/repositories"
)

// lowCreditThreshold triggers a warning notification after a commit.
const lowCreditThreshold = 5

type NotificationService interface {
	List(ctx context.Context, userID int64) ([]*models.Notification, error)
	Unread(ctx context.Context, userID int64) ([]*models.Notification, error)
	MarkRead(ctx context.Context, userID int64, ids []int64) error
	Delete(ctx context.Context, userID int64, id int64) error
	Clear(ctx context.Context, userID int64) error
	// NotifyLowCredits emits at most a log error on failure; it must never
	// affect the request that triggered it.
	NotifyLowCredits(ctx context.Context, userID int64, remaining int)
}

type notificationService struct {
	repo   repositories.NotificationRepository
	logger *slog.Logger
}

func NewNotificationService(repo repositories.NotificationRepository, logger *slog.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

func (s *notificationService) List(ctx context.Context, userID int64) ([]*models.Notification, error) {
	return s.repo.List(ctx, userID, false)
}

func (s *notificationService) Unread(ctx context.Context, userID int64) ([]*models.Notification, error) {
	return s.repo.List(ctx, userID, true)
}

func (s *notificationService) MarkRead(ctx context.Context, userID int64, ids []int64) error {
	return s.repo.MarkRead(ctx, userID, ids)
}

func (s *notificationService) Delete(ctx context.Context, userID int64, id int64) error {
	return s.repo.Delete(ctx, userID, id)
}

func (s *notificationService) Clear(ctx context.Context, userID int64) error {
	return s.repo.Clear(ctx, userID)
}

func (s *notificationService) NotifyLowCredits(ctx context.Context, userID int64, remaining int) {
	if remaining > lowCreditThreshold {
		return
	}
	n := &models.Notification{
		UserID:   userID,
		Type:     models.NotificationWarning,
		Title:    "Credits running low",
		Message:  "Your credit balance is almost exhausted. Top up to keep using paid apps.",
		Category: "credits",
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("failed to create low-credit notification", "user_id", userID, "error", err)
	}
}
