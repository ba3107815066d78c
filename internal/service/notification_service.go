package service

import (
	"context"

	"github.com/fundwatch/fund-monitor-backend/internal/api/request"
	"github.com/fundwatch/fund-monitor-backend/internal/apperrors"
	"github.com/fundwatch/fund-monitor-backend/internal/model"
	"github.com/fundwatch/fund-monitor-backend/internal/repository"
)

// NotificationService manages per-user delivery targets and the push
// history. Webhook URLs are encrypted before they reach the repository.
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	cipher           *SecretCipher
}

// NewNotificationService creates a new NotificationService with the provided dependencies.
func NewNotificationService(notificationRepo *repository.NotificationRepository, cipher *SecretCipher) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		cipher:           cipher,
	}
}

// SaveSetting creates or replaces the user's delivery target.
func (s *NotificationService) SaveSetting(ctx context.Context, userID string, req request.NotificationSettingRequest) error {
	if userID == "" {
		return apperrors.ErrNotAuthenticated
	}

	encrypted, err := s.cipher.Encrypt(req.WebhookURL)
	if err != nil {
		return err
	}

	return s.notificationRepo.UpsertSetting(ctx, userID, req.Channel, encrypted)
}

// GetSetting returns the user's delivery target with the webhook
// decrypted.
func (s *NotificationService) GetSetting(ctx context.Context, userID string) (model.NotificationSetting, error) {
	if userID == "" {
		return model.NotificationSetting{}, apperrors.ErrNotAuthenticated
	}

	setting, err := s.notificationRepo.GetSetting(ctx, userID)
	if err != nil {
		return model.NotificationSetting{}, err
	}

	setting.WebhookURL, err = s.cipher.Decrypt(setting.WebhookURL)
	if err != nil {
		return model.NotificationSetting{}, err
	}

	return setting, nil
}

// ListPushLogs returns the user's recent delivery attempts.
func (s *NotificationService) ListPushLogs(ctx context.Context, userID string, limit int) ([]model.PushLog, error) {
	if userID == "" {
		return nil, apperrors.ErrNotAuthenticated
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	return s.notificationRepo.ListPushLogs(ctx, userID, limit)
}
