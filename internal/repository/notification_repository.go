package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/fundwatch/fund-monitor-backend/internal/apperrors"
	"github.com/fundwatch/fund-monitor-backend/internal/model"
)

// NotificationRepository provides data access for the notification_setting
// and push_log tables. The webhook_url column holds ciphertext; encryption
// and decryption live in the service layer.
type NotificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a new NotificationRepository with the provided database connection.
func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// UpsertSetting creates or replaces a user's delivery target. One setting
// per user, keyed by the user_id UNIQUE constraint.
func (r *NotificationRepository) UpsertSetting(ctx context.Context, userID, channel, encryptedWebhook string) error {
	query := `
        INSERT INTO notification_setting (id, user_id, channel, webhook_url)
        VALUES (?, ?, ?, ?)
        ON CONFLICT (user_id) DO UPDATE
        SET channel = excluded.channel, webhook_url = excluded.webhook_url, updated_at = CURRENT_TIMESTAMP
    `

	_, err := r.db.ExecContext(ctx, query, uuid.New().String(), userID, channel, encryptedWebhook)
	if err != nil {
		return fmt.Errorf("failed to upsert notification_setting: %w", err)
	}

	return nil
}

// GetSetting retrieves a user's delivery target. The returned setting
// carries the encrypted webhook; callers decrypt.
func (r *NotificationRepository) GetSetting(ctx context.Context, userID string) (model.NotificationSetting, error) {
	query := `
        SELECT id, user_id, channel, webhook_url, created_at, updated_at
        FROM notification_setting
        WHERE user_id = ?
    `

	var s model.NotificationSetting
	var createdAt, updatedAt string

	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&s.ID,
		&s.UserID,
		&s.Channel,
		&s.WebhookURL,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return model.NotificationSetting{}, apperrors.ErrNotificationSettingNotFound
	}
	if err != nil {
		return model.NotificationSetting{}, fmt.Errorf("failed to query notification_setting: %w", err)
	}

	if s.CreatedAt, err = ParseTime(createdAt); err != nil {
		return model.NotificationSetting{}, err
	}
	if s.UpdatedAt, err = ParseTime(updatedAt); err != nil {
		return model.NotificationSetting{}, err
	}

	return s, nil
}

// InsertPushLog records one delivery attempt.
func (r *NotificationRepository) InsertPushLog(ctx context.Context, entry model.PushLog) error {
	query := `
        INSERT INTO push_log (id, user_id, rule_id, fund_code, triggered, message, delivery_error)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `

	var deliveryError any
	if entry.DeliveryError != "" {
		deliveryError = entry.DeliveryError
	}

	_, err := r.db.ExecContext(ctx, query,
		uuid.New().String(),
		entry.UserID,
		entry.RuleID,
		entry.FundCode,
		entry.Triggered,
		entry.Message,
		deliveryError,
	)
	if err != nil {
		return fmt.Errorf("failed to insert push_log: %w", err)
	}

	return nil
}

// ListPushLogs returns a user's most recent delivery attempts, newest
// first, capped at limit.
func (r *NotificationRepository) ListPushLogs(ctx context.Context, userID string, limit int) ([]model.PushLog, error) {
	query := `
        SELECT id, user_id, rule_id, fund_code, triggered, message, delivery_error, created_at
        FROM push_log
        WHERE user_id = ?
        ORDER BY created_at DESC
        LIMIT ?
    `

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query push_log: %w", err)
	}
	defer rows.Close()

	logs := []model.PushLog{}

	for rows.Next() {
		var l model.PushLog
		var deliveryError sql.NullString
		var createdAt string

		err := rows.Scan(
			&l.ID,
			&l.UserID,
			&l.RuleID,
			&l.FundCode,
			&l.Triggered,
			&l.Message,
			&deliveryError,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan push_log row: %w", err)
		}

		if deliveryError.Valid {
			l.DeliveryError = deliveryError.String
		}
		if l.CreatedAt, err = ParseTime(createdAt); err != nil {
			return nil, err
		}

		logs = append(logs, l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating push_log: %w", err)
	}

	return logs, nil
}
