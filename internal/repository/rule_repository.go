package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/fundwatch/fund-monitor-backend/internal/apperrors"
	"github.com/fundwatch/fund-monitor-backend/internal/model"
)

// RuleRepository provides data access for the monitor_rule table.
type RuleRepository struct {
	db *sql.DB
}

// NewRuleRepository creates a new RuleRepository with the provided database connection.
func NewRuleRepository(db *sql.DB) *RuleRepository {
	return &RuleRepository{db: db}
}

// Insert creates a new rule with a server-assigned id.
func (r *RuleRepository) Insert(ctx context.Context, rule model.MonitorRule) (model.MonitorRule, error) {
	rule.ID = uuid.New().String()

	query := `
        INSERT INTO monitor_rule (id, user_id, fund_code, rule_name, rise_threshold, net_worth_threshold, push_time)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `

	_, err := r.db.ExecContext(ctx, query,
		rule.ID,
		rule.UserID,
		rule.FundCode,
		rule.RuleName,
		rule.RiseThreshold,
		rule.NetWorthThreshold,
		rule.PushTime,
	)
	if err != nil {
		return model.MonitorRule{}, fmt.Errorf("failed to insert monitor_rule: %w", err)
	}

	return rule, nil
}

// Update replaces the thresholds, name, and push time of an existing rule.
// The row must belong to rule.UserID; updating someone else's rule is a
// not-found, not a silent overwrite.
func (r *RuleRepository) Update(ctx context.Context, rule model.MonitorRule) error {
	query := `
        UPDATE monitor_rule
        SET rule_name = ?, rise_threshold = ?, net_worth_threshold = ?, push_time = ?, updated_at = CURRENT_TIMESTAMP
        WHERE id = ? AND user_id = ?
    `

	result, err := r.db.ExecContext(ctx, query,
		rule.RuleName,
		rule.RiseThreshold,
		rule.NetWorthThreshold,
		rule.PushTime,
		rule.ID,
		rule.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update monitor_rule: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrRuleNotFound
	}

	return nil
}

// Get retrieves one rule by id.
func (r *RuleRepository) Get(ctx context.Context, ruleID string) (model.MonitorRule, error) {
	query := `
        SELECT id, user_id, fund_code, rule_name, rise_threshold, net_worth_threshold, push_time, created_at, updated_at
        FROM monitor_rule
        WHERE id = ?
    `

	rule, err := scanRule(r.db.QueryRowContext(ctx, query, ruleID))
	if err == sql.ErrNoRows {
		return model.MonitorRule{}, apperrors.ErrRuleNotFound
	}
	if err != nil {
		return model.MonitorRule{}, fmt.Errorf("failed to query monitor_rule: %w", err)
	}

	return rule, nil
}

// ListByUser returns a user's rules, optionally narrowed to one fund code.
func (r *RuleRepository) ListByUser(ctx context.Context, userID, fundCode string) ([]model.MonitorRule, error) {
	query := `
        SELECT id, user_id, fund_code, rule_name, rise_threshold, net_worth_threshold, push_time, created_at, updated_at
        FROM monitor_rule
        WHERE user_id = ?
    `
	args := []any{userID}

	if fundCode != "" {
		query += ` AND fund_code = ?`
		args = append(args, fundCode)
	}

	query += ` ORDER BY created_at DESC`

	return r.queryRules(ctx, query, args...)
}

// ListByPushTime returns every rule across all users whose push_time
// equals hhmm. The scheduler calls this once a minute.
func (r *RuleRepository) ListByPushTime(ctx context.Context, hhmm string) ([]model.MonitorRule, error) {
	query := `
        SELECT id, user_id, fund_code, rule_name, rise_threshold, net_worth_threshold, push_time, created_at, updated_at
        FROM monitor_rule
        WHERE push_time = ?
    `

	return r.queryRules(ctx, query, hhmm)
}

// Delete removes a rule scoped to its owner. Deleting a non-existent rule
// is a no-op success.
func (r *RuleRepository) Delete(ctx context.Context, userID, ruleID string) error {
	query := `DELETE FROM monitor_rule WHERE id = ? AND user_id = ?`

	if _, err := r.db.ExecContext(ctx, query, ruleID, userID); err != nil {
		return fmt.Errorf("failed to delete monitor_rule: %w", err)
	}

	return nil
}

func (r *RuleRepository) queryRules(ctx context.Context, query string, args ...any) ([]model.MonitorRule, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query monitor_rule: %w", err)
	}
	defer rows.Close()

	rules := []model.MonitorRule{}

	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan monitor_rule row: %w", err)
		}
		rules = append(rules, rule)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monitor_rule: %w", err)
	}

	return rules, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRule(row rowScanner) (model.MonitorRule, error) {
	var rule model.MonitorRule
	var rise, netWorth sql.NullFloat64
	var pushTime sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(
		&rule.ID,
		&rule.UserID,
		&rule.FundCode,
		&rule.RuleName,
		&rise,
		&netWorth,
		&pushTime,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return model.MonitorRule{}, err
	}

	if rise.Valid {
		rule.RiseThreshold = &rise.Float64
	}
	if netWorth.Valid {
		rule.NetWorthThreshold = &netWorth.Float64
	}
	if pushTime.Valid {
		rule.PushTime = &pushTime.String
	}

	if rule.CreatedAt, err = ParseTime(createdAt); err != nil {
		return model.MonitorRule{}, err
	}
	if rule.UpdatedAt, err = ParseTime(updatedAt); err != nil {
		return model.MonitorRule{}, err
	}

	return rule, nil
}
