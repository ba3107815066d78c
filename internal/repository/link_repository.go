package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/fundwatch/fund-monitor-backend/internal/apperrors"
	"github.com/fundwatch/fund-monitor-backend/internal/model"
)

// linkTables maps a link type to its table. Table names never come from
// user input.
var linkTables = map[model.LinkType]string{
	model.LinkFavorite: "favorite_fund",
	model.LinkMonitor:  "monitor_fund",
}

// LinkRepository provides data access for one of the two user-fund link
// tables (favorites or monitors). Both tables have identical shape, so a
// single repository serves either, selected at construction time.
type LinkRepository struct {
	db    *sql.DB
	table string
}

// NewLinkRepository creates a LinkRepository over the table for linkType.
func NewLinkRepository(db *sql.DB, linkType model.LinkType) *LinkRepository {
	table, ok := linkTables[linkType]
	if !ok {
		panic(fmt.Sprintf("unknown link type %q", linkType))
	}
	return &LinkRepository{db: db, table: table}
}

// Insert creates a link for (userID, fundCode) with a server-assigned id
// and timestamp. A second insert for the same pair violates the composite
// UNIQUE constraint and returns apperrors.ErrDuplicateLink; there is no
// read-before-write gap.
func (r *LinkRepository) Insert(ctx context.Context, userID, fundCode string) (model.FundLink, error) {
	link := model.FundLink{
		ID:       uuid.New().String(),
		UserID:   userID,
		FundCode: fundCode,
	}

	//#nosec G201 -- Safe: table name comes from the fixed linkTables map
	query := fmt.Sprintf(`
        INSERT INTO %s (id, user_id, fund_code)
        VALUES (?, ?, ?)
    `, r.table)

	_, err := r.db.ExecContext(ctx, query, link.ID, link.UserID, link.FundCode)
	if isUniqueViolation(err) {
		return model.FundLink{}, apperrors.ErrDuplicateLink
	}
	if err != nil {
		return model.FundLink{}, fmt.Errorf("failed to insert %s link: %w", r.table, err)
	}

	return link, nil
}

// Delete removes the link for (userID, fundCode). Deleting a non-existent
// link is a no-op success.
func (r *LinkRepository) Delete(ctx context.Context, userID, fundCode string) error {
	//#nosec G201 -- Safe: table name comes from the fixed linkTables map
	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = ? AND fund_code = ?`, r.table)

	if _, err := r.db.ExecContext(ctx, query, userID, fundCode); err != nil {
		return fmt.Errorf("failed to delete %s link: %w", r.table, err)
	}

	return nil
}

// List returns all links for a user, newest first, each carrying its
// created_at for "favorited since" display.
func (r *LinkRepository) List(ctx context.Context, userID string) ([]model.FundLink, error) {
	//#nosec G201 -- Safe: table name comes from the fixed linkTables map
	query := fmt.Sprintf(`
        SELECT id, user_id, fund_code, created_at
        FROM %s
        WHERE user_id = ?
        ORDER BY created_at DESC
    `, r.table)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", r.table, err)
	}
	defer rows.Close()

	links := []model.FundLink{}

	for rows.Next() {
		var l model.FundLink
		var createdAt string

		if err := rows.Scan(&l.ID, &l.UserID, &l.FundCode, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", r.table, err)
		}

		l.CreatedAt, err = ParseTime(createdAt)
		if err != nil {
			return nil, err
		}

		links = append(links, l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", r.table, err)
	}

	return links, nil
}

// Exists reports whether a link exists for (userID, fundCode).
func (r *LinkRepository) Exists(ctx context.Context, userID, fundCode string) (bool, error) {
	//#nosec G201 -- Safe: table name comes from the fixed linkTables map
	query := fmt.Sprintf(`SELECT 1 FROM %s WHERE user_id = ? AND fund_code = ?`, r.table)

	var one int
	err := r.db.QueryRowContext(ctx, query, userID, fundCode).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check %s link: %w", r.table, err)
	}

	return true, nil
}

// Codes returns the set of fund codes the user has linked, for the
// reconciliation lookup.
func (r *LinkRepository) Codes(ctx context.Context, userID string) (map[string]bool, error) {
	links, err := r.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	codes := make(map[string]bool, len(links))
	for _, l := range links {
		codes[l.FundCode] = true
	}
	return codes, nil
}
