package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/tourify/tourify/internal/model"
	"github.com/tourify/tourify/internal/utils"
)

// ErrShareNotFound is returned when no share descriptor matches a lookup.
var ErrShareNotFound = errors.New("share not found")

// ShareRepo persists the one-per-tour share descriptors. The share token is
// generated here on first request and never changes afterwards; callers
// toggle visibility and password through Upsert.
type ShareRepo struct {
	db *sql.DB
}

// NewShareRepo constructs a ShareRepo with the given DB handle.
func NewShareRepo(db *sql.DB) *ShareRepo {
	return &ShareRepo{db: db}
}

// GetByTourID fetches the descriptor belonging to a tour.
func (r *ShareRepo) GetByTourID(ctx context.Context, tourID uint64) (*model.ShareDescriptor, error) {
	const q = `SELECT id, tour_id, share_id, is_public, password_hash, expires_at, created_at, updated_at
	           FROM tour_shares WHERE tour_id = ?`
	return scanShare(r.db.QueryRowContext(ctx, q, tourID))
}

// GetByShareID fetches a descriptor by its public token. Used by the
// unauthenticated viewer path.
func (r *ShareRepo) GetByShareID(ctx context.Context, shareID string) (*model.ShareDescriptor, error) {
	const q = `SELECT id, tour_id, share_id, is_public, password_hash, expires_at, created_at, updated_at
	           FROM tour_shares WHERE share_id = ?`
	return scanShare(r.db.QueryRowContext(ctx, q, shareID))
}

// GetOrCreate returns the tour's descriptor, creating one with a fresh
// random token and is_public=false when none exists yet. Calling it twice
// returns the same token both times. A concurrent create racing on the
// unique tour_id column is resolved by re-reading the winner's row.
func (r *ShareRepo) GetOrCreate(ctx context.Context, tourID uint64) (*model.ShareDescriptor, error) {
	d, err := r.GetByTourID(ctx, tourID)
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, ErrShareNotFound) {
		return nil, err
	}

	token, err := utils.NewShareToken()
	if err != nil {
		return nil, err
	}
	const qInsert = `INSERT INTO tour_shares (tour_id, share_id, is_public) VALUES (?, ?, FALSE)`
	if _, err := r.db.ExecContext(ctx, qInsert, tourID, token); err != nil {
		if strings.Contains(err.Error(), "1062") { // lost the race, another request created it
			return r.GetByTourID(ctx, tourID)
		}
		return nil, err
	}
	return r.GetByTourID(ctx, tourID)
}

// Upsert sets visibility, password hash and expiry on the tour's
// descriptor, creating it first when needed. A nil passwordHash clears any
// stored hash; a nil expiresAt clears the expiry. The token is left alone.
func (r *ShareRepo) Upsert(ctx context.Context, tourID uint64, isPublic bool, passwordHash *string, expiresAt *time.Time) (*model.ShareDescriptor, error) {
	if _, err := r.GetOrCreate(ctx, tourID); err != nil {
		return nil, err
	}
	const q = `UPDATE tour_shares
	           SET is_public = ?, password_hash = ?, expires_at = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE tour_id = ?`
	if _, err := r.db.ExecContext(ctx, q, isPublic, nullString(passwordHash), nullTime(expiresAt), tourID); err != nil {
		return nil, err
	}
	return r.GetByTourID(ctx, tourID)
}

// scanShare scans one descriptor row, mapping sql.ErrNoRows to
// ErrShareNotFound.
func scanShare(row *sql.Row) (*model.ShareDescriptor, error) {
	var (
		d    model.ShareDescriptor
		hash sql.NullString
		exp  sql.NullTime
	)
	err := row.Scan(&d.ID, &d.TourID, &d.ShareID, &d.IsPublic, &hash, &exp, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShareNotFound
		}
		return nil, err
	}
	if hash.Valid {
		d.PasswordHash = &hash.String
	}
	if exp.Valid {
		d.ExpiresAt = &exp.Time
	}
	return &d, nil
}

// nullTime maps an optional time to its SQL representation.
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
