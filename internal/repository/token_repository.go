package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/library-management/internal/model"
)

// TokenRepo is the revocation ledger: one row per issued token, keyed by
// the token id (jti). Rows are appended at issuance and only ever
// flipped to revoked; a revoked id never becomes active again.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Record inserts a new active ledger entry.
func (r *TokenRepo) Record(ctx context.Context, t model.Token) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO tokens (id, user_id, kind, issued_at, expires_at) VALUES (?,?,?,?,?)",
		t.ID, t.UserID, t.Kind, t.IssuedAt, t.ExpiresAt)
	return err
}

// Revoke marks one entry revoked. Idempotent: the WHERE clause makes a
// repeat call a no-op, and concurrent calls commute.
func (r *TokenRepo) Revoke(ctx context.Context, tokenID string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE tokens SET revoked_at=UTC_TIMESTAMP() WHERE id=? AND revoked_at IS NULL",
		tokenID)
	return err
}

// RevokeAllForUser revokes every active entry for a user in a single
// bulk UPDATE, so tokens issued concurrently are not lost to a
// read-then-write race.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE tokens SET revoked_at=UTC_TIMESTAMP() WHERE user_id=? AND revoked_at IS NULL",
		userID)
	return err
}

// IsActive reports whether an entry exists, is not revoked and is not
// past expiry. A missing row is simply inactive, not an error.
func (r *TokenRepo) IsActive(ctx context.Context, tokenID string, now time.Time) (bool, error) {
	var (
		expiresAt time.Time
		revokedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT expires_at, revoked_at FROM tokens WHERE id=? LIMIT 1",
		tokenID).Scan(&expiresAt, &revokedAt)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if revokedAt.Valid {
		return false, nil
	}
	if !now.Before(expiresAt) {
		return false, nil
	}
	return true, nil
}

// DeleteExpired drops entries past their expiry. Housekeeping only;
// expiry is enforced at validation time regardless of these rows.
func (r *TokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM tokens WHERE expires_at < ?", now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
