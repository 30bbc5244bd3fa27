package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/library-management/internal/model"
)

func newUserRepo(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepo(db), mock
}

const insertUser = "INSERT INTO users (email, password_hash, first_name, last_name, role, enabled) VALUES (?,?,?,?,?,?)"

func TestUserRepoCreate(t *testing.T) {
	r, mock := newUserRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(insertUser)).
		WithArgs("a@x.com", "hash", "Ada", "Lovelace", "USER", true).
		WillReturnResult(sqlmock.NewResult(42, 1))

	id, err := r.Create(context.Background(), model.User{
		Email:        "  A@X.com ", // normalized before the insert
		PasswordHash: "hash",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Role:         "USER",
		Enabled:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepoCreateDuplicateEmail(t *testing.T) {
	r, mock := newUserRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(insertUser)).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'a@x.com' for key 'uq_users_email'"))

	_, err := r.Create(context.Background(), model.User{Email: "a@x.com", Role: "USER"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestUserRepoGetByEmail(t *testing.T) {
	r, mock := newUserRepo(t)
	now := time.Now().UTC()

	cols := []string{"id", "email", "password_hash", "first_name", "last_name", "role", "enabled", "confirm_code", "created_at", "updated_at"}
	mock.ExpectQuery("SELECT .+ FROM users WHERE email=.+").
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(7, "a@x.com", "hash", "Ada", "Lovelace", "MODERATOR", true, nil, now, now))

	u, err := r.GetByEmail(context.Background(), " A@x.COM ")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), u.ID)
	assert.Equal(t, "MODERATOR", u.Role)
	assert.Nil(t, u.ConfirmCode)
	assert.True(t, u.Enabled)
}

func TestUserRepoGetByIDNotFound(t *testing.T) {
	r, mock := newUserRepo(t)

	mock.ExpectQuery("SELECT .+ FROM users WHERE id=.+").
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := r.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepoUpdates(t *testing.T) {
	r, mock := newUserRepo(t)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET password_hash=? WHERE id=?")).
		WithArgs("newhash", uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET role=? WHERE id=?")).
		WithArgs("ADMIN", uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET enabled=? WHERE id=?")).
		WithArgs(false, uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, r.UpdatePassword(ctx, 7, "newhash"))
	require.NoError(t, r.UpdateRole(ctx, 7, "ADMIN"))
	require.NoError(t, r.SetEnabled(ctx, 7, false))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepoDelete(t *testing.T) {
	r, mock := newUserRepo(t)
	query := regexp.QuoteMeta("DELETE FROM users WHERE id=?")

	mock.ExpectExec(query).WithArgs(uint64(7)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).WithArgs(uint64(7)).WillReturnResult(sqlmock.NewResult(0, 0))

	ctx := context.Background()
	require.NoError(t, r.Delete(ctx, 7))
	assert.ErrorIs(t, r.Delete(ctx, 7), ErrNotFound)
}
