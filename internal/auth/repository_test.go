package auth

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewPostgresRepository(db), mock
}

func TestPostgresRepository_CreateNormalizesEmail(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO users \(id,email,password_hash,created_at,updated_at\) VALUES \(\$1,\$2,\$3,\$4,\$5\)`).
		WithArgs(sqlmock.AnyArg(), "dev@example.com", "hash", now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	user := &User{Email: " Dev@Example.COM ", PasswordHash: "hash", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "dev@example.com", user.Email)
}

func TestPostgresRepository_CreateErrors(t *testing.T) {
	tests := []struct {
		name    string
		dbErr   error
		want    error
		wantMsg string
	}{
		{name: "unique violation", dbErr: &pq.Error{Code: uniqueViolation}, want: ErrUserExists},
		{name: "other constraint", dbErr: &pq.Error{Code: "23502"}, wantMsg: "create user"},
		{name: "connection", dbErr: errors.New("connection reset"), wantMsg: "connection reset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			mock.ExpectExec("INSERT INTO users").WillReturnError(tt.dbErr)

			err := repo.Create(context.Background(), &User{Email: "a@example.com"})
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				return
			}
			assert.NotErrorIs(t, err, ErrUserExists)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestPostgresRepository_GetByEmail(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(userColumns).AddRow("user-1", "dev@example.com", "hash", created, created)
	mock.ExpectQuery(`SELECT id, email, password_hash, created_at, updated_at FROM users WHERE email = \$1`).
		WithArgs("dev@example.com").
		WillReturnRows(rows)

	user, err := repo.GetByEmail(context.Background(), "DEV@example.com")
	require.NoError(t, err)
	assert.Equal(t, &User{ID: "user-1", Email: "dev@example.com", PasswordHash: "hash", CreatedAt: created, UpdatedAt: created}, user)
}

func TestPostgresRepository_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`FROM users WHERE id = \$1`).WithArgs("missing").WillReturnError(sql.ErrNoRows)
	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)

	mock.ExpectQuery(`FROM users WHERE email = \$1`).WithArgs("nobody@example.com").WillReturnError(sql.ErrConnDone)
	_, err = repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	user := &User{Email: "Dev@Example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	assert.Equal(t, "dev@example.com", user.Email)

	assert.ErrorIs(t, repo.Create(ctx, &User{Email: " DEV@example.com"}), ErrUserExists)

	got, err := repo.GetByEmail(ctx, "dev@EXAMPLE.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	got.PasswordHash = "changed"
	again, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash", again.PasswordHash)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
