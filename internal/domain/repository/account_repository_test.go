package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"pinshop/internal/common"
	"pinshop/internal/domain/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestPgAccountRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPgAccountRepository(db)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+accounts\s*\(user_id,\s*full_name,\s*email,\s*role,\s*pin_hash,\s*cart\)`).
		WithArgs("ID0A0B0C", "A", "a@x.com", model.RoleBuyer, "hash", "[]").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	a := &model.Account{UserID: "ID0A0B0C", FullName: "A", Email: "a@x.com", Role: model.RoleBuyer, PINHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), a))
	assert.Equal(t, created, a.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgAccountRepository_CreateUniqueViolation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPgAccountRepository(db)

	mock.ExpectQuery(`INSERT\s+INTO\s+accounts`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &model.Account{UserID: "ID0A0B0C"})
	assert.True(t, errors.Is(err, common.ErrConflict), "got %v", err)
}

func TestPgAccountRepository_FindByUserID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPgAccountRepository(db)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"user_id", "full_name", "email", "role", "pin_hash", "cart", "created_at"}).
		AddRow("ID0A0B0C", "A", "a@x.com", model.RoleBuyer, "hash", []byte(`["p1","p2"]`), created)
	mock.ExpectQuery(`(?s)^SELECT\s+user_id,.*FROM\s+accounts\s+WHERE\s+user_id\s*=\s*\$1`).
		WithArgs("ID0A0B0C").
		WillReturnRows(rows)

	got, err := repo.FindByUserID(context.Background(), "ID0A0B0C")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, got.Cart)
	assert.Equal(t, "hash", got.PINHash)
}

func TestPgAccountRepository_FindByUserIDMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPgAccountRepository(db)

	mock.ExpectQuery(`FROM\s+accounts`).WithArgs("nope").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByUserID(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestPgAccountRepository_SaveCart(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPgAccountRepository(db)

	mock.ExpectExec(`UPDATE\s+accounts\s+SET\s+cart\s*=\s*\$1\s+WHERE\s+user_id\s*=\s*\$2`).
		WithArgs(`["p1"]`, "ID0A0B0C").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SaveCart(context.Background(), "ID0A0B0C", []string{"p1"}))

	mock.ExpectExec(`UPDATE\s+accounts`).
		WithArgs(`[]`, "gone").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.SaveCart(context.Background(), "gone", nil), common.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
