package repository

import (
	"context"
	"errors"
	"testing"
	"strings"
	"time"

	"pinshop/internal/domain/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	uuidA = "0b8f2f2e-6a55-4e55-9d1c-1f0a3c1d9a01"
	uuidB = "0b8f2f2e-6a55-4e55-9d1c-1f0a3c1d9a02"
)

var productRowColumns = []string{"id", "name", "slug", "description", "price", "quantity", "created_at"}

func TestPgProductRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPgProductRepository(db)
	created := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+products\s*\(id,\s*name,\s*slug,\s*description,\s*price,\s*quantity\)`).
		WithArgs(sqlmock.AnyArg(), "Widget", "widget", "", 10.0, 5).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	p := &model.Product{Name: "Widget", Slug: "widget", Price: 10, Quantity: 5}
	require.NoError(t, repo.Create(context.Background(), p))
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, created, p.CreatedAt)
}

func TestPgProductRepository_FindByIDsSkipsMalformed(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPgProductRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)FROM\s+products\s+WHERE\s+id\s+IN\s+\(\$1,\s*\$2\)`).
		WithArgs(uuidA, uuidB).
		WillReturnRows(sqlmock.NewRows(productRowColumns).
			AddRow(uuidB, "B", "b", "", 2.0, 2, now).
			AddRow(uuidA, "A", "a", "", 1.0, 1, now))

	got, err := repo.FindByIDs(context.Background(), []string{uuidA, "not-a-uuid", uuidB})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, names(got))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgProductRepository_FindByIDsNothingValid(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPgProductRepository(db)

	got, err := repo.FindByIDs(context.Background(), []string{"junk"})
	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgProductRepository_DeleteByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPgProductRepository(db)

	mock.ExpectExec(`DELETE\s+FROM\s+products\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(uuidA).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.DeleteByID(context.Background(), uuidA))
	require.NoError(t, repo.DeleteByID(context.Background(), "malformed"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgProductRepository_FindAll(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPgProductRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)FROM\s+products\s+ORDER\s+BY\s+seq`).
		WillReturnRows(sqlmock.NewRows(productRowColumns).
			AddRow(uuidA, "A", "a", "first", 1.5, 0, now).
			AddRow(uuidB, "B", "b", "", 0.0, 3, now))

	got, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1.5, got[0].Price)
	assert.Equal(t, 0, got[0].Quantity)
}

func TestPgProductRepository_FindAllError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPgProductRepository(db)

	mock.ExpectQuery(`FROM\s+products`).WillReturnError(errors.New("db down"))

	_, err := repo.FindAll(context.Background())
	assert.ErrorContains(t, err, "db down")
}

func TestPgProductRepository_NormalizeID(t *testing.T) {
	repo := NewPgProductRepository(nil)
	for _, spelling := range []string{
		uuidA,
		strings.ToUpper(uuidA),
		"{" + uuidA + "}",
		"urn:uuid:" + uuidA,
	} {
		got, ok := repo.NormalizeID(spelling)
		assert.True(t, ok, spelling)
		assert.Equal(t, uuidA, got, spelling)
	}

	got, ok := repo.NormalizeID("not-a-uuid")
	assert.False(t, ok)
	assert.Equal(t, "not-a-uuid", got)
}

func TestPgProductRepository_FindByIDsQueriesCanonicalForm(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPgProductRepository(db)

	mock.ExpectQuery(`(?s)FROM\s+products\s+WHERE\s+id\s+IN\s+\(\$1\)`).
		WithArgs(uuidA).
		WillReturnRows(sqlmock.NewRows(productRowColumns).AddRow(uuidA, "A", "a", "", 1.0, 1, time.Now().UTC()))

	got, err := repo.FindByIDs(context.Background(), []string{strings.ToUpper(uuidA)})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uuidA, got[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
