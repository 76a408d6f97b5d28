package repository

import (
	"context"
	"database/sql"
	"fmt"
	"pinshop/internal/domain/model"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ProductRepository persists the catalog. FindByIDs skips ids that do not
// name a product, malformed ones included; DeleteByID is idempotent.
// NormalizeID maps any accepted spelling of an id to the form the store
// returns, and reports false when id is not one the store could have issued.
type ProductRepository interface {
	NormalizeID(id string) (string, bool)
	Create(ctx context.Context, product *model.Product) error
	FindByIDs(ctx context.Context, ids []string) ([]model.Product, error)
	DeleteByID(ctx context.Context, id string) error
	FindAll(ctx context.Context) ([]model.Product, error)
}

type pgProductRepository struct {
	db *sql.DB
}

func NewPgProductRepository(db *sql.DB) ProductRepository {
	return &pgProductRepository{db: db}
}

const productColumns = `id, name, slug, description, price, quantity, created_at`

func (r *pgProductRepository) Create(ctx context.Context, p *model.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	query := `INSERT INTO products (id, name, slug, description, price, quantity)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, p.ID, p.Name, p.Slug, p.Description, p.Price, p.Quantity).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("pgProductRepository.Create: %w", err)
	}
	return nil
}

func (r *pgProductRepository) NormalizeID(id string) (string, bool) {
	u, err := uuid.Parse(id)
	if err != nil {
		return id, false
	}
	return u.String(), true
}

func (r *pgProductRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	args := make([]any, 0, len(ids))
	placeholders := make([]string, 0, len(ids))
	for _, id := range ids {
		id, ok := r.NormalizeID(id)
		if !ok {
			continue // Not one of ours
		}
		args = append(args, id)
		placeholders = append(placeholders, "$"+strconv.Itoa(len(args)))
	}
	if len(args) == 0 {
		return []model.Product{}, nil
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id IN (` + strings.Join(placeholders, ", ") + `)`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgProductRepository.FindByIDs: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *pgProductRepository) DeleteByID(ctx context.Context, id string) error {
	id, ok := r.NormalizeID(id)
	if !ok {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return fmt.Errorf("pgProductRepository.DeleteByID: %w", err)
	}
	return nil
}

func (r *pgProductRepository) FindAll(ctx context.Context) ([]model.Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("pgProductRepository.FindAll: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

func scanProducts(rows *sql.Rows) ([]model.Product, error) {
	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Quantity, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}
