package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"pinshop/internal/common"
	"pinshop/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

// AccountRepository persists accounts keyed by their generated userID.
// SaveCart is a single-document write; callers rely on it to avoid partial
// updates.
type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	FindByUserID(ctx context.Context, userID string) (*model.Account, error)
	SaveCart(ctx context.Context, userID string, cart []string) error
}

type pgAccountRepository struct {
	db *sql.DB
}

func NewPgAccountRepository(db *sql.DB) AccountRepository {
	return &pgAccountRepository{db: db}
}

func (r *pgAccountRepository) Create(ctx context.Context, a *model.Account) error {
	cart, err := encodeCart(a.Cart)
	if err != nil {
		return err
	}
	query := `INSERT INTO accounts (user_id, full_name, email, role, pin_hash, cart)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING created_at`
	err = r.db.QueryRowContext(ctx, query, a.UserID, a.FullName, a.Email, a.Role, a.PINHash, cart).Scan(&a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint violation
			return fmt.Errorf("account %s already exists: %w", a.UserID, common.ErrConflict)
		}
		return fmt.Errorf("pgAccountRepository.Create: %w", err)
	}
	return nil
}

func (r *pgAccountRepository) FindByUserID(ctx context.Context, userID string) (*model.Account, error) {
	query := `SELECT user_id, full_name, email, role, pin_hash, cart, created_at
	          FROM accounts WHERE user_id = $1`
	a := &model.Account{}
	var cart []byte
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&a.UserID, &a.FullName, &a.Email, &a.Role, &a.PINHash, &cart, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgAccountRepository.FindByUserID: %w", err)
	}
	if err := json.Unmarshal(cart, &a.Cart); err != nil {
		return nil, fmt.Errorf("pgAccountRepository.FindByUserID: decode cart: %w", err)
	}
	return a, nil
}

func (r *pgAccountRepository) SaveCart(ctx context.Context, userID string, cart []string) error {
	encoded, err := encodeCart(cart)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `UPDATE accounts SET cart = $1 WHERE user_id = $2`, encoded, userID)
	if err != nil {
		return fmt.Errorf("pgAccountRepository.SaveCart: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgAccountRepository.SaveCart: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// encodeCart stores a nil cart as an empty JSON array.
func encodeCart(cart []string) (string, error) {
	if cart == nil {
		cart = []string{}
	}
	b, err := json.Marshal(cart)
	if err != nil {
		return "", fmt.Errorf("encode cart: %w", err)
	}
	return string(b), nil
}
