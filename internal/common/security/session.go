package security

import (
	"context"
	"pinshop/internal/domain/model"
)

// SessionStore issues and resolves session tokens. Resolve reports false
// when the token names no live session.
type SessionStore interface {
	Create(ctx context.Context, accountRef, role string) (string, error)
	Resolve(ctx context.Context, token string) (model.Session, bool, error)
}
