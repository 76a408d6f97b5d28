package security

import (
	"context"
	"errors"
	"time"

	"pinshop/internal/domain/model"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

// JWTSessionStore keeps sessions inside signed HS256 tokens. Nothing is held
// server side beyond the signing key, so sessions die with a key rotation.
type JWTSessionStore struct {
	auth *jwtauth.JWTAuth
	ttl  time.Duration
	now  func() time.Time
}

func NewJWTSessionStore(secret []byte, ttl time.Duration) *JWTSessionStore {
	return &JWTSessionStore{
		auth: jwtauth.New("HS256", secret, nil),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (s *JWTSessionStore) Create(_ context.Context, accountRef, role string) (string, error) {
	claims := jwt.MapClaims{
		"account_ref": accountRef,
		"role":        role,
		"exp":         s.now().Add(s.ttl).Unix(),
		"iat":         s.now().Unix(),
	}
	_, tokenString, err := s.auth.Encode(claims)
	return tokenString, err
}

func (s *JWTSessionStore) Resolve(ctx context.Context, token string) (model.Session, bool, error) {
	if token == "" {
		return model.Session{}, false, nil
	}
	parsed, err := jwtauth.VerifyToken(s.auth, token)
	if err != nil {
		// Bad signature, malformed or expired: no session.
		return model.Session{}, false, nil
	}
	m, err := parsed.AsMap(ctx)
	if err != nil {
		return model.Session{}, false, nil
	}
	claims := jwt.MapClaims(m)

	ref, err := GetAccountRefFromClaims(claims)
	if err != nil {
		return model.Session{}, false, nil
	}
	role, err := GetUserRoleFromClaims(claims)
	if err != nil {
		return model.Session{}, false, nil
	}
	return model.Session{AccountRef: ref, Role: role}, true, nil
}

func GetAccountRefFromClaims(claims jwt.MapClaims) (string, error) {
	id, ok := claims["account_ref"].(string)
	if !ok || id == "" {
		return "", errors.New("account_ref claim is missing or not a string")
	}
	return id, nil
}

func GetUserRoleFromClaims(claims jwt.MapClaims) (string, error) {
	role, ok := claims["role"].(string)
	if !ok {
		return "", errors.New("role claim is missing or not a string")
	}
	return role, nil
}
