package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"pinshop/internal/common"
	"pinshop/internal/common/security"
	"pinshop/internal/domain/model"
	"pinshop/internal/domain/repository"
	"pinshop/internal/platform/logging"
)

// NotificationPublisher hands a message to the outbound notification queue.
type NotificationPublisher interface {
	Publish(ctx context.Context, n model.CredentialsNotification) error
}

type AccountOptions struct {
	MaxAttempts    int           // userID generation attempts before giving up
	StoreTimeout   time.Duration // bound on every store and session call
	PublishTimeout time.Duration // bound on handing a notification to the queue
}

type AccountService struct {
	accounts  repository.AccountRepository
	creds     security.CredentialGenerator
	sessions  security.SessionStore
	publisher NotificationPublisher
	log       logging.Logger
	opts      AccountOptions

	inflight sync.WaitGroup
}

func NewAccountService(
	accounts repository.AccountRepository,
	creds security.CredentialGenerator,
	sessions security.SessionStore,
	publisher NotificationPublisher,
	log logging.Logger,
	opts AccountOptions,
) *AccountService {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	return &AccountService{
		accounts:  accounts,
		creds:     creds,
		sessions:  sessions,
		publisher: publisher,
		log:       log.With("component", "account_service"),
		opts:      opts,
	}
}

type RegisterRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// RegisterResponse is the only place a PIN is ever returned.
type RegisterResponse struct {
	UserID string `json:"userID"`
	PIN    string `json:"pin"`
}

type LoginRequest struct {
	UserID string `json:"userID"`
	PIN    string `json:"pin"`
}

type LoginResponse struct {
	Role   string `json:"role"`
	UserID string `json:"userID"`
	Token  string `json:"token"`
}

func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := strings.TrimSpace(req.Email)
	role := strings.TrimSpace(req.Role)
	if fullName == "" || email == "" || role == "" {
		return nil, common.Validationf("fullName, email and role are required")
	}
	if !model.ValidRole(role) {
		return nil, common.Validationf("role must be %q or %q", model.RoleAdmin, model.RoleBuyer)
	}

	pin := s.creds.PIN()
	pinHash, err := security.HashPIN(pin)
	if err != nil {
		return nil, err
	}

	account := &model.Account{
		FullName: fullName,
		Email:    email,
		Role:     role,
		PINHash:  pinHash,
		Cart:     []string{},
	}
	if err := s.insertWithFreshUserID(ctx, account); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "account registered", "user_id", account.UserID, "role", account.Role)

	s.dispatch(ctx, model.CredentialsNotification{
		To:       account.Email,
		FullName: account.FullName,
		UserID:   account.UserID,
		PIN:      pin,
	})
	return &RegisterResponse{UserID: account.UserID, PIN: pin}, nil
}

// insertWithFreshUserID draws userIDs until the store accepts one or the
// attempt budget runs out.
func (s *AccountService) insertWithFreshUserID(ctx context.Context, account *model.Account) error {
	for attempt := 1; attempt <= s.opts.MaxAttempts; attempt++ {
		userID, err := s.creds.UserID()
		if err != nil {
			return fmt.Errorf("failed to generate userID: %w", err)
		}
		account.UserID = userID

		err = storeCall(ctx, s.opts.StoreTimeout, func(ctx context.Context) error {
			return s.accounts.Create(ctx, account)
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, common.ErrConflict) {
			return fmt.Errorf("failed to create account: %w", err)
		}
		s.log.Warn(ctx, "userID collision, retrying", "user_id", userID, "attempt", attempt)
	}
	return fmt.Errorf("no unique userID after %d attempts: %w", s.opts.MaxAttempts, common.ErrConflict)
}

// dispatch queues the credentials mail without holding up the caller.
// Failures are logged and never reach the registrant.
func (s *AccountService) dispatch(ctx context.Context, n model.CredentialsNotification) {
	ctx = context.WithoutCancel(ctx)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		ctx, cancel := context.WithTimeout(ctx, s.opts.PublishTimeout)
		defer cancel()
		if err := s.publisher.Publish(ctx, n); err != nil {
			s.log.Error(ctx, "credentials notification not queued",
				"user_id", n.UserID, "error", fmt.Errorf("%w: %w", common.ErrNotify, err))
		}
	}()
}

// Wait blocks until every notification handed off by Register has been
// queued or has failed.
func (s *AccountService) Wait() {
	s.inflight.Wait()
}

// Login succeeds only for the exact (userID, pin) pair. Unknown IDs and
// wrong PINs look the same to the caller.
func (s *AccountService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if req.UserID == "" || req.PIN == "" {
		return nil, common.ErrUnauthorized
	}

	account, err := storeQuery(ctx, s.opts.StoreTimeout, func(ctx context.Context) (*model.Account, error) {
		return s.accounts.FindByUserID(ctx, req.UserID)
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			security.BurnPINCheck(req.PIN)
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	if !security.CheckPIN(req.PIN, account.PINHash) {
		return nil, common.ErrUnauthorized
	}

	token, err := storeQuery(ctx, s.opts.StoreTimeout, func(ctx context.Context) (string, error) {
		return s.sessions.Create(ctx, account.UserID, account.Role)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &LoginResponse{Role: account.Role, UserID: account.UserID, Token: token}, nil
}
