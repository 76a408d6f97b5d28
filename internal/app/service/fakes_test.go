package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"pinshop/internal/common/security"
	"pinshop/internal/domain/model"
	"pinshop/internal/domain/repository"
	"pinshop/internal/platform/logging"
)

const testTimeout = time.Second

// sequenceCredentials hands out userIDs in order and repeats the last one.
type sequenceCredentials struct {
	mu  sync.Mutex
	ids []string
	pin string
}

func (c *sequenceCredentials) UserID() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.ids[0]
	if len(c.ids) > 1 {
		c.ids = c.ids[1:]
	}
	return id, nil
}

func (c *sequenceCredentials) PIN() string { return c.pin }

type recordingPublisher struct {
	mu   sync.Mutex
	sent []model.CredentialsNotification
	err  error
	gate chan struct{}
}

func (p *recordingPublisher) Publish(ctx context.Context, n model.CredentialsNotification) error {
	if p.gate != nil {
		select {
		case <-p.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if p.err != nil {
		return p.err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, n)
	return nil
}

func (p *recordingPublisher) notifications() []model.CredentialsNotification {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.CredentialsNotification(nil), p.sent...)
}

// stalledAccounts blocks every call until its context gives up.
type stalledAccounts struct{ repository.AccountRepository }

func (stalledAccounts) Create(ctx context.Context, _ *model.Account) error {
	<-ctx.Done()
	return ctx.Err()
}

func (stalledAccounts) FindByUserID(ctx context.Context, _ string) (*model.Account, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type brokenProducts struct{ repository.ProductRepository }

var errConnRefused = errors.New("dial tcp 10.0.0.5:5432: connection refused")

func (brokenProducts) NormalizeID(id string) (string, bool) { return id, true }

func (brokenProducts) FindAll(context.Context) ([]model.Product, error) {
	return nil, errConnRefused
}

func (brokenProducts) FindByIDs(context.Context, []string) ([]model.Product, error) {
	return nil, errConnRefused
}

type fixture struct {
	accounts  *repository.MemoryAccountRepository
	products  *repository.MemoryProductRepository
	publisher *recordingPublisher
	sessions  *security.JWTSessionStore
	creds     security.CredentialGenerator

	accountSvc *AccountService
	catalogSvc *CatalogService
	cartSvc    *CartService
}

func newFixture(creds security.CredentialGenerator) *fixture {
	f := &fixture{
		accounts:  repository.NewMemoryAccountRepository(),
		products:  repository.NewMemoryProductRepository(),
		publisher: &recordingPublisher{},
		sessions:  security.NewJWTSessionStore([]byte("test-secret"), time.Hour),
		creds:     creds,
	}
	log := logging.Discard()
	f.accountSvc = NewAccountService(f.accounts, f.creds, f.sessions, f.publisher, log, AccountOptions{
		MaxAttempts:    3,
		StoreTimeout:   testTimeout,
		PublishTimeout: testTimeout,
	})
	f.catalogSvc = NewCatalogService(f.products, log, testTimeout)
	f.cartSvc = NewCartService(f.accounts, f.products, log, testTimeout)
	return f
}

func ptr[T any](v T) *T { return &v }
