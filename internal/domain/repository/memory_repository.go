package repository

import (
	"context"
	"fmt"
	"pinshop/internal/common"
	"pinshop/internal/domain/model"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

type MemoryAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]model.Account
	now      func() time.Time
}

func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{
		accounts: make(map[string]model.Account),
		now:      time.Now,
	}
}

func (r *MemoryAccountRepository) Create(_ context.Context, a *model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.accounts[a.UserID]; exists {
		return fmt.Errorf("account %s already exists: %w", a.UserID, common.ErrConflict)
	}
	a.CreatedAt = r.now().UTC()
	stored := *a
	stored.Cart = cloneCart(a.Cart)
	r.accounts[a.UserID] = stored
	return nil
}

func (r *MemoryAccountRepository) FindByUserID(_ context.Context, userID string) (*model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, exists := r.accounts[userID]
	if !exists {
		return nil, common.ErrNotFound
	}
	a.Cart = cloneCart(a.Cart)
	return &a, nil
}

func (r *MemoryAccountRepository) SaveCart(_ context.Context, userID string, cart []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, exists := r.accounts[userID]
	if !exists {
		return common.ErrNotFound
	}
	a.Cart = cloneCart(cart)
	r.accounts[userID] = a
	return nil
}

func cloneCart(cart []string) []string {
	if cart == nil {
		return []string{}
	}
	return slices.Clone(cart)
}

type MemoryProductRepository struct {
	mu       sync.RWMutex
	products map[string]model.Product
	order    []string
	now      func() time.Time
}

func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[string]model.Product),
		now:      time.Now,
	}
}

func (r *MemoryProductRepository) Create(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if _, exists := r.products[p.ID]; exists {
		return fmt.Errorf("product %s already exists: %w", p.ID, common.ErrConflict)
	}
	p.CreatedAt = r.now().UTC()
	r.products[p.ID] = *p
	r.order = append(r.order, p.ID)
	return nil
}

// NormalizeID is the identity: ids are compared exactly as issued.
func (r *MemoryProductRepository) NormalizeID(id string) (string, bool) {
	return id, id != ""
}

func (r *MemoryProductRepository) FindByIDs(_ context.Context, ids []string) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *MemoryProductRepository) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return nil
	}
	delete(r.products, id)
	r.order = slices.DeleteFunc(r.order, func(o string) bool { return o == id })
	return nil
}

func (r *MemoryProductRepository) FindAll(_ context.Context) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Product, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.products[id])
	}
	return out, nil
}
