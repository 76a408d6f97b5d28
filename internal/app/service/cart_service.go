package service

import (
	"context"
	"fmt"
	"time"

	"pinshop/internal/common"
	"pinshop/internal/domain/model"
	"pinshop/internal/domain/repository"
	"pinshop/internal/platform/logging"
)

type CartService struct {
	accounts     repository.AccountRepository
	products     repository.ProductRepository
	log          logging.Logger
	storeTimeout time.Duration
}

func NewCartService(
	accounts repository.AccountRepository,
	products repository.ProductRepository,
	log logging.Logger,
	storeTimeout time.Duration,
) *CartService {
	return &CartService{
		accounts:     accounts,
		products:     products,
		log:          log.With("component", "cart_service"),
		storeTimeout: storeTimeout,
	}
}

type CartItemRequest struct {
	UserID    string `json:"userID"`
	ProductID string `json:"productID"`
}

func (r CartItemRequest) validate() error {
	if r.UserID == "" || r.ProductID == "" {
		return common.Validationf("userID and productID are required")
	}
	return nil
}

// authorize lets a caller act on their own cart; admins may act on any.
func authorize(sess model.Session, userID string) error {
	if sess.IsAdmin() || sess.AccountRef == userID {
		return nil
	}
	return fmt.Errorf("cart of %s: %w", userID, common.ErrForbidden)
}

// AddToCart does not check that the product exists. Adding an id already in
// the cart, in any spelling the catalog accepts, leaves it unchanged.
func (s *CartService) AddToCart(ctx context.Context, sess model.Session, req CartItemRequest) error {
	if err := req.validate(); err != nil {
		return err
	}
	if err := authorize(sess, req.UserID); err != nil {
		return err
	}
	productID := s.canonicalID(req.ProductID)
	return s.mutate(ctx, req.UserID, func(a *model.Account) bool {
		return a.AddToCart(productID)
	})
}

// RemoveFromCart drops the product under any spelling the catalog accepts.
// It is a no-op when the product is not in the cart.
func (s *CartService) RemoveFromCart(ctx context.Context, sess model.Session, req CartItemRequest) error {
	if err := req.validate(); err != nil {
		return err
	}
	if err := authorize(sess, req.UserID); err != nil {
		return err
	}
	productID := s.canonicalID(req.ProductID)
	return s.mutate(ctx, req.UserID, func(a *model.Account) bool {
		return a.RemoveFromCartFunc(func(id string) bool {
			return s.canonicalID(id) == productID
		})
	})
}

// mutate is a single read then a single cart write. Concurrent mutations of
// the same cart are last write wins.
func (s *CartService) mutate(ctx context.Context, userID string, change func(*model.Account) bool) error {
	account, err := s.findAccount(ctx, userID)
	if err != nil {
		return err
	}
	if !change(account) {
		return nil
	}
	err = storeCall(ctx, s.storeTimeout, func(ctx context.Context) error {
		return s.accounts.SaveCart(ctx, account.UserID, account.Cart)
	})
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	s.log.Debug(ctx, "cart updated", "user_id", userID, "items", len(account.Cart))
	return nil
}

// GetCart returns the carted products in cart order. References to products
// that no longer exist are left out.
func (s *CartService) GetCart(ctx context.Context, sess model.Session, userID string) ([]model.Product, error) {
	if userID == "" {
		return nil, common.Validationf("userID is required")
	}
	if err := authorize(sess, userID); err != nil {
		return nil, err
	}
	account, err := s.findAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]model.Product, 0, len(account.Cart))
	if len(account.Cart) == 0 {
		return items, nil
	}
	found, err := storeQuery(ctx, s.storeTimeout, func(ctx context.Context) ([]model.Product, error) {
		return s.products.FindByIDs(ctx, account.Cart)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cart: %w", err)
	}

	byID := make(map[string]model.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	seen := make(map[string]bool, len(account.Cart))
	for _, id := range account.Cart {
		id = s.canonicalID(id)
		if seen[id] {
			continue
		}
		seen[id] = true
		if p, ok := byID[id]; ok {
			items = append(items, p)
		}
	}
	if dangling := len(seen) - len(items); dangling > 0 {
		s.log.Debug(ctx, "cart holds removed products", "user_id", userID, "dangling", dangling)
	}
	return items, nil
}

// canonicalID returns the catalog's spelling of id. Ids the catalog could
// never have issued are kept verbatim.
func (s *CartService) canonicalID(id string) string {
	canonical, _ := s.products.NormalizeID(id)
	return canonical
}

func (s *CartService) findAccount(ctx context.Context, userID string) (*model.Account, error) {
	account, err := storeQuery(ctx, s.storeTimeout, func(ctx context.Context) (*model.Account, error) {
		return s.accounts.FindByUserID(ctx, userID)
	})
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", userID, err)
	}
	return account, nil
}
