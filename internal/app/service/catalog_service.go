package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pinshop/internal/common"
	"pinshop/internal/domain/model"
	"pinshop/internal/domain/repository"
	"pinshop/internal/platform/logging"

	"github.com/gosimple/slug"
)

type CatalogService struct {
	products     repository.ProductRepository
	log          logging.Logger
	storeTimeout time.Duration
}

func NewCatalogService(products repository.ProductRepository, log logging.Logger, storeTimeout time.Duration) *CatalogService {
	return &CatalogService{
		products:     products,
		log:          log.With("component", "catalog_service"),
		storeTimeout: storeTimeout,
	}
}

// AddProductRequest uses pointers so a missing price or quantity can be
// told apart from an explicit zero.
type AddProductRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Quantity    *int     `json:"quantity"`
}

func (r AddProductRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return common.Validationf("name is required")
	}
	if r.Price == nil {
		return common.Validationf("price is required")
	}
	if *r.Price < 0 {
		return common.Validationf("price must not be negative")
	}
	if r.Quantity == nil {
		return common.Validationf("quantity is required")
	}
	if *r.Quantity < 0 {
		return common.Validationf("quantity must not be negative")
	}
	return nil
}

func (s *CatalogService) AddProduct(ctx context.Context, req AddProductRequest) (*model.Product, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	product := &model.Product{
		Name:        name,
		Slug:        slug.Make(name),
		Description: req.Description,
		Price:       *req.Price,
		Quantity:    *req.Quantity,
	}
	err := storeCall(ctx, s.storeTimeout, func(ctx context.Context) error {
		return s.products.Create(ctx, product)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	s.log.Info(ctx, "product added", "product_id", product.ID, "slug", product.Slug)
	return product, nil
}

// RemoveProduct succeeds whether or not id exists. Carts still holding id
// keep the reference; GetCart drops it on read.
func (s *CatalogService) RemoveProduct(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return common.Validationf("product id is required")
	}
	err := storeCall(ctx, s.storeTimeout, func(ctx context.Context) error {
		return s.products.DeleteByID(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to remove product: %w", err)
	}
	s.log.Info(ctx, "product removed", "product_id", id)
	return nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]model.Product, error) {
	products, err := storeQuery(ctx, s.storeTimeout, func(ctx context.Context) ([]model.Product, error) {
		return s.products.FindAll(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}
