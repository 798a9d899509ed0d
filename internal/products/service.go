package product

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nectarbooks/backend/internal/records"
	"github.com/nectarbooks/backend/pkg/db/models"
	"github.com/nectarbooks/backend/pkg/enums"
	pkgerrors "github.com/nectarbooks/backend/pkg/errors"
	"github.com/nectarbooks/backend/pkg/validate"
)

// Service exposes product catalog management operations.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, productID string, input UpdateProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
	GetProduct(ctx context.Context, productID string) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Status      *enums.ProductStatus
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Category    *string
	Price       *decimal.Decimal
	Stock       *int
	Status      *enums.ProductStatus
}

// service implements the product service.
type service struct {
	products *records.Table[models.Product]
	now      func() time.Time
}

// NewService constructs a product service instance.
func NewService(store *records.Store) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("record store required")
	}
	return &service{products: store.Products, now: time.Now}, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	status := enums.ProductStatusActive
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown product status")
		}
		status = *input.Status
	}

	now := models.TimeString(s.now())
	product := &models.Product{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
		Stock:       input.Stock,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return s.products.Set(ctx, product)
}

func (s *service) UpdateProduct(ctx context.Context, productID string, input UpdateProductInput) (*models.Product, error) {
	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		product.Price = *input.Price
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
		}
		product.Stock = *input.Stock
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown product status")
		}
		product.Status = *input.Status
	}

	product.UpdatedAt = models.TimeString(s.now())
	return s.products.Set(ctx, product)
}

func (s *service) DeleteProduct(ctx context.Context, productID string) error {
	return s.products.Remove(ctx, productID)
}

func (s *service) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	return s.products.Get(ctx, productID)
}

func (s *service) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.products.GetAll(ctx)
}
