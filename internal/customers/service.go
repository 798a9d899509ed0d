package customer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nectarbooks/backend/internal/records"
	"github.com/nectarbooks/backend/pkg/db/models"
	pkgerrors "github.com/nectarbooks/backend/pkg/errors"
	"github.com/nectarbooks/backend/pkg/validate"
)

// Service exposes customer directory operations.
type Service interface {
	CreateCustomer(ctx context.Context, input CreateCustomerInput) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, customerID string, input UpdateCustomerInput) (*models.Customer, error)
	DeleteCustomer(ctx context.Context, customerID string) error
	GetCustomer(ctx context.Context, customerID string) (*models.Customer, error)
	ListCustomers(ctx context.Context) ([]models.Customer, error)
}

// CreateCustomerInput holds the validated payload to create a customer.
type CreateCustomerInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// UpdateCustomerInput holds optional mutation values for a customer.
type UpdateCustomerInput struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
}

type service struct {
	customers *records.Table[models.Customer]
	now       func() time.Time
}

// NewService constructs a customer service instance.
func NewService(store *records.Store) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("record store required")
	}
	return &service{customers: store.Customers, now: time.Now}, nil
}

func (s *service) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*models.Customer, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	now := models.TimeString(s.now())
	customer := &models.Customer{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Address:   input.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.customers.Set(ctx, customer)
}

func (s *service) UpdateCustomer(ctx context.Context, customerID string, input UpdateCustomerInput) (*models.Customer, error) {
	customer, err := s.customers.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		customer.Name = *input.Name
	}
	if input.Email != nil {
		customer.Email = *input.Email
	}
	if input.Phone != nil {
		customer.Phone = *input.Phone
	}
	if input.Address != nil {
		customer.Address = *input.Address
	}

	customer.UpdatedAt = models.TimeString(s.now())
	return s.customers.Set(ctx, customer)
}

func (s *service) DeleteCustomer(ctx context.Context, customerID string) error {
	return s.customers.Remove(ctx, customerID)
}

func (s *service) GetCustomer(ctx context.Context, customerID string) (*models.Customer, error) {
	return s.customers.Get(ctx, customerID)
}

func (s *service) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return s.customers.GetAll(ctx)
}
