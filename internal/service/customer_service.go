package service

import (
	"context"

	"github.com/google/uuid"

	"signquote/internal/domain"
	"signquote/internal/port"
)

// CustomerInput is the DTO for creating or updating a customer.
type CustomerInput struct {
	Name              string `json:"name" binding:"required"`
	ContactEmail      string `json:"contact_email"`
	DefaultLEDBrand   string `json:"default_led_brand"`
	RequiresULListing bool   `json:"requires_ul_listing"`
	QuickBooksID      string `json:"quickbooks_id"`
}

// CustomerService owns customer CRUD.
type CustomerService interface {
	Create(ctx context.Context, input CustomerInput) (*domain.Customer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	List(ctx context.Context, offset, limit int) ([]domain.Customer, int, error)
	Update(ctx context.Context, id uuid.UUID, input CustomerInput) (*domain.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type customerService struct {
	customers port.CustomerRepository
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(customers port.CustomerRepository) CustomerService {
	return &customerService{customers: customers}
}

func (s *customerService) Create(ctx context.Context, input CustomerInput) (*domain.Customer, error) {
	customer := &domain.Customer{
		ID:                uuid.New(),
		Name:              input.Name,
		ContactEmail:      input.ContactEmail,
		DefaultLEDBrand:   input.DefaultLEDBrand,
		RequiresULListing: input.RequiresULListing,
		QuickBooksID:      input.QuickBooksID,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	return s.customers.GetByID(ctx, id)
}

func (s *customerService) List(ctx context.Context, offset, limit int) ([]domain.Customer, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.customers.List(ctx, offset, limit)
}

func (s *customerService) Update(ctx context.Context, id uuid.UUID, input CustomerInput) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	customer.Name = input.Name
	customer.ContactEmail = input.ContactEmail
	customer.DefaultLEDBrand = input.DefaultLEDBrand
	customer.RequiresULListing = input.RequiresULListing
	customer.QuickBooksID = input.QuickBooksID
	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.customers.Delete(ctx, id)
}
