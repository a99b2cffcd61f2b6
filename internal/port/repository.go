// Package port defines the repository contracts the service layer depends
// on, keeping persistence behind interfaces.
package port

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"signquote/internal/domain"
)

// EstimateRepository persists estimates and their grids.
type EstimateRepository interface {
	Create(ctx context.Context, est *domain.Estimate) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Estimate, error)
	List(ctx context.Context, customerID *uuid.UUID, offset, limit int) ([]domain.Estimate, int, error)
	Update(ctx context.Context, est *domain.Estimate) error
	UpdateValidationResults(ctx context.Context, id uuid.UUID, results json.RawMessage) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CustomerRepository persists customers and their preference snapshots.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	List(ctx context.Context, offset, limit int) ([]domain.Customer, int, error)
	Update(ctx context.Context, customer *domain.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserRepository persists users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
