package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"signquote/internal/domain"
	"signquote/internal/port"
	"signquote/internal/validator"
)

// EstimateInput is the DTO for creating or replacing an estimate.
type EstimateInput struct {
	CustomerID uuid.UUID    `json:"customer_id" binding:"required"`
	Title      string       `json:"title" binding:"required"`
	Rows       []domain.Row `json:"rows"`
}

// EstimateService owns estimate CRUD plus validation runs. The engine
// returns an immutable result set; storing it on the estimate is this
// layer's job, so there is never ambiguity about which grid a stored result
// belongs to.
type EstimateService interface {
	Create(ctx context.Context, input EstimateInput, createdBy uuid.UUID) (*domain.Estimate, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Estimate, error)
	List(ctx context.Context, customerID *uuid.UUID, offset, limit int) ([]domain.Estimate, int, error)
	UpdateGrid(ctx context.Context, id uuid.UUID, rows []domain.Row) (*domain.Estimate, error)
	Delete(ctx context.Context, id uuid.UUID) error

	Validate(ctx context.Context, id uuid.UUID) (*validator.ResultSet, error)
	GetValidation(ctx context.Context, id uuid.UUID) (*validator.ResultSet, error)
	AssemblyAssignments(ctx context.Context, id uuid.UUID) ([]validator.Assignment, map[string]validator.GroupSummary, error)
}

type estimateService struct {
	estimates port.EstimateRepository
	customers port.CustomerRepository
	engine    *validator.Engine
}

// NewEstimateService creates a new EstimateService.
func NewEstimateService(estimates port.EstimateRepository, customers port.CustomerRepository, engine *validator.Engine) EstimateService {
	return &estimateService{estimates: estimates, customers: customers, engine: engine}
}

func (s *estimateService) Create(ctx context.Context, input EstimateInput, createdBy uuid.UUID) (*domain.Estimate, error) {
	if _, err := s.customers.GetByID(ctx, input.CustomerID); err != nil {
		return nil, err
	}
	if err := validator.CheckGrid(input.Rows); err != nil {
		return nil, err
	}

	est := &domain.Estimate{
		ID:         uuid.New(),
		CustomerID: input.CustomerID,
		Title:      input.Title,
		Status:     domain.EstimateStatusDraft,
		CreatedBy:  createdBy,
	}
	if err := est.SetGrid(input.Rows); err != nil {
		return nil, fmt.Errorf("estimateService.Create: %w", err)
	}
	if err := s.estimates.Create(ctx, est); err != nil {
		return nil, err
	}
	return est, nil
}

func (s *estimateService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Estimate, error) {
	return s.estimates.GetByID(ctx, id)
}

func (s *estimateService) List(ctx context.Context, customerID *uuid.UUID, offset, limit int) ([]domain.Estimate, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.estimates.List(ctx, customerID, offset, limit)
}

func (s *estimateService) UpdateGrid(ctx context.Context, id uuid.UUID, rows []domain.Row) (*domain.Estimate, error) {
	est, err := s.estimates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if est.Status != domain.EstimateStatusDraft {
		return nil, domain.ErrEstimateNotDraft
	}
	if err := validator.CheckGrid(rows); err != nil {
		return nil, err
	}
	if err := est.SetGrid(rows); err != nil {
		return nil, fmt.Errorf("estimateService.UpdateGrid: %w", err)
	}
	// Grid changed; any stored results describe a grid that no longer exists.
	est.ValidationResults = nil
	if err := s.estimates.Update(ctx, est); err != nil {
		return nil, err
	}
	return est, nil
}

func (s *estimateService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.estimates.Delete(ctx, id)
}

// Validate runs a full validation pass over the stored grid with the
// customer's current preference snapshot, persists the result set, and
// returns it.
func (s *estimateService) Validate(ctx context.Context, id uuid.UUID) (*validator.ResultSet, error) {
	est, err := s.estimates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	customer, err := s.customers.GetByID(ctx, est.CustomerID)
	if err != nil {
		return nil, err
	}
	rows, err := est.Grid()
	if err != nil {
		return nil, fmt.Errorf("estimateService.Validate: decode grid: %w", err)
	}

	rs := s.engine.Run(rows, customer.Preferences())

	data, err := json.Marshal(rs)
	if err != nil {
		return nil, fmt.Errorf("estimateService.Validate: marshal results: %w", err)
	}
	if err := s.estimates.UpdateValidationResults(ctx, id, data); err != nil {
		return nil, err
	}
	return rs, nil
}

// GetValidation returns the stored result set from the last run, or an
// empty set when the estimate has never been validated since its grid last
// changed.
func (s *estimateService) GetValidation(ctx context.Context, id uuid.UUID) (*validator.ResultSet, error) {
	est, err := s.estimates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(est.ValidationResults) == 0 {
		return &validator.ResultSet{Entries: []validator.Entry{}, Rows: map[string]validator.RowOutcome{}}, nil
	}
	var rs validator.ResultSet
	if err := json.Unmarshal(est.ValidationResults, &rs); err != nil {
		return nil, fmt.Errorf("estimateService.GetValidation: %w", err)
	}
	return &rs, nil
}

// AssemblyAssignments recomputes assignments for display, independent of
// stored validation results.
func (s *estimateService) AssemblyAssignments(ctx context.Context, id uuid.UUID) ([]validator.Assignment, map[string]validator.GroupSummary, error) {
	est, err := s.estimates.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rows, err := est.Grid()
	if err != nil {
		return nil, nil, fmt.Errorf("estimateService.AssemblyAssignments: decode grid: %w", err)
	}
	assignments := s.engine.AssemblyAssignments(rows)
	return assignments, validator.Summarize(rows, assignments), nil
}
