package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"signquote/internal/domain"
	"signquote/internal/port"
)

type estimateRepo struct {
	db *sqlx.DB
}

// NewEstimateRepo creates a new PostgreSQL-backed EstimateRepository.
func NewEstimateRepo(db *sqlx.DB) port.EstimateRepository {
	return &estimateRepo{db: db}
}

func (r *estimateRepo) Create(ctx context.Context, est *domain.Estimate) error {
	now := time.Now().UTC()
	est.CreatedAt = now
	est.UpdatedAt = now
	if len(est.Rows) == 0 {
		est.Rows = json.RawMessage("[]")
	}

	query := `INSERT INTO estimates (
		id, customer_id, title, status, rows, validation_results,
		created_by, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		est.ID, est.CustomerID, est.Title, est.Status, est.Rows,
		est.ValidationResults, est.CreatedBy, est.CreatedAt, est.UpdatedAt)
	if err != nil {
		return fmt.Errorf("estimateRepo.Create: %w", err)
	}
	return nil
}

func (r *estimateRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Estimate, error) {
	var est domain.Estimate
	err := r.db.GetContext(ctx, &est, "SELECT * FROM estimates WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEstimateNotFound
		}
		return nil, fmt.Errorf("estimateRepo.GetByID: %w", err)
	}
	return &est, nil
}

func (r *estimateRepo) List(ctx context.Context, customerID *uuid.UUID, offset, limit int) ([]domain.Estimate, int, error) {
	var (
		estimates []domain.Estimate
		total     int
		err       error
	)

	if customerID != nil {
		err = r.db.SelectContext(ctx, &estimates,
			`SELECT * FROM estimates WHERE customer_id = $1
			 ORDER BY created_at DESC OFFSET $2 LIMIT $3`,
			*customerID, offset, limit)
		if err == nil {
			err = r.db.GetContext(ctx, &total,
				"SELECT COUNT(*) FROM estimates WHERE customer_id = $1", *customerID)
		}
	} else {
		err = r.db.SelectContext(ctx, &estimates,
			"SELECT * FROM estimates ORDER BY created_at DESC OFFSET $1 LIMIT $2",
			offset, limit)
		if err == nil {
			err = r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM estimates")
		}
	}
	if err != nil {
		return nil, 0, fmt.Errorf("estimateRepo.List: %w", err)
	}
	return estimates, total, nil
}

func (r *estimateRepo) Update(ctx context.Context, est *domain.Estimate) error {
	est.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx,
		`UPDATE estimates SET
			customer_id = $1, title = $2, status = $3, rows = $4,
			validation_results = $5, updated_at = $6
		 WHERE id = $7`,
		est.CustomerID, est.Title, est.Status, est.Rows,
		est.ValidationResults, est.UpdatedAt, est.ID)
	if err != nil {
		return fmt.Errorf("estimateRepo.Update: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrEstimateNotFound
	}
	return nil
}

func (r *estimateRepo) UpdateValidationResults(ctx context.Context, id uuid.UUID, results json.RawMessage) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE estimates SET validation_results = $1, updated_at = $2 WHERE id = $3",
		results, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("estimateRepo.UpdateValidationResults: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrEstimateNotFound
	}
	return nil
}

func (r *estimateRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM estimates WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("estimateRepo.Delete: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrEstimateNotFound
	}
	return nil
}
