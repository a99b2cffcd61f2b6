package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated user of the estimating tool.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Customer represents a sign-shop customer and the preference snapshot the
// validation engine consults.
type Customer struct {
	ID                uuid.UUID `db:"id" json:"id"`
	Name              string    `db:"name" json:"name"`
	ContactEmail      string    `db:"contact_email" json:"contact_email"`
	DefaultLEDBrand   string    `db:"default_led_brand" json:"default_led_brand"`
	RequiresULListing bool      `db:"requires_ul_listing" json:"requires_ul_listing"`
	QuickBooksID      string    `db:"quickbooks_id" json:"quickbooks_id"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// Preferences returns the read-only snapshot consumed by the validator.
func (c *Customer) Preferences() CustomerPreferences {
	return CustomerPreferences{
		DefaultLEDBrand:   c.DefaultLEDBrand,
		RequiresULListing: c.RequiresULListing,
	}
}

// CustomerPreferences is the per-invocation customer context for validation.
type CustomerPreferences struct {
	DefaultLEDBrand   string `json:"default_led_brand"`
	RequiresULListing bool   `json:"requires_ul_listing"`
}

// Row is one line of the pricing grid. Field values are canonically strings;
// numeric and boolean semantics are template-interpreted. Parenthood is not
// stored: dependent rows resolve to the nearest preceding primary row.
type Row struct {
	ID            string            `json:"id"`
	Kind          RowKind           `json:"kind"`
	ProductTypeID int               `json:"product_type_id,omitempty"`
	Fields        map[string]string `json:"fields"`
}

// Field returns the trimmed-as-is value of a field, or "" when absent.
func (r *Row) Field(name string) string {
	if r.Fields == nil {
		return ""
	}
	return r.Fields[name]
}

// HasData returns true when any field carries a non-blank value.
func (r *Row) HasData() bool {
	for _, v := range r.Fields {
		if !isBlank(v) {
			return true
		}
	}
	return false
}

func isBlank(s string) bool {
	for _, c := range s {
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			return false
		}
	}
	return true
}

// IsBlank reports whether a field value is empty or whitespace-only.
func IsBlank(s string) bool { return isBlank(s) }

// Estimate owns an ordered grid of rows plus the last published validation
// result set.
type Estimate struct {
	ID                uuid.UUID       `db:"id" json:"id"`
	CustomerID        uuid.UUID       `db:"customer_id" json:"customer_id"`
	Title             string          `db:"title" json:"title"`
	Status            EstimateStatus  `db:"status" json:"status"`
	Rows              json.RawMessage `db:"rows" json:"-"`
	ValidationResults json.RawMessage `db:"validation_results" json:"validation_results,omitempty"`
	CreatedBy         uuid.UUID       `db:"created_by" json:"created_by"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`
}

// Grid decodes the stored rows preserving order.
func (e *Estimate) Grid() ([]Row, error) {
	if len(e.Rows) == 0 {
		return nil, nil
	}
	var rows []Row
	if err := json.Unmarshal(e.Rows, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// SetGrid encodes rows into the stored representation.
func (e *Estimate) SetGrid(rows []Row) error {
	data, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	e.Rows = data
	return nil
}
