package validator

import (
	"fmt"
	"log"
	"sync"

	"signquote/internal/domain"
	"signquote/internal/ruleset"
	"signquote/internal/validator/template"
)

// Engine orchestrates grid validation: a derived-value pass, then
// context-aware cell, row, structural and assembly validation over the
// entire grid. It holds no per-grid state; every Run builds a fresh
// ResultSet, so repeated runs on an unchanged grid are byte-identical and no
// stale entries survive a pass.
type Engine struct {
	templates *template.Registry
	rules     *ruleset.Config
	resolve   CategoryResolver
	cells     *CellValidator
}

// Option configures an Engine.
type Option func(*Engine)

// WithTemplateRegistry replaces the built-in template registry.
func WithTemplateRegistry(reg *template.Registry) Option {
	return func(e *Engine) { e.templates = reg }
}

// WithCategoryResolver replaces the category resolution strategy.
func WithCategoryResolver(resolve CategoryResolver) Option {
	return func(e *Engine) { e.resolve = resolve }
}

// NewEngine creates an Engine over a product rule configuration.
func NewEngine(rules *ruleset.Config, opts ...Option) *Engine {
	e := &Engine{
		rules:   rules,
		resolve: DefaultCategoryResolver,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.templates == nil {
		e.templates = template.NewRegistry()
	}
	e.cells = NewCellValidator(e.templates)
	return e
}

// Run validates the entire grid. Full revalidation on every invocation is a
// deliberate trade-off over incremental invalidation: placement rules and
// grid aggregates depend on the whole ordering anyway.
//
// Phase 1 computes derived quantities per row plus grid aggregates. Phase 2
// builds one context per row and runs cell, row, structural and assembly
// validation. Structural and assembly failures are contained so the cell and
// row results already computed are not discarded.
func (e *Engine) Run(rows []domain.Row, prefs domain.CustomerPreferences) *ResultSet {
	rs := newResultSet()

	// Phase 1: derived values, recomputed from scratch every pass.
	derived := make([]map[string]float64, len(rows))
	for i := range rows {
		derived[i] = computeDerived(&rows[i], e.rules.Pack(rows[i].ProductTypeID), prefs)
	}
	rs.Aggregates = computeAggregates(rows, derived, e.rules, prefs)

	// Phase 2: per-row contexts, then cell validation. Cell validations are
	// independent pure computations, so they fan out per row into a private
	// accumulator; everything joins before the ordering-dependent checks.
	contexts := make([]*template.Context, len(rows))
	for i := range rows {
		contexts[i] = &template.Context{
			Fields:  rows[i].Fields,
			Derived: derived[i],
			Prefs:   prefs,
		}
	}

	perRow := make([][]Entry, len(rows))
	var wg sync.WaitGroup
	for i := range rows {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			perRow[i] = e.validateRowCells(&rows[i], contexts[i])
		}(i)
	}
	wg.Wait()

	for i := range rows {
		rs.add(perRow[i]...)
	}

	// Row classification.
	for i := range rows {
		rules := e.rules.FieldRules(rows[i].ProductTypeID)
		c := Classify(&rows[i], rules, e.resolve)
		rs.Rows[rows[i].ID] = RowOutcome{
			Empty:            c.Empty,
			PricingAllowed:   c.PricingAllowed,
			VisibleInPreview: c.VisibleInPreview,
			IncompleteFields: c.IncompleteFields,
			Derived:          derived[i],
		}
		for _, missing := range c.IncompleteFields {
			rs.add(Entry{
				RowID:   rows[i].ID,
				Key:     missing,
				Rule:    "required_field_missing",
				Message: "required field missing",
			})
		}
	}

	parents := ParentIndex(rows)

	// Structural validation, contained so cell/row results survive.
	func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("validator.Engine: structural validation failed: %v", r)
			}
		}()
		rs.add(ValidateStructure(rows, parents, e.rules)...)
	}()

	// Assembly assignment, degraded on failure rather than aborting the pass.
	func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("validator.Engine: assembly assignment failed: %v", r)
			}
		}()
		rs.Assignments = Assign(rows, parents)
		rs.add(ValidateAssignments(rows, parents, rs.Assignments)...)
	}()

	rs.HasBlockingErrors = len(rs.Entries) > 0
	return rs
}

// validateRowCells runs the configured field rules for one row, or the
// fail-closed check when the product type has no configuration.
func (e *Engine) validateRowCells(row *domain.Row, ctx *template.Context) []Entry {
	rules := e.rules.FieldRules(row.ProductTypeID)
	if rules == nil {
		if row.ProductTypeID != 0 {
			return validateUnconfigured(row)
		}
		return nil
	}
	return e.cells.ValidateRow(row, rules, ctx)
}

// AssemblyAssignments recomputes assembly annotations for display,
// independent of any stored validation results.
func (e *Engine) AssemblyAssignments(rows []domain.Row) []Assignment {
	return Assign(rows, ParentIndex(rows))
}

// CheckGrid rejects grids that violate the row identity contract before
// validation runs; duplicate ids would make the result keying ambiguous.
func CheckGrid(rows []domain.Row) error {
	seen := make(map[string]struct{}, len(rows))
	for i := range rows {
		if rows[i].ID == "" {
			return fmt.Errorf("%w: row at index %d has no id", domain.ErrDuplicateRowID, i)
		}
		if _, dup := seen[rows[i].ID]; dup {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateRowID, rows[i].ID)
		}
		seen[rows[i].ID] = struct{}{}
	}
	return nil
}
