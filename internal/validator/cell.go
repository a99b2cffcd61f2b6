package validator

import (
	"fmt"
	"sort"

	"signquote/internal/domain"
	"signquote/internal/ruleset"
	"signquote/internal/validator/template"
)

// Free-form numbered fields that unconfigured product types must reject.
const freeFormFieldCount = 10

// freeFormFields returns the item1..item10 namespace.
func freeFormFields() []string {
	names := make([]string, freeFormFieldCount)
	for i := range names {
		names[i] = fmt.Sprintf("item%d", i+1)
	}
	return names
}

// CellValidator applies one field's configured template to one raw value.
type CellValidator struct {
	templates *template.Registry
}

// NewCellValidator creates a CellValidator over a template registry.
func NewCellValidator(reg *template.Registry) *CellValidator {
	return &CellValidator{templates: reg}
}

// ValidateRow runs every configured field rule against the row, in sorted
// field order so output is deterministic. The returned entries are all
// blocking; warning escalation has already been applied.
func (cv *CellValidator) ValidateRow(row *domain.Row, rules map[string]ruleset.FieldRule, ctx *template.Context) []Entry {
	fields := make([]string, 0, len(rules))
	for name := range rules {
		fields = append(fields, name)
	}
	sort.Strings(fields)

	var entries []Entry
	for _, name := range fields {
		rule := rules[name]
		value := row.Field(name)
		entries = append(entries, cv.validateCell(row.ID, name, value, rule, ctx)...)
		entries = append(entries, checkDependencies(row, name, rule)...)
	}
	return entries
}

// validateCell applies a single template. An unknown template name is itself
// a failure so misconfigured rules never read as "no rule", and a template
// panic becomes a field error instead of aborting the pass.
func (cv *CellValidator) validateCell(rowID, field, value string, rule ruleset.FieldRule, ctx *template.Context) []Entry {
	fn, ok := cv.templates.Get(rule.Template)
	if !ok {
		return []Entry{{
			RowID:   rowID,
			Key:     field,
			Rule:    "unknown_template",
			Message: "unknown validation function",
			Value:   value,
		}}
	}

	res := runTemplate(fn, value, rule.Params, ctx)
	res = EscalateWarnings(res)
	if res.Valid {
		return nil
	}

	msg := res.Error
	if rule.Message != "" {
		// A configured message overrides the template's wording, never its decision.
		msg = rule.Message
	}
	return []Entry{{
		RowID:          rowID,
		Key:            field,
		Rule:           rule.Template,
		Message:        msg,
		ExpectedFormat: res.ExpectedFormat,
		Value:          value,
	}}
}

func runTemplate(fn template.Func, value string, params map[string]any, ctx *template.Context) (res template.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = template.Result{Valid: false, Error: fmt.Sprintf("validation failed: %v", r)}
		}
	}()
	return fn(value, params, ctx)
}

// checkDependencies enforces the fill-together constraints between fields of
// the same row. dependsOn is directional: a filled field requires each named
// field to be filled. complimentary is bidirectional: a filled field flags
// any blank partner.
func checkDependencies(row *domain.Row, field string, rule ruleset.FieldRule) []Entry {
	if domain.IsBlank(row.Field(field)) {
		return nil
	}

	var entries []Entry
	for _, dep := range rule.DependsOn {
		if domain.IsBlank(row.Field(dep)) {
			entries = append(entries, Entry{
				RowID:   row.ID,
				Key:     field,
				Rule:    "depends_on",
				Message: fmt.Sprintf("%s requires %s to be filled", field, dep),
				Value:   row.Field(field),
			})
		}
	}
	for _, partner := range rule.Complimentary {
		if domain.IsBlank(row.Field(partner)) {
			entries = append(entries, Entry{
				RowID:   row.ID,
				Key:     field,
				Rule:    "complimentary",
				Message: fmt.Sprintf("%s and %s must be filled together", field, partner),
				Value:   row.Field(field),
			})
		}
	}
	return entries
}

// validateUnconfigured rejects data in the free-form numbered namespace when
// the row's product type has no rule pack: the engine fails closed rather
// than accepting arbitrary data for unsupported product types.
func validateUnconfigured(row *domain.Row) []Entry {
	var entries []Entry
	for _, name := range freeFormFields() {
		if !domain.IsBlank(row.Field(name)) {
			entries = append(entries, Entry{
				RowID:   row.ID,
				Key:     name,
				Rule:    "unsupported_product_type",
				Message: "product type not yet supported",
				Value:   row.Field(name),
			})
		}
	}
	return entries
}
