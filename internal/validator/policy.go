package validator

import (
	"strings"

	"signquote/internal/domain"
	"signquote/internal/validator/template"
)

// EscalateWarnings converts any template warnings into a blocking failure.
// There is no non-blocking warning tier in the published results; templates
// may report warnings, but the grid treats them as errors. Keep this policy
// in one place so the behavior stays visible and testable.
func EscalateWarnings(res template.Result) template.Result {
	if len(res.Warnings) == 0 {
		return res
	}
	out := res
	out.Valid = false
	if out.Error == "" {
		out.Error = strings.Join(res.Warnings, "; ")
	}
	out.Warnings = nil
	return out
}

// CategoryResolver resolves a configured field category at validation time.
type CategoryResolver func(domain.FieldCategory) domain.FieldCategory

// DefaultCategoryResolver maps context_dependent to sufficient, the current
// product policy, and leaves everything else unchanged.
func DefaultCategoryResolver(cat domain.FieldCategory) domain.FieldCategory {
	if cat == domain.CategoryContextDependent {
		return domain.CategorySufficient
	}
	return cat
}
