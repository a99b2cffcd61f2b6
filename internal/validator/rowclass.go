package validator

import (
	"sort"

	"signquote/internal/domain"
	"signquote/internal/ruleset"
)

// Classification is the row-level verdict: pricing eligibility and preview
// visibility are separate gates, so a single valid bool would lose
// information the grid and the customer-facing document both need.
type Classification struct {
	Empty            bool
	PricingAllowed   bool
	VisibleInPreview bool
	IncompleteFields []string
}

// Classify decides emptiness, completeness against the required-field
// categories, and the pricing/preview gates for one row.
func Classify(row *domain.Row, rules map[string]ruleset.FieldRule, resolve CategoryResolver) Classification {
	if resolve == nil {
		resolve = DefaultCategoryResolver
	}

	if !row.HasData() {
		// Empty rows are not priced and not shown, except sub-items: a cost
		// component with no data is itself meaningful to the estimate reader.
		return Classification{
			Empty:            true,
			VisibleInPreview: row.Kind == domain.RowKindSubItem,
		}
	}

	if len(rules) == 0 {
		return Classification{}
	}

	fields := make([]string, 0, len(rules))
	for name := range rules {
		fields = append(fields, name)
	}
	sort.Strings(fields)

	var mandatory, mandatoryFilled, missing []string
	sufficientFilled := false

	for _, name := range fields {
		filled := !domain.IsBlank(row.Field(name))
		switch resolve(rules[name].Category) {
		case domain.CategoryCompleteSet:
			mandatory = append(mandatory, name)
			if filled {
				mandatoryFilled = append(mandatoryFilled, name)
			} else {
				missing = append(missing, name)
			}
		case domain.CategorySufficient:
			if filled {
				sufficientFilled = true
			}
		}
	}

	// A partially filled mandatory set blocks pricing and preview no matter
	// what the other categories look like.
	if len(mandatoryFilled) > 0 && len(mandatoryFilled) < len(mandatory) {
		return Classification{IncompleteFields: missing}
	}

	mandatoryComplete := len(mandatory) > 0 && len(mandatoryFilled) == len(mandatory)
	if mandatoryComplete || sufficientFilled {
		return Classification{PricingAllowed: true, VisibleInPreview: true}
	}

	// Only supplementary data: the row holds draft refinements but nothing
	// that establishes a line item, so it stays out of the preview.
	return Classification{}
}
