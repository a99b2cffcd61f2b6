package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"signquote/internal/domain"
	"signquote/internal/ruleset"
)

var classifyRules = map[string]ruleset.FieldRule{
	"size":    {Template: "dimensions", Category: domain.CategoryCompleteSet},
	"letters": {Template: "list", Category: domain.CategoryCompleteSet},
	"color":   {Template: "text", Category: domain.CategorySufficient},
	"finish":  {Template: "text", Category: domain.CategorySupplementary},
	"pins":    {Template: "number", Category: domain.CategoryContextDependent},
}

func TestClassify_EmptyRow(t *testing.T) {
	r := row("r1", domain.RowKindPrimary, 1, nil)
	c := Classify(&r, classifyRules, nil)
	assert.True(t, c.Empty)
	assert.False(t, c.PricingAllowed)
	assert.False(t, c.VisibleInPreview)
}

func TestClassify_EmptySubItemStaysVisible(t *testing.T) {
	r := row("r1", domain.RowKindSubItem, 1, map[string]string{"size": "   "})
	c := Classify(&r, classifyRules, nil)
	assert.True(t, c.Empty)
	assert.True(t, c.VisibleInPreview)
	assert.False(t, c.PricingAllowed)
}

func TestClassify_CompleteMandatorySet(t *testing.T) {
	r := row("r1", domain.RowKindPrimary, 1, map[string]string{
		"size":    "12x8",
		"letters": "12,10",
	})
	c := Classify(&r, classifyRules, nil)
	assert.True(t, c.PricingAllowed)
	assert.True(t, c.VisibleInPreview)
	assert.Empty(t, c.IncompleteFields)
}

func TestClassify_PartialMandatorySetBlocksEverything(t *testing.T) {
	// Even with a sufficient field filled, a half-finished mandatory set
	// keeps the row out of pricing and preview.
	r := row("r1", domain.RowKindPrimary, 1, map[string]string{
		"size":  "12x8",
		"color": "red",
	})
	c := Classify(&r, classifyRules, nil)
	assert.False(t, c.PricingAllowed)
	assert.False(t, c.VisibleInPreview)
	assert.Equal(t, []string{"letters"}, c.IncompleteFields)
}

func TestClassify_SufficientAloneEnablesRow(t *testing.T) {
	r := row("r1", domain.RowKindPrimary, 1, map[string]string{"color": "red"})
	c := Classify(&r, classifyRules, nil)
	assert.True(t, c.PricingAllowed)
	assert.True(t, c.VisibleInPreview)
}

func TestClassify_ContextDependentResolvesToSufficient(t *testing.T) {
	r := row("r1", domain.RowKindPrimary, 1, map[string]string{"pins": "4"})
	c := Classify(&r, classifyRules, nil)
	assert.True(t, c.PricingAllowed, "context_dependent resolves to sufficient under the default policy")
}

func TestClassify_SupplementaryOnlyStaysHidden(t *testing.T) {
	r := row("r1", domain.RowKindPrimary, 1, map[string]string{"finish": "matte"})
	c := Classify(&r, classifyRules, nil)
	assert.False(t, c.Empty)
	assert.False(t, c.PricingAllowed)
	assert.False(t, c.VisibleInPreview)
}

func TestClassify_NoRulesForFilledRow(t *testing.T) {
	r := row("r1", domain.RowKindPrimary, 42, map[string]string{"item1": "data"})
	c := Classify(&r, nil, nil)
	assert.False(t, c.Empty)
	assert.False(t, c.PricingAllowed)
}

func TestClassify_CustomResolver(t *testing.T) {
	demote := func(cat domain.FieldCategory) domain.FieldCategory {
		if cat == domain.CategoryContextDependent {
			return domain.CategorySupplementary
		}
		return cat
	}
	r := row("r1", domain.RowKindPrimary, 1, map[string]string{"pins": "4"})
	c := Classify(&r, classifyRules, demote)
	assert.False(t, c.PricingAllowed)
}
