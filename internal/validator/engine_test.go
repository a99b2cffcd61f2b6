package validator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signquote/internal/domain"
	"signquote/internal/ruleset"
	"signquote/internal/validator/template"
)

func engineConfig(t *testing.T) *ruleset.Config {
	t.Helper()
	cfg, err := ruleset.New(
		&ruleset.RulePack{
			ProductTypeID: 1,
			Name:          "Channel Letters",
			Category:      domain.ProductCategoryStandard,
			Derived:       true,
			Fields: map[string]ruleset.FieldRule{
				"size":     {Template: "dimensions", Category: domain.CategoryCompleteSet},
				"letters":  {Template: "list", Category: domain.CategoryCompleteSet},
				"color":    {Template: "text", Category: domain.CategorySufficient, Params: map[string]any{"maxLen": 60}},
				"pins":     {Template: "number", Category: domain.CategorySupplementary, Params: map[string]any{"integer": true}},
				"pin_type": {Template: "pinType", Category: domain.CategoryContextDependent, DependsOn: []string{"pins"}},
			},
		},
		&ruleset.RulePack{
			ProductTypeID: 3,
			Name:          "Monument",
			Category:      domain.ProductCategorySpecial,
			RequiresUL:    true,
			Fields: map[string]ruleset.FieldRule{
				"size": {Template: "dimensions", Category: domain.CategoryCompleteSet},
			},
		},
	)
	require.NoError(t, err)
	return cfg
}

func TestEngineRun_CleanGrid(t *testing.T) {
	e := NewEngine(engineConfig(t))
	rows := []domain.Row{
		row("p1", domain.RowKindPrimary, 1, map[string]string{
			"size":    "12x8",
			"letters": "12,10",
		}),
		row("s1", domain.RowKindSubItem, 0, nil),
	}

	rs := e.Run(rows, domain.CustomerPreferences{})
	assert.Empty(t, rs.Entries)
	assert.False(t, rs.HasBlockingErrors)

	p1, ok := rs.Outcome("p1")
	require.True(t, ok)
	assert.True(t, p1.PricingAllowed)
	assert.Equal(t, 2.0, p1.Derived[DerivedLetterCount])

	s1, ok := rs.Outcome("s1")
	require.True(t, ok)
	assert.True(t, s1.Empty)
	assert.True(t, s1.VisibleInPreview)
}

func TestEngineRun_EveryRowGetsAnOutcome(t *testing.T) {
	e := NewEngine(engineConfig(t))
	rows := []domain.Row{
		row("p1", domain.RowKindPrimary, 1, map[string]string{"size": "bad"}),
		row("p2", domain.RowKindPrimary, 99, map[string]string{"item1": "x"}),
		row("p3", domain.RowKindPrimary, 0, nil),
	}

	rs := e.Run(rows, domain.CustomerPreferences{})
	for _, r := range rows {
		_, ok := rs.Outcome(r.ID)
		assert.True(t, ok, r.ID)
	}
}

func TestEngineRun_IdempotentOnUnchangedGrid(t *testing.T) {
	e := NewEngine(engineConfig(t))
	rows := []domain.Row{
		row("p1", domain.RowKindPrimary, 1, map[string]string{
			"size":     "12x8",
			"pin_type": "stud",
		}),
		row("p2", domain.RowKindPrimary, 99, map[string]string{"item1": "x", "item3": "y"}),
		row("s1", domain.RowKindSubItem, 0, map[string]string{FieldAssemblyGroup: "stale"}),
	}
	prefs := domain.CustomerPreferences{DefaultLEDBrand: "principal"}

	first, err := json.Marshal(e.Run(rows, prefs))
	require.NoError(t, err)
	second, err := json.Marshal(e.Run(rows, prefs))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestEngineRun_FailClosedForUnconfiguredType(t *testing.T) {
	e := NewEngine(engineConfig(t))
	rows := []domain.Row{
		row("p1", domain.RowKindPrimary, 42, map[string]string{"item2": "data"}),
	}

	rs := e.Run(rows, domain.CustomerPreferences{})
	require.True(t, rs.HasBlockingErrors)
	entries := rs.FieldErrors("p1", "item2")
	require.Len(t, entries, 1)
	assert.Equal(t, "unsupported_product_type", entries[0].Rule)
}

func TestEngineRun_IncompleteMandatorySet(t *testing.T) {
	e := NewEngine(engineConfig(t))
	rows := []domain.Row{
		row("p1", domain.RowKindPrimary, 1, map[string]string{"size": "12x8"}),
	}

	rs := e.Run(rows, domain.CustomerPreferences{})
	p1, _ := rs.Outcome("p1")
	assert.False(t, p1.PricingAllowed)
	assert.Equal(t, []string{"letters"}, p1.IncompleteFields)

	entries := rs.FieldErrors("p1", "letters")
	require.Len(t, entries, 1)
	assert.Equal(t, "required_field_missing", entries[0].Rule)
}

func TestEngineRun_ContextAwarePinType(t *testing.T) {
	e := NewEngine(engineConfig(t))

	// Pins present, no pin type: blocked.
	rows := []domain.Row{
		row("p1", domain.RowKindPrimary, 1, map[string]string{
			"size":    "12x8",
			"letters": "12,10",
			"pins":    "4",
		}),
	}
	rs := e.Run(rows, domain.CustomerPreferences{})
	require.Len(t, rs.FieldErrors("p1", "pin_type"), 1)

	// Pin type provided: clean.
	rows[0].Fields["pin_type"] = "stud"
	rs = e.Run(rows, domain.CustomerPreferences{})
	assert.Empty(t, rs.FieldErrors("p1", "pin_type"))

	// Pin type without pins: blocked again, plus the dependency rule.
	delete(rows[0].Fields, "pins")
	rs = e.Run(rows, domain.CustomerPreferences{})
	entries := rs.FieldErrors("p1", "pin_type")
	require.Len(t, entries, 2)
	assert.Equal(t, "pinType", entries[0].Rule)
	assert.Equal(t, "depends_on", entries[1].Rule)
}

func TestEngineRun_DerivedRecomputedPerPass(t *testing.T) {
	e := NewEngine(engineConfig(t))
	rows := []domain.Row{
		row("p1", domain.RowKindPrimary, 1, map[string]string{
			"size":    "12x8",
			"letters": "50,50",
		}),
	}
	prefs := domain.CustomerPreferences{DefaultLEDBrand: "principal"}

	rs := e.Run(rows, prefs)
	p1, _ := rs.Outcome("p1")
	assert.Equal(t, 30.0, p1.Derived[DerivedLEDCount])
	assert.Equal(t, 24.0, rs.Aggregates.TotalWattage)

	rows[0].Fields["letters"] = "50"
	rs = e.Run(rows, prefs)
	p1, _ = rs.Outcome("p1")
	assert.Equal(t, 15.0, p1.Derived[DerivedLEDCount])
	assert.Equal(t, 12.0, rs.Aggregates.TotalWattage)
}

func TestEngineRun_StructuralAndAssemblyEntriesIncluded(t *testing.T) {
	e := NewEngine(engineConfig(t))
	rows := []domain.Row{
		row("s1", domain.RowKindSubItem, 0, nil),
		row("p1", domain.RowKindPrimary, 3, map[string]string{"size": "48x96"}),
		row("s2", domain.RowKindSubItem, 0, map[string]string{FieldAssemblyGroup: "A"}),
	}

	rs := e.Run(rows, domain.CustomerPreferences{})
	require.True(t, rs.HasBlockingErrors)

	structural := rs.FieldErrors("s1", KeyStructure)
	assert.NotEmpty(t, structural)
	assert.NotEmpty(t, rs.FieldErrors("s2", KeyStructure), "special parent cannot own sub-items")
	assert.NotEmpty(t, rs.FieldErrors("s2", KeyAssembly), "stale group on dependent is a mismatch")
	assert.True(t, rs.Aggregates.NeedsUL)
}

func TestEngineRun_AssignmentsPublished(t *testing.T) {
	e := NewEngine(engineConfig(t))
	rows := []domain.Row{
		row("p1", domain.RowKindPrimary, 1, map[string]string{
			"size": "12x8", "letters": "12", FieldAssemblyGroup: "A", FieldAssemblyID: "asm-1",
		}),
		row("s1", domain.RowKindSubItem, 0, map[string]string{FieldAssemblyGroup: "A"}),
	}

	rs := e.Run(rows, domain.CustomerPreferences{})
	require.Len(t, rs.Assignments, 2)
	assert.Equal(t, "asm-1", rs.Assignments[1].AssemblyID)
	assert.Equal(t, "p1", rs.Assignments[1].InheritedFromParentID)
}

func TestEngineRun_CustomTemplateRegistry(t *testing.T) {
	reg := template.NewRegistry()
	reg.Register("dimensions", func(string, map[string]any, *template.Context) template.Result {
		return template.Result{Valid: false, Error: "always rejected"}
	})

	cfg, err := ruleset.New(&ruleset.RulePack{
		ProductTypeID: 1,
		Fields: map[string]ruleset.FieldRule{
			"size": {Template: "dimensions", Category: domain.CategoryCompleteSet},
		},
	})
	require.NoError(t, err)

	e := NewEngine(cfg, WithTemplateRegistry(reg))
	rows := []domain.Row{
		row("p1", domain.RowKindPrimary, 1, map[string]string{"size": "12x8"}),
	}
	rs := e.Run(rows, domain.CustomerPreferences{})
	entries := rs.FieldErrors("p1", "size")
	require.Len(t, entries, 1)
	assert.Equal(t, "always rejected", entries[0].Message)
}

func TestCheckGrid(t *testing.T) {
	assert.NoError(t, CheckGrid(nil))
	assert.NoError(t, CheckGrid([]domain.Row{
		row("a", domain.RowKindPrimary, 1, nil),
		row("b", domain.RowKindPrimary, 1, nil),
	}))

	err := CheckGrid([]domain.Row{
		row("a", domain.RowKindPrimary, 1, nil),
		row("a", domain.RowKindPrimary, 1, nil),
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateRowID)

	err = CheckGrid([]domain.Row{row("", domain.RowKindPrimary, 1, nil)})
	assert.ErrorIs(t, err, domain.ErrDuplicateRowID)
}
