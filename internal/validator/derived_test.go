package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signquote/internal/domain"
	"signquote/internal/ruleset"
)

func derivedPack() *ruleset.RulePack {
	return &ruleset.RulePack{ProductTypeID: 1, Name: "Channel Letters", Derived: true}
}

func TestComputeDerived_NilWithoutPack(t *testing.T) {
	r := row("r1", domain.RowKindPrimary, 1, map[string]string{"letters": "12,10"})
	assert.Nil(t, computeDerived(&r, nil, domain.CustomerPreferences{}))

	plain := &ruleset.RulePack{ProductTypeID: 3, Derived: false}
	assert.Nil(t, computeDerived(&r, plain, domain.CustomerPreferences{}))
}

func TestComputeDerived_LetterQuantities(t *testing.T) {
	r := row("r1", domain.RowKindPrimary, 1, map[string]string{"letters": "12, 10, 14"})
	d := computeDerived(&r, derivedPack(), domain.CustomerPreferences{})
	require.NotNil(t, d)
	assert.Equal(t, 3.0, d[DerivedLetterCount])
	assert.Equal(t, 36.0, d[DerivedTotalLengthIn])
}

func TestComputeDerived_SkipsUnparsableParts(t *testing.T) {
	r := row("r1", domain.RowKindPrimary, 1, map[string]string{"letters": "12,abc,10"})
	d := computeDerived(&r, derivedPack(), domain.CustomerPreferences{})
	assert.Equal(t, 2.0, d[DerivedLetterCount])
	assert.Equal(t, 22.0, d[DerivedTotalLengthIn])
}

func TestComputeDerived_PinCount(t *testing.T) {
	r := row("r1", domain.RowKindPrimary, 1, map[string]string{"pins": " 4 "})
	d := computeDerived(&r, derivedPack(), domain.CustomerPreferences{})
	assert.Equal(t, 4.0, d[DerivedPinCount])

	zero := row("r2", domain.RowKindPrimary, 1, map[string]string{"pins": "0"})
	d = computeDerived(&zero, derivedPack(), domain.CustomerPreferences{})
	_, present := d[DerivedPinCount]
	assert.False(t, present, "zero pins derives nothing")
}

func TestComputeDerived_LEDChain(t *testing.T) {
	// 100 inches of stroke, 0.3 LEDs/inch, 0.8 W/LED, 60 W supplies.
	r := row("r1", domain.RowKindPrimary, 1, map[string]string{
		"letters":   "50,50",
		"led_brand": "principal",
	})
	d := computeDerived(&r, derivedPack(), domain.CustomerPreferences{})
	assert.Equal(t, 30.0, d[DerivedLEDCount])
	assert.Equal(t, 24.0, d[DerivedWattage])
	assert.Equal(t, 1.0, d[DerivedPowerSupplies])
}

func TestComputeDerived_CustomerDefaultBrandTriggersLEDs(t *testing.T) {
	r := row("r1", domain.RowKindPrimary, 1, map[string]string{"letters": "50,50"})

	none := computeDerived(&r, derivedPack(), domain.CustomerPreferences{})
	_, present := none[DerivedLEDCount]
	assert.False(t, present)

	withDefault := computeDerived(&r, derivedPack(), domain.CustomerPreferences{DefaultLEDBrand: "principal"})
	assert.Equal(t, 30.0, withDefault[DerivedLEDCount])
}

func TestComputeDerived_NoLettersNoSupplies(t *testing.T) {
	r := row("r1", domain.RowKindPrimary, 1, map[string]string{"led_brand": "principal"})
	d := computeDerived(&r, derivedPack(), domain.CustomerPreferences{})
	assert.Equal(t, 0.0, d[DerivedWattage])
	assert.Equal(t, 0.0, d[DerivedPowerSupplies])
}

func TestComputeAggregates(t *testing.T) {
	cfg, err := ruleset.New(
		derivedPack(),
		&ruleset.RulePack{ProductTypeID: 3, Name: "Monument", RequiresUL: true},
	)
	require.NoError(t, err)

	rows := []domain.Row{
		row("r1", domain.RowKindPrimary, 1, map[string]string{"letters": "50,50", "led_brand": "b"}),
		row("r2", domain.RowKindPrimary, 3, map[string]string{"size": "48x96"}),
	}
	derived := []map[string]float64{
		{DerivedWattage: 24},
		nil,
	}

	agg := computeAggregates(rows, derived, cfg, domain.CustomerPreferences{})
	assert.Equal(t, 24.0, agg.TotalWattage)
	assert.True(t, agg.NeedsUL, "a filled UL-required product type forces UL")
	assert.Equal(t, 2, agg.RowCount)
}

func TestComputeAggregates_EmptyULRowDoesNotForceUL(t *testing.T) {
	cfg, err := ruleset.New(&ruleset.RulePack{ProductTypeID: 3, RequiresUL: true})
	require.NoError(t, err)

	rows := []domain.Row{row("r1", domain.RowKindPrimary, 3, nil)}
	agg := computeAggregates(rows, []map[string]float64{nil}, cfg, domain.CustomerPreferences{})
	assert.False(t, agg.NeedsUL)

	agg = computeAggregates(rows, []map[string]float64{nil}, cfg, domain.CustomerPreferences{RequiresULListing: true})
	assert.True(t, agg.NeedsUL, "customer preference alone forces UL")
}

func TestParseLengthList(t *testing.T) {
	count, total := parseLengthList("")
	assert.Zero(t, count)
	assert.Zero(t, total)

	count, total = parseLengthList("12, 10.5 ,14")
	assert.Equal(t, 3, count)
	assert.Equal(t, 36.5, total)

	count, total = parseLengthList(", ,")
	assert.Zero(t, count)
	assert.Zero(t, total)
}
