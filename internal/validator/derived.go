package validator

import (
	"math"
	"strconv"
	"strings"

	"signquote/internal/domain"
	"signquote/internal/ruleset"
)

// Field names the derived-value pass reads.
const (
	fieldLetters  = "letters"
	fieldPins     = "pins"
	fieldLEDBrand = "led_brand"
)

// Derived value names.
const (
	DerivedLetterCount   = "letter_count"
	DerivedTotalLengthIn = "total_length_in"
	DerivedPinCount      = "pin_count"
	DerivedLEDCount      = "led_count"
	DerivedWattage       = "wattage"
	DerivedPowerSupplies = "power_supplies"
)

// Fixed per-unit constants for LED population and power sizing.
const (
	ledsPerInch    = 0.3
	wattsPerLED    = 0.8
	wattsPerSupply = 60.0
)

// computeDerived recomputes a row's derived quantities from its raw fields
// and the customer preference snapshot. Pure and recomputed every pass.
func computeDerived(row *domain.Row, pack *ruleset.RulePack, prefs domain.CustomerPreferences) map[string]float64 {
	if pack == nil || !pack.Derived {
		return nil
	}

	derived := make(map[string]float64)

	count, total := parseLengthList(row.Field(fieldLetters))
	derived[DerivedLetterCount] = float64(count)
	derived[DerivedTotalLengthIn] = total

	if pins := row.Field(fieldPins); !domain.IsBlank(pins) {
		if n, err := strconv.ParseFloat(strings.TrimSpace(pins), 64); err == nil && n > 0 {
			derived[DerivedPinCount] = n
		}
	}

	// LED quantities apply when the row names a brand or the customer has a
	// default brand on file.
	if !domain.IsBlank(row.Field(fieldLEDBrand)) || prefs.DefaultLEDBrand != "" {
		leds := math.Ceil(total * ledsPerInch)
		derived[DerivedLEDCount] = leds
		watts := leds * wattsPerLED
		derived[DerivedWattage] = watts
		if watts > 0 {
			derived[DerivedPowerSupplies] = math.Ceil(watts / wattsPerSupply)
		} else {
			derived[DerivedPowerSupplies] = 0
		}
	}

	return derived
}

// parseLengthList parses a comma-delimited list of component lengths like
// "12,10,14" into a component count and a summed length. Unparsable parts
// are skipped rather than failing: derived values feed validation, they do
// not replace it.
func parseLengthList(value string) (int, float64) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, 0
	}
	count := 0
	total := 0.0
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.ParseFloat(part, 64)
		if err != nil {
			continue
		}
		count++
		total += n
	}
	return count, total
}

// computeAggregates folds every row's derived values into grid-wide facts.
func computeAggregates(rows []domain.Row, derived []map[string]float64, cfg *ruleset.Config, prefs domain.CustomerPreferences) Aggregates {
	agg := Aggregates{RowCount: len(rows), NeedsUL: prefs.RequiresULListing}
	for i := range rows {
		if d := derived[i]; d != nil {
			agg.TotalWattage += d[DerivedWattage]
		}
		if pack := cfg.Pack(rows[i].ProductTypeID); pack != nil && pack.RequiresUL && rows[i].HasData() {
			agg.NeedsUL = true
		}
	}
	return agg
}
