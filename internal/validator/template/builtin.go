package template

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Number validates a single decimal value with optional bounds.
// Params: min, max (float), integer (bool), required (bool).
func Number(value string, params map[string]any, _ *Context) Result {
	value = strings.TrimSpace(value)
	if value == "" {
		if boolParam(params, "required") {
			return fail("value is required", "a numeric value")
		}
		return pass()
	}

	num, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fail(fmt.Sprintf("%q is not a number", value), "a numeric value")
	}
	if boolParam(params, "integer") && num != float64(int64(num)) {
		return fail(fmt.Sprintf("%q must be a whole number", value), "a whole number")
	}
	if min, ok := floatParam(params, "min"); ok && num < min {
		return fail(fmt.Sprintf("%s is below the minimum of %g", value, min), fmt.Sprintf("a number ≥ %g", min))
	}
	if max, ok := floatParam(params, "max"); ok && num > max {
		return fail(fmt.Sprintf("%s exceeds the maximum of %g", value, max), fmt.Sprintf("a number ≤ %g", max))
	}
	return pass()
}

// Dimensions validates a delimited dimension string like "12x3".
// Params: delimiter (default "x", matched case-insensitively), maxParts
// (default 2), min, max (per-part bounds).
func Dimensions(value string, params map[string]any, _ *Context) Result {
	value = strings.TrimSpace(value)
	if value == "" {
		return pass()
	}

	delim := stringParam(params, "delimiter")
	if delim == "" {
		delim = "x"
	}
	maxParts := 2
	if n, ok := intParam(params, "maxParts"); ok && n > 0 {
		maxParts = n
	}
	expected := fmt.Sprintf("dimensions like 12%s8", delim)

	parts := splitFold(value, delim)
	if len(parts) < 2 || len(parts) > maxParts {
		return fail(fmt.Sprintf("%q must contain 2–%d parts separated by %q", value, maxParts, delim), expected)
	}
	for _, part := range parts {
		part = strings.TrimSpace(part)
		num, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return fail(fmt.Sprintf("dimension part %q is not a number", part), expected)
		}
		if min, ok := floatParam(params, "min"); ok && num < min {
			return fail(fmt.Sprintf("dimension %s is below the minimum of %g", part, min), expected)
		}
		if max, ok := floatParam(params, "max"); ok && num > max {
			return fail(fmt.Sprintf("dimension %s exceeds the maximum of %g", part, max), expected)
		}
	}
	return pass()
}

// List validates a delimited list of numbers, e.g. letter heights "12,10,14".
// Params: delimiter (default ","), maxItems, min, max (per-item bounds).
func List(value string, params map[string]any, _ *Context) Result {
	value = strings.TrimSpace(value)
	if value == "" {
		return pass()
	}

	delim := stringParam(params, "delimiter")
	if delim == "" {
		delim = ","
	}
	expected := fmt.Sprintf("numbers separated by %q", delim)

	parts := strings.Split(value, delim)
	if maxItems, ok := intParam(params, "maxItems"); ok && len(parts) > maxItems {
		return fail(fmt.Sprintf("%d items exceeds the maximum of %d", len(parts), maxItems), expected)
	}
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return fail("list contains an empty item", expected)
		}
		num, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return fail(fmt.Sprintf("list item %q is not a number", part), expected)
		}
		if min, ok := floatParam(params, "min"); ok && num < min {
			return fail(fmt.Sprintf("list item %s is below the minimum of %g", part, min), expected)
		}
		if max, ok := floatParam(params, "max"); ok && num > max {
			return fail(fmt.Sprintf("list item %s exceeds the maximum of %g", part, max), expected)
		}
	}
	return pass()
}

// OneOf validates against an accepted literal token set.
// Params: tokens ([]string), caseSensitive (bool).
func OneOf(value string, params map[string]any, _ *Context) Result {
	value = strings.TrimSpace(value)
	if value == "" {
		return pass()
	}

	tokens := stringsParam(params, "tokens")
	if len(tokens) == 0 {
		return fail("no accepted tokens configured", "")
	}
	caseSensitive := boolParam(params, "caseSensitive")
	for _, tok := range tokens {
		if value == tok || (!caseSensitive && strings.EqualFold(value, tok)) {
			return pass()
		}
	}
	return fail(fmt.Sprintf("%q is not an accepted value", value), "one of: "+strings.Join(tokens, ", "))
}

// Text validates free text. Params: maxLen (int), pattern (regex).
func Text(value string, params map[string]any, _ *Context) Result {
	if value == "" {
		return pass()
	}
	if maxLen, ok := intParam(params, "maxLen"); ok && len(value) > maxLen {
		return fail(fmt.Sprintf("text exceeds the maximum length of %d", maxLen), fmt.Sprintf("at most %d characters", maxLen))
	}
	if pattern := stringParam(params, "pattern"); pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			// Misconfigured pattern fails closed, like an unknown template.
			return fail(fmt.Sprintf("invalid pattern in rule configuration: %v", err), "")
		}
		if !re.MatchString(value) {
			return fail(fmt.Sprintf("%q does not match the expected format", value), pattern)
		}
	}
	return pass()
}

var booleanTokens = map[string]bool{
	"yes": true, "no": true, "true": true, "false": true, "1": true, "0": true,
}

// Boolean validates yes/no style values.
func Boolean(value string, _ map[string]any, _ *Context) Result {
	value = strings.TrimSpace(value)
	if value == "" {
		return pass()
	}
	if !booleanTokens[strings.ToLower(value)] {
		return fail(fmt.Sprintf("%q is not a yes/no value", value), "yes, no, true, false, 1 or 0")
	}
	return pass()
}

// PinType validates a mounting pin type. It is context-aware: a pin type is
// only meaningful when the derived pin_count implies pins exist; otherwise
// the value must be empty. Params: tokens ([]string).
func PinType(value string, params map[string]any, ctx *Context) Result {
	value = strings.TrimSpace(value)
	pins := ctx.DerivedValue("pin_count")

	if pins <= 0 {
		if value != "" {
			return fail("pin type is set but the row has no pins", "empty unless pins are present")
		}
		return pass()
	}
	if value == "" {
		return fail("pin type is required when pins are present", "a pin type")
	}
	tokens := stringsParam(params, "tokens")
	if len(tokens) == 0 {
		return pass()
	}
	for _, tok := range tokens {
		if strings.EqualFold(value, tok) {
			return pass()
		}
	}
	return fail(fmt.Sprintf("%q is not a known pin type", value), "one of: "+strings.Join(tokens, ", "))
}

// splitFold splits on a delimiter ignoring case ("12x8" and "12X8" both
// split on "x").
func splitFold(s, delim string) []string {
	if delim == "" {
		return []string{s}
	}
	lower := strings.ToLower(s)
	ldelim := strings.ToLower(delim)
	var parts []string
	start := 0
	for {
		i := strings.Index(lower[start:], ldelim)
		if i < 0 {
			parts = append(parts, s[start:])
			return parts
		}
		parts = append(parts, s[start:start+i])
		start += i + len(delim)
	}
}
