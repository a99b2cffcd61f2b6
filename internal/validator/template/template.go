// Package template holds the registry of named validation functions that
// field rules reference. Every template is a pure function of the raw field
// value, its configured params, and an optional per-row context.
package template

import (
	"strconv"
	"strings"

	"signquote/internal/domain"
)

// Context carries the per-row facts a context-aware template may consult.
type Context struct {
	Fields  map[string]string
	Derived map[string]float64
	Prefs   domain.CustomerPreferences
}

// DerivedValue returns a derived quantity, or 0 when absent.
func (c *Context) DerivedValue(name string) float64 {
	if c == nil || c.Derived == nil {
		return 0
	}
	return c.Derived[name]
}

// Result is the outcome of applying one template to one value.
type Result struct {
	Valid          bool
	Error          string
	ExpectedFormat string
	Warnings       []string
}

func pass() Result { return Result{Valid: true} }

func fail(msg, expected string) Result {
	return Result{Valid: false, Error: msg, ExpectedFormat: expected}
}

// Func is a validation template. Implementations must be pure: no hidden
// state, no I/O, deterministic for identical inputs.
type Func func(value string, params map[string]any, ctx *Context) Result

// Registry maps template names to validation functions.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry creates a Registry preloaded with the built-in templates.
func NewRegistry() *Registry {
	r := &Registry{funcs: make(map[string]Func)}
	r.Register("number", Number)
	r.Register("dimensions", Dimensions)
	r.Register("list", List)
	r.Register("oneOf", OneOf)
	r.Register("text", Text)
	r.Register("boolean", Boolean)
	r.Register("pinType", PinType)
	r.Register("expression", Expression)
	return r
}

// Register adds or replaces a template.
func (r *Registry) Register(name string, fn Func) {
	r.funcs[name] = fn
}

// Get returns the template for a name. A missing name is a configuration
// error the caller must surface, never a silent pass.
func (r *Registry) Get(name string) (Func, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

// --- param helpers ---
// Params come from YAML/JSON, so numbers may arrive as int, uint64 or float64.

func floatParam(params map[string]any, key string) (float64, bool) {
	v, ok := params[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func intParam(params map[string]any, key string) (int, bool) {
	f, ok := floatParam(params, key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func boolParam(params map[string]any, key string) bool {
	v, ok := params[key]
	if !ok {
		return false
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(b, "true") || b == "1"
	}
	return false
}

func stringParam(params map[string]any, key string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func stringsParam(params map[string]any, key string) []string {
	v, ok := params[key]
	if !ok {
		return nil
	}
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
