package template

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// compiled caches expr programs keyed by source, so repeated validation
// passes do not recompile unchanged rules.
var compiled sync.Map // string -> *vm.Program

func compileExpr(source string) (*vm.Program, error) {
	if prog, ok := compiled.Load(source); ok {
		return prog.(*vm.Program), nil
	}
	prog, err := expr.Compile(source, expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile expression: %w", err)
	}
	compiled.Store(source, prog)
	return prog, nil
}

// Expression evaluates a configured boolean expression over the value and its
// row context. A true result means the rule is violated, matching how
// declarative rule engines phrase constraints. Params: expr (string),
// message (string, optional).
func Expression(value string, params map[string]any, ctx *Context) Result {
	source := stringParam(params, "expr")
	if source == "" {
		return fail("no expression configured", "")
	}

	prog, err := compileExpr(source)
	if err != nil {
		return fail(err.Error(), "")
	}

	env := map[string]any{
		"value":   value,
		"fields":  map[string]string{},
		"derived": map[string]float64{},
		"prefs": map[string]any{
			"default_led_brand":   "",
			"requires_ul_listing": false,
		},
	}
	if ctx != nil {
		if ctx.Fields != nil {
			env["fields"] = ctx.Fields
		}
		if ctx.Derived != nil {
			env["derived"] = ctx.Derived
		}
		env["prefs"] = map[string]any{
			"default_led_brand":   ctx.Prefs.DefaultLEDBrand,
			"requires_ul_listing": ctx.Prefs.RequiresULListing,
		}
	}

	out, err := expr.Run(prog, env)
	if err != nil {
		return fail(fmt.Sprintf("rule evaluation error: %v", err), "")
	}
	violated, ok := out.(bool)
	if !ok || !violated {
		return pass()
	}

	msg := stringParam(params, "message")
	if msg == "" {
		msg = "expression rule violated"
	}
	return fail(msg, "")
}
