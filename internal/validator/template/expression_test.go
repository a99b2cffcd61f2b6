package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signquote/internal/domain"
)

func TestExpression_ViolationIsTrue(t *testing.T) {
	ctx := &Context{Derived: map[string]float64{"wattage": 400}}
	params := map[string]any{
		"expr":    "derived.wattage > 300",
		"message": "wattage over budget",
	}

	res := Expression("", params, ctx)
	require.False(t, res.Valid)
	assert.Equal(t, "wattage over budget", res.Error)

	ctx.Derived["wattage"] = 200
	assert.True(t, Expression("", params, ctx).Valid)
}

func TestExpression_ReadsValueAndFields(t *testing.T) {
	ctx := &Context{Fields: map[string]string{"color": "red"}}
	params := map[string]any{"expr": `value == "x" && fields.color == "red"`}

	assert.False(t, Expression("x", params, ctx).Valid)
	assert.True(t, Expression("y", params, ctx).Valid)
}

func TestExpression_ReadsPrefs(t *testing.T) {
	ctx := &Context{Prefs: domain.CustomerPreferences{RequiresULListing: true}}
	params := map[string]any{"expr": "prefs.requires_ul_listing"}

	assert.False(t, Expression("", params, ctx).Valid)

	ctx.Prefs.RequiresULListing = false
	assert.True(t, Expression("", params, ctx).Valid)
}

func TestExpression_DefaultMessage(t *testing.T) {
	res := Expression("", map[string]any{"expr": "true"}, nil)
	require.False(t, res.Valid)
	assert.Equal(t, "expression rule violated", res.Error)
}

func TestExpression_MissingExpr(t *testing.T) {
	res := Expression("", nil, nil)
	assert.False(t, res.Valid)
}

func TestExpression_CompileErrorFailsClosed(t *testing.T) {
	res := Expression("", map[string]any{"expr": "1 +"}, nil)
	assert.False(t, res.Valid)
	assert.NotEmpty(t, res.Error)
}

func TestExpression_NilContextUsesEmptyEnv(t *testing.T) {
	params := map[string]any{"expr": `len(fields) > 0`}
	assert.True(t, Expression("", params, nil).Valid)
}

func TestExpression_MissingDerivedKeyGuardedWithIn(t *testing.T) {
	params := map[string]any{"expr": `"wattage" in derived && derived.wattage > 300`}

	assert.True(t, Expression("", params, &Context{}).Valid)
	assert.False(t, Expression("", params, &Context{Derived: map[string]float64{"wattage": 400}}).Valid)
}
