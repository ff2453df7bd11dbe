package expr

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vars(flat map[string]any) Vars {
	return Bind(flat)
}

func TestEvaluateFormula_Arithmetic(t *testing.T) {
	v := vars(map[string]any{
		"basin_count":  2,
		"scrap":        0.5,
		"shelf.count":  3.0,
		"panel.height": 1.2,
	})

	cases := []struct {
		src  string
		want string
	}{
		{"basin_count", "2"},
		{"basin_count * 2 + 1", "5"},
		{"(basin_count + 1) * 4", "12"},
		{"10 - basin_count * 3", "4"},
		{"basin_count / 4", "0.5"},
		{"-basin_count + 5", "3"},
		{"shelf.count * panel.height", "3.6"},
		{"2 + scrap", "2.5"},
	}

	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			got, err := EvaluateFormula(tc.src, v)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
				"got %s, want %s", got, tc.want)
		})
	}
}

func TestEvaluateFormula_NegativeResultClampsToZero(t *testing.T) {
	got, err := EvaluateFormula("2 - 5", nil)
	require.NoError(t, err)
	assert.True(t, got.IsZero(), "got %s", got)
}

func TestEvaluateFormula_Errors(t *testing.T) {
	v := vars(map[string]any{"basin_count": "two", "ok": true})

	cases := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"unknown variable", "missing_var * 2"},
		{"non-numeric variable", "basin_count * 2"},
		{"boolean result", "ok"},
		{"division by zero", "4 / 0"},
		{"trailing garbage", "1 + 2 )"},
		{"unterminated paren", "(1 + 2"},
		{"bad token", "2 @ 3"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := EvaluateFormula(tc.src, v)
			require.Error(t, err)
		})
	}
}

func TestEvaluateCondition_Comparisons(t *testing.T) {
	v := vars(map[string]any{
		"basin_count":  2,
		"has_pegboard": false,
		"finish":       "chrome",
		"cabinet.docked": true,
	})

	cases := []struct {
		src  string
		want bool
	}{
		{"basin_count > 0", true},
		{"basin_count >= 2", true},
		{"basin_count < 2", false},
		{"basin_count <= 1", false},
		{"basin_count = 2", true},
		{"basin_count == 2", true},
		{"basin_count != 3", true},
		{"basin_count <> 2", false},
		{"has_pegboard", false},
		{"not has_pegboard", true},
		{"!has_pegboard", true},
		{"finish = 'chrome'", true},
		{"finish != \"brass\"", true},
		{"cabinet.docked and basin_count > 1", true},
		{"has_pegboard or basin_count > 1", true},
		{"has_pegboard && basin_count > 1", false},
		{"has_pegboard || false", false},
		{"true", true},
		{"FALSE", false},
		{"basin_count > 0 AND NOT has_pegboard", true},
	}

	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			got, err := EvaluateCondition(tc.src, v)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEvaluateCondition_ShortCircuit(t *testing.T) {
	v := vars(map[string]any{"has_pegboard": false})

	// The right operand references an unknown variable; short-circuit
	// evaluation must never touch it.
	got, err := EvaluateCondition("has_pegboard and missing > 1", v)
	require.NoError(t, err)
	assert.False(t, got)

	got, err = EvaluateCondition("not has_pegboard or missing > 1", v)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestEvaluateCondition_Errors(t *testing.T) {
	v := vars(map[string]any{"basin_count": 2, "finish": "chrome"})

	cases := []struct {
		name string
		src  string
	}{
		{"numeric result", "basin_count + 1"},
		{"string result", "finish"},
		{"type mismatch comparison", "finish > 2"},
		{"unknown variable", "missing"},
		{"unterminated string", "finish = 'chrome"},
		{"and on numbers", "1 and 2"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := EvaluateCondition(tc.src, v)
			require.Error(t, err)
		})
	}
}

func TestBind_DropsUnsupportedTypes(t *testing.T) {
	v := Bind(map[string]any{
		"count":   int64(4),
		"ratio":   1.5,
		"flag":    true,
		"name":    "basin",
		"ignored": []string{"not", "bindable"},
	})

	assert.Len(t, v, 4)
	_, ok := v["ignored"]
	assert.False(t, ok)

	got, err := EvaluateFormula("count * ratio", v)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(6)))
}

func TestParse_ReportsPosition(t *testing.T) {
	_, err := Parse("1 + ")
	require.Error(t, err)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}
