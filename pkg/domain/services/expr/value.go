// Package expr implements the restricted expression language used by BOM
// templates: arithmetic quantity formulas and boolean include conditions
// evaluated against a closed set of configuration variables.
//
// Expressions are parsed into a small typed AST and evaluated without any
// form of string substitution. Parse failures and evaluation failures are
// distinct error types so callers can apply their own recovery policy.
package expr

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind discriminates the runtime type of a Value
type Kind int

const (
	KindNumber Kind = iota
	KindBool
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is a typed expression result
type Value struct {
	Kind Kind
	Num  decimal.Decimal
	Bool bool
	Str  string
}

// Number wraps a decimal into a Value
func Number(d decimal.Decimal) Value {
	return Value{Kind: KindNumber, Num: d}
}

// Bool wraps a bool into a Value
func Bool(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

// String wraps a string into a Value
func String(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// Vars is the closed variable namespace an expression is evaluated
// against. Identifiers not present in the binding are evaluation errors.
type Vars map[string]Value

// Bind converts a flattened configuration document into a variable
// binding. JSON numbers, booleans, and strings are supported; other value
// types are dropped (absent variables, not errors).
func Bind(flat map[string]any) Vars {
	vars := make(Vars, len(flat))
	for name, value := range flat {
		switch v := value.(type) {
		case float64:
			vars[name] = Number(decimal.NewFromFloat(v))
		case int:
			vars[name] = Number(decimal.NewFromInt(int64(v)))
		case int64:
			vars[name] = Number(decimal.NewFromInt(v))
		case bool:
			vars[name] = Bool(v)
		case string:
			vars[name] = String(v)
		}
	}
	return vars
}

// ParseError indicates the expression source is malformed
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at position %d: %s", e.Pos, e.Msg)
}

// EvalError indicates a well-formed expression could not be evaluated
// against the supplied binding (unknown variable, type mismatch, division
// by zero).
type EvalError struct {
	Msg string
}

func (e *EvalError) Error() string {
	return "evaluation error: " + e.Msg
}

func evalErrorf(format string, args ...any) error {
	return &EvalError{Msg: fmt.Sprintf(format, args...)}
}
