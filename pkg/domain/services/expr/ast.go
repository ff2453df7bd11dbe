package expr

// Expr is a parsed expression node
type Expr interface {
	Eval(vars Vars) (Value, error)
}

type literalNode struct {
	value Value
}

func (n *literalNode) Eval(Vars) (Value, error) {
	return n.value, nil
}

type varNode struct {
	name string
}

func (n *varNode) Eval(vars Vars) (Value, error) {
	value, ok := vars[n.name]
	if !ok {
		return Value{}, evalErrorf("unknown variable %q", n.name)
	}
	return value, nil
}

type unaryNode struct {
	op    tokenKind
	child Expr
}

func (n *unaryNode) Eval(vars Vars) (Value, error) {
	child, err := n.child.Eval(vars)
	if err != nil {
		return Value{}, err
	}
	switch n.op {
	case tokMinus:
		if child.Kind != KindNumber {
			return Value{}, evalErrorf("cannot negate %s", child.Kind)
		}
		return Number(child.Num.Neg()), nil
	case tokNot:
		if child.Kind != KindBool {
			return Value{}, evalErrorf("cannot apply not to %s", child.Kind)
		}
		return Bool(!child.Bool), nil
	default:
		return Value{}, evalErrorf("unsupported unary operator")
	}
}

type binaryNode struct {
	op          tokenKind
	left, right Expr
}

func (n *binaryNode) Eval(vars Vars) (Value, error) {
	// Boolean operators short-circuit.
	if n.op == tokAnd || n.op == tokOr {
		left, err := evalBool(n.left, vars)
		if err != nil {
			return Value{}, err
		}
		if n.op == tokAnd && !left {
			return Bool(false), nil
		}
		if n.op == tokOr && left {
			return Bool(true), nil
		}
		right, err := evalBool(n.right, vars)
		if err != nil {
			return Value{}, err
		}
		return Bool(right), nil
	}

	left, err := n.left.Eval(vars)
	if err != nil {
		return Value{}, err
	}
	right, err := n.right.Eval(vars)
	if err != nil {
		return Value{}, err
	}

	switch n.op {
	case tokPlus, tokMinus, tokStar, tokSlash:
		return evalArithmetic(n.op, left, right)
	case tokEq, tokNeq:
		eq, err := valuesEqual(left, right)
		if err != nil {
			return Value{}, err
		}
		if n.op == tokNeq {
			eq = !eq
		}
		return Bool(eq), nil
	case tokLt, tokLte, tokGt, tokGte:
		if left.Kind != KindNumber || right.Kind != KindNumber {
			return Value{}, evalErrorf("cannot compare %s and %s", left.Kind, right.Kind)
		}
		cmp := left.Num.Cmp(right.Num)
		switch n.op {
		case tokLt:
			return Bool(cmp < 0), nil
		case tokLte:
			return Bool(cmp <= 0), nil
		case tokGt:
			return Bool(cmp > 0), nil
		default:
			return Bool(cmp >= 0), nil
		}
	default:
		return Value{}, evalErrorf("unsupported binary operator")
	}
}

func evalBool(node Expr, vars Vars) (bool, error) {
	value, err := node.Eval(vars)
	if err != nil {
		return false, err
	}
	if value.Kind != KindBool {
		return false, evalErrorf("expected bool operand, got %s", value.Kind)
	}
	return value.Bool, nil
}

func evalArithmetic(op tokenKind, left, right Value) (Value, error) {
	if left.Kind != KindNumber || right.Kind != KindNumber {
		return Value{}, evalErrorf("arithmetic requires numbers, got %s and %s", left.Kind, right.Kind)
	}
	switch op {
	case tokPlus:
		return Number(left.Num.Add(right.Num)), nil
	case tokMinus:
		return Number(left.Num.Sub(right.Num)), nil
	case tokStar:
		return Number(left.Num.Mul(right.Num)), nil
	default:
		if right.Num.IsZero() {
			return Value{}, evalErrorf("division by zero")
		}
		return Number(left.Num.Div(right.Num)), nil
	}
}

func valuesEqual(left, right Value) (bool, error) {
	if left.Kind != right.Kind {
		return false, evalErrorf("cannot compare %s and %s", left.Kind, right.Kind)
	}
	switch left.Kind {
	case KindNumber:
		return left.Num.Equal(right.Num), nil
	case KindBool:
		return left.Bool == right.Bool, nil
	default:
		return left.Str == right.Str, nil
	}
}
