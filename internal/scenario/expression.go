package scenario

import (
	"fmt"
	"math"

	"github.com/Knetic/govaluate"

	"github.com/cwbudde/stochapprox/internal/approx"
)

var expressionFuncs = map[string]govaluate.ExpressionFunction{
	"sin":  unary(math.Sin),
	"cos":  unary(math.Cos),
	"tan":  unary(math.Tan),
	"exp":  unary(math.Exp),
	"log":  unary(math.Log),
	"sqrt": unary(math.Sqrt),
	"abs":  unary(math.Abs),
	"pow": func(args ...interface{}) (interface{}, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("pow expects 2 arguments, got %d", len(args))
		}
		a, err := toFloat(args[0])
		if err != nil {
			return nil, err
		}
		b, err := toFloat(args[1])
		if err != nil {
			return nil, err
		}
		return math.Pow(a, b), nil
	},
}

func unary(fn func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected 1 argument, got %d", len(args))
		}
		v, err := toFloat(args[0])
		if err != nil {
			return nil, err
		}
		return fn(v), nil
	}
}

func toFloat(v interface{}) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	default:
		return math.NaN(), fmt.Errorf("expression did not produce a number: %T", v)
	}
}

// ParseResponse compiles an expression in x into a response function.
// Evaluation failures at run time yield NaN, which the engines reject as a
// non-finite iterate.
func ParseResponse(expr string) (approx.ResponseFunc, error) {
	parsed, err := govaluate.NewEvaluableExpressionWithFunctions(expr, expressionFuncs)
	if err != nil {
		return nil, fmt.Errorf("failed to parse expression %q: %w", expr, err)
	}
	for _, v := range parsed.Vars() {
		if v != "x" && v != "pi" {
			return nil, fmt.Errorf("expression %q: unknown variable %q", expr, v)
		}
	}

	// Parameters are built per call so one response can serve concurrent runs.
	eval := func(x float64) (float64, error) {
		out, err := parsed.Evaluate(map[string]interface{}{"x": x, "pi": math.Pi})
		if err != nil {
			return math.NaN(), err
		}
		return toFloat(out)
	}

	if _, err := eval(1); err != nil {
		return nil, fmt.Errorf("expression %q: %w", expr, err)
	}

	return func(x float64) float64 {
		v, err := eval(x)
		if err != nil {
			return math.NaN()
		}
		return v
	}, nil
}
