// Package filter provides analyst-authored admission predicates for alert
// records, evaluated before correlation.
//
// Predicates are Common Expression Language (CEL) expressions over the raw
// alert record, exposed as the variable "alert". They let an operator keep
// noisy rule families out of the correlation path without touching code:
//
//	f, err := filter.Compile(`has(alert.rule) && int(alert.rule.level) >= 7`)
//	if err != nil {
//	    return err
//	}
//	ok, err := f.Match(record)
//
// Compilation failures are construction-phase errors; a predicate that
// evaluates to a non-boolean or errors at runtime rejects the record and
// reports the error, so a broken filter fails closed.
package filter

import (
	"fmt"

	"github.com/google/cel-go/cel"
)

// Filter is a compiled admission predicate. A Filter is immutable and safe
// for concurrent use.
type Filter struct {
	expr    string
	program cel.Program
}

// Compile parses and type-checks a CEL expression into a Filter. The
// expression must produce a boolean; anything else is rejected at compile
// time.
func Compile(expr string) (*Filter, error) {
	env, err := cel.NewEnv(
		cel.Variable("alert", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("filter: create environment: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("filter: compile %q: %w", expr, issues.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("filter: expression %q must produce a boolean, got %s", expr, ast.OutputType())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("filter: build program: %w", err)
	}
	return &Filter{expr: expr, program: program}, nil
}

// Expr returns the source expression the filter was compiled from.
func (f *Filter) Expr() string {
	return f.expr
}

// Match evaluates the predicate against one alert record. Evaluation errors
// (missing fields accessed without has(), type mismatches) reject the record
// and surface the error to the caller.
func (f *Filter) Match(record map[string]any) (bool, error) {
	out, _, err := f.program.Eval(map[string]any{"alert": record})
	if err != nil {
		return false, fmt.Errorf("filter: evaluate %q: %w", f.expr, err)
	}
	ok, isBool := out.Value().(bool)
	if !isBool {
		return false, fmt.Errorf("filter: expression %q produced %T, want bool", f.expr, out.Value())
	}
	return ok, nil
}
