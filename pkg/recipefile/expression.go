// SPDX-License-Identifier: MPL-2.0

package recipefile

import (
	"strconv"
	"strings"
)

const (
	// ExprString is a quoted string literal.
	ExprString ExprKind = iota
	// ExprIdent references a parameter or top-level assignment.
	ExprIdent
	// ExprBacktick is a command whose captured stdout becomes the value.
	ExprBacktick
	// ExprCall is a built-in function call such as env('HOME').
	ExprCall
	// ExprConcat joins two operands with `+`.
	ExprConcat
	// ExprJoin joins two operands with `/` as path segments.
	ExprJoin
)

type (
	// ExprKind identifies an expression node.
	ExprKind int

	// Expression is a node of the small expression language used by defaults,
	// assignments and invocation arguments.
	Expression struct {
		Kind ExprKind
		// Value holds the literal text, identifier, function name or backtick command.
		Value string
		// Args holds call arguments, or the left and right operands of `+` and `/`.
		Args []*Expression
		Pos  Pos
	}

	// FuncArity bounds the number of arguments a built-in function accepts.
	FuncArity struct {
		Min int
		Max int
	}
)

// Functions lists the built-in functions and their arity.
var Functions = map[string]FuncArity{
	"env":                  {Min: 1, Max: 2},
	"env_var":              {Min: 1, Max: 1},
	"env_var_or_default":   {Min: 2, Max: 2},
	"os":                   {Min: 0, Max: 0},
	"os_family":            {Min: 0, Max: 0},
	"arch":                 {Min: 0, Max: 0},
	"recipefile_directory": {Min: 0, Max: 0},
	"invocation_directory": {Min: 0, Max: 0},
	"recipefile":           {Min: 0, Max: 0},
	"num_cpus":             {Min: 0, Max: 0},
	"uppercase":            {Min: 1, Max: 1},
	"lowercase":            {Min: 1, Max: 1},
	"trim":                 {Min: 1, Max: 1},
	"quote":                {Min: 1, Max: 1},
}

// StringLit builds a string literal expression.
func StringLit(s string) *Expression {
	return &Expression{Kind: ExprString, Value: s}
}

// Ident builds an identifier reference.
func Ident(name string) *Expression {
	return &Expression{Kind: ExprIdent, Value: name}
}

// Identifiers returns every identifier referenced by the expression, in source order.
func (e *Expression) Identifiers() []string {
	if e == nil {
		return nil
	}
	var out []string
	e.walk(func(n *Expression) {
		if n.Kind == ExprIdent {
			out = append(out, n.Value)
		}
	})
	return out
}

// HasBacktick reports whether evaluating the expression spawns a process.
func (e *Expression) HasBacktick() bool {
	found := false
	e.walk(func(n *Expression) {
		if n.Kind == ExprBacktick {
			found = true
		}
	})
	return found
}

func (e *Expression) walk(fn func(*Expression)) {
	if e == nil {
		return
	}
	fn(e)
	for _, a := range e.Args {
		a.walk(fn)
	}
}

// String renders the expression in recipefile syntax.
func (e *Expression) String() string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case ExprString:
		return quoteLiteral(e.Value)
	case ExprIdent:
		return e.Value
	case ExprBacktick:
		return "`" + e.Value + "`"
	case ExprCall:
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			args[i] = a.String()
		}
		return e.Value + "(" + strings.Join(args, ", ") + ")"
	case ExprConcat:
		return e.Args[0].String() + " + " + e.Args[1].String()
	case ExprJoin:
		return e.Args[0].String() + " / " + e.Args[1].String()
	default:
		return ""
	}
}

// quoteLiteral prefers raw single quotes and falls back to an escaped double-quoted string.
func quoteLiteral(s string) string {
	if !strings.ContainsAny(s, "'\n\t\r") {
		return "'" + s + "'"
	}
	return strconv.Quote(s)
}
