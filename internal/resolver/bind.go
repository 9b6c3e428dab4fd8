// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"context"
	"strings"

	"recipe-cli/pkg/recipefile"
)

type (
	// Binding is the value bound to one parameter. Non-variadic parameters
	// always hold exactly one value.
	Binding struct {
		Parameter *recipefile.Parameter
		Values    []string
	}

	// Bindings is the ordered parameter to value mapping of one invocation.
	Bindings struct {
		entries []Binding
	}
)

// Lookup returns the value of a bound parameter. Variadic values are joined with spaces.
func (b *Bindings) Lookup(name string) (string, bool) {
	if b == nil {
		return "", false
	}
	for _, e := range b.entries {
		if e.Parameter.Name == name {
			return strings.Join(e.Values, " "), true
		}
	}
	return "", false
}

// Values returns the raw values bound to a parameter.
func (b *Bindings) Values(name string) []string {
	if b == nil {
		return nil
	}
	for _, e := range b.entries {
		if e.Parameter.Name == name {
			return e.Values
		}
	}
	return nil
}

// Entries returns the bindings in parameter order.
func (b *Bindings) Entries() []Binding {
	if b == nil {
		return nil
	}
	return b.entries
}

// Positional flattens the bound values into an argument vector, in parameter order.
func (b *Bindings) Positional() []string {
	var out []string
	for _, e := range b.Entries() {
		out = append(out, e.Values...)
	}
	return out
}

// Env renders every binding as a KEY=VALUE entry. Dashes in names become underscores.
func (b *Bindings) Env() []string {
	entries := b.Entries()
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Parameter.EnvName()+"="+strings.Join(e.Values, " "))
	}
	return out
}

func (b *Bindings) bind(p *recipefile.Parameter, values ...string) {
	b.entries = append(b.entries, Binding{Parameter: p, Values: values})
}

// BindArguments assigns args to the variant's parameters left to right. A
// trailing variadic parameter collects every remaining argument. Defaults are
// evaluated lazily in parameter order and can see the parameters bound before them.
func (r *Resolver) BindArguments(ctx context.Context, v *recipefile.Variant, args []string, eval *Evaluator) (*Bindings, error) {
	b := &Bindings{}
	next := 0
	for _, p := range v.Parameters {
		if p.IsVariadic() {
			rest := args[next:]
			next = len(args)
			switch {
			case len(rest) > 0:
				b.bind(p, append([]string(nil), rest...)...)
			case p.Default != nil:
				val, err := eval.Default(ctx, v, p, b)
				if err != nil {
					return nil, err
				}
				b.bind(p, val)
			case p.Variadic == recipefile.OneOrMore:
				return nil, &MissingArgumentError{Recipe: v.Name, Parameter: p.Name, Signature: v.Signature()}
			default:
				b.bind(p)
			}
			continue
		}

		switch {
		case next < len(args):
			b.bind(p, args[next])
			next++
		case p.Default != nil:
			val, err := eval.Default(ctx, v, p, b)
			if err != nil {
				return nil, err
			}
			b.bind(p, val)
		default:
			return nil, &MissingArgumentError{Recipe: v.Name, Parameter: p.Name, Signature: v.Signature()}
		}
	}
	if next < len(args) {
		return nil, &TooManyArgumentsError{Recipe: v.Name, Max: len(v.Parameters), Got: len(args), Signature: v.Signature()}
	}
	return b, nil
}
