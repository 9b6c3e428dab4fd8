// SPDX-License-Identifier: MPL-2.0

package recipefile

import (
	"errors"
	"strings"

	"recipe-cli/internal/dag"
)

// validate runs the checks that need the whole file: alias targets,
// identifier references and assignment ordering.
func (p *parser) validate() error {
	f := p.file

	for _, name := range f.AliasOrder {
		a := f.Aliases[name]
		if _, ok := f.Recipes[a.Name]; ok {
			return p.errorAt(a.Pos, "alias %q has the same name as a recipe", a.Name)
		}
		if _, ok := f.Recipes[a.Target]; !ok {
			return p.errorAt(a.Pos, "alias %q targets undefined recipe %q", a.Name, a.Target)
		}
	}

	if err := p.orderAssignments(); err != nil {
		return err
	}

	for _, name := range f.Order {
		for _, v := range f.Recipes[name].Variants {
			if err := p.validateVariant(v); err != nil {
				return err
			}
		}
	}
	return nil
}

// orderAssignments rejects references to unknown variables and cycles, and
// stores a dependency-first evaluation order.
func (p *parser) orderAssignments() error {
	f := p.file
	g := dag.New()
	for _, name := range f.AssignmentOrder {
		a := f.Assignments[name]
		g.AddNode(name)
		for _, ref := range identRefs(a.Value) {
			if _, ok := f.Assignments[ref.Value]; !ok {
				return p.errorAt(ref.Pos, "variable %q references undefined variable %q", name, ref.Value)
			}
			g.AddEdge(ref.Value, name)
		}
	}
	order, err := g.TopologicalSort()
	if err != nil {
		var cycleErr *dag.CycleError
		if errors.As(err, &cycleErr) && len(cycleErr.Cycle) > 0 {
			a := f.Assignments[cycleErr.Cycle[0]]
			pe := p.errorAt(a.Pos, "cyclic variable assignment: %s", strings.Join(cycleErr.Cycle, " -> ")).(*ParseError)
			pe.Cause = err
			return pe
		}
		return err
	}
	f.AssignmentOrder = order
	return nil
}

func (p *parser) validateVariant(v *Variant) error {
	assigned := func(name string) bool {
		_, ok := p.file.Assignments[name]
		return ok
	}

	for i, param := range v.Parameters {
		for _, ref := range identRefs(param.Default) {
			if assigned(ref.Value) || declaredBefore(v.Parameters[:i], ref.Value) {
				continue
			}
			if v.Parameter(ref.Value) != nil {
				return p.errorAt(ref.Pos, "default of parameter %q references later parameter %q", param.Name, ref.Value)
			}
			return p.errorAt(ref.Pos, "default of parameter %q references undeclared identifier %q", param.Name, ref.Value)
		}
	}

	known := func(name string) bool {
		return assigned(name) || v.Parameter(name) != nil
	}
	for _, line := range v.Lines {
		switch line.Kind {
		case LineProcess:
			for _, frag := range line.Text.Fragments {
				if frag.IsInterpolation() && !known(frag.Ident) {
					return p.errorAt(frag.Pos, "recipe %q references undeclared identifier %q", v.Name, frag.Ident)
				}
			}
		case LineInvocation:
			for _, arg := range line.Args {
				for _, ref := range identRefs(arg) {
					if !known(ref.Value) {
						return p.errorAt(ref.Pos, "recipe %q references undeclared identifier %q", v.Name, ref.Value)
					}
				}
			}
		}
	}
	return nil
}

func declaredBefore(params []*Parameter, name string) bool {
	for _, p := range params {
		if p.Name == name {
			return true
		}
	}
	return false
}

// identRefs returns the identifier nodes of an expression with their positions.
func identRefs(e *Expression) []*Expression {
	var out []*Expression
	e.walk(func(n *Expression) {
		if n.Kind == ExprIdent {
			out = append(out, n)
		}
	})
	return out
}
