// SPDX-License-Identifier: MPL-2.0

package recipefile

import "recipe-cli/internal/dag"

// UnresolvedInvocation is an invocation line whose target names neither a recipe nor an alias.
type UnresolvedInvocation struct {
	Recipe string
	Target string
	Pos    Pos
}

// TargetName maps an invocation target through the alias table.
func (f *Recipefile) TargetName(name string) string {
	if a, ok := f.Aliases[name]; ok {
		return a.Target
	}
	return name
}

// InvocationGraph builds a graph with an edge from each recipe to every recipe
// its lines invoke, across all variants. Unknown targets are skipped.
func (f *Recipefile) InvocationGraph() *dag.Graph {
	g := dag.New()
	for _, name := range f.Order {
		g.AddNode(name)
		for _, v := range f.Recipes[name].Variants {
			for _, line := range v.Lines {
				if line.Kind != LineInvocation {
					continue
				}
				target := f.TargetName(line.Target)
				if _, ok := f.Recipes[target]; ok {
					g.AddEdge(name, target)
				}
			}
		}
	}
	return g
}

// UnresolvedInvocations lists invocation lines whose target does not exist.
// These are not parse errors; running such a line fails with an unknown recipe error.
func (f *Recipefile) UnresolvedInvocations() []UnresolvedInvocation {
	var out []UnresolvedInvocation
	for _, name := range f.Order {
		for _, v := range f.Recipes[name].Variants {
			for _, line := range v.Lines {
				if line.Kind != LineInvocation {
					continue
				}
				if _, ok := f.Recipes[f.TargetName(line.Target)]; !ok {
					out = append(out, UnresolvedInvocation{Recipe: name, Target: line.Target, Pos: line.Pos})
				}
			}
		}
	}
	return out
}
