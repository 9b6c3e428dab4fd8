// SPDX-License-Identifier: MPL-2.0

package recipefile

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// LineProcess is a shell command line run as a child process.
	LineProcess LineKind = iota
	// LineInvocation runs another recipe by name with argument expressions.
	LineInvocation
)

const (
	// NotVariadic marks an ordinary positional parameter.
	NotVariadic VariadicMode = iota
	// ZeroOrMore marks a `*name` parameter collecting zero or more trailing arguments.
	ZeroOrMore
	// OneOrMore marks a `+name` parameter collecting at least one trailing argument.
	OneOrMore
)

// PrivatePrefix marks recipes and aliases hidden from listings.
const PrivatePrefix = "_"

type (
	// LineKind distinguishes process lines from recipe invocation lines.
	LineKind int

	// VariadicMode describes how many trailing arguments a parameter collects.
	VariadicMode int

	// Pos is a 1-based line/column location inside a recipefile.
	Pos struct {
		Line   int
		Column int
	}

	// Recipefile is the parsed, immutable content of a recipe file.
	Recipefile struct {
		// Path is the file the recipes were read from (may be empty for in-memory input).
		Path string
		// Recipes maps recipe names to their definitions.
		Recipes map[string]*Recipe
		// Order lists recipe names in declaration order.
		Order []string
		// Aliases maps alias names to their single target.
		Aliases map[string]*Alias
		// AliasOrder lists alias names in declaration order.
		AliasOrder []string
		// Assignments maps top-level variable names to their definitions.
		Assignments map[string]*Assignment
		// AssignmentOrder lists assignments in a dependency-respecting order.
		AssignmentOrder []string
		// Settings holds `set` directives.
		Settings Settings
	}

	// Recipe groups every variant declared under one name.
	Recipe struct {
		Name     string
		Variants []*Variant
	}

	// Variant is one body of a recipe, optionally restricted to a set of systems.
	Variant struct {
		// Name is the owning recipe's name.
		Name string
		// Predicate restricts the variant to some systems; the zero value is unconditional.
		Predicate OSPredicate
		// Parameters are declared left to right; only the last may be variadic.
		Parameters []*Parameter
		// Lines are executed in order.
		Lines []*Line
		// Doc is the comment immediately preceding the definition.
		Doc string
		// Private hides the recipe from listings ([private] attribute).
		Private bool
		// Quiet suppresses echoing of every line (`@name:` header).
		Quiet bool
		// NoCD keeps the invocation directory instead of the recipefile directory.
		NoCD bool
		// NoExitMessage suppresses the failure message when a line fails.
		NoExitMessage bool
		// Pos locates the recipe header.
		Pos Pos
	}

	// Parameter is a positional recipe parameter.
	Parameter struct {
		Name string
		// Default is evaluated lazily at bind time; nil means the parameter is required.
		Default *Expression
		// Variadic is NotVariadic, ZeroOrMore (*) or OneOrMore (+).
		Variadic VariadicMode
		// Export marks a `$name` parameter. All parameters reach the child environment;
		// the marker is kept so listings can show it.
		Export bool
		Pos    Pos
	}

	// Line is one entry of a recipe body.
	Line struct {
		Kind LineKind
		// Text is the command template of a process line.
		Text *Template
		// Target names the recipe run by an invocation line.
		Target string
		// Args are the argument expressions of an invocation line.
		Args []*Expression
		// Quiet disables echoing (`@` prefix).
		Quiet bool
		// IgnoreFailure swallows a non-zero exit (`-` prefix).
		IgnoreFailure bool
		Pos           Pos
	}

	// Alias maps an alternate name to exactly one recipe.
	Alias struct {
		Name    string
		Target  string
		Private bool
		Pos     Pos
	}

	// Assignment is a top-level `name := expression` variable.
	Assignment struct {
		Name  string
		Value *Expression
		// Export passes the variable to child processes.
		Export bool
		Pos    Pos
	}

	// Settings holds the values of `set` directives.
	Settings struct {
		// Shell overrides the shell command used for process lines, e.g. ["bash", "-cu"].
		Shell []string
		// DotenvLoad loads a .env file next to the recipefile.
		DotenvLoad bool
		// DotenvPath names the dotenv file to load (implies DotenvLoad).
		DotenvPath string
		// Export passes every assignment to child processes.
		Export bool
		// PositionalArguments passes bound arguments as $1..$n to process lines.
		PositionalArguments bool
		// Quiet suppresses echoing for every recipe.
		Quiet bool
	}
)

// String returns "line:column".
func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// String returns a readable name for the line kind.
func (k LineKind) String() string {
	switch k {
	case LineProcess:
		return "process"
	case LineInvocation:
		return "invocation"
	default:
		return "unknown"
	}
}

// Dir returns the directory containing the recipefile.
func (f *Recipefile) Dir() string {
	if f.Path == "" {
		return "."
	}
	return filepath.Dir(f.Path)
}

// Recipe looks up a recipe by its declared name. Aliases are not consulted.
func (f *Recipefile) Recipe(name string) (*Recipe, bool) {
	r, ok := f.Recipes[name]
	return r, ok
}

// AliasesFor returns the aliases targeting the given recipe in declaration order.
func (f *Recipefile) AliasesFor(target string) []string {
	var out []string
	for _, name := range f.AliasOrder {
		if f.Aliases[name].Target == target {
			out = append(out, name)
		}
	}
	return out
}

// Doc returns the first non-empty doc comment across the recipe's variants.
func (r *Recipe) Doc() string {
	for _, v := range r.Variants {
		if v.Doc != "" {
			return v.Doc
		}
	}
	return ""
}

// Private reports whether the recipe is hidden from listings.
func (r *Recipe) Private() bool {
	if strings.HasPrefix(r.Name, PrivatePrefix) {
		return true
	}
	for _, v := range r.Variants {
		if v.Private {
			return true
		}
	}
	return false
}

// Unconditional returns the variant without an OS predicate, if any.
func (r *Recipe) Unconditional() *Variant {
	for _, v := range r.Variants {
		if v.Predicate.IsZero() {
			return v
		}
	}
	return nil
}

// Parameter returns the named parameter or nil.
func (v *Variant) Parameter(name string) *Parameter {
	for _, p := range v.Parameters {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Variadic returns the trailing variadic parameter, or nil.
func (v *Variant) Variadic() *Parameter {
	if n := len(v.Parameters); n > 0 && v.Parameters[n-1].IsVariadic() {
		return v.Parameters[n-1]
	}
	return nil
}

// MinArgs returns the number of arguments that must be supplied.
func (v *Variant) MinArgs() int {
	n := 0
	for _, p := range v.Parameters {
		switch {
		case p.Variadic == OneOrMore && p.Default == nil:
			n++
		case p.Variadic == NotVariadic && p.Default == nil:
			n++
		}
	}
	return n
}

// MaxArgs returns the maximum number of arguments, or -1 when a variadic parameter is present.
func (v *Variant) MaxArgs() int {
	if v.Variadic() != nil {
		return -1
	}
	return len(v.Parameters)
}

// Signature renders the header form of the variant, e.g. `build target='debug' *flags`.
func (v *Variant) Signature() string {
	parts := []string{v.Name}
	for _, p := range v.Parameters {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, " ")
}

// IsVariadic reports whether the parameter collects trailing arguments.
func (p *Parameter) IsVariadic() bool {
	return p.Variadic != NotVariadic
}

// EnvName returns the environment variable name used to expose the parameter.
func (p *Parameter) EnvName() string {
	return strings.ReplaceAll(p.Name, "-", "_")
}

// String renders the parameter as written in a recipe header.
func (p *Parameter) String() string {
	var sb strings.Builder
	if p.Export {
		sb.WriteString("$")
	}
	switch p.Variadic {
	case ZeroOrMore:
		sb.WriteString("*")
	case OneOrMore:
		sb.WriteString("+")
	}
	sb.WriteString(p.Name)
	if p.Default != nil {
		sb.WriteString("=")
		if p.Default.Kind == ExprConcat || p.Default.Kind == ExprJoin || p.Default.Kind == ExprCall {
			sb.WriteString("(" + p.Default.String() + ")")
		} else {
			sb.WriteString(p.Default.String())
		}
	}
	return sb.String()
}

// String renders the line as written in a recipe body (without indentation).
func (l *Line) String() string {
	var sb strings.Builder
	if l.Quiet {
		sb.WriteString("@")
	}
	if l.IgnoreFailure {
		sb.WriteString("-")
	}
	switch l.Kind {
	case LineInvocation:
		if len(l.Args) == 0 {
			sb.WriteString(l.Target)
			break
		}
		sb.WriteString("(" + l.Target)
		for _, a := range l.Args {
			sb.WriteString(" " + a.String())
		}
		sb.WriteString(")")
	default:
		sb.WriteString(l.Text.String())
	}
	return sb.String()
}
