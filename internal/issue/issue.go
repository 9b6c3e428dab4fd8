// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

const (
	RecipefileNotFoundId Id = iota + 1
	RecipefileParseErrorId
	RecipeNotFoundId
	ArgumentMismatchId
	NoApplicableVariantId
	AmbiguousVariantId
	CyclicInvocationId
	RuntimeNotAvailableId
	ShellNotFoundId
	ConfigLoadFailedId
	InvalidRuntimeModeId
	DotenvLoadFailedId
	UnknownVariableId
)

type (
	Id int

	MarkdownMsg string

	HttpLink string

	Renderer interface {
		Render(in string, stylePath string) (string, error)
	}

	Issue struct {
		id       Id          // ID used to lookup the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink  // documentation pages for this issue type
		extLinks []HttpLink  // external links that might be useful for the user
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue's markdown with the named glamour style
// ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	var extraMd strings.Builder
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd.WriteString("\n\n## See also\n")
		for _, link := range slices.Concat(i.docLinks, i.extLinks) {
			extraMd.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(string(i.mdMsg)+extraMd.String(), stylePath)
}

var (
	render = glamour.Render

	recipefileNotFoundIssue = &Issue{
		id: RecipefileNotFoundId,
		mdMsg: `
# No recipefile found!

We searched the current directory and every parent directory but found no recipefile.

## Recognized file names (first match wins):
1. ` + "`recipefile`" + `
2. ` + "`Recipefile`" + `
3. ` + "`.recipefile`" + `

## Things you can try:
- Create a recipefile at the root of your project:
~~~
# Build the project
build:
    go build ./...

test *args: build
    go test {{args}} ./...
~~~

- Or point at one explicitly:
~~~
$ recipe --file path/to/recipefile list
~~~`,
	}

	recipefileParseErrorIssue = &Issue{
		id: RecipefileParseErrorId,
		mdMsg: `
# Failed to parse the recipefile!

The recipefile contains a syntax error or an invalid definition. The message above
points at the offending line and column.

## Common issues:
- Body lines indented with a mix of tabs and spaces
- ` + "`{{ name }}`" + ` referencing a parameter or variable that does not exist
- A parameter without a default after one with a default
- A variadic (` + "`*args`" + ` or ` + "`+args`" + `) parameter that is not last
- Two recipes with the same name and the same OS attribute

## Things you can try:
- Run the static checks:
~~~
$ recipe validate
~~~`,
	}

	recipeNotFoundIssue = &Issue{
		id: RecipeNotFoundId,
		mdMsg: `
# Recipe not found!

No recipe or alias with that name exists in the recipefile.

## Things you can try:
- List the available recipes:
~~~
$ recipe list
~~~

- Include private recipes (names starting with ` + "`_`" + `):
~~~
$ recipe list --all
~~~`,
	}

	argumentMismatchIssue = &Issue{
		id: ArgumentMismatchId,
		mdMsg: `
# Wrong number of arguments!

The recipe was invoked with fewer arguments than it requires or more than it accepts.

## Things you can try:
- Show the recipe's parameters:
~~~
$ recipe show <name>
~~~

- Give optional parameters a default (` + "`name='value'`" + `) or collect extra
  arguments with a variadic parameter (` + "`*rest`" + `).`,
	}

	noApplicableVariantIssue = &Issue{
		id: NoApplicableVariantId,
		mdMsg: `
# Recipe not available on this OS!

Every definition of this recipe is restricted to other operating systems, and there
is no unrestricted fallback.

## Things you can try:
- Add a definition without an OS attribute to act as the fallback
- Add a definition tagged for this OS, for example:
~~~
[linux]
open:
    xdg-open .
~~~`,
	}

	ambiguousVariantIssue = &Issue{
		id: AmbiguousVariantId,
		mdMsg: `
# Ambiguous recipe definitions!

More than one definition of this recipe applies to the current OS, for example one
tagged ` + "`[unix]`" + ` and another tagged ` + "`[linux]`" + `.

## Things you can try:
- Make the OS attributes of the definitions disjoint`,
	}

	cyclicInvocationIssue = &Issue{
		id: CyclicInvocationId,
		mdMsg: `
# Recipe invokes itself!

The recipe reached itself again through its dependencies, which would never finish.

## Example of a cycle:
~~~
a: b
b: a
~~~

## Things you can try:
- Run the static checks to see every cycle:
~~~
$ recipe validate
~~~

- If the recursion is intended and terminates, allow it in config.cue:
~~~cue
engine: allow_recursion: true
~~~`,
	}

	runtimeNotAvailableIssue = &Issue{
		id: RuntimeNotAvailableId,
		mdMsg: `
# Runtime not available!

The selected runtime cannot run on this system.

## Available runtimes:
- **native**: runs each line with your system shell (sh, bash, pwsh, cmd)
- **virtual**: runs each line with the built-in POSIX interpreter

## Things you can try:
~~~
$ recipe --runtime virtual <name>
~~~`,
	}

	shellNotFoundIssue = &Issue{
		id: ShellNotFoundId,
		mdMsg: `
# Shell not found!

Could not find a suitable shell for the 'native' runtime.

## Shells we look for:
- Linux/macOS: sh, bash
- Windows: pwsh, powershell, cmd

## Things you can try:
- Set one in the recipefile:
~~~
set shell := ["bash", "-cu"]
~~~

- Or use the 'virtual' runtime instead (built-in shell):
~~~cue
default_runtime: "virtual"
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the recipe configuration file.

## Configuration file locations:
- Linux: ~/.config/recipe/config.cue
- macOS: ~/Library/Application Support/recipe/config.cue
- Windows: %APPDATA%\recipe\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ recipe config init
~~~

- Check ` + "`RECIPE_*`" + ` environment variables for invalid values

## Example configuration:
~~~cue
default_runtime: "native"
list: sort: "declaration"
ui: verbose: false
~~~`,
	}

	invalidRuntimeModeIssue = &Issue{
		id: InvalidRuntimeModeId,
		mdMsg: `
# Invalid runtime mode!

The specified runtime mode is not recognized.

## Valid runtime modes:
- **native**: Execute using system shell
- **virtual**: Execute using built-in sh interpreter`,
	}

	dotenvLoadFailedIssue = &Issue{
		id: DotenvLoadFailedId,
		mdMsg: `
# Failed to load dotenv file!

A dotenv file was requested with ` + "`set dotenv-path`" + ` or ` + "`--dotenv-path`" + ` but
could not be read or parsed.

## Things you can try:
- Check the path; ` + "`set dotenv-path`" + ` is relative to the recipefile
- Use ` + "`set dotenv-load`" + ` instead to load an optional .env`,
	}

	unknownVariableIssue = &Issue{
		id: UnknownVariableId,
		mdMsg: `
# Unknown variable override!

` + "`--set NAME=VALUE`" + ` can only override variables assigned at the top level of the
recipefile (` + "`NAME := ...`" + `).`,
	}

	issues = map[Id]*Issue{
		recipefileNotFoundIssue.Id():   recipefileNotFoundIssue,
		recipefileParseErrorIssue.Id(): recipefileParseErrorIssue,
		recipeNotFoundIssue.Id():       recipeNotFoundIssue,
		argumentMismatchIssue.Id():     argumentMismatchIssue,
		noApplicableVariantIssue.Id():  noApplicableVariantIssue,
		ambiguousVariantIssue.Id():     ambiguousVariantIssue,
		cyclicInvocationIssue.Id():     cyclicInvocationIssue,
		runtimeNotAvailableIssue.Id():  runtimeNotAvailableIssue,
		shellNotFoundIssue.Id():        shellNotFoundIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		invalidRuntimeModeIssue.Id():   invalidRuntimeModeIssue,
		dotenvLoadFailedIssue.Id():     dotenvLoadFailedIssue,
		unknownVariableIssue.Id():      unknownVariableIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return cmp.Compare(a.id, b.id)
	})
}

func Get(id Id) *Issue {
	return issues[id]
}
