// SPDX-License-Identifier: MPL-2.0

package recipefile

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"recipe-cli/pkg/platform"
)

// MaxFileSize bounds the size of a recipefile accepted by ParseFile.
const MaxFileSize = 4 << 20

const (
	attrPrivate       = "private"
	attrNoCD          = "no-cd"
	attrNoExitMessage = "no-exit-message"
	attrDoc           = "doc"

	settingShell               = "shell"
	settingDotenvLoad          = "dotenv-load"
	settingDotenvPath          = "dotenv-path"
	settingExport              = "export"
	settingPositionalArguments = "positional-arguments"
	settingQuiet               = "quiet"
)

type (
	attribute struct {
		name string
		// arg is the string argument of attributes like doc('...').
		arg    string
		hasArg bool
		pos    Pos
	}

	parser struct {
		path  string
		lines []string
		file  *Recipefile
		// doc is the comment text seen immediately before the next definition.
		doc   string
		attrs []attribute
		// seenSettings tracks `set` names to reject duplicates.
		seenSettings map[string]Pos
	}

	// tokenStream walks the tokens of one line.
	tokenStream struct {
		toks []token
		i    int
	}
)

// ParseFile reads and parses the recipefile at path.
func ParseFile(path string) (*Recipefile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipefile: %w", err)
	}
	if len(data) > MaxFileSize {
		return nil, &ParseError{
			Path:    path,
			Pos:     Pos{Line: 1, Column: 1},
			Message: fmt.Sprintf("file size %d bytes exceeds maximum %d bytes", len(data), MaxFileSize),
		}
	}
	return Parse(data, path)
}

// Parse parses recipefile content. The path is used for error messages and
// as the base for the recipefile directory; it may be empty.
func Parse(data []byte, path string) (*Recipefile, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	p := &parser{
		path:  path,
		lines: strings.Split(text, "\n"),
		file: &Recipefile{
			Path:        path,
			Recipes:     make(map[string]*Recipe),
			Aliases:     make(map[string]*Alias),
			Assignments: make(map[string]*Assignment),
		},
		seenSettings: make(map[string]Pos),
	}
	if err := p.parse(); err != nil {
		return nil, err
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p.file, nil
}

func (p *parser) parse() error {
	for i := 0; i < len(p.lines); i++ {
		raw := p.lines[i]
		lineNo := i + 1
		trimmed := strings.TrimSpace(raw)

		switch {
		case trimmed == "":
			p.doc = ""
			continue
		case raw[0] == ' ' || raw[0] == '\t':
			return p.errorAt(Pos{Line: lineNo, Column: 1}, "unexpected indentation outside of a recipe body")
		case strings.HasPrefix(trimmed, "#"):
			p.doc = strings.TrimSpace(strings.TrimPrefix(trimmed, "#"))
			continue
		}

		toks, perr := lexLine(raw, lineNo)
		if perr != nil {
			return p.fromPosError(perr)
		}
		ts := &tokenStream{toks: toks}

		var err error
		switch {
		case ts.peek().kind == tokLBracket:
			err = p.parseAttributes(ts)
			if err == nil {
				// attributes keep the pending doc comment
				continue
			}
		case ts.isKeyword("alias") && ts.peekAt(1).kind == tokIdent && ts.peekAt(2).kind == tokAssign:
			err = p.parseAlias(ts)
		case ts.isKeyword("set") && ts.peekAt(1).kind == tokIdent &&
			(ts.peekAt(2).kind == tokAssign || ts.peekAt(2).kind == tokEOF):
			err = p.parseSetting(ts)
		case ts.isKeyword("export") && ts.peekAt(1).kind == tokIdent && ts.peekAt(2).kind == tokAssign:
			ts.next()
			err = p.parseAssignment(ts, true)
		case ts.peek().kind == tokIdent && ts.peekAt(1).kind == tokAssign:
			err = p.parseAssignment(ts, false)
		default:
			var consumed int
			consumed, err = p.parseRecipe(ts, i)
			i += consumed
		}
		if err != nil {
			return err
		}
		p.doc = ""
		p.attrs = nil
	}
	if len(p.attrs) > 0 {
		return p.errorAt(p.attrs[0].pos, "attribute %q is not followed by a definition", p.attrs[0].name)
	}
	return nil
}

// parseAttributes reads one or more bracketed attribute groups on a single line.
func (p *parser) parseAttributes(ts *tokenStream) error {
	for ts.peek().kind == tokLBracket {
		ts.next()
		for {
			name := ts.next()
			if name.kind != tokIdent {
				return p.unexpected(name, "attribute name")
			}
			attr := attribute{name: name.text, pos: name.pos}
			if ts.peek().kind == tokLParen {
				ts.next()
				arg := ts.next()
				if arg.kind != tokString {
					return p.unexpected(arg, "string argument")
				}
				if tok := ts.next(); tok.kind != tokRParen {
					return p.unexpected(tok, "')'")
				}
				attr.arg, attr.hasArg = arg.text, true
			}
			if err := p.checkAttribute(attr); err != nil {
				return err
			}
			p.attrs = append(p.attrs, attr)

			tok := ts.next()
			if tok.kind == tokRBracket {
				break
			}
			if tok.kind != tokComma {
				return p.unexpected(tok, "',' or ']'")
			}
		}
	}
	if tok := ts.peek(); tok.kind != tokEOF {
		return p.unexpected(tok, "'[' or end of line")
	}
	return nil
}

func (p *parser) checkAttribute(a attribute) error {
	switch a.name {
	case attrPrivate, attrNoCD, attrNoExitMessage:
		if a.hasArg {
			return p.errorAt(a.pos, "attribute %q takes no argument", a.name)
		}
		return nil
	case attrDoc:
		if !a.hasArg {
			return p.errorAt(a.pos, "attribute %q requires a string argument", a.name)
		}
		return nil
	}
	if platform.IsOSAttribute(a.name) {
		if a.hasArg {
			return p.errorAt(a.pos, "attribute %q takes no argument", a.name)
		}
		return nil
	}
	return p.errorAt(a.pos, "unknown attribute %q", a.name)
}

func (p *parser) parseAlias(ts *tokenStream) error {
	ts.next() // alias
	name := ts.next()
	ts.next() // :=
	target := ts.next()
	if target.kind != tokIdent {
		return p.unexpected(target, "recipe name")
	}
	if tok := ts.peek(); tok.kind != tokEOF {
		return p.unexpected(tok, "end of line")
	}

	alias := &Alias{
		Name:    name.text,
		Target:  target.text,
		Private: strings.HasPrefix(name.text, PrivatePrefix),
		Pos:     name.pos,
	}
	for _, a := range p.attrs {
		if a.name != attrPrivate {
			return p.errorAt(a.pos, "attribute %q cannot be applied to an alias", a.name)
		}
		alias.Private = true
	}
	if prev, ok := p.file.Aliases[alias.Name]; ok {
		return p.errorAt(name.pos, "alias %q is already defined on line %d", alias.Name, prev.Pos.Line)
	}
	p.file.Aliases[alias.Name] = alias
	p.file.AliasOrder = append(p.file.AliasOrder, alias.Name)
	return nil
}

func (p *parser) parseAssignment(ts *tokenStream, export bool) error {
	name := ts.next()
	ts.next() // :=
	value, err := p.parseExpression(ts)
	if err != nil {
		return err
	}
	if tok := ts.peek(); tok.kind != tokEOF {
		return p.unexpected(tok, "end of line")
	}
	if len(p.attrs) > 0 {
		return p.errorAt(p.attrs[0].pos, "attribute %q cannot be applied to an assignment", p.attrs[0].name)
	}
	if prev, ok := p.file.Assignments[name.text]; ok {
		return p.errorAt(name.pos, "variable %q is already defined on line %d", name.text, prev.Pos.Line)
	}
	p.file.Assignments[name.text] = &Assignment{Name: name.text, Value: value, Export: export, Pos: name.pos}
	p.file.AssignmentOrder = append(p.file.AssignmentOrder, name.text)
	return nil
}

func (p *parser) parseSetting(ts *tokenStream) error {
	ts.next() // set
	name := ts.next()
	if prev, ok := p.seenSettings[name.text]; ok {
		return p.errorAt(name.pos, "setting %q is already set on line %d", name.text, prev.Line)
	}
	if len(p.attrs) > 0 {
		return p.errorAt(p.attrs[0].pos, "attribute %q cannot be applied to a setting", p.attrs[0].name)
	}

	bare := ts.peek().kind == tokEOF
	if !bare {
		ts.next() // :=
	}
	s := &p.file.Settings

	var err error
	switch name.text {
	case settingShell:
		if bare {
			return p.errorAt(name.pos, "setting %q requires a value", name.text)
		}
		s.Shell, err = p.parseStringList(ts)
	case settingDotenvPath:
		if bare {
			return p.errorAt(name.pos, "setting %q requires a value", name.text)
		}
		tok := ts.next()
		if tok.kind != tokString {
			return p.unexpected(tok, "string")
		}
		s.DotenvPath = tok.text
	case settingDotenvLoad:
		s.DotenvLoad, err = p.parseBoolSetting(ts, bare)
	case settingExport:
		s.Export, err = p.parseBoolSetting(ts, bare)
	case settingPositionalArguments:
		s.PositionalArguments, err = p.parseBoolSetting(ts, bare)
	case settingQuiet:
		s.Quiet, err = p.parseBoolSetting(ts, bare)
	default:
		return p.errorAt(name.pos, "unknown setting %q", name.text)
	}
	if err != nil {
		return err
	}
	if tok := ts.peek(); tok.kind != tokEOF {
		return p.unexpected(tok, "end of line")
	}
	p.seenSettings[name.text] = name.pos
	return nil
}

func (p *parser) parseBoolSetting(ts *tokenStream, bare bool) (bool, error) {
	if bare {
		return true, nil
	}
	tok := ts.next()
	if tok.kind == tokIdent {
		switch tok.text {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return false, p.unexpected(tok, "true or false")
}

func (p *parser) parseStringList(ts *tokenStream) ([]string, error) {
	open := ts.next()
	if open.kind != tokLBracket {
		return nil, p.unexpected(open, "'['")
	}
	var out []string
	for {
		tok := ts.next()
		if tok.kind == tokRBracket && len(out) == 0 {
			return nil, p.errorAt(tok.pos, "list must not be empty")
		}
		if tok.kind != tokString {
			return nil, p.unexpected(tok, "string")
		}
		out = append(out, tok.text)
		sep := ts.next()
		if sep.kind == tokRBracket {
			return out, nil
		}
		if sep.kind != tokComma {
			return nil, p.unexpected(sep, "',' or ']'")
		}
		// trailing comma
		if ts.peek().kind == tokRBracket {
			ts.next()
			return out, nil
		}
	}
}

// parseRecipe parses a header on line index idx and its body. It returns the
// number of additional lines consumed.
func (p *parser) parseRecipe(ts *tokenStream, idx int) (int, error) {
	v := &Variant{Doc: p.doc}
	if ts.peek().kind == tokAt {
		ts.next()
		v.Quiet = true
	}
	name := ts.next()
	if name.kind != tokIdent {
		return 0, p.unexpected(name, "recipe name")
	}
	v.Name = name.text
	v.Pos = name.pos

	var osNames []string
	for _, a := range p.attrs {
		switch a.name {
		case attrPrivate:
			v.Private = true
		case attrNoCD:
			v.NoCD = true
		case attrNoExitMessage:
			v.NoExitMessage = true
		case attrDoc:
			v.Doc = a.arg
		default:
			osNames = append(osNames, a.name)
		}
	}
	pred, err := NewOSPredicate(osNames...)
	if err != nil {
		return 0, p.errorAt(p.attrs[0].pos, "%s", err.Error())
	}
	v.Predicate = pred

	if err := p.parseParameters(ts, v); err != nil {
		return 0, err
	}
	colon := ts.next()
	if colon.kind != tokColon {
		return 0, p.unexpected(colon, "':'")
	}

	pre, post, err := p.parseDependencies(ts)
	if err != nil {
		return 0, err
	}

	body, consumed, err := p.parseBody(idx + 1)
	if err != nil {
		return 0, err
	}
	v.Lines = make([]*Line, 0, len(pre)+len(body)+len(post))
	v.Lines = append(v.Lines, pre...)
	v.Lines = append(v.Lines, body...)
	v.Lines = append(v.Lines, post...)

	if err := p.addVariant(v); err != nil {
		return 0, err
	}
	return consumed, nil
}

func (p *parser) parseParameters(ts *tokenStream, v *Variant) error {
	sawDefault := false
	for ts.peek().kind != tokColon && ts.peek().kind != tokEOF {
		param := &Parameter{}
		if ts.peek().kind == tokDollar {
			ts.next()
			param.Export = true
		}
		switch ts.peek().kind {
		case tokStar:
			ts.next()
			param.Variadic = ZeroOrMore
		case tokPlus:
			ts.next()
			param.Variadic = OneOrMore
		}
		name := ts.next()
		if name.kind != tokIdent {
			return p.unexpected(name, "parameter name")
		}
		param.Name = name.text
		param.Pos = name.pos

		if ts.peek().kind == tokEquals {
			ts.next()
			def, err := p.parseDefault(ts)
			if err != nil {
				return err
			}
			param.Default = def
		}

		if prev := v.Variadic(); prev != nil {
			return p.errorAt(prev.Pos, "variadic parameter %q must be the last parameter", prev.Name)
		}
		if v.Parameter(param.Name) != nil {
			return p.errorAt(name.pos, "duplicate parameter %q", param.Name)
		}
		if !param.IsVariadic() {
			if param.Default != nil {
				sawDefault = true
			} else if sawDefault {
				return p.errorAt(name.pos, "parameter %q without a default follows a parameter with a default", param.Name)
			}
		}
		v.Parameters = append(v.Parameters, param)
	}
	return nil
}

// parseDefault reads a parameter default: a string, backtick, identifier or parenthesized expression.
func (p *parser) parseDefault(ts *tokenStream) (*Expression, error) {
	tok := ts.peek()
	switch tok.kind {
	case tokString:
		ts.next()
		return &Expression{Kind: ExprString, Value: tok.text, Pos: tok.pos}, nil
	case tokBacktick:
		ts.next()
		return &Expression{Kind: ExprBacktick, Value: tok.text, Pos: tok.pos}, nil
	case tokIdent:
		ts.next()
		return &Expression{Kind: ExprIdent, Value: tok.text, Pos: tok.pos}, nil
	case tokLParen:
		ts.next()
		expr, err := p.parseExpression(ts)
		if err != nil {
			return nil, err
		}
		if closing := ts.next(); closing.kind != tokRParen {
			return nil, p.unexpected(closing, "')'")
		}
		return expr, nil
	default:
		return nil, p.unexpected(tok, "default value")
	}
}

// parseDependencies reads `dep (dep arg...) && post-dep` after the header colon.
func (p *parser) parseDependencies(ts *tokenStream) (pre, post []*Line, err error) {
	target := &pre
	sawAnd := false
	for {
		tok := ts.peek()
		switch tok.kind {
		case tokEOF:
			if sawAnd && len(post) == 0 {
				return nil, nil, p.unexpected(tok, "dependency after '&&'")
			}
			return pre, post, nil
		case tokAndAnd:
			if sawAnd {
				return nil, nil, p.unexpected(tok, "dependency")
			}
			ts.next()
			sawAnd = true
			target = &post
			continue
		}
		line, err := p.parseDependency(ts)
		if err != nil {
			return nil, nil, err
		}
		*target = append(*target, line)
	}
}

func (p *parser) parseDependency(ts *tokenStream) (*Line, error) {
	tok := ts.next()
	switch tok.kind {
	case tokIdent:
		return &Line{Kind: LineInvocation, Target: tok.text, Pos: tok.pos}, nil
	case tokLParen:
		name := ts.next()
		if name.kind != tokIdent {
			return nil, p.unexpected(name, "recipe name")
		}
		line := &Line{Kind: LineInvocation, Target: name.text, Pos: name.pos}
		for ts.peek().kind != tokRParen {
			if ts.peek().kind == tokEOF {
				return nil, p.unexpected(ts.peek(), "')'")
			}
			arg, err := p.parseExpression(ts)
			if err != nil {
				return nil, err
			}
			line.Args = append(line.Args, arg)
		}
		ts.next()
		return line, nil
	default:
		return nil, p.unexpected(tok, "dependency")
	}
}

// parseBody reads the indented lines starting at line index start.
// It returns the parsed lines and the number of source lines consumed.
func (p *parser) parseBody(start int) ([]*Line, int, error) {
	var (
		lines  []*Line
		indent string
		end    = start
	)
	for i := start; i < len(p.lines); i++ {
		raw := p.lines[i]
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if raw[0] != ' ' && raw[0] != '\t' {
			break
		}
		lineNo := i + 1
		if indent == "" {
			indent = leadingWhitespace(raw)
			if strings.Contains(indent, " ") && strings.Contains(indent, "\t") {
				return nil, 0, p.errorAt(Pos{Line: lineNo, Column: 1}, "recipe body indentation mixes tabs and spaces")
			}
		}
		if !strings.HasPrefix(raw, indent) {
			return nil, 0, p.errorAt(Pos{Line: lineNo, Column: 1}, "inconsistent indentation in recipe body")
		}

		text := raw[len(indent):]
		col := len(indent) + 1
		// a trailing backslash joins the next body line
		for strings.HasSuffix(text, "\\") && i+1 < len(p.lines) {
			next := p.lines[i+1]
			if strings.TrimSpace(next) != "" && next[0] != ' ' && next[0] != '\t' {
				break
			}
			i++
			text = strings.TrimSuffix(text, "\\") + strings.TrimLeft(next, " \t")
		}

		line := &Line{Kind: LineProcess, Pos: Pos{Line: lineNo, Column: col}}
		for len(text) > 0 {
			if text[0] == '@' && !line.Quiet {
				line.Quiet = true
			} else if text[0] == '-' && !line.IgnoreFailure {
				line.IgnoreFailure = true
			} else {
				break
			}
			text = text[1:]
			col++
		}
		tmpl, perr := parseTemplate(text, Pos{Line: lineNo, Column: col})
		if perr != nil {
			return nil, 0, p.fromPosError(perr)
		}
		line.Text = tmpl
		lines = append(lines, line)
		end = i + 1
	}
	return lines, end - start, nil
}

func (p *parser) addVariant(v *Variant) error {
	r, ok := p.file.Recipes[v.Name]
	if !ok {
		r = &Recipe{Name: v.Name}
		p.file.Recipes[v.Name] = r
		p.file.Order = append(p.file.Order, v.Name)
	}
	for _, existing := range r.Variants {
		if existing.Predicate != v.Predicate {
			continue
		}
		if v.Predicate.IsZero() {
			return p.errorAt(v.Pos, "recipe %q is already defined on line %d", v.Name, existing.Pos.Line)
		}
		return p.errorAt(v.Pos, "recipe %q already has a variant for [%s] on line %d",
			v.Name, v.Predicate, existing.Pos.Line)
	}
	r.Variants = append(r.Variants, v)
	return nil
}

// parseExpression reads operands joined by `+` (concatenation) or `/` (path join).
func (p *parser) parseExpression(ts *tokenStream) (*Expression, error) {
	left, err := p.parseOperand(ts)
	if err != nil {
		return nil, err
	}
	for {
		var kind ExprKind
		switch ts.peek().kind {
		case tokPlus:
			kind = ExprConcat
		case tokSlash:
			kind = ExprJoin
		default:
			return left, nil
		}
		op := ts.next()
		right, err := p.parseOperand(ts)
		if err != nil {
			return nil, err
		}
		left = &Expression{Kind: kind, Args: []*Expression{left, right}, Pos: op.pos}
	}
}

func (p *parser) parseOperand(ts *tokenStream) (*Expression, error) {
	tok := ts.next()
	switch tok.kind {
	case tokString:
		return &Expression{Kind: ExprString, Value: tok.text, Pos: tok.pos}, nil
	case tokBacktick:
		return &Expression{Kind: ExprBacktick, Value: tok.text, Pos: tok.pos}, nil
	case tokIdent:
		if ts.peek().kind != tokLParen {
			return &Expression{Kind: ExprIdent, Value: tok.text, Pos: tok.pos}, nil
		}
		return p.parseCall(ts, tok)
	case tokLParen:
		expr, err := p.parseExpression(ts)
		if err != nil {
			return nil, err
		}
		if closing := ts.next(); closing.kind != tokRParen {
			return nil, p.unexpected(closing, "')'")
		}
		return expr, nil
	default:
		return nil, p.unexpected(tok, "expression")
	}
}

func (p *parser) parseCall(ts *tokenStream, name token) (*Expression, error) {
	arity, ok := Functions[name.text]
	if !ok {
		return nil, p.errorAt(name.pos, "unknown function %q", name.text)
	}
	ts.next() // (
	call := &Expression{Kind: ExprCall, Value: name.text, Pos: name.pos}
	for ts.peek().kind != tokRParen {
		if len(call.Args) > 0 {
			if tok := ts.next(); tok.kind != tokComma {
				return nil, p.unexpected(tok, "',' or ')'")
			}
		}
		arg, err := p.parseExpression(ts)
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
	}
	ts.next()
	if n := len(call.Args); n < arity.Min || n > arity.Max {
		return nil, p.errorAt(name.pos, "function %q takes %s, got %d", name.text, arity.describe(), n)
	}
	return call, nil
}

func (a FuncArity) describe() string {
	switch {
	case a.Min == a.Max && a.Min == 1:
		return "1 argument"
	case a.Min == a.Max:
		return fmt.Sprintf("%d arguments", a.Min)
	default:
		return fmt.Sprintf("%d to %d arguments", a.Min, a.Max)
	}
}

func (p *parser) unexpected(tok token, want string) error {
	return p.errorAt(tok.pos, "expected %s, found %s", want, tok.describe())
}

func (p *parser) errorAt(pos Pos, format string, args ...any) error {
	return &ParseError{
		Path:    p.path,
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
		Source:  p.sourceLine(pos.Line),
	}
}

func (p *parser) fromPosError(e *posError) error {
	return &ParseError{
		Path:    p.path,
		Pos:     e.pos,
		Message: e.msg,
		Source:  p.sourceLine(e.pos.Line),
		Cause:   e.cause,
	}
}

func (p *parser) sourceLine(line int) string {
	if line < 1 || line > len(p.lines) {
		return ""
	}
	return p.lines[line-1]
}

func leadingWhitespace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}

func (ts *tokenStream) peek() token { return ts.peekAt(0) }

func (ts *tokenStream) peekAt(n int) token {
	if ts.i+n >= len(ts.toks) {
		return ts.toks[len(ts.toks)-1]
	}
	return ts.toks[ts.i+n]
}

func (ts *tokenStream) next() token {
	tok := ts.peek()
	if ts.i < len(ts.toks)-1 {
		ts.i++
	}
	return tok
}

func (ts *tokenStream) isKeyword(word string) bool {
	tok := ts.peek()
	return tok.kind == tokIdent && tok.text == word
}
