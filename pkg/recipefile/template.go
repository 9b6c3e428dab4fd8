// SPDX-License-Identifier: MPL-2.0

package recipefile

import "strings"

type (
	// Template is command text split into literal fragments and {{ identifier }} references.
	Template struct {
		Fragments []Fragment
		// Source is the text as written, including interpolation markers.
		Source string
	}

	// Fragment is either literal text or a single identifier reference.
	Fragment struct {
		Literal string
		// Ident is set for interpolations; Literal is empty in that case.
		Ident string
		Pos   Pos
	}
)

// IsInterpolation reports whether the fragment references an identifier.
func (f Fragment) IsInterpolation() bool { return f.Ident != "" }

// Identifiers returns the referenced identifiers in source order.
func (t *Template) Identifiers() []string {
	var out []string
	for _, f := range t.Fragments {
		if f.IsInterpolation() {
			out = append(out, f.Ident)
		}
	}
	return out
}

// Render substitutes every interpolation with the value returned by lookup.
func (t *Template) Render(lookup func(name string) (string, error)) (string, error) {
	var sb strings.Builder
	for _, f := range t.Fragments {
		if !f.IsInterpolation() {
			sb.WriteString(f.Literal)
			continue
		}
		v, err := lookup(f.Ident)
		if err != nil {
			return "", err
		}
		sb.WriteString(v)
	}
	return sb.String(), nil
}

// String returns the template source.
func (t *Template) String() string {
	if t == nil {
		return ""
	}
	return t.Source
}

// parseTemplate splits a body line into fragments. `{{{{` yields a literal `{{`.
// start is the position of the first character of text.
func parseTemplate(text string, start Pos) (*Template, *posError) {
	t := &Template{Source: text}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			t.Fragments = append(t.Fragments, Fragment{Literal: lit.String()})
			lit.Reset()
		}
	}
	for i := 0; i < len(text); {
		if strings.HasPrefix(text[i:], "{{{{") {
			lit.WriteString("{{")
			i += 4
			continue
		}
		if !strings.HasPrefix(text[i:], "{{") {
			lit.WriteByte(text[i])
			i++
			continue
		}
		pos := Pos{Line: start.Line, Column: start.Column + i}
		end := strings.Index(text[i+2:], "}}")
		if end < 0 {
			return nil, &posError{pos: pos, msg: "unterminated interpolation"}
		}
		name := strings.TrimSpace(text[i+2 : i+2+end])
		if !isIdentifier(name) {
			return nil, &posError{pos: pos, msg: "interpolation must contain a single identifier, got " + quoteLiteral(name)}
		}
		flush()
		t.Fragments = append(t.Fragments, Fragment{Ident: name, Pos: pos})
		i += 2 + end + 2
	}
	flush()
	return t, nil
}

func isIdentifier(s string) bool {
	if s == "" || !isIdentStart(rune(s[0])) {
		return false
	}
	for _, r := range s[1:] {
		if !isIdentChar(r) {
			return false
		}
	}
	return true
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentChar(r rune) bool {
	return isIdentStart(r) || r == '-' || (r >= '0' && r <= '9')
}
