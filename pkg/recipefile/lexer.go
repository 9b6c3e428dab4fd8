// SPDX-License-Identifier: MPL-2.0

package recipefile

import (
	"strings"
	"unicode/utf8"
)

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokBacktick
	tokAssign // :=
	tokColon
	tokEquals
	tokStar
	tokPlus
	tokDollar
	tokAt
	tokSlash
	tokComma
	tokAndAnd
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
)

type (
	tokenKind int

	token struct {
		kind tokenKind
		// text is the identifier, or the unquoted string/backtick contents.
		text string
		pos  Pos
	}
)

var tokenNames = map[tokenKind]string{
	tokEOF:      "end of line",
	tokIdent:    "identifier",
	tokString:   "string",
	tokBacktick: "backtick",
	tokAssign:   "':='",
	tokColon:    "':'",
	tokEquals:   "'='",
	tokStar:     "'*'",
	tokPlus:     "'+'",
	tokDollar:   "'$'",
	tokAt:       "'@'",
	tokSlash:    "'/'",
	tokComma:    "','",
	tokAndAnd:   "'&&'",
	tokLParen:   "'('",
	tokRParen:   "')'",
	tokLBracket: "'['",
	tokRBracket: "']'",
}

func (k tokenKind) String() string { return tokenNames[k] }

// describe renders a token for error messages.
func (t token) describe() string {
	switch t.kind {
	case tokIdent:
		return "identifier " + quoteLiteral(t.text)
	case tokString:
		return "string " + quoteLiteral(t.text)
	default:
		return t.kind.String()
	}
}

// lexLine tokenizes one logical top-level line. A '#' outside a string
// starts a comment that runs to the end of the line.
func lexLine(text string, line int) ([]token, *posError) {
	var toks []token
	i := 0
	for i < len(text) {
		c := text[i]
		pos := Pos{Line: line, Column: i + 1}
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			i++
			continue
		case c == '#':
			i = len(text)
			continue
		case isIdentStart(rune(c)):
			j := i + 1
			for j < len(text) && isIdentChar(rune(text[j])) {
				j++
			}
			toks = append(toks, token{kind: tokIdent, text: text[i:j], pos: pos})
			i = j
			continue
		case c == '\'':
			end := strings.IndexByte(text[i+1:], '\'')
			if end < 0 {
				return nil, &posError{pos: pos, msg: "unterminated string"}
			}
			toks = append(toks, token{kind: tokString, text: text[i+1 : i+1+end], pos: pos})
			i += end + 2
			continue
		case c == '"':
			s, n, err := lexCooked(text[i:], pos)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{kind: tokString, text: s, pos: pos})
			i += n
			continue
		case c == '`':
			end := strings.IndexByte(text[i+1:], '`')
			if end < 0 {
				return nil, &posError{pos: pos, msg: "unterminated backtick"}
			}
			toks = append(toks, token{kind: tokBacktick, text: text[i+1 : i+1+end], pos: pos})
			i += end + 2
			continue
		}

		if strings.HasPrefix(text[i:], ":=") {
			toks = append(toks, token{kind: tokAssign, pos: pos})
			i += 2
			continue
		}
		if strings.HasPrefix(text[i:], "&&") {
			toks = append(toks, token{kind: tokAndAnd, pos: pos})
			i += 2
			continue
		}
		kind, ok := singleCharTokens[c]
		if !ok {
			r, _ := utf8.DecodeRuneInString(text[i:])
			return nil, &posError{pos: pos, msg: "unexpected character " + quoteLiteral(string(r))}
		}
		toks = append(toks, token{kind: kind, pos: pos})
		i++
	}
	toks = append(toks, token{kind: tokEOF, pos: Pos{Line: line, Column: len(text) + 1}})
	return toks, nil
}

var singleCharTokens = map[byte]tokenKind{
	':': tokColon,
	'=': tokEquals,
	'*': tokStar,
	'+': tokPlus,
	'$': tokDollar,
	'@': tokAt,
	'/': tokSlash,
	',': tokComma,
	'(': tokLParen,
	')': tokRParen,
	'[': tokLBracket,
	']': tokRBracket,
}

// lexCooked reads a double-quoted string with backslash escapes.
// It returns the decoded value and the number of bytes consumed.
func lexCooked(text string, pos Pos) (string, int, *posError) {
	var sb strings.Builder
	for i := 1; i < len(text); i++ {
		c := text[i]
		switch c {
		case '"':
			return sb.String(), i + 1, nil
		case '\\':
			if i+1 >= len(text) {
				return "", 0, &posError{pos: pos, msg: "unterminated string"}
			}
			i++
			switch text[i] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			default:
				return "", 0, &posError{
					pos: Pos{Line: pos.Line, Column: pos.Column + i - 1},
					msg: "invalid escape sequence \\" + string(text[i]),
				}
			}
		default:
			sb.WriteByte(c)
		}
	}
	return "", 0, &posError{pos: pos, msg: "unterminated string"}
}
