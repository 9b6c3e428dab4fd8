// SPDX-License-Identifier: MPL-2.0

package recipefile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrParse is the sentinel error wrapped by ParseError.
var ErrParse = errors.New("recipefile parse error")

type (
	// ParseError reports malformed recipefile content with its location.
	ParseError struct {
		// Path is the recipefile path (may be empty for in-memory input).
		Path string
		Pos  Pos
		// Message describes the problem.
		Message string
		// Source is the offending source line, used for the snippet.
		Source string
		// Cause is an underlying error, if any.
		Cause error
	}

	// posError is an internal error carrying a position before the
	// parser turns it into a ParseError.
	posError struct {
		pos   Pos
		msg   string
		cause error
	}
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	loc := e.Pos.String()
	if e.Path != "" {
		loc = e.Path + ":" + loc
	}
	return fmt.Sprintf("%s: %s", loc, e.Message)
}

// Unwrap returns the cause when present so both the cause and ErrParse remain reachable.
func (e *ParseError) Unwrap() error { return e.Cause }

// Is matches ErrParse.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// Snippet renders the offending line with a caret under the error column.
func (e *ParseError) Snippet() string {
	if e.Source == "" {
		return ""
	}
	col := max(e.Pos.Column, 1)
	prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
	var pad strings.Builder
	// keep tabs so the caret lines up with tab-indented bodies
	for i, r := range e.Source {
		if i >= col-1 {
			break
		}
		if r == '\t' {
			pad.WriteRune('\t')
		} else {
			pad.WriteRune(' ')
		}
	}
	return prefix + e.Source + "\n" + strings.Repeat(" ", len(prefix)-2) + "| " + pad.String() + "^"
}

func (e *posError) Error() string { return e.msg }
