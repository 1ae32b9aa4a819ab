package keymap

import "strings"

type scanState int

const (
	stateCode scanState = iota
	stateLineComment
	stateBlockComment
	stateString
	stateChar
)

// StripComments removes // and /* */ comments from C source.
// String and character literals are copied through untouched, so a comment
// marker inside a literal survives. Newlines ending line comments are kept
// so that line based scans still see the line structure, and a block
// comment collapses to a single space.
func StripComments(src string) string {
	var (
		out     strings.Builder
		state   = stateCode
		escaped bool
	)
	out.Grow(len(src))

	for i := 0; i < len(src); i++ {
		c := src[i]
		var next byte
		if i+1 < len(src) {
			next = src[i+1]
		}

		switch state {
		case stateCode:
			switch {
			case c == '/' && next == '/':
				state = stateLineComment
				i++
			case c == '/' && next == '*':
				// C treats a block comment as whitespace.
				state = stateBlockComment
				out.WriteByte(' ')
				i++
			case c == '"':
				state = stateString
				out.WriteByte(c)
			case c == '\'':
				state = stateChar
				out.WriteByte(c)
			default:
				out.WriteByte(c)
			}

		case stateLineComment:
			if c == '\n' {
				state = stateCode
				out.WriteByte(c)
			}

		case stateBlockComment:
			if c == '*' && next == '/' {
				state = stateCode
				i++
			}

		case stateString, stateChar:
			out.WriteByte(c)
			closing := byte('"')
			if state == stateChar {
				closing = '\''
			}
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == closing:
				state = stateCode
			}
		}
	}
	return out.String()
}
