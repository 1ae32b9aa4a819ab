package keymap

import (
	"strings"

	"github.com/Alia5/keyview/keycode"
)

// layoutMarker identifies a QMK layout macro invocation (LAYOUT,
// LAYOUT_ortho_4x12, LAYOUT_planck_grid, ...).
const layoutMarker = "LAYOUT"

// legacyMarkers are accepted by the fallback strategies; keymaps written
// before QMK renamed its macros use KEYMAP(...).
var legacyMarkers = []string{layoutMarker, "KEYMAP"}

// extractLayoutBlocks captures the arguments of every LAYOUT...( ... )
// invocation in src. It also returns the name of the first macro seen.
func extractLayoutBlocks(src string) (layers [][]string, macro string) {
	idx := 0
	for idx < len(src) {
		start := strings.Index(src[idx:], layoutMarker)
		if start == -1 {
			break
		}
		start += idx

		if isDirectiveLine(src, start) {
			idx = start + len(layoutMarker)
			continue
		}

		open := strings.IndexByte(src[start:], '(')
		if open == -1 {
			break
		}
		open += start

		end := findMatchingParen(src, open)
		if end == -1 {
			idx = open + 1
			continue
		}

		if tokens := keycode.SplitArgs(src[open+1 : end]); len(tokens) > 0 {
			layers = append(layers, tokens)
			if macro == "" {
				macro = identifierAt(src, start)
			}
		}
		idx = end + 1
	}
	return layers, macro
}

// extractIndexedLayers handles keymaps whose layers are written as
// "[N] = MACRO(...)" where MACRO is a LAYOUT or legacy KEYMAP macro.
func extractIndexedLayers(src string) (layers [][]string, macro string) {
	forEachLine(src, func(offset int, line string) bool {
		trimmed := strings.TrimLeft(line, " \t")
		if !strings.HasPrefix(trimmed, "[") {
			return true
		}
		closeBracket := strings.IndexByte(trimmed, ']')
		if closeBracket == -1 {
			return true
		}
		rest := strings.TrimLeft(trimmed[closeBracket+1:], " \t")
		if !strings.HasPrefix(rest, "=") {
			return true
		}

		at := offset + (len(line) - len(rest)) + 1
		at = skipSpace(src, at)
		name := identifierAt(src, at)
		if !hasMarker(name) {
			return true
		}
		open := skipSpace(src, at+len(name))
		if open >= len(src) || src[open] != '(' {
			return true
		}
		end := findMatchingParen(src, open)
		if end == -1 {
			return true
		}
		if tokens := keycode.SplitArgs(src[open+1 : end]); len(tokens) > 0 {
			layers = append(layers, tokens)
			if macro == "" {
				macro = name
			}
		}
		return true
	})
	return layers, macro
}

// extractProgmemLayers looks for the "PROGMEM keymaps" array declaration
// and captures every layout macro inside it. Braces outside the captured
// calls are counted; the scan stops at the brace closing the array.
func extractProgmemLayers(src string) (layers [][]string, macro string) {
	declStart := -1
	// depth is relative to the array body; -1 until its opening brace.
	depth := 0
	forEachLine(src, func(offset int, line string) bool {
		if strings.Contains(line, "PROGMEM") && strings.Contains(line, "keymaps") {
			declStart = offset + len(line) + 1
			if !strings.Contains(line, "{") {
				depth = -1
			}
			return false
		}
		return true
	})
	if declStart == -1 {
		return nil, ""
	}

	pos := declStart
	for pos < len(src) {
		lineEnd := strings.IndexByte(src[pos:], '\n')
		if lineEnd == -1 {
			lineEnd = len(src)
		} else {
			lineEnd += pos
		}
		line := src[pos:lineEnd]

		if m := indexMarker(line); m >= 0 {
			if !trackBraces(line[:m], &depth) {
				break
			}
			at := pos + m
			open := strings.IndexByte(src[at:], '(')
			if open == -1 {
				break
			}
			open += at
			end := findMatchingParen(src, open)
			if end == -1 {
				break
			}
			if tokens := keycode.SplitArgs(src[open+1 : end]); len(tokens) > 0 {
				layers = append(layers, tokens)
				if macro == "" {
					macro = identifierAt(src, at)
				}
			}
			pos = end + 1
			continue
		}

		if !trackBraces(line, &depth) {
			break
		}
		pos = lineEnd + 1
	}
	return layers, macro
}

// trackBraces updates depth with the braces in s. It returns false once a
// closing brace has no opening partner.
func trackBraces(s string, depth *int) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			*depth++
		case '}':
			*depth--
			if *depth < 0 {
				return false
			}
		}
	}
	return true
}

// findMatchingParen returns the index of the ')' closing the '(' at open,
// or -1 if it is never closed. Parentheses inside string or character
// literals are ignored.
func findMatchingParen(s string, open int) int {
	if open >= len(s) || s[open] != '(' {
		return -1
	}

	depth := 0
	var quote byte
	escaped := false
	for i := open; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// identifierAt returns the C identifier that contains position i.
func identifierAt(s string, i int) string {
	if i < 0 || i >= len(s) || !isIdentByte(s[i]) {
		return ""
	}
	start, end := i, i
	for start > 0 && isIdentByte(s[start-1]) {
		start--
	}
	for end < len(s) && isIdentByte(s[end]) {
		end++
	}
	return s[start:end]
}

// isDirectiveLine reports whether the line holding position i is a
// preprocessor directive, where macro names are defined rather than used.
func isDirectiveLine(s string, i int) bool {
	lineStart := strings.LastIndexByte(s[:i], '\n') + 1
	return strings.HasPrefix(strings.TrimLeft(s[lineStart:i], " \t"), "#")
}

func hasMarker(name string) bool {
	for _, m := range legacyMarkers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

func indexMarker(line string) int {
	best := -1
	for _, m := range legacyMarkers {
		if i := strings.Index(line, m); i >= 0 && (best == -1 || i < best) {
			best = i
		}
	}
	return best
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	return i
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// forEachLine calls fn with the byte offset and text of each line in s
// until fn returns false.
func forEachLine(s string, fn func(offset int, line string) bool) {
	offset := 0
	for offset <= len(s) {
		end := strings.IndexByte(s[offset:], '\n')
		if end == -1 {
			fn(offset, s[offset:])
			return
		}
		if !fn(offset, s[offset:offset+end]) {
			return
		}
		offset += end + 1
	}
}
