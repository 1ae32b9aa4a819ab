package keycode

import "strings"

// Kind classifies a raw token by the wrapper it is written with.
type Kind uint8

const (
	Plain Kind = iota
	ModTap
	LayerTap
	Momentary
	OneShot
	ToggleLayer
	DefaultLayer
)

func (k Kind) String() string {
	switch k {
	case ModTap:
		return "mod-tap"
	case LayerTap:
		return "layer-tap"
	case Momentary:
		return "momentary"
	case OneShot:
		return "one-shot"
	case ToggleLayer:
		return "toggle-layer"
	case DefaultLayer:
		return "default-layer"
	default:
		return "plain"
	}
}

// IsFunction reports whether the kind switches layers or holds a modifier.
func (k Kind) IsFunction() bool {
	return k != Plain
}

// IsDualRole reports whether the kind acts differently on tap and hold.
func (k Kind) IsDualRole() bool {
	return k == ModTap || k == LayerTap
}

// wrappers is checked in order; KC_MT must come before MT.
var wrappers = []struct {
	prefix string
	kind   Kind
}{
	{"KC_MT(", ModTap},
	{"MT(", ModTap},
	{"LT(", LayerTap},
	{"MO(", Momentary},
	{"OSL(", OneShot},
	{"TO(", ToggleLayer},
	{"DF(", DefaultLayer},
}

// Wrapper is the decomposition of a raw token.
// For ModTap and LayerTap the first argument is the modifier or layer
// operand and the last one is the key.
type Wrapper struct {
	Kind Kind
	Args []string
}

// Operand returns the first argument, or "" if there is none.
func (w Wrapper) Operand() string {
	if len(w.Args) == 0 {
		return ""
	}
	return w.Args[0]
}

// Key returns the last argument, or "" if there is none.
func (w Wrapper) Key() string {
	if len(w.Args) == 0 {
		return ""
	}
	return w.Args[len(w.Args)-1]
}

// Classify decomposes tok into its wrapper kind and arguments.
// Tokens that are not of the form FUNC(...) are Plain with no arguments.
func Classify(tok string) Wrapper {
	t := strings.TrimSpace(tok)
	if !strings.HasSuffix(t, ")") {
		return Wrapper{Kind: Plain}
	}
	for _, w := range wrappers {
		if strings.HasPrefix(t, w.prefix) {
			inner := t[len(w.prefix) : len(t)-1]
			return Wrapper{Kind: w.kind, Args: SplitArgs(inner)}
		}
	}
	return Wrapper{Kind: Plain}
}

// KindOf is shorthand for Classify(tok).Kind.
func KindOf(tok string) Kind {
	return Classify(tok).Kind
}

// SplitArgs splits s on the commas that sit at parenthesis depth zero and
// outside string or character literals. Items are trimmed and empty items
// are dropped.
func SplitArgs(s string) []string {
	var (
		items   []string
		depth   int
		start   int
		quote   byte
		escaped bool
	)
	push := func(item string) {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	for i := 0; i < len(s); i++ {
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
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				push(s[start:i])
				start = i + 1
			}
		}
	}
	push(s[start:])
	return items
}
