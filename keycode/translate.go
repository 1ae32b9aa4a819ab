// Package keycode translates QMK keycode tokens into display legends and
// classifies the wrapper tokens (MT, LT, MO, OSL, TO, DF) that combine a
// key with a modifier or a layer.
//
// Every function in this package is pure; the lookup tables are built once
// at package initialization and never modified.
package keycode

import "strings"

// Transparent is the canonical token used to pad short layers.
const Transparent = "_______"

// Translate maps a single keycode token to its legend.
// Unknown tokens come back trimmed but otherwise unchanged; transparent
// markers translate to the empty string.
func Translate(tok string) string {
	t := normalize(tok)
	if IsTransparent(t) {
		return ""
	}

	for _, table := range []map[string]string{accents, punctuation, navigation, modifiers} {
		if s, ok := table[t]; ok {
			return s
		}
	}

	if len(t) == 4 && strings.HasPrefix(t, "KC_") && isASCIILetter(t[3]) {
		return strings.ToLower(t[3:])
	}

	if s, ok := kcKeycodes[t]; ok {
		return s
	}

	if len(t) == 1 && isASCIILetter(t[0]) {
		return strings.ToLower(t)
	}

	if s, ok := icons[t]; ok {
		return s
	}
	return t
}

// IsTransparent reports whether tok is one of the no-op / fall-through
// spellings.
func IsTransparent(tok string) bool {
	_, ok := transparentTokens[strings.TrimSpace(tok)]
	return ok
}

// ModGlyph returns the legend for the modifier operand of MT(mod, key).
func ModGlyph(mod string) string {
	m := strings.TrimSpace(mod)
	if s, ok := modGlyphs[m]; ok {
		return s
	}
	return Translate(m)
}

// LayerDisplayName returns the friendly name for a layer operand.
// Enum style identifiers such as _NAV are looked up without the leading
// underscore; anything unknown is returned as is.
func LayerDisplayName(tok string) string {
	t := strings.TrimSpace(tok)
	if s, ok := layerNames[t]; ok {
		return s
	}
	if s, ok := layerNames[strings.TrimLeft(t, "_")]; ok {
		return s
	}
	return t
}

// ReferencesShift reports whether tok mentions a shift modifier anywhere,
// including inside a wrapper such as MT(MOD_LSFT, KC_A).
func ReferencesShift(tok string) bool {
	for _, s := range shiftSpellings {
		if strings.Contains(tok, s) {
			return true
		}
	}
	return false
}

// normalize trims tok and folds the malformed keypad spellings that show up
// in hand-written keymaps ("KC_KP 0", "KC_KP_ 2", "KC_P1", "KC_PDOT") into
// the KC_KP_<NAME> form.
func normalize(tok string) string {
	t := strings.TrimSpace(tok)
	upper := strings.ToUpper(strings.ReplaceAll(t, " ", ""))
	switch {
	case strings.HasPrefix(upper, "KC_KP"):
		if rest := strings.TrimLeft(upper[len("KC_KP"):], "_"); rest != "" {
			return "KC_KP_" + rest
		}
	case strings.HasPrefix(upper, "KC_P"):
		rest := strings.TrimLeft(upper[len("KC_P"):], "_")
		if rest == "" {
			break
		}
		if isASCIIDigit(rest[0]) {
			return "KC_KP_" + rest
		}
		if long, ok := keypadAliases[rest]; ok {
			return "KC_KP_" + long
		}
	}
	return t
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isASCIIDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
