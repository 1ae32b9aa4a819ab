package keycode

import "strconv"

// accents holds the KF_ locale namespace and the bare names those keycodes
// show up as in older keymaps.
var accents = map[string]string{
	"KF_EGRV": "è",
	"KF_EACU": "é",
	"KF_ECRC": "ê",
	"KF_AGRV": "à",
	"KF_UGRV": "ù",
	"KF_UCRC": "û",
	"KF_ICRC": "î",
	"KF_ACRC": "â",
	"KF_CCED": "ç",
	"KF_DIAE": "¨",
	"KF_AE":   "æ",
	"KF_OE":   "œ",
	"KF_OCRC": "ô",
	"KF_LAQT": "«",
	"KF_RAQT": "»",
	"KF_LDQT": "“",
	"KF_RDQT": "”",
	"KF_MDOT": "·",
	"KF_BDOT": "•",
	"KF_DEG":  "°",
	"KF_EURO": "€",
	"KF_UNDS": "_",
	"KF_SUP2": "²",
	"KF_IQES": "¿",
	"KF_LARW": "Left",
	"KF_RARW": "Right",
	"KF_MICR": "μ",
	"KF_PSMS": "±",
	"KF_CROS": "×",
	"KF_QUOT": "'",
	"KF_SLCT": "SelAll",
	"KF_CUT":  "Cut",
	"KF_COPY": "Copy",
	"KF_PSTE": "Paste",
	"KF_SAVE": "Save",
	"KF_UNDO": "Undo",
	"KF_REDO": "Redo",

	"OCRC": "ô",
	"ICRC": "î",
	"BDOT": "•",
	"IQES": "¿",
	"LARW": "Left",
	"RARW": "Right",
	"MDOT": "·",
	"DEG":  "°",
	"UCRC": "û",
	"EURO": "€",
	"ACRC": "â",
	"LDQT": "“",
	"RDQT": "”",
	"MICR": "μ",
	"PSMS": "±",
	"CROS": "×",
	"EGRV": "è",
	"EACU": "é",
	"ECRC": "ê",
	"E":    "e",
	"AGRV": "à",
	"UGRV": "ù",
	"CCED": "ç",
	"DIAE": "¨",
	"AE":   "æ",
	"OE":   "œ",
}

var punctuation = map[string]string{
	"KF_LPRN": "(", "LPRN": "(",
	"KF_RPRN": ")", "RPRN": ")",
	"KF_LBRC": "[", "LBRC": "[",
	"KF_RBRC": "]", "RBRC": "]",
	"KF_LCBR": "{", "LCBR": "{",
	"KF_RCBR": "}", "RCBR": "}",
	"KF_LABK": "<", "LABK": "<",
	"KF_RABK": ">", "RABK": ">",
	"KF_SLSH": "/", "SLSH": "/",
	"KF_BSLS": "\\", "BSLS": "\\",
	"KF_PIPE": "|", "PIPE": "|",
	"KF_COLN": ":", "COLN": ":",
	"KF_SCLN": ";", "SCLN": ";",
	"KF_DQUO": "\"", "DQUO": "\"",
	"KF_GRV": "`", "GRV": "`",
	"KF_TILD": "~", "TILD": "~",
	"KF_AT": "@", "AT": "@",
	"KF_HASH": "#", "HASH": "#",
	"KF_DLR": "$", "DLR": "$",
	"KF_PERC": "%", "PERC": "%",
	"KF_AMPR": "&", "AMPR": "&",
	"KF_ASTR": "*", "ASTR": "*",
	"KF_EQL": "=", "EQL": "=",
	"KF_PLUS": "+", "PLUS": "+",
	"KF_CIRC": "^", "CIRC": "^",
	"COMM": ",",
	"DOT":  ".",
	"QUOT": "'",
	"MINS": "-",
	"UNDS": "_",
}

var navigation = map[string]string{
	"NAV_LCK":     "NAV",
	"SW_GRV":      "`",
	"SW_TAB":      "Tab",
	"CW_TOGG":     "Caps",
	"OS_LALT":     "Alt",
	"OS_LGUI":     "gui",
	"OS_LSFT":     "Shift",
	"OS_LCTL":     "Ctrl",
	"OS_RCTL":     "Ctrl",
	"OS_RSFT":     "Shift",
	"OS_RGUI":     "gui",
	"TO(_QWERTY)": "QWERTY",
	"KC_PSCR":     "PrtSc",
	"KC_APP":      "Menu",

	"LEFT":  "Left",
	"RGHT":  "Right",
	"RIGHT": "Right",
	"UP":    "Up",
	"DOWN":  "Down",
	"HOME":  "Home",
	"END":   "End",
	"PGUP":  "PgUp",
	"PG_U":  "PgUp",
	"PGUPD": "PgUp",
	"PGDN":  "PgDn",
	"PG_D":  "PgDn",
	"BSPC":  "Bksp",
	"DEL":   "Del",
	"ENT":   "Enter",
	"ENTER": "Enter",
	"ESC":   "Esc",
	"TAB":   "Tab",
	"SPC":   "Space",
	"SPACE": "Space",
}

var modifiers = map[string]string{
	"LSFT": "Shift", "RSFT": "Shift", "SFT": "Shift", "SHIFT": "Shift",
	"LCTL": "Ctrl", "RCTL": "Ctrl", "CTL": "Ctrl", "CTRL": "Ctrl", "LCTRL": "Ctrl", "RCTRL": "Ctrl",
	"LALT": "Alt", "RALT": "Alt", "ALT": "Alt", "LALT_T": "Alt",
	"LGUI": "gui", "RGUI": "gui", "GUI": "gui", "CMD": "gui", "WIN": "gui",
	"CAPS": "Caps", "CAPSLOCK": "Caps",
}

var kcKeycodes = func() map[string]string {
	m := map[string]string{
		"KC_SPC":   "Space",
		"KC_SPACE": "Space",
		"KC_ENT":   "Enter",
		"KC_ENTER": "Enter",
		"KC_ESC":   "Esc",
		"KC_TAB":   "Tab",
		"KC_BSPC":  "Bksp",
		"KC_DEL":   "Del",

		"KC_LEFT":  "Left",
		"KC_RGHT":  "Right",
		"KC_RIGHT": "Right",
		"KC_UP":    "Up",
		"KC_DOWN":  "Down",
		"KC_HOME":  "Home",
		"KC_END":   "End",
		"KC_PGUP":  "PgUp",
		"KC_PG_U":  "PgUp",
		"KC_PGDN":  "PgDn",
		"KC_PG_D":  "PgDn",

		"KC_LSFT":     "Shift",
		"KC_RSFT":     "Shift",
		"KC_LCTL":     "Ctrl",
		"KC_RCTL":     "Ctrl",
		"KC_LALT":     "Alt",
		"KC_RALT":     "Alt",
		"KC_LGUI":     "gui",
		"KC_RGUI":     "gui",
		"KC_CAPS":     "Caps",
		"KC_CAPSLOCK": "Caps",

		"KC_LPRN": "(",
		"KC_RPRN": ")",
		"KC_LBRC": "[",
		"KC_RBRC": "]",
		"KC_LCBR": "{",
		"KC_RCBR": "}",
		"KC_LABK": "<",
		"KC_RABK": ">",
		"KC_COMM": ",",
		"KC_DOT":  ".",
		"KC_SLSH": "/",
		"KC_BSLS": "\\",
		"KC_PIPE": "|",
		"KC_COLN": ":",
		"KC_SCLN": ";",
		"KC_QUOT": "'",
		"KC_DQUO": "\"",
		"KC_GRV":  "`",
		"KC_TILD": "~",
		"KC_AT":   "@",
		"KC_HASH": "#",
		"KC_DLR":  "$",
		"KC_PERC": "%",
		"KC_AMPR": "&",
		"KC_ASTR": "*",
		"KC_MINS": "-",
		"KC_UNDS": "_",
		"KC_EQL":  "=",
		"KC_PLUS": "+",
		"KC_EXLM": "!",
		"KC_CIRC": "^",

		"KC_PSCR": "PrtSc",
		"KC_APP":  "Menu",

		"KC_KP_DOT":         ".",
		"KC_KP_POINT":       ".",
		"KC_KP_PERIOD":      ".",
		"KC_KP_COMMA":       ",",
		"KC_KP_PLUS":        "+",
		"KC_KP_MINUS":       "-",
		"KC_KP_SUBTRACT":    "-",
		"KC_KP_ASTERISK":    "*",
		"KC_KP_MULTIPLY":    "*",
		"KC_KP_SLASH":       "/",
		"KC_KP_DIVIDE":      "/",
		"KC_KP_ENTER":       "Enter",
		"KC_KP_EQUAL":       "=",
		"KC_KP_EQUAL_AS400": "=",
		"KC_NUMLOCK":        "Num",
		"KC_NUM":            "Num",
		"KC_LOCKING_NUM":    "Num",
	}
	for d := 0; d <= 9; d++ {
		s := strconv.Itoa(d)
		m["KC_"+s] = s
		m["KC_KP_"+s] = s
	}
	for f := 1; f <= 24; f++ {
		s := "F" + strconv.Itoa(f)
		m["KC_"+s] = s
	}
	return m
}()

var icons = map[string]string{
	"UNDO":  "↺",
	"REDO":  "↻",
	"COPY":  "⎘",
	"CUT":   "✂",
	"PSTE":  "📋",
	"PASTE": "📋",
	"SAVE":  "💾",
	"LAQT":  "«",
	"RAQT":  "»",
	"SUP2":  "²",
	"SUP":   "²",
	"ENT":   "Enter",
	"ENTER": "Enter",
}

// keypadAliases maps the short QMK keypad aliases (KC_PDOT, KC_PPLS, ...)
// onto the long form used by kcKeycodes.
var keypadAliases = map[string]string{
	"DOT": "DOT",
	"CMM": "COMMA",
	"PLS": "PLUS",
	"MNS": "MINUS",
	"AST": "ASTERISK",
	"SLS": "SLASH",
	"ENT": "ENTER",
	"EQL": "EQUAL",
}

var modGlyphs = map[string]string{
	"MOD_LSFT":       "Shift",
	"MOD_RSFT":       "Shift",
	"MOD_MASK_SHIFT": "Shift",
	"MOD_LCTL":       "Ctrl",
	"MOD_RCTL":       "Ctrl",
	"MOD_MASK_CTRL":  "Ctrl",
	"MOD_LALT":       "Alt",
	"MOD_RALT":       "Alt",
	"MOD_MASK_ALT":   "Alt",
	"MOD_LGUI":       "gui",
	"MOD_RGUI":       "gui",
	"MOD_MASK_GUI":   "gui",
	"KC_LSFT":        "Shift",
	"KC_RSFT":        "Shift",
	"KC_LCTL":        "Ctrl",
	"KC_RCTL":        "Ctrl",
	"KC_LALT":        "Alt",
	"KC_RALT":        "Alt",
	"KC_LGUI":        "gui",
	"KC_RGUI":        "gui",
}

var layerNames = map[string]string{
	"DEF":     "Base",
	"BASE":    "Base",
	"DEF2":    "Base 2",
	"SPC":     "Space",
	"SYM":     "Symbols",
	"SYM_SFT": "Symbols Shift",
	"NAV":     "Nav",
	"NAV_ALT": "Nav Alt",
	"NAV_GUI": "Nav gui",
	"NAV_CTL": "Nav Ctrl",
	"NUM":     "Num",
	"MOS":     "Mouse",
}

var transparentTokens = map[string]struct{}{
	"TRNS":           {},
	"NO":             {},
	"_______":        {},
	"XXXXXXX":        {},
	"KC_TRNS":        {},
	"KC_NO":          {},
	"KC_TRANSPARENT": {},
}

var shiftSpellings = []string{"MOD_LSFT", "MOD_RSFT", "KC_LSFT", "KC_RSFT", "LSFT", "RSFT"}
