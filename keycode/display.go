package keycode

import "strings"

// OneShotGlyph is shown on one-shot layer keys instead of the layer name.
const OneShotGlyph = "★"

// DisplayParts returns the main and secondary legend for tok.
// shift upper-cases a single lowercase letter in the main legend.
func DisplayParts(tok string, shift bool) (main, sub string) {
	t := strings.TrimSpace(tok)
	if IsTransparent(t) {
		return "", ""
	}

	w := Classify(t)
	switch w.Kind {
	case ModTap:
		if len(w.Args) >= 2 {
			return shifted(Translate(w.Key()), shift), ModGlyph(w.Operand())
		}
	case LayerTap:
		if len(w.Args) >= 2 {
			return shifted(Translate(w.Key()), shift), LayerDisplayName(w.Operand())
		}
	case Momentary:
		return LayerDisplayName(w.Operand()), "MO"
	case OneShot:
		return OneShotGlyph, ""
	}
	return shifted(Translate(t), shift), ""
}

func shifted(label string, shift bool) string {
	if shift && len(label) == 1 && label[0] >= 'a' && label[0] <= 'z' {
		return strings.ToUpper(label)
	}
	return label
}
