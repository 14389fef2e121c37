package game

import (
	"strings"
	"unicode"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// HintGlyph replaces a hidden answer character. The underscore is escaped so
// Telegram Markdown shows it literally.
const HintGlyph = `\_`

// MaskAll hides every non-whitespace rune of the answer.
func MaskAll(answer string) []bool {
	runes := []rune(answer)
	mask := make([]bool, len(runes))
	for i, r := range runes {
		mask[i] = !unicode.IsSpace(r)
	}
	return mask
}

// MaskPartial hides ceil(2/3) of the answer's non-whitespace runes, picked
// uniformly without replacement. The rest stay visible.
func MaskPartial(answer string, rnd Random) []bool {
	runes := []rune(answer)
	mask := make([]bool, len(runes))

	var candidates []int
	for i, r := range runes {
		if !unicode.IsSpace(r) {
			candidates = append(candidates, i)
		}
	}

	hide := (2*len(candidates) + 2) / 3
	for n := 0; n < hide; n++ {
		pick := rnd.IntN(len(candidates))
		mask[candidates[pick]] = true
		candidates = append(candidates[:pick], candidates[pick+1:]...)
	}
	return mask
}

// RenderHint spells the answer out rune by rune, separated by spaces, with
// masked runes replaced by HintGlyph.
func RenderHint(answer string, mask []bool) string {
	runes := []rune(answer)
	parts := make([]string, len(runes))
	for i, r := range runes {
		if i < len(mask) && mask[i] {
			parts[i] = HintGlyph
			continue
		}
		parts[i] = tgbotapi.EscapeText(tgbotapi.ModeMarkdown, string(r))
	}
	return strings.Join(parts, " ")
}
