package markup

import (
	"regexp"
	"strings"
)

var (
	tokenPattern  = regexp.MustCompile(`\s+|\S+`)
	signedNumber  = regexp.MustCompile(`^[+-]\d+(\.\d+)?$`)
	moneyNumber   = regexp.MustCompile(`^[+-]?\$\d+(\.\d+)?$`)
	xMultiplier   = regexp.MustCompile(`^[Xx]\d+(\.\d+)?$`)
	leadingPunct  = `("'[`
	trailingPunct = `.,;:!?)"']`
)

// Whole-word keywords and the colour they receive.
var keywordColors = map[string]string{
	"Chips":     "chips",
	"Mult":      "mult",
	"Common":    "blue",
	"Uncommon":  "green",
	"Rare":      "red",
	"Legendary": "legendary",
	"Hearts":    "hearts",
	"Heart":     "hearts",
	"Diamonds":  "diamonds",
	"Diamond":   "diamonds",
	"Spades":    "spades",
	"Spade":     "spades",
	"Clubs":     "clubs",
	"Club":      "clubs",
}

var sealColors = map[string]string{
	"Gold":   "money",
	"Red":    "red",
	"Blue":   "blue",
	"Purple": "purple",
}

type word struct {
	token  int
	prefix string
	core   string
	suffix string
}

func (w word) lower() string { return strings.ToLower(w.core) }

func splitWord(token int, s string) word {
	core := strings.TrimLeft(s, leadingPunct)
	prefix := s[:len(s)-len(core)]
	trimmed := strings.TrimRight(core, trailingPunct)
	return word{token: token, prefix: prefix, core: trimmed, suffix: core[len(trimmed):]}
}

func wrap(w word, color string) string {
	return w.prefix + "{C:" + color + "}" + w.core + "{}" + w.suffix
}

// ApplyAutoFormatting inserts colour tags around recognised words of a
// description. Text equal to lastFormatted is returned unchanged, as is
// everything when enabled is false. Tokens already carrying tags are skipped.
func ApplyAutoFormatting(text, lastFormatted string, enabled bool) string {
	if !enabled || text == "" || text == lastFormatted {
		return text
	}

	tokens := tokenPattern.FindAllString(text, -1)
	var words []word
	for i, tok := range tokens {
		if strings.TrimSpace(tok) == "" {
			continue
		}
		words = append(words, splitWord(i, tok))
	}

	for i := 0; i < len(words); i++ {
		w := words[i]
		if w.core == "" || strings.ContainsAny(tokens[w.token], "{}") {
			continue
		}

		switch {
		case moneyNumber.MatchString(w.core):
			tokens[w.token] = wrap(w, "money")

		case signedNumber.MatchString(w.core):
			if color := contextColor(words, i, 2, 2); color != "" {
				tokens[w.token] = wrap(w, color)
			}

		case xMultiplier.MatchString(w.core):
			color := contextColor(words, i, 4, 2)
			if color == "chips" || color == "mult" {
				tokens[w.token] = w.prefix + "{X:" + color + ",C:white}X" + w.core[1:] + "{}" + w.suffix
			}

		case sealColors[w.core] != "" && i+1 < len(words) && w.suffix == "":
			next := words[i+1]
			if (next.core != "Seal" && next.core != "Seals") || next.prefix != "" || strings.ContainsAny(tokens[next.token], "{}") {
				continue
			}
			tokens[w.token] = w.prefix + "{C:" + sealColors[w.core] + "}" + w.core
			tokens[next.token] = next.core + "{}" + next.suffix
			i++

		case keywordColors[w.core] != "":
			tokens[w.token] = wrap(w, keywordColors[w.core])
		}
	}
	return strings.Join(tokens, "")
}

// contextColor looks at up to ahead following and behind preceding words,
// nearest first, for a word naming chips, mult or money.
func contextColor(words []word, i, ahead, behind int) string {
	for d := 1; d <= ahead && i+d < len(words); d++ {
		if c := contextWord(words[i+d].lower()); c != "" {
			return c
		}
	}
	for d := 1; d <= behind && i-d >= 0; d++ {
		if c := contextWord(words[i-d].lower()); c != "" {
			return c
		}
	}
	return ""
}

func contextWord(s string) string {
	switch {
	case strings.Contains(s, "chip"):
		return "chips"
	case strings.Contains(s, "mult"):
		return "mult"
	case strings.Contains(s, "dollar"), strings.Contains(s, "money"), strings.HasPrefix(s, "$"):
		return "money"
	}
	return ""
}
