// Package markup reads and writes the inline formatting used in card
// descriptions: {modifier,modifier}text{} spans that colour, scale, animate or
// annotate the text between them.
package markup

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Segment is a run of text with resolved style attributes. Unstyled text has
// every attribute empty.
type Segment struct {
	Text            string  `json:"text"`
	TextColor       string  `json:"textColor,omitempty"`
	BackgroundColor string  `json:"backgroundColor,omitempty"`
	Scale           float64 `json:"scale,omitempty"`
	Motion          string  `json:"motion,omitempty"`
	Tooltip         string  `json:"tooltip,omitempty"`
}

func (s Segment) styled() bool {
	return s.TextColor != "" || s.BackgroundColor != "" || s.Scale != 0 || s.Motion != "" || s.Tooltip != ""
}

// LocVars carries the positional substitutions of a description. Colours are
// looked up by V:n and B:n (1-based); Values replace #n# placeholders.
type LocVars struct {
	Colours []string `json:"colours,omitempty"`
	Values  []string `json:"values,omitempty"`
}

func (lv LocVars) colour(index string) (string, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(index))
	if err != nil || n < 1 || n > len(lv.Colours) {
		return "", false
	}
	return lv.Colours[n-1], true
}

var placeholderPattern = regexp.MustCompile(`#(\d+)#`)

func (lv LocVars) substitute(text string) string {
	if len(lv.Values) == 0 {
		return text
	}
	return placeholderPattern.ReplaceAllStringFunc(text, func(m string) string {
		n, _ := strconv.Atoi(m[1 : len(m)-1])
		if n < 1 || n > len(lv.Values) {
			return m
		}
		return lv.Values[n-1]
	})
}

// style applies a modifier list such as "X:mult,C:white" to a segment.
func style(modifiers string, vars LocVars) Segment {
	var seg Segment
	for _, mod := range strings.Split(modifiers, ",") {
		code, arg, found := strings.Cut(strings.TrimSpace(mod), ":")
		if !found {
			continue
		}
		arg = strings.TrimSpace(arg)
		switch code {
		case "C":
			seg.TextColor = textColor(strings.ToLower(arg))
		case "X":
			seg.BackgroundColor = backgroundColor(strings.ToLower(arg))
		case "V":
			key, _ := vars.colour(arg)
			seg.TextColor = textColor(strings.ToLower(key))
		case "B":
			key, _ := vars.colour(arg)
			seg.BackgroundColor = backgroundColor(strings.ToLower(key))
		case "E":
			seg.Motion = motions[arg]
		case "T":
			seg.Tooltip = arg
		case "s":
			if scale, err := strconv.ParseFloat(arg, 64); err == nil && scale > 0 {
				seg.Scale = scale
			}
		}
	}
	return seg
}

// badgeText compacts background-tagged text the way the game renders badges.
func badgeText(text string) string {
	compact := strings.Join(strings.Fields(text), "")
	if len(compact) > 1 && (compact[0] == 'X' || compact[0] == 'x') && unicode.IsDigit(rune(compact[1])) {
		return "×" + compact[1:]
	}
	return compact
}

type parser struct {
	segments []Segment
	vars     LocVars

	open    bool
	openTag string
	current Segment
	buf     strings.Builder
}

func (p *parser) emit(seg Segment) {
	if seg.Text == "" {
		return
	}
	if n := len(p.segments); n > 0 && !seg.styled() && !p.segments[n-1].styled() {
		p.segments[n-1].Text += seg.Text
		return
	}
	p.segments = append(p.segments, seg)
}

// flush ends the pending run of text under the current style.
func (p *parser) flush() {
	seg := p.current
	seg.Text = p.buf.String()
	p.buf.Reset()
	if seg.BackgroundColor != "" {
		seg.Text = badgeText(seg.Text)
	}
	p.emit(seg)
}

// Parse splits text into styled segments. It never fails: a style that is
// never closed with {} and a { without a matching } degrade to literal text.
func Parse(text string, vars LocVars) []Segment {
	p := &parser{vars: vars}
	text = vars.substitute(text)

	for i := 0; i < len(text); {
		if text[i] != '{' {
			next := strings.IndexByte(text[i:], '{')
			if next < 0 {
				next = len(text) - i
			}
			p.buf.WriteString(text[i : i+next])
			i += next
			continue
		}

		end := strings.IndexByte(text[i:], '}')
		if end < 0 || strings.IndexByte(text[i+1:i+end], '{') >= 0 {
			p.buf.WriteByte('{')
			i++
			continue
		}
		tag := text[i : i+end+1]
		modifiers := strings.TrimSpace(tag[1 : len(tag)-1])
		i += end + 1

		p.flush()
		if modifiers == "" {
			p.open = false
			p.openTag = ""
			p.current = Segment{}
			continue
		}
		p.open = true
		p.openTag = tag
		p.current = style(modifiers, vars)
	}

	if p.open {
		p.emit(Segment{Text: p.openTag + p.buf.String()})
	} else {
		p.flush()
	}
	return p.segments
}

var tagPattern = regexp.MustCompile(`\{[^{}]*\}`)

// Strip removes every formatting tag, leaving the plain text.
func Strip(text string) string {
	return tagPattern.ReplaceAllString(text, "")
}
