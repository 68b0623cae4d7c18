package app

import (
	"strings"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Censor masks configured words in chat bodies, case-insensitively.
// A nil *Censor leaves text untouched.
type Censor struct {
	matcher *goahocorasick.Machine
	mask    rune
}

// NewCensor builds the automaton. It returns nil when there is nothing to censor.
func NewCensor(words []string, mask rune) (*Censor, error) {
	patterns := make([][]rune, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		patterns = append(patterns, lowerRunes([]rune(w)))
	}
	if len(patterns) == 0 {
		return nil, nil
	}
	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	if mask == 0 {
		mask = '*'
	}
	return &Censor{matcher: m, mask: mask}, nil
}

func (c *Censor) Censor(text string) string {
	if c == nil || text == "" {
		return text
	}
	orig := []rune(text)
	terms := c.matcher.MultiPatternSearch(lowerRunes(orig), false)
	if len(terms) == 0 {
		return text
	}
	for _, t := range terms {
		end := t.Pos + len(t.Word)
		if t.Pos < 0 || end > len(orig) {
			continue
		}
		for i := t.Pos; i < end; i++ {
			orig[i] = c.mask
		}
	}
	return string(orig)
}

func lowerRunes(in []rune) []rune {
	out := make([]rune, len(in))
	for i, r := range in {
		out[i] = unicode.ToLower(r)
	}
	return out
}
