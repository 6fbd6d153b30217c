// Package moderation masks forbidden words in message content before it is
// stored. Matching ignores case, punctuation and common leet substitutions.
package moderation

import (
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
	"github.com/samber/lo"
)

type Moderator struct {
	// matcher is nil when the dictionary is empty
	matcher      *goahocorasick.Machine
	censoredChar rune
}

// mapping links every kept rune of the normalized text back to its index
// in the original text.
type mapping struct {
	normalized []rune
	origIdx    []int
}

// NewModerator builds the automaton over the normalized dictionary. Words
// made only of noise are ignored.
func NewModerator(censoredWords []string, censoredChar rune) (*Moderator, error) {
	patterns := lo.FilterMap(censoredWords, func(word string, _ int) ([]rune, bool) {
		p := normalizeRunes([]rune(word))
		return p, len(p) > 0
	})

	moderator := &Moderator{censoredChar: censoredChar}
	if len(patterns) == 0 {
		return moderator, nil
	}
	moderator.matcher = new(goahocorasick.Machine)
	if err := moderator.matcher.Build(patterns); err != nil {
		return nil, err
	}
	return moderator, nil
}

// Censor masks every match with the censored char, keeping the original
// length and spacing. It returns the matched dictionary words, nil when the
// content is clean.
func (m *Moderator) Censor(original string) (string, []string) {
	mp := normalize(original)
	if m.matcher == nil || len(mp.normalized) == 0 {
		return original, nil
	}

	spans := m.matcher.MultiPatternSearch(mp.normalized, false)
	if len(spans) == 0 {
		return original, nil
	}

	runes := []rune(original)
	words := make([]string, 0, len(spans))
	for _, span := range spans {
		start, end := span.Pos, span.Pos+len(span.Word)
		if start < 0 || end > len(mp.origIdx) {
			continue
		}
		for i := mp.origIdx[start]; i <= mp.origIdx[end-1]; i++ {
			runes[i] = m.censoredChar
		}
		words = append(words, string(span.Word))
	}
	return string(runes), words
}

func normalize(input string) mapping {
	runes := []rune(input)
	mp := mapping{normalized: make([]rune, 0, len(runes)), origIdx: make([]int, 0, len(runes))}
	for i, r := range runes {
		clean := simplifyRune(r)
		if isNoise(clean) {
			continue
		}
		mp.normalized = append(mp.normalized, unicode.ToLower(clean))
		mp.origIdx = append(mp.origIdx, i)
	}
	return mp
}

func normalizeRunes(input []rune) []rune {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		clean := simplifyRune(r)
		if isNoise(clean) {
			continue
		}
		out = append(out, unicode.ToLower(clean))
	}
	return out
}

// simplifyRune maps leet characters back to letters.
func simplifyRune(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}

func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
