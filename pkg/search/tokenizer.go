package search

import (
	"slices"
	"unicode"
)

type Token string

type Tokenizer struct {
	MaxTokens int
}

var commonIssues = map[rune]rune{
	'ö': 'o',
	'ä': 'a',
	'å': 'a',
	'é': 'e',
	'è': 'e',
	'ê': 'e',
	'ë': 'e',
	'ï': 'i',
	'î': 'i',
	'ô': 'o',
	'ü': 'u',
	'û': 'u',
	'ÿ': 'y',
	'ç': 'c',
	'ñ': 'n',
	'ß': 's',
	'æ': 'a',
	'ø': 'o',
	'Ø': 'o',
}

func NormalizeWord(text string) Token {
	ret := make([]rune, 0, len(text))
	var l rune
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			l = unicode.ToLower(r)
			if replacement, ok := commonIssues[l]; ok {
				l = replacement
			}
			ret = append(ret, l)
		}
	}
	return Token(ret)
}

func isSplit(chr rune) bool {
	switch chr {
	case ' ', '\n', '\t', ',', ':', '.', '!', '?', ';', '(', ')', '[', ']', '{', '}', '"', '\'', '/':
		return true
	}
	return false
}

func SplitWords(text string, onWord func(word string) bool) {
	lastSplit := 0
	for idx, chr := range text {
		if isSplit(chr) {
			if idx > lastSplit {
				if !onWord(text[lastSplit:idx]) {
					return
				}
			}
			lastSplit = idx + len(string(chr))
		}
	}
	if lastSplit < len(text) {
		onWord(text[lastSplit:])
	}
}

// Tokenize returns the unique normalized tokens of text in order of appearance.
func (t *Tokenizer) Tokenize(text string) []Token {
	res := make([]Token, 0)
	SplitWords(text, func(word string) bool {
		normalized := NormalizeWord(word)
		if len(normalized) > 0 && !slices.Contains(res, normalized) {
			res = append(res, normalized)
		}
		return t.MaxTokens <= 0 || len(res) < t.MaxTokens
	})
	return res
}
