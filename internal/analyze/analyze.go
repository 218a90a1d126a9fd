package analyze

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Result holds the counts computed for one piece of text.
type Result struct {
	Lines int
	Words int
	Chars int
}

// DecodeText interprets raw bytes as UTF-8 text. Invalid byte sequences are
// replaced with U+FFFD instead of being rejected, so decoding never fails.
func DecodeText(content []byte) string {
	return strings.ToValidUTF8(string(content), "�")
}

// Analyze counts lines, words and characters in text.
//
// Lines are logical lines: every newline counts, plus one more for a
// non-empty final line without a trailing newline. Empty text has zero
// lines. Words are maximal runs of non-whitespace (Unicode-aware).
// Characters are decoded characters, not bytes.
func Analyze(text string) Result {
	lines := strings.Count(text, "\n")
	if text != "" && !strings.HasSuffix(text, "\n") {
		lines++
	}

	return Result{
		Lines: lines,
		Words: len(strings.Fields(text)),
		Chars: utf8.RuneCountInString(text),
	}
}

// Occurrences counts word tokens in text and how many of them equal word,
// case-insensitively. Tokens are runs of letters, digits and underscores, so
// punctuation attached to a word does not hide it.
func Occurrences(text, word string) (total, count int) {
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})

	for _, tok := range tokens {
		total++
		if strings.EqualFold(tok, word) {
			count++
		}
	}

	return total, count
}
