package classify

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// FindWordOccurrences returns the byte offsets of every occurrence of
// word in text that does not sit inside a longer word. A side of word
// that starts or ends with a non-word character is not boundary checked.
func FindWordOccurrences(text, word string) []int {
	if word == "" {
		return nil
	}

	first, _ := utf8.DecodeRuneInString(word)
	last, _ := utf8.DecodeLastRuneInString(word)
	checkBefore := isWordRune(first)
	checkAfter := isWordRune(last)

	var out []int
	for start := 0; start <= len(text)-len(word); {
		i := strings.Index(text[start:], word)
		if i < 0 {
			break
		}
		pos := start + i
		end := pos + len(word)
		if (!checkBefore || boundaryBefore(text, pos)) && (!checkAfter || boundaryAfter(text, end)) {
			out = append(out, pos)
		}
		_, size := utf8.DecodeRuneInString(text[pos:])
		start = pos + size
	}
	return out
}

// boundaryBefore reports whether no word continues into pos from the left.
func boundaryBefore(text string, pos int) bool {
	if pos == 0 {
		return true
	}
	r, size := utf8.DecodeLastRuneInString(text[:pos])
	if isApostrophe(r) {
		// "n't" style contractions: an apostrophe joins two letters.
		prev, _ := utf8.DecodeLastRuneInString(text[:pos-size])
		return !unicode.IsLetter(prev)
	}
	return !isWordRune(r)
}

// boundaryAfter reports whether no word continues from end to the right.
func boundaryAfter(text string, end int) bool {
	if end >= len(text) {
		return true
	}
	r, size := utf8.DecodeRuneInString(text[end:])
	if isApostrophe(r) {
		next, _ := utf8.DecodeRuneInString(text[end+size:])
		return !unicode.IsLetter(next)
	}
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func isApostrophe(r rune) bool {
	return r == '\'' || r == '’'
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
