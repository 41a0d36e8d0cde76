// Package brand guesses a perfume house from a marketplace title. It is a
// heuristic: lowercase houses and single-word titles in the wrong order come
// out wrong.
package brand

import (
	"regexp"
	"strings"
	"unicode"
)

// stopTokens end the brand-bearing head of a title.
var stopTokens = []string{" - ", " – ", " — ", "–", "—", ":", ",", " for ", " by "}

// Known houses with more than two words, or whose second word is not
// capitalised, which the two-word rule would cut short.
var multiWord = []string{
	"Yves Saint Laurent",
	"Jean Paul Gaultier",
	"Dolce & Gabbana",
	"Carolina Herrera",
	"Giorgio Armani",
	"Thierry Mugler",
	"Issey Miyake",
	"Calvin Klein",
	"Hugo Boss",
	"Marc Jacobs",
	"Tom Ford",
	"Paco Rabanne",
	"Maison Francis Kurkdjian",
	"Maison Margiela",
	"Acqua di Parma",
	"Narciso Rodriguez",
	"Viktor & Rolf",
	"Juliette Has A Gun",
	"Abercrombie & Fitch",
	"Ralph Lauren",
}

var capWord = regexp.MustCompile(`^[A-Z][a-zA-Z\-'.]*$`)

// Infer returns the brand guess and false when the title has no word with a
// letter in it. Leading words without letters ("-", "#1") are skipped.
func Infer(title string) (string, bool) {
	words := strings.Fields(Head(title))
	for len(words) > 0 && strings.IndexFunc(words[0], unicode.IsLetter) < 0 {
		words = words[1:]
	}
	if len(words) == 0 {
		return "", false
	}
	head := strings.Join(words, " ")

	lower := lowerASCII(head)
	for _, b := range multiWord {
		lb := lowerASCII(b)
		if lower == lb || strings.HasPrefix(lower, lb+" ") {
			return b, true
		}
	}

	if len(words) >= 2 && capWord.MatchString(words[0]) && capWord.MatchString(words[1]) {
		return words[0] + " " + words[1], true
	}
	return words[0], true
}

// Head is the title up to the first stop token found after position 0.
func Head(title string) string {
	raw := strings.TrimSpace(title)
	lower := lowerASCII(raw)

	cut := len(raw)
	for _, tok := range stopTokens {
		if i := strings.Index(lower, tok); i > 0 && i < cut {
			cut = i
		}
	}
	return strings.TrimSpace(raw[:cut])
}

// FromQuery strips the trailing "perfume" the default search list appends,
// so "Tom Ford perfume" yields "Tom Ford".
func FromQuery(q string) string {
	q = strings.TrimSpace(q)
	if strings.HasSuffix(lowerASCII(q), "perfume") {
		q = strings.TrimSpace(q[:len(q)-len("perfume")])
	}
	return q
}

// lowerASCII keeps byte offsets aligned with the input so indexes can be reused.
func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}
