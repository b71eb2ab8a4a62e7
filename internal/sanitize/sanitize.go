// Package sanitize normalizes typographic punctuation that mobile and desktop
// keyboards substitute for plain quotes, so typed commands parse as script.
package sanitize

import "strings"

// Typographic characters rewritten by Sanitize.
const (
	LeftSingleQuote  = '‘' // ‘
	RightSingleQuote = '’' // ’
	LeftDoubleQuote  = '“' // “
	RightDoubleQuote = '”' // ”
	LowDoubleQuote   = '„' // „
	Ellipsis         = '…' // …
)

// Replacements maps each typographic character to its ASCII equivalent.
var Replacements = map[rune]string{
	LeftSingleQuote:  "'",
	RightSingleQuote: "'",
	LeftDoubleQuote:  `"`,
	RightDoubleQuote: `"`,
	LowDoubleQuote:   `"`,
	Ellipsis:         "...",
}

var replacer = newReplacer(Replacements)

func newReplacer(table map[rune]string) *strings.Replacer {
	pairs := make([]string, 0, 2*len(table))
	for r, repl := range table {
		pairs = append(pairs, string(r), repl)
	}
	return strings.NewReplacer(pairs...)
}

// Sanitize replaces typographic quotes and the ellipsis with plain ASCII.
// Every other character passes through unchanged. It never fails.
func Sanitize(input string) string {
	return replacer.Replace(input)
}

// IsTypographic reports whether r is one of the characters Sanitize rewrites.
func IsTypographic(r rune) bool {
	_, ok := Replacements[r]
	return ok
}
