// Package argsplit turns the argument part of a chat message into tokens.
//
// A Splitter has two entry points. SplitLimited peels off at most max leading
// tokens and hands back the rest of the string untouched (apart from outer
// whitespace), which is what positional argument extraction needs. SplitAll
// tokenizes the whole string, which is what flag parsing needs.
package argsplit

import (
	"strings"
	"unicode"
)

// Splitter splits a raw argument string into tokens.
type Splitter interface {
	// SplitLimited consumes up to max tokens from raw. Everything after the
	// last consumed token is returned verbatim as the remainder, trimmed at
	// both ends; the remainder is empty when nothing is left. A negative max
	// consumes every token.
	SplitLimited(raw string, max int) ([]string, string, error)

	// SplitAll consumes the entire string.
	SplitAll(raw string) ([]string, error)
}

// Whitespace splits on runs of Unicode white space. Quotes have no meaning.
type Whitespace struct{}

// SplitLimited implements Splitter.
func (Whitespace) SplitLimited(raw string, max int) ([]string, string, error) {
	if max < 0 {
		return strings.Fields(raw), "", nil
	}

	var tokens []string
	rest := strings.TrimLeftFunc(raw, unicode.IsSpace)
	for len(tokens) < max && rest != "" {
		end := strings.IndexFunc(rest, unicode.IsSpace)
		if end < 0 {
			tokens = append(tokens, rest)
			rest = ""
			break
		}
		tokens = append(tokens, rest[:end])
		rest = strings.TrimLeftFunc(rest[end:], unicode.IsSpace)
	}

	return tokens, strings.TrimRightFunc(rest, unicode.IsSpace), nil
}

// SplitAll implements Splitter.
func (Whitespace) SplitAll(raw string) ([]string, error) {
	return strings.Fields(raw), nil
}

// SplitFirst separates the first whitespace-delimited word of s from the rest.
// It is used for command and subcommand names, which are never quoted.
func SplitFirst(s string) (string, string) {
	tokens, rest, _ := Whitespace{}.SplitLimited(s, 1)
	if len(tokens) == 0 {
		return "", ""
	}
	return tokens[0], rest
}
