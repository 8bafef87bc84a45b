package argsplit

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/shlex"
)

// ErrUnterminatedQuote is returned when a quote is opened but never closed.
var ErrUnterminatedQuote = errors.New("unterminated quote")

// Quoted groups words with double quotes and lets a backslash escape the
// next character. A double quote only groups when it opens a token, and
// single quotes are plain text, so "don't" and 5" stay as typed. Token
// unquoting is done by shlex; the cut between positional tokens and the
// remainder is found by scanning so that the remainder stays verbatim.
type Quoted struct{}

// SplitLimited implements Splitter.
func (q Quoted) SplitLimited(raw string, max int) ([]string, string, error) {
	if max < 0 {
		tokens, err := q.SplitAll(raw)
		return tokens, "", err
	}

	cut, _, err := scan(raw, max)
	if err != nil {
		return nil, "", err
	}

	tokens, err := q.SplitAll(raw[:cut])
	if err != nil {
		return nil, "", err
	}
	return tokens, strings.TrimSpace(raw[cut:]), nil
}

// SplitAll implements Splitter.
func (Quoted) SplitAll(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	_, escaped, err := scan(raw, -1)
	if err != nil {
		return nil, err
	}
	tokens, err := shlex.Split(escaped)
	if err != nil {
		return nil, fmt.Errorf("split arguments: %w", err)
	}
	return tokens, nil
}

// scan walks raw once. It returns the byte offset just past the n-th token
// (len(raw) when n < 0 or raw has fewer tokens) and, for n < 0, raw rewritten
// so that shlex reads every character scan treats as literal as literal:
// single quotes, double quotes inside a token and a '#' opening a word, which
// shlex would otherwise take as a comment.
func scan(raw string, n int) (int, string, error) {
	var (
		b       strings.Builder
		count   int
		inToken bool
		quoted  bool
		escaped bool
	)

	if n == 0 {
		return 0, "", nil
	}
	if n < 0 {
		b.Grow(len(raw) + 4)
	}

	for i, r := range raw {
		literal := false
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
			inToken = true
		case quoted:
			if r == '"' {
				quoted = false
			}
		case r == '"' && !inToken:
			quoted = true
			inToken = true
		case unicode.IsSpace(r):
			if inToken {
				inToken = false
				count++
				if n > 0 && count == n {
					return i, "", nil
				}
			}
		case r == '"' || r == '\'':
			literal = true
			inToken = true
		case r == '#' && !inToken:
			literal = true
			inToken = true
		default:
			inToken = true
		}
		if n < 0 {
			if literal {
				b.WriteRune('\\')
			}
			b.WriteRune(r)
		}
	}

	if quoted || escaped {
		return 0, "", ErrUnterminatedQuote
	}
	return len(raw), b.String(), nil
}
