package cmd

import (
	"context"
	"strings"
)

// PrefixResolver returns the prefixes a message may start with.
type PrefixResolver func(ctx context.Context, msg Message) ([]string, error)

// StaticPrefix always offers the same prefixes.
func StaticPrefix(prefixes ...string) PrefixResolver {
	return func(context.Context, Message) ([]string, error) {
		return prefixes, nil
	}
}

// WhenMentionedOr accepts a mention of the bot in addition to next's
// prefixes. selfID is read per message since it is only known after login.
func WhenMentionedOr(selfID func() string, next PrefixResolver) PrefixResolver {
	return func(ctx context.Context, msg Message) ([]string, error) {
		var out []string
		if id := selfID(); id != "" {
			out = append(out, "<@"+id+"> ", "<@!"+id+"> ")
		}
		if next == nil {
			return out, nil
		}
		more, err := next(ctx, msg)
		if err != nil {
			return nil, err
		}
		return append(out, more...), nil
	}
}

// matchPrefix returns the longest candidate content starts with.
func matchPrefix(content string, candidates []string) (string, bool) {
	best, found := "", false
	for _, p := range candidates {
		if p == "" || !strings.HasPrefix(content, p) {
			continue
		}
		if !found || len(p) > len(best) {
			best, found = p, true
		}
	}
	return best, found
}
