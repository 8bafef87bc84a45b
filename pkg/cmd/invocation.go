// Package cmd is a transport-agnostic prefix-command framework: commands with
// positional arguments and CLI-style flags, a registry, checks, cooldowns and
// a dispatch loop. Transports (Discord, a terminal) feed it Messages and
// supply a Responder.
package cmd

import (
	"context"

	"github.com/keshon/vexilux/pkg/flags"
)

// Callback is a command's body. Whatever it returns is passed back to the
// caller of Invoke untouched.
type Callback func(ctx context.Context, c *Context, inv *Invocation) (any, error)

// Invocation carries the converted input of one command call: positional
// values in declaration order (followed by any raw overflow) and the flag or
// catch-all values, which are nil when none were given.
type Invocation struct {
	Args  []any
	Flags flags.Values

	command *Command
}

// Arg returns the positional called name, or its default when it was not
// supplied.
func (inv *Invocation) Arg(name string) any {
	if inv.command == nil {
		return nil
	}
	for i, a := range inv.command.Args {
		if a.Name != name {
			continue
		}
		if i < len(inv.Args) {
			return inv.Args[i]
		}
		return a.Default
	}
	return nil
}

// Flag returns the raw converted value stored for a flag or catch-all name.
func (inv *Invocation) Flag(name string) (any, bool) {
	v, ok := inv.Flags[name]
	return v, ok
}

// Rest returns the catch-all text, or "" when there was none.
func (inv *Invocation) Rest() string {
	if inv.command == nil || inv.command.Rest == "" {
		return ""
	}
	s, _ := inv.Flags[inv.command.Rest].(string)
	return s
}

// ArgAs returns the positional called name as T.
func ArgAs[T any](inv *Invocation, name string) (T, bool) {
	v, ok := inv.Arg(name).(T)
	return v, ok
}

// FlagAs returns a greedy flag's value as T.
func FlagAs[T any](inv *Invocation, name string) (T, bool) {
	var zero T
	raw, ok := inv.Flags[name]
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	return v, ok
}

// FlagList returns a non-greedy flag's values as []T. The second result is
// false when the flag was not given or a value has another type.
func FlagList[T any](inv *Invocation, name string) ([]T, bool) {
	raw, ok := inv.Flags[name].([]any)
	if !ok {
		return nil, false
	}
	out := make([]T, 0, len(raw))
	for _, r := range raw {
		v, ok := r.(T)
		if !ok {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}
