package cmd

import (
	"context"

	"github.com/keshon/vexilux/pkg/flags"
)

// Invoke runs command with resolved input. It records a cooldown use,
// converts the positionals that have a declared argument (left to right,
// stopping at the first failure), keeps any overflow verbatim, and calls the
// command's callback through its middleware.
//
// Admission is decided by EvaluateChecks beforehand. The callback's result
// and error are returned unchanged.
func Invoke(ctx context.Context, command *Command, c *Context, positional []string, kw flags.Values) (any, error) {
	if command.Cooldown != nil {
		if err := command.Cooldown.Add(c); err != nil {
			return nil, err
		}
	}

	window := command.Args[:min(len(positional), len(command.Args))]
	args := make([]any, 0, len(positional))
	for i, a := range window {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := a.Converter.Convert(ctx, flags.WrappedArg{Data: positional[i], Context: c})
		if err != nil {
			return nil, &CommandSyntaxError{Command: command, Arg: a.Name, Raw: positional[i], Err: err}
		}
		args = append(args, v)
	}
	for _, raw := range positional[len(window):] {
		args = append(args, raw)
	}

	inv := &Invocation{Args: args, command: command}
	if len(kw) > 0 {
		inv.Flags = kw
	}

	cb := Apply(command.callback, command.middleware...)
	return cb(ctx, c, inv)
}
