package cmd

import (
	"context"
	"errors"

	"github.com/keshon/vexilux/pkg/argsplit"
	"github.com/keshon/vexilux/pkg/flags"
)

// ResolveArgs splits raw into the command's positional tokens and its keyword
// values.
//
// The positional tokens are left unconverted; Invoke converts them. Keyword
// values are either the catch-all (the whole remainder under Command.Rest,
// when the command declares no flags) or the parsed flags. A command with
// flags treats its flag map as a keyword sink, so trailing text is never
// "too many arguments" for it.
//
// The argument count checks run in order: TooManyArguments first, then
// NotEnoughArguments.
func ResolveArgs(ctx context.Context, c *Context, command *Command, raw string, sp argsplit.Splitter) ([]string, flags.Values, error) {
	if sp == nil {
		sp = argsplit.Whitespace{}
	}

	positional, remainder, err := sp.SplitLimited(raw, command.MaximumArguments())
	if err != nil {
		return nil, nil, &CommandSyntaxError{Command: command, Raw: raw, Err: err}
	}

	hasSink := command.Rest != "" || command.HasFlags()
	if remainder != "" && !hasSink && !command.AllowExtra {
		return nil, nil, &TooManyArguments{Command: command}
	}

	given := len(positional)
	partial := positional
	if remainder != "" {
		given++
		partial = append(partial[:len(partial):len(partial)], remainder)
	}
	if given < command.MinimumArguments() {
		return nil, nil, &NotEnoughArguments{Command: command, Missing: command.MissingArgs(partial)}
	}

	switch {
	case remainder != "" && command.Rest != "" && !command.HasFlags():
		return positional, flags.Values{command.Rest: remainder}, nil
	case command.HasFlags():
		tokens, err := sp.SplitAll(remainder)
		if err != nil {
			return nil, nil, &CommandSyntaxError{Command: command, Raw: remainder, Err: err}
		}
		kw, err := flags.Parse(ctx, tokens, command.Flags(), contextConverter(c))
		if err != nil {
			var ce *flags.ConversionError
			if errors.As(err, &ce) {
				return nil, nil, &CommandSyntaxError{Command: command, Arg: ce.Flag, Raw: ce.Raw, Flag: true, Err: ce.Err}
			}
			return nil, nil, err
		}
		return positional, kw, nil
	default:
		return positional, flags.Values{}, nil
	}
}

// contextConverter hands the invocation context to every flag converter.
func contextConverter(c *Context) flags.ConvertFunc {
	return func(ctx context.Context, raw string, spec *flags.Spec) (any, error) {
		return spec.Converter.Convert(ctx, flags.WrappedArg{Data: raw, Context: c})
	}
}
