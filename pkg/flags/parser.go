package flags

import (
	"context"
	"fmt"
	"strings"
)

// Values maps canonical flag names to converted values. A greedy flag holds a
// single value; any other flag holds a []any in token order.
type Values map[string]any

// ConvertFunc converts one raw value for spec. The host framework supplies it
// so that async converters can see the invocation context.
type ConvertFunc func(ctx context.Context, raw string, spec *Spec) (any, error)

// DirectConvert runs spec's converter without an invocation context.
func DirectConvert(ctx context.Context, raw string, spec *Spec) (any, error) {
	return spec.Converter.Convert(ctx, WrappedArg{Data: raw})
}

// ConversionError reports a flag value its converter rejected.
type ConversionError struct {
	Flag string
	Raw  string
	Err  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("flag %s: invalid value %q: %v", e.Flag, e.Raw, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// Parse walks tokens once, left to right. A token naming an alias in reg
// starts a group that collects every following token up to the next alias or
// the end of input. Tokens outside any group are dropped. When a flag appears
// more than once the last group wins.
//
// Groups are converted in order, one value at a time, so the first failure
// reported is always the leftmost one.
func Parse(ctx context.Context, tokens []string, reg *Registry, convert ConvertFunc) (Values, error) {
	if convert == nil {
		convert = DirectConvert
	}

	out := Values{}
	i := 0
	for i < len(tokens) {
		spec, ok := reg.Lookup(tokens[i])
		i++
		if !ok {
			continue
		}

		start := i
		for i < len(tokens) {
			if _, next := reg.Lookup(tokens[i]); next {
				break
			}
			i++
		}

		v, err := convertGroup(ctx, spec, tokens[start:i], convert)
		if err != nil {
			return nil, err
		}
		out[spec.Name] = v
	}
	return out, nil
}

func convertGroup(ctx context.Context, spec *Spec, raw []string, convert ConvertFunc) (any, error) {
	if spec.Greedy {
		joined := strings.Join(raw, " ")
		v, err := convert(ctx, joined, spec)
		if err != nil {
			return nil, conversionError(spec, joined, err)
		}
		return v, nil
	}

	values := make([]any, 0, len(raw))
	for _, r := range raw {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := convert(ctx, r, spec)
		if err != nil {
			return nil, conversionError(spec, r, err)
		}
		values = append(values, v)
	}
	return values, nil
}

func conversionError(spec *Spec, raw string, err error) error {
	if ce, ok := err.(*ConversionError); ok {
		return ce
	}
	return &ConversionError{Flag: spec.Name, Raw: raw, Err: err}
}
