package flags

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

type converterKind uint8

const (
	kindIdentity converterKind = iota
	kindSync
	kindAsync
)

// WrappedArg is what an async converter receives: the raw token plus the
// invocation context it was typed in. Context is whatever the host framework
// passes (a *cmd.Context in this module).
type WrappedArg struct {
	Data    string
	Context any
}

// Converter turns a raw token into a typed value. It is either a plain
// function of the token (Sync) or a context-aware, possibly blocking function
// of a WrappedArg (Async). The zero Converter returns the token unchanged.
type Converter struct {
	kind  converterKind
	name  string
	sync  func(string) (any, error)
	async func(context.Context, WrappedArg) (any, error)
}

// Sync builds a converter that only needs the raw string.
func Sync(name string, fn func(string) (any, error)) Converter {
	return Converter{kind: kindSync, name: name, sync: fn}
}

// Async builds a converter that also sees the invocation context. It may
// block (network lookups); ctx is cancelled with the invocation.
func Async(name string, fn func(context.Context, WrappedArg) (any, error)) Converter {
	return Converter{kind: kindAsync, name: name, async: fn}
}

// Typed adapts a strongly typed parse function.
func Typed[T any](name string, fn func(string) (T, error)) Converter {
	return Sync(name, func(s string) (any, error) {
		return fn(s)
	})
}

// Name is a short label for the converted type, used in error messages.
func (c Converter) Name() string {
	if c.name == "" {
		return "string"
	}
	return c.name
}

// IsAsync reports whether the converter takes a WrappedArg.
func (c Converter) IsAsync() bool { return c.kind == kindAsync }

// Convert applies the converter. Sync converters get arg.Data directly.
func (c Converter) Convert(ctx context.Context, arg WrappedArg) (any, error) {
	switch c.kind {
	case kindSync:
		return c.sync(arg.Data)
	case kindAsync:
		return c.async(ctx, arg)
	default:
		return arg.Data, nil
	}
}

// String is the identity converter.
func String() Converter { return Converter{} }

// Int parses base-10 integers into int.
func Int() Converter {
	return Typed("int", func(s string) (int, error) {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, fmt.Errorf("%q is not a whole number", s)
		}
		return n, nil
	})
}

// Float parses float64 values.
func Float() Converter {
	return Typed("float", func(s string) (float64, error) {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", s)
		}
		return f, nil
	})
}

// Bool accepts the strconv forms plus yes/no and on/off.
func Bool() Converter {
	return Typed("bool", func(s string) (bool, error) {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "yes", "y", "on", "enable", "enabled":
			return true, nil
		case "no", "n", "off", "disable", "disabled":
			return false, nil
		}
		b, err := strconv.ParseBool(s)
		if err != nil {
			return false, fmt.Errorf("%q is not a yes/no value", s)
		}
		return b, nil
	})
}

// Duration parses Go duration strings such as 90s or 1h30m.
func Duration() Converter {
	return Typed("duration", func(s string) (time.Duration, error) {
		d, err := time.ParseDuration(strings.TrimSpace(s))
		if err != nil {
			return 0, fmt.Errorf("%q is not a duration (try 10m or 1h30m)", s)
		}
		return d, nil
	})
}

// Time parses dates and timestamps in the many layouts people actually type,
// interpreted in the local time zone.
func Time() Converter {
	return Typed("time", func(s string) (time.Time, error) {
		t, err := dateparse.ParseLocal(strings.TrimSpace(s))
		if err != nil {
			return time.Time{}, fmt.Errorf("%q is not a date or time", s)
		}
		return t, nil
	})
}

// OneOf accepts only the listed choices, case-insensitively, and returns the
// choice as declared.
func OneOf(choices ...string) Converter {
	return Typed("choice", func(s string) (string, error) {
		for _, c := range choices {
			if strings.EqualFold(c, s) {
				return c, nil
			}
		}
		return "", fmt.Errorf("%q is not one of %s", s, strings.Join(choices, ", "))
	})
}
