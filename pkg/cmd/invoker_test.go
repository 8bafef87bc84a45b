package cmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/vexilux/pkg/flags"
)

// capture returns a callback storing its invocation in *dst.
func capture(dst **Invocation) Callback {
	return func(_ context.Context, _ *Context, inv *Invocation) (any, error) {
		*dst = inv
		return "done", nil
	}
}

func TestInvoke_ConvertsWindowAndKeepsOverflow(t *testing.T) {
	var got *Invocation
	command := MustNew("x", capture(&got), WithArgs(Required("n", flags.Int())), AllowExtraArguments())

	result, err := Invoke(context.Background(), command, &Context{}, []string{"5", "x", "y"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "done", result)
	assert.Equal(t, []any{5, "x", "y"}, got.Args)
	assert.Nil(t, got.Flags)
}

func TestInvoke_FlagsOnlyWhenPresent(t *testing.T) {
	var got *Invocation
	command := MustNew("x", capture(&got))

	_, err := Invoke(context.Background(), command, &Context{}, nil, flags.Values{})
	require.NoError(t, err)
	assert.Nil(t, got.Flags)

	_, err = Invoke(context.Background(), command, &Context{}, nil, flags.Values{"a": "b"})
	require.NoError(t, err)
	assert.Equal(t, flags.Values{"a": "b"}, got.Flags)
}

func TestInvoke_ConversionFailure(t *testing.T) {
	called := false
	command := MustNew("x", func(context.Context, *Context, *Invocation) (any, error) {
		called = true
		return nil, nil
	}, WithArgs(Required("a", flags.Int()), Required("b", flags.Int())))

	_, err := Invoke(context.Background(), command, &Context{}, []string{"1", "abc"}, nil)
	var syntax *CommandSyntaxError
	require.ErrorAs(t, err, &syntax)
	assert.Equal(t, "b", syntax.Arg)
	assert.Equal(t, "abc", syntax.Raw)
	assert.False(t, syntax.Flag)
	assert.False(t, called)
}

func TestInvoke_ReturnsCallbackErrorUnchanged(t *testing.T) {
	sentinel := errors.New("boom")
	command := MustNew("x", func(context.Context, *Context, *Invocation) (any, error) {
		return 7, sentinel
	})
	result, err := Invoke(context.Background(), command, &Context{}, nil, nil)
	assert.Same(t, sentinel, err)
	assert.Equal(t, 7, result)
}

func TestInvoke_AddsCooldown(t *testing.T) {
	command := MustNew("x", noop, WithCooldown(1, time.Minute, BucketUser))
	c := &Context{Command: command, Message: Message{AuthorID: "u1"}}

	_, err := Invoke(context.Background(), command, c, nil, nil)
	require.NoError(t, err)

	_, err = Invoke(context.Background(), command, c, nil, nil)
	var cf *CheckFailure
	require.ErrorAs(t, err, &cf)
	assert.Equal(t, OnCooldown, cf.Kind)
	assert.Positive(t, cf.RetryAfter)
}

func TestInvoke_MiddlewareOrder(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next Callback) Callback {
			return func(ctx context.Context, c *Context, inv *Invocation) (any, error) {
				order = append(order, name+">")
				res, err := next(ctx, c, inv)
				order = append(order, "<"+name)
				return res, err
			}
		}
	}
	command := MustNew("x", func(context.Context, *Context, *Invocation) (any, error) {
		order = append(order, "cb")
		return nil, nil
	}, WithMiddleware(mw("outer"), mw("inner")))

	_, err := Invoke(context.Background(), command, &Context{}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"outer>", "inner>", "cb", "<inner", "<outer"}, order)
}

func TestInvocation_Accessors(t *testing.T) {
	var got *Invocation
	command := MustNew("roll", capture(&got),
		WithArgs(Required("count", flags.Int()), Optional("sides", flags.Int(), 6)),
		WithFlag("mod", []string{"-m"}, flags.WithConverter(flags.Int())),
		WithFlag("label", []string{"-l"}, flags.Greedy()),
	)

	_, err := Invoke(context.Background(), command, &Context{}, []string{"2"},
		flags.Values{"mod": []any{1, 2}, "label": "big roll"})
	require.NoError(t, err)

	assert.Equal(t, 2, got.Arg("count"))
	assert.Equal(t, 6, got.Arg("sides"))
	assert.Nil(t, got.Arg("nope"))

	sides, ok := ArgAs[int](got, "sides")
	assert.True(t, ok)
	assert.Equal(t, 6, sides)

	mods, ok := FlagList[int](got, "mod")
	assert.True(t, ok)
	assert.Equal(t, []int{1, 2}, mods)

	label, ok := FlagAs[string](got, "label")
	assert.True(t, ok)
	assert.Equal(t, "big roll", label)

	_, ok = FlagAs[string](got, "missing")
	assert.False(t, ok)
}

func TestInvocation_Rest(t *testing.T) {
	var got *Invocation
	command := MustNew("say", capture(&got), WithRest("text"))
	_, err := Invoke(context.Background(), command, &Context{}, nil, flags.Values{"text": "hello there"})
	require.NoError(t, err)
	assert.Equal(t, "hello there", got.Rest())
}
