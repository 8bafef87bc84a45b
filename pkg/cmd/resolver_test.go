package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/vexilux/pkg/argsplit"
	"github.com/keshon/vexilux/pkg/flags"
)

func TestResolveArgs_PositionalThenFlags(t *testing.T) {
	command := MustNew("count", noop,
		WithArgs(Required("target", flags.String())),
		WithFlag("count", []string{"--count"}, flags.WithConverter(flags.Int())),
	)
	require.Equal(t, 1, command.MinimumArguments())
	require.Equal(t, 1, command.MaximumArguments())

	positional, kw, err := ResolveArgs(context.Background(), &Context{}, command, "foo --count 3 4", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"foo"}, positional)
	assert.Equal(t, flags.Values{"count": []any{3, 4}}, kw)
}

func TestResolveArgs_CatchAllTakesRemainder(t *testing.T) {
	command := MustNew("note", noop,
		WithArgs(Required("first", flags.String())),
		WithOptionalRest("rest"),
	)
	require.Equal(t, 1, command.MinimumArguments())

	positional, kw, err := ResolveArgs(context.Background(), &Context{}, command, "foo bar baz", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"foo"}, positional)
	assert.Equal(t, flags.Values{"rest": "bar baz"}, kw)
}

func TestResolveArgs_TooManyArguments(t *testing.T) {
	command := MustNew("one", noop, WithArgs(Required("a", flags.String())))

	_, _, err := ResolveArgs(context.Background(), &Context{}, command, "x y", nil)
	var tooMany *TooManyArguments
	require.ErrorAs(t, err, &tooMany)
	assert.Same(t, command, tooMany.Command)

	extra := MustNew("one", noop, WithArgs(Required("a", flags.String())), AllowExtraArguments())
	positional, kw, err := ResolveArgs(context.Background(), &Context{}, extra, "x y", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, positional)
	assert.Equal(t, flags.Values{}, kw)
}

func TestResolveArgs_NotEnoughArguments(t *testing.T) {
	tests := []struct {
		name    string
		command *Command
		raw     string
		missing []string
	}{
		{
			name:    "no input",
			command: MustNew("two", noop, WithArgs(Required("a", flags.String()), Required("b", flags.String()))),
			raw:     "",
			missing: []string{"a", "b"},
		},
		{
			name:    "one of two",
			command: MustNew("two", noop, WithArgs(Required("a", flags.String()), Required("b", flags.String()))),
			raw:     "x",
			missing: []string{"b"},
		},
		{
			name:    "required catch-all",
			command: MustNew("say", noop, WithArgs(Required("to", flags.String())), WithRest("text")),
			raw:     "bob",
			missing: []string{"text"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ResolveArgs(context.Background(), &Context{}, tt.command, tt.raw, nil)
			var notEnough *NotEnoughArguments
			require.ErrorAs(t, err, &notEnough)
			assert.Equal(t, tt.missing, notEnough.Missing)
		})
	}
}

func TestResolveArgs_RemainderCountsTowardMinimum(t *testing.T) {
	command := MustNew("say", noop, WithArgs(Required("to", flags.String())), WithRest("text"))
	positional, kw, err := ResolveArgs(context.Background(), &Context{}, command, "bob hello there", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, positional)
	assert.Equal(t, flags.Values{"text": "hello there"}, kw)
}

func TestResolveArgs_FlagsWithoutRemainder(t *testing.T) {
	command := MustNew("x", noop, WithFlag("v", []string{"-v"}))
	positional, kw, err := ResolveArgs(context.Background(), &Context{}, command, "", nil)
	require.NoError(t, err)
	assert.Empty(t, positional)
	assert.Equal(t, flags.Values{}, kw)
}

func TestResolveArgs_UnknownTokensBeforeFlagsDropped(t *testing.T) {
	command := MustNew("x", noop, WithFlag("text", []string{"--text"}, flags.Greedy()))
	_, kw, err := ResolveArgs(context.Background(), &Context{}, command, "stray words --text hello world", nil)
	require.NoError(t, err)
	assert.Equal(t, flags.Values{"text": "hello world"}, kw)
}

func TestResolveArgs_FlagConversionError(t *testing.T) {
	command := MustNew("x", noop, WithFlag("count", []string{"--count", "-c"}, flags.WithConverter(flags.Int())))
	_, _, err := ResolveArgs(context.Background(), &Context{}, command, "-c 1 two", nil)

	var syntax *CommandSyntaxError
	require.ErrorAs(t, err, &syntax)
	assert.True(t, syntax.Flag)
	assert.Equal(t, "count", syntax.Arg)
	assert.Equal(t, "two", syntax.Raw)
	assert.Same(t, command, syntax.Command)
}

func TestResolveArgs_FlagConverterSeesContext(t *testing.T) {
	whoami := flags.Async("whoami", func(_ context.Context, arg flags.WrappedArg) (any, error) {
		c, ok := arg.Context.(*Context)
		if !ok {
			return nil, errors.New("no context")
		}
		return c.Message.AuthorID + ":" + arg.Data, nil
	})
	command := MustNew("x", noop, WithFlag("who", []string{"--who"}, flags.WithConverter(whoami)))
	c := &Context{Message: Message{AuthorID: "42"}}

	_, kw, err := ResolveArgs(context.Background(), c, command, "--who me", nil)
	require.NoError(t, err)
	assert.Equal(t, flags.Values{"who": []any{"42:me"}}, kw)
}

func TestResolveArgs_QuotedSplitter(t *testing.T) {
	command := MustNew("tag", noop,
		WithArgs(Required("name", flags.String())),
		WithFlag("text", []string{"--text"}),
	)
	positional, kw, err := ResolveArgs(context.Background(), &Context{}, command, `"two words" --text "a b" c`, argsplit.Quoted{})
	require.NoError(t, err)
	assert.Equal(t, []string{"two words"}, positional)
	assert.Equal(t, flags.Values{"text": []any{"a b", "c"}}, kw)

	_, _, err = ResolveArgs(context.Background(), &Context{}, command, `"open`, argsplit.Quoted{})
	var syntax *CommandSyntaxError
	require.ErrorAs(t, err, &syntax)
	assert.ErrorIs(t, err, argsplit.ErrUnterminatedQuote)
}

func TestResolveArgs_QuotedSplitterKeepsApostrophes(t *testing.T) {
	command := MustNew("echo", noop, WithFlag("text", []string{"--text"}, flags.Greedy()))
	for _, sp := range []argsplit.Splitter{argsplit.Quoted{}, argsplit.Whitespace{}} {
		_, kw, err := ResolveArgs(context.Background(), &Context{}, command, "--text I don't know", sp)
		require.NoError(t, err)
		assert.Equal(t, flags.Values{"text": "I don't know"}, kw)
	}
}

func TestResolveArgs_TrailingWhitespaceIsNotARemainder(t *testing.T) {
	command := MustNew("one", noop, WithArgs(Required("a", flags.String())))
	positional, kw, err := ResolveArgs(context.Background(), &Context{}, command, "foo  \n", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"foo"}, positional)
	assert.Equal(t, flags.Values{}, kw)
}
