package flags

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	_, err := reg.Add("n", []string{"--n"}, WithConverter(Int()))
	require.NoError(t, err)
	_, err = reg.Add("tag", []string{"--tag", "-t"}, Greedy())
	require.NoError(t, err)
	_, err = reg.Add("verbose", []string{"--verbose", "-v"})
	require.NoError(t, err)
	return reg
}

func TestParse_NoAliasesGivesEmptyMap(t *testing.T) {
	reg := newTestRegistry(t)
	for _, tokens := range [][]string{nil, {}, {"plain", "words"}, {"-x", "--nope", "1"}} {
		vals, err := Parse(context.Background(), tokens, reg, nil)
		require.NoError(t, err)
		assert.Empty(t, vals)
		assert.NotNil(t, vals)
	}
}

func TestParse_GreedyJoins(t *testing.T) {
	vals, err := Parse(context.Background(), []string{"--tag", "a", "b", "c"}, newTestRegistry(t), nil)
	require.NoError(t, err)
	assert.Equal(t, Values{"tag": "a b c"}, vals)
}

func TestParse_NonGreedyKeepsOrder(t *testing.T) {
	vals, err := Parse(context.Background(), []string{"--n", "1", "2"}, newTestRegistry(t), nil)
	require.NoError(t, err)
	assert.Equal(t, Values{"n": []any{1, 2}}, vals)
}

func TestParse_RepeatOverwrites(t *testing.T) {
	vals, err := Parse(context.Background(), []string{"--n", "1", "--n", "2"}, newTestRegistry(t), nil)
	require.NoError(t, err)
	assert.Equal(t, Values{"n": []any{2}}, vals)
}

func TestParse_AliasesAreEquivalent(t *testing.T) {
	reg := newTestRegistry(t)
	long, err := Parse(context.Background(), []string{"--verbose", "x"}, reg, nil)
	require.NoError(t, err)
	short, err := Parse(context.Background(), []string{"-v", "x"}, reg, nil)
	require.NoError(t, err)
	assert.Equal(t, long, short)
	assert.Equal(t, Values{"verbose": []any{"x"}}, long)
}

func TestParse_LeadingTokensDropped(t *testing.T) {
	vals, err := Parse(context.Background(), []string{"stray", "words", "--n", "3", "-t", "hello", "world"}, newTestRegistry(t), nil)
	require.NoError(t, err)
	assert.Equal(t, Values{"n": []any{3}, "tag": "hello world"}, vals)
}

func TestParse_EmptyGroups(t *testing.T) {
	reg := newTestRegistry(t)

	vals, err := Parse(context.Background(), []string{"--verbose"}, reg, nil)
	require.NoError(t, err)
	assert.Equal(t, Values{"verbose": []any{}}, vals)

	vals, err = Parse(context.Background(), []string{"--tag", "--verbose"}, reg, nil)
	require.NoError(t, err)
	assert.Equal(t, Values{"tag": "", "verbose": []any{}}, vals)

	// An empty greedy value still goes through the converter.
	_, err = reg.Add("size", []string{"--size"}, Greedy(), WithConverter(Int()))
	require.NoError(t, err)
	_, err = Parse(context.Background(), []string{"--size"}, reg, nil)
	var ce *ConversionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "size", ce.Flag)
	assert.Equal(t, "", ce.Raw)
}

func TestParse_ConversionErrorNamesFlagAndToken(t *testing.T) {
	_, err := Parse(context.Background(), []string{"--n", "1", "two", "--n", "x"}, newTestRegistry(t), nil)
	var ce *ConversionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "n", ce.Flag)
	assert.Equal(t, "two", ce.Raw)
	assert.Contains(t, err.Error(), `"two"`)
}

func TestParse_ConvertsSequentiallyLeftToRight(t *testing.T) {
	reg := newTestRegistry(t)
	var seen []string
	convert := func(ctx context.Context, raw string, spec *Spec) (any, error) {
		seen = append(seen, spec.Name+"="+raw)
		return raw, nil
	}

	_, err := Parse(context.Background(), []string{"--n", "1", "2", "--tag", "a", "b", "-v", "z"}, reg, convert)
	require.NoError(t, err)
	assert.Equal(t, []string{"n=1", "n=2", "tag=a b", "verbose=z"}, seen)
}

func TestParse_AsyncConverterSeesContext(t *testing.T) {
	type invocation struct{ guild string }

	reg := NewRegistry()
	_, err := reg.Add("member", []string{"--member"}, WithConverter(Async("member", func(ctx context.Context, arg WrappedArg) (any, error) {
		inv, ok := arg.Context.(*invocation)
		if !ok {
			return nil, errors.New("no invocation")
		}
		return inv.guild + "/" + arg.Data, nil
	})))
	require.NoError(t, err)

	inv := &invocation{guild: "g1"}
	convert := func(ctx context.Context, raw string, spec *Spec) (any, error) {
		return spec.Converter.Convert(ctx, WrappedArg{Data: raw, Context: inv})
	}

	vals, err := Parse(context.Background(), []string{"--member", "42", "43"}, reg, convert)
	require.NoError(t, err)
	assert.Equal(t, Values{"member": []any{"g1/42", "g1/43"}}, vals)
}

func TestParse_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Parse(ctx, []string{"--n", "1"}, newTestRegistry(t), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParse_CustomTypedConverter(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Add("hex", []string{"--hex"}, WithConverter(Typed("hex", func(s string) (int64, error) {
		return strconv.ParseInt(s, 16, 64)
	})))
	require.NoError(t, err)

	vals, err := Parse(context.Background(), []string{"--hex", "ff", "10"}, reg, nil)
	require.NoError(t, err)
	assert.Equal(t, Values{"hex": []any{int64(255), int64(16)}}, vals)
}
