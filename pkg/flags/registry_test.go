package flags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_AddAndLookup(t *testing.T) {
	reg := NewRegistry()
	spec, err := reg.Add("verbose", []string{"--verbose", "-v"}, Greedy())
	require.NoError(t, err)

	long, ok := reg.Lookup("--verbose")
	require.True(t, ok)
	short, ok := reg.Lookup("-v")
	require.True(t, ok)

	assert.Same(t, spec, long)
	assert.Same(t, long, short)
	assert.True(t, spec.Greedy)
	assert.Equal(t, "verbose", spec.Name)

	_, ok = reg.Lookup("verbose")
	assert.False(t, ok)
}

func TestRegistry_DuplicateAliasFailsFast(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Add("count", []string{"-c", "--count"})
	require.NoError(t, err)

	_, err = reg.Add("channel", []string{"--channel", "-c"})
	assert.ErrorIs(t, err, ErrDuplicateAlias)

	spec, ok := reg.Lookup("-c")
	require.True(t, ok)
	assert.Equal(t, "count", spec.Name, "failed declaration must not shadow the first one")
	_, ok = reg.Lookup("--channel")
	assert.False(t, ok)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_DuplicateName(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Add("count", []string{"--count"})
	require.NoError(t, err)
	_, err = reg.Add("count", []string{"-n"})
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestRegistry_InvalidDeclarations(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		aliases []string
	}{
		{"empty name", "", []string{"--x"}},
		{"no aliases", "x", nil},
		{"blank alias", "x", []string{""}},
		{"alias with space", "x", []string{"--a b"}},
		{"repeated alias", "x", []string{"--x", "--x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry().Add(tt.flag, tt.aliases)
			assert.Error(t, err)
		})
	}
}

func TestRegistry_ZeroValueUsable(t *testing.T) {
	var reg Registry
	_, ok := reg.Lookup("--x")
	assert.False(t, ok)

	_, err := reg.Add("x", []string{"--x"})
	require.NoError(t, err)
	_, ok = reg.Lookup("--x")
	assert.True(t, ok)

	var nilReg *Registry
	assert.Equal(t, 0, nilReg.Len())
	assert.Nil(t, nilReg.Usage())
}

func TestRegistry_OrderAndUsage(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Add("verbose", []string{"--verbose", "-v"})
	require.NoError(t, err)
	_, err = reg.Add("count", []string{"--count", "-n", "--cnt"})
	require.NoError(t, err)

	assert.Equal(t, []string{"--verbose", "-v", "--count", "-n", "--cnt"}, reg.Aliases())
	assert.Equal(t, []string{"-v | --verbose [...]", "-n | --cnt | --count [...]"}, reg.Usage())

	groups := reg.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, "verbose", groups[0].Spec.Name)
	assert.Equal(t, []string{"--count", "-n", "--cnt"}, groups[1].Aliases)
}
