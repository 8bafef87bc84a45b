package cmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinChecks(t *testing.T) {
	guild := &Context{Message: Message{AuthorID: "u1", GuildID: "g1"}, Owners: []string{"u1"}}
	dm := &Context{Message: Message{AuthorID: "u2"}, Owners: []string{"u1"}}

	tests := []struct {
		name  string
		check Check
		c     *Context
		kind  CheckKind
	}{
		{"guild only in dm", GuildOnly(), dm, OnlyInGuild},
		{"dm only in guild", DMOnly(), guild, OnlyInDM},
		{"owner only for stranger", OwnerOnly(), dm, NotOwner},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cf *CheckFailure
			require.ErrorAs(t, tt.check(context.Background(), tt.c), &cf)
			assert.Equal(t, tt.kind, cf.Kind)
		})
	}

	assert.NoError(t, GuildOnly()(context.Background(), guild))
	assert.NoError(t, DMOnly()(context.Background(), dm))
	assert.NoError(t, OwnerOnly()(context.Background(), guild))
}

func TestEvaluateChecks_Order(t *testing.T) {
	var order []string
	check := func(name string, err error) Check {
		return func(context.Context, *Context) error {
			order = append(order, name)
			return err
		}
	}
	command := MustNew("x", noop, WithChecks(check("command", nil)))
	require.NoError(t, EvaluateChecks(context.Background(), command, &Context{}, check("global", nil)))
	assert.Equal(t, []string{"global", "command"}, order)

	order = nil
	inner := errors.New("nope")
	err := EvaluateChecks(context.Background(), command, &Context{}, check("global", inner))
	var cf *CheckFailure
	require.ErrorAs(t, err, &cf)
	assert.Equal(t, CheckCustom, cf.Kind)
	assert.Same(t, command, cf.Command)
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, []string{"global"}, order)
}

func TestEvaluateChecks_Cooldown(t *testing.T) {
	command := MustNew("x", noop, WithCooldown(1, time.Minute, BucketGlobal))
	c := &Context{Command: command}
	require.NoError(t, EvaluateChecks(context.Background(), command, c))

	// checking does not consume a use
	require.NoError(t, EvaluateChecks(context.Background(), command, c))

	require.NoError(t, command.Cooldown.Add(c))
	err := EvaluateChecks(context.Background(), command, c)
	var cf *CheckFailure
	require.ErrorAs(t, err, &cf)
	assert.Equal(t, OnCooldown, cf.Kind)
	assert.Contains(t, cf.Error(), "retry in")
}
