package middleware

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/vexilux/pkg/cmd"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevFlags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
	})
	return &buf
}

func TestWithCommandLogger(t *testing.T) {
	buf := captureLog(t)
	command := cmd.MustNew("ping", func(context.Context, *cmd.Context, *cmd.Invocation) (any, error) {
		return "pong", nil
	}, Default(time.Second)...)
	c := &cmd.Context{ID: "abc", Command: command, Message: cmd.Message{AuthorID: "1", AuthorName: "ann", GuildID: "g", ChannelID: "ch"}}

	result, err := cmd.Invoke(context.Background(), command, c, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "pong", result)
	assert.Contains(t, buf.String(), "[INFO] [abc] ann (1) ran ping in guild g channel ch")
}

func TestWithCommandLogger_Error(t *testing.T) {
	buf := captureLog(t)
	boom := errors.New("boom")
	cb := WithCommandLogger()(func(context.Context, *cmd.Context, *cmd.Invocation) (any, error) {
		return nil, boom
	})

	_, err := cb(context.Background(), &cmd.Context{InvokedWith: "x", Message: cmd.Message{ChannelID: "d"}}, &cmd.Invocation{})
	assert.Same(t, boom, err)
	assert.Contains(t, buf.String(), "ran x in DM d: boom")
}

func TestWithTimeout(t *testing.T) {
	cb := WithTimeout(10 * time.Millisecond)(func(ctx context.Context, _ *cmd.Context, _ *cmd.Invocation) (any, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	_, err := cb(context.Background(), &cmd.Context{}, &cmd.Invocation{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	passthrough := WithTimeout(0)(func(ctx context.Context, _ *cmd.Context, _ *cmd.Invocation) (any, error) {
		_, ok := ctx.Deadline()
		return ok, nil
	})
	hasDeadline, err := passthrough(context.Background(), &cmd.Context{}, &cmd.Invocation{})
	require.NoError(t, err)
	assert.Equal(t, false, hasDeadline)
}
