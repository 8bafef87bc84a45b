package cmd

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// ErrNoResponder is returned by Context.Reply when the transport gave none.
var ErrNoResponder = errors.New("no responder configured")

// Message is the transport-neutral view of an incoming chat message.
type Message struct {
	ID          string
	Content     string
	AuthorID    string
	AuthorName  string
	AuthorIsBot bool
	ChannelID   string
	GuildID     string // empty for direct messages
}

// Responder sends text back to where a command was invoked.
type Responder interface {
	Reply(ctx context.Context, c *Context, content string) error
}

// ResponderFunc adapts a function to Responder.
type ResponderFunc func(ctx context.Context, c *Context, content string) error

func (f ResponderFunc) Reply(ctx context.Context, c *Context, content string) error {
	return f(ctx, c, content)
}

// Context describes one command invocation. It is created per message and
// never shared between invocations.
type Context struct {
	// ID identifies the invocation in logs.
	ID          string
	Message     Message
	Prefix      string
	InvokedWith string
	Command     *Command

	// Data is the transport's payload (for Discord, the session and event).
	Data any

	Owners    []string
	Responder Responder
}

// Reply answers in the channel the command came from.
func (c *Context) Reply(ctx context.Context, content string) error {
	if c.Responder == nil {
		return ErrNoResponder
	}
	return c.Responder.Reply(ctx, c, content)
}

// Replyf formats and replies.
func (c *Context) Replyf(ctx context.Context, format string, args ...any) error {
	return c.Reply(ctx, fmt.Sprintf(format, args...))
}

// InGuild reports whether the message was sent in a guild channel.
func (c *Context) InGuild() bool { return c.Message.GuildID != "" }

// IsOwner reports whether the author is one of the bot owners.
func (c *Context) IsOwner() bool {
	return slices.Contains(c.Owners, c.Message.AuthorID)
}
