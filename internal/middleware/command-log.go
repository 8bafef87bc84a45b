package middleware

import (
	"context"
	"log"
	"time"

	"github.com/keshon/vexilux/pkg/cmd"
)

// WithCommandLogger logs every invocation with its author, place and duration.
func WithCommandLogger() cmd.Middleware {
	return func(next cmd.Callback) cmd.Callback {
		return func(ctx context.Context, c *cmd.Context, inv *cmd.Invocation) (any, error) {
			start := time.Now()
			result, err := next(ctx, c, inv)

			where := "DM " + c.Message.ChannelID
			if c.InGuild() {
				where = "guild " + c.Message.GuildID + " channel " + c.Message.ChannelID
			}
			name := c.InvokedWith
			if c.Command != nil {
				name = c.Command.QualifiedName()
			}
			if err != nil {
				log.Printf("[WARN] [%s] %s (%s) ran %s in %s: %v (%s)", c.ID, c.Message.AuthorName, c.Message.AuthorID, name, where, err, time.Since(start).Round(time.Millisecond))
			} else {
				log.Printf("[INFO] [%s] %s (%s) ran %s in %s (%s)", c.ID, c.Message.AuthorName, c.Message.AuthorID, name, where, time.Since(start).Round(time.Millisecond))
			}
			return result, err
		}
	}
}
