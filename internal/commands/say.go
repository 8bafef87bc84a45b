package commands

import (
	"context"
	"time"

	"github.com/keshon/vexilux/pkg/cmd"
)

func newSay(shared ...cmd.Option) (*cmd.Command, error) {
	return cmd.New("say", func(ctx context.Context, c *cmd.Context, inv *cmd.Invocation) (any, error) {
		text := inv.Rest()
		return text, c.Reply(ctx, text)
	}, options(shared,
		cmd.WithDescription("Repeat a message"),
		cmd.WithRest("text"),
		cmd.WithCooldown(3, 10*time.Second, cmd.BucketUser),
	)...)
}
