package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/keshon/vexilux/pkg/cmd"
)

// Latencier is implemented by transport payloads that know their gateway
// round-trip time.
type Latencier interface {
	Latency() time.Duration
}

func newPing(shared ...cmd.Option) (*cmd.Command, error) {
	return cmd.New("ping", func(ctx context.Context, c *cmd.Context, _ *cmd.Invocation) (any, error) {
		msg := "🏓 Pong!"
		if l, ok := c.Data.(Latencier); ok {
			msg = fmt.Sprintf("🏓 Pong! Response time: `%dms`", l.Latency().Milliseconds())
		}
		return msg, c.Reply(ctx, msg)
	}, options(shared, cmd.WithDescription("Pong!"))...)
}
