package commands

import (
	"context"
	"strings"

	"github.com/keshon/vexilux/pkg/cmd"
	"github.com/keshon/vexilux/pkg/flags"
)

const maxEchoTimes = 5

func newEcho(shared ...cmd.Option) (*cmd.Command, error) {
	return cmd.New("echo", func(ctx context.Context, c *cmd.Context, inv *cmd.Invocation) (any, error) {
		text, _ := cmd.FlagAs[string](inv, "text")
		if strings.TrimSpace(text) == "" {
			return nil, &cmd.NotEnoughArguments{Command: c.Command, Missing: []string{"--text"}}
		}

		times := 1
		if n, ok := cmd.FlagList[int](inv, "times"); ok && len(n) > 0 {
			times = max(1, min(n[0], maxEchoTimes))
		}

		msg := strings.TrimSuffix(strings.Repeat(text+"\n", times), "\n")
		return msg, c.Reply(ctx, msg)
	}, options(shared,
		cmd.WithDescription("Echo text, optionally several times"),
		cmd.WithFlag("text", []string{"--text", "-t"}, flags.Greedy()),
		cmd.WithFlag("times", []string{"--times", "-n"}, flags.WithConverter(flags.Int())),
	)...)
}
