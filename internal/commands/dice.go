package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/keshon/vexilux/pkg/cmd"
	"github.com/keshon/vexilux/pkg/flags"
)

func newDice(shared ...cmd.Option) (*cmd.Command, error) {
	roll, err := cmd.New("roll", func(ctx context.Context, c *cmd.Context, inv *cmd.Invocation) (any, error) {
		res, err := evaluate(inv.Rest())
		if err != nil {
			return nil, err
		}
		return res, c.Reply(ctx, res.String())
	}, options(shared,
		cmd.WithDescription("Roll a dice formula like `2d20+1d6-2`"),
		cmd.WithRest("formula"),
	)...)
	if err != nil {
		return nil, err
	}

	flip, err := cmd.New("flip", func(ctx context.Context, c *cmd.Context, inv *cmd.Invocation) (any, error) {
		times, _ := cmd.ArgAs[int](inv, "times")
		sides := make([]string, 0, times)
		heads := 0
		for range times {
			if rollDie(2) == 1 {
				heads++
				sides = append(sides, "heads")
			} else {
				sides = append(sides, "tails")
			}
		}
		msg := fmt.Sprintf("🪙 %s", strings.Join(sides, ", "))
		if times > 1 {
			msg += fmt.Sprintf(" (%d heads, %d tails)", heads, times-heads)
		}
		return heads, c.Reply(ctx, msg)
	}, options(shared,
		cmd.WithAliases("coin"),
		cmd.WithDescription("Flip a coin"),
		cmd.WithArgs(cmd.Optional("times", rangeInt(1, 20), 1)),
	)...)
	if err != nil {
		return nil, err
	}

	return cmd.NewGroup("dice", []*cmd.Command{roll, flip}, options(shared,
		cmd.WithDescription("Dice and coins"),
	)...)
}

func rangeInt(lo, hi int) flags.Converter {
	return flags.Typed("int", func(s string) (int, error) {
		n, err := flags.Int().Convert(context.Background(), flags.WrappedArg{Data: s})
		if err != nil {
			return 0, err
		}
		v := n.(int)
		if v < lo || v > hi {
			return 0, fmt.Errorf("%d is not between %d and %d", v, lo, hi)
		}
		return v, nil
	})
}
