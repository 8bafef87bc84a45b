package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/keshon/vexilux/pkg/cmd"
	"github.com/keshon/vexilux/pkg/flags"
)

var now = time.Now

func newWhen(shared ...cmd.Option) (*cmd.Command, error) {
	return cmd.New("when", func(ctx context.Context, c *cmd.Context, inv *cmd.Invocation) (any, error) {
		at, hasAt := cmd.FlagAs[time.Time](inv, "at")
		offsets, hasIn := cmd.FlagList[time.Duration](inv, "in")
		if !hasAt && !hasIn {
			return nil, &cmd.NotEnoughArguments{Command: c.Command, Missing: []string{"--at", "--in"}}
		}

		start := now()
		target := start
		if hasAt {
			target = at
		}
		for _, d := range offsets {
			target = target.Add(d)
		}

		note, _ := cmd.FlagAs[string](inv, "note")
		if note == "" {
			note = "That"
		}
		msg := fmt.Sprintf("⏰ %s is %s (%s)", note, target.Format("Mon, 02 Jan 2006 15:04 MST"), relative(target.Sub(start)))
		return target, c.Reply(ctx, msg)
	}, options(shared,
		cmd.WithAliases("remindme"),
		cmd.WithDescription("Work out when something happens, from a date and/or offsets"),
		cmd.WithFlag("at", []string{"--at", "-a"}, flags.WithConverter(flags.Time()), flags.Greedy()),
		cmd.WithFlag("in", []string{"--in", "-i"}, flags.WithConverter(flags.Duration())),
		cmd.WithFlag("note", []string{"--note"}, flags.Greedy()),
	)...)
}

func relative(d time.Duration) string {
	d = d.Round(time.Second)
	switch {
	case d > 0:
		return "in " + d.String()
	case d < 0:
		return (-d).String() + " ago"
	default:
		return "now"
	}
}
