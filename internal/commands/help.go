package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/keshon/vexilux/pkg/cmd"
)

func newHelp(reg *cmd.Registry, cats map[string]string, shared ...cmd.Option) (*cmd.Command, error) {
	return cmd.New("help", func(ctx context.Context, c *cmd.Context, inv *cmd.Invocation) (any, error) {
		if query := inv.Rest(); query != "" {
			target, err := lookup(reg, query)
			if err != nil {
				return nil, err
			}
			msg := describeCommand(c.Prefix, target)
			return msg, c.Reply(ctx, msg)
		}
		msg := buildHelpMessage(c.Prefix, reg.All(), cats)
		return msg, c.Reply(ctx, msg)
	}, options(shared,
		cmd.WithAliases("h", "commands"),
		cmd.WithDescription("Show available commands, or how to use one"),
		cmd.WithOptionalRest("command"),
	)...)
}

// lookup resolves a possibly nested command path such as "dice roll".
func lookup(reg *cmd.Registry, path string) (*cmd.Command, error) {
	parts := strings.Fields(path)
	c, err := reg.Get(parts[0])
	if err != nil {
		return nil, err
	}
	for _, p := range parts[1:] {
		sub := reg.Subcommand(c, p)
		if sub == nil {
			return nil, &cmd.CommandNotFound{Name: c.QualifiedName() + " " + p}
		}
		c = sub
	}
	return c, nil
}

func describeCommand(prefix string, c *cmd.Command) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "`%s%s`\n", prefix, c.Signature())
	if c.Description != "" {
		sb.WriteString(c.Description + "\n")
	}
	if len(c.Aliases) > 0 {
		fmt.Fprintf(&sb, "Aliases: %s\n", strings.Join(c.Aliases, ", "))
	}
	for _, sub := range c.Subcommands() {
		if !sub.Hidden {
			fmt.Fprintf(&sb, "`%s%s` - %s\n", prefix, sub.Signature(), sub.Description)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func buildHelpMessage(prefix string, cmds []*cmd.Command, cats map[string]string) string {
	byCategory := make(map[string][]*cmd.Command)
	for _, c := range cmds {
		if c.Hidden {
			continue
		}
		cat := cats[c.Name]
		byCategory[cat] = append(byCategory[cat], c)
	}

	names := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		names = append(names, cat)
	}
	sort.Slice(names, func(i, j int) bool {
		wi, wj := weight(names[i]), weight(names[j])
		if wi != wj {
			return wi < wj
		}
		return names[i] < names[j]
	})

	var sb strings.Builder
	sb.WriteString("📖 Available Commands\n")
	for _, cat := range names {
		title := cat
		if title == "" {
			title = "Other"
		}
		fmt.Fprintf(&sb, "\n**%s**\n", title)
		for _, c := range byCategory[cat] {
			fmt.Fprintf(&sb, "`%s%s` - %s\n", prefix, c.Name, c.Description)
		}
	}
	fmt.Fprintf(&sb, "\nType `%shelp <command>` for details.", prefix)
	return sb.String()
}

func weight(category string) int {
	if w, ok := categoryWeights[category]; ok {
		return w
	}
	return 1000
}
