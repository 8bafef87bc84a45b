// Package commands holds the bundled prefix commands.
package commands

import (
	"fmt"

	"github.com/keshon/vexilux/pkg/cmd"
)

// Help categories, listed in this order.
const (
	CategoryInformation = "🕯️ Information"
	CategoryUtilities   = "📢 Utilities"
	CategoryGameplay    = "🎲 Gameplay"
	CategoryModeration  = "🛡️ Moderation"
)

var categoryWeights = map[string]int{
	CategoryInformation: 0,
	CategoryUtilities:   10,
	CategoryGameplay:    20,
	CategoryModeration:  30,
}

// Builder constructs a command from the shared options and names its help
// category. Transports use it to add commands of their own, such as whois.
type Builder func(shared ...cmd.Option) (c *cmd.Command, category string, err error)

// Register builds every bundled command, then extras, with the shared
// options (usually middleware) and adds them to reg.
func Register(reg *cmd.Registry, shared []cmd.Option, extras ...Builder) error {
	builders := append([]Builder{
		in(CategoryInformation, newPing),
		in(CategoryInformation, newAbout),
		in(CategoryUtilities, newSay),
		in(CategoryUtilities, newEcho),
		in(CategoryUtilities, newWhen),
		in(CategoryGameplay, newRoll),
		in(CategoryGameplay, newDice),
	}, extras...)

	cats := map[string]string{}
	for _, build := range builders {
		c, category, err := build(shared...)
		if err != nil {
			return err
		}
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("register %s: %w", c.Name, err)
		}
		cats[c.Name] = category
	}

	help, err := newHelp(reg, cats, shared...)
	if err != nil {
		return err
	}
	cats[help.Name] = CategoryInformation
	return reg.Register(help)
}

func in(category string, build func(...cmd.Option) (*cmd.Command, error)) Builder {
	return func(shared ...cmd.Option) (*cmd.Command, string, error) {
		c, err := build(shared...)
		return c, category, err
	}
}

func options(shared []cmd.Option, own ...cmd.Option) []cmd.Option {
	return append(own, shared...)
}
