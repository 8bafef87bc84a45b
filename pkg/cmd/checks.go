package cmd

import (
	"context"
	"errors"
)

// Check decides whether an invocation may proceed. Returning a *CheckFailure
// lets the caller see why; any other error is wrapped into one.
type Check func(ctx context.Context, c *Context) error

// GuildOnly refuses direct messages.
func GuildOnly() Check {
	return func(_ context.Context, c *Context) error {
		if !c.InGuild() {
			return &CheckFailure{Kind: OnlyInGuild, Command: c.Command, Reason: "this command cannot be used in private messages"}
		}
		return nil
	}
}

// DMOnly refuses guild messages.
func DMOnly() Check {
	return func(_ context.Context, c *Context) error {
		if c.InGuild() {
			return &CheckFailure{Kind: OnlyInDM, Command: c.Command, Reason: "this command can only be used in private messages"}
		}
		return nil
	}
}

// OwnerOnly restricts a command to the configured owners.
func OwnerOnly() Check {
	return func(_ context.Context, c *Context) error {
		if !c.IsOwner() {
			return &CheckFailure{Kind: NotOwner, Command: c.Command, Reason: "you do not own this bot"}
		}
		return nil
	}
}

// EvaluateChecks runs the global checks, then the command's cooldown, then
// the command's own checks, stopping at the first failure.
func EvaluateChecks(ctx context.Context, command *Command, c *Context, global ...Check) error {
	for _, check := range global {
		if err := runCheck(ctx, check, command, c); err != nil {
			return err
		}
	}
	if command.Cooldown != nil {
		if err := command.Cooldown.Check(ctx, c); err != nil {
			return err
		}
	}
	for _, check := range command.Checks {
		if err := runCheck(ctx, check, command, c); err != nil {
			return err
		}
	}
	return nil
}

func runCheck(ctx context.Context, check Check, command *Command, c *Context) error {
	err := check(ctx, c)
	if err == nil {
		return nil
	}
	var cf *CheckFailure
	if errors.As(err, &cf) {
		return err
	}
	return &CheckFailure{Kind: CheckCustom, Command: command, Err: err}
}
