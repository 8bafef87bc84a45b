package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/keshon/vexilux/pkg/cmd"
)

// DescribeError turns a dispatch error into a message fit for the user. It
// returns "" for errors that should stay silent.
func DescribeError(err error) string {
	var (
		notFound   *cmd.CommandNotFound
		tooMany    *cmd.TooManyArguments
		notEnough  *cmd.NotEnoughArguments
		syntax     *cmd.CommandSyntaxError
		check      *cmd.CheckFailure
		invocation *cmd.CommandInvocationError
	)

	switch {
	case errors.As(err, &notFound):
		return ""
	case errors.As(err, &tooMany):
		return fmt.Sprintf("Too many arguments. Usage: `%s`", tooMany.Command.Signature())
	case errors.As(err, &notEnough):
		return fmt.Sprintf("Missing %s. Usage: `%s`", strings.Join(notEnough.Missing, ", "), notEnough.Command.Signature())
	case errors.As(err, &syntax):
		if syntax.Arg == "" {
			return fmt.Sprintf("I couldn't read that: %v", syntax.Err)
		}
		name := syntax.Arg
		if syntax.Flag {
			name = "--" + strings.TrimLeft(name, "-")
		}
		return fmt.Sprintf("Invalid value for `%s`: %v", name, syntax.Err)
	case errors.As(err, &check):
		if check.Kind == cmd.OnCooldown {
			return fmt.Sprintf("⏳ Slow down! Try again in %s.", check.RetryAfter.Round(time.Second).String())
		}
		return "⛔ " + check.Error()
	case errors.As(err, &invocation):
		return fmt.Sprintf("Error running command: %v", invocation.Err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

// ReplyErrors is a listener that logs failed invocations and tells the user
// what went wrong.
func ReplyErrors(ctx context.Context, ev cmd.Event) {
	e, ok := ev.(*cmd.ErrorEvent)
	if !ok {
		return
	}

	var invocation *cmd.CommandInvocationError
	switch {
	case e.Context == nil:
		log.Printf("[DEBUG] Ignored message %s: %v", e.Message.ID, e.Err)
		return
	case errors.As(e.Err, &invocation):
		log.Printf("[ERR] [%s] Command %s failed: %v", e.Context.ID, e.Command.QualifiedName(), e.Err)
	default:
		log.Printf("[INFO] [%s] Command %s rejected: %v", e.Context.ID, e.Command.QualifiedName(), e.Err)
	}

	msg := DescribeError(e.Err)
	if msg == "" {
		return
	}
	if err := e.Context.Reply(ctx, msg); err != nil {
		log.Printf("[WARN] [%s] Failed to report error to user: %v", e.Context.ID, err)
	}
}
