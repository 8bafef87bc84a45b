package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/keshon/vexilux/pkg/argsplit"
)

// Handler turns messages into command invocations.
type Handler struct {
	Commands  *Registry
	Prefix    PrefixResolver
	Splitter  argsplit.Splitter
	Events    *Dispatcher
	Responder Responder

	// Checks run before every command's own checks.
	Checks     []Check
	Owners     []string
	IgnoreBots bool
}

// NewHandler returns a handler using the "!" prefix, whitespace splitting and
// ignoring bot authors.
func NewHandler(commands *Registry) *Handler {
	return &Handler{
		Commands:   commands,
		Prefix:     StaticPrefix("!"),
		Splitter:   argsplit.Whitespace{},
		Events:     &Dispatcher{},
		IgnoreBots: true,
	}
}

// ProcessMessage handles one message end to end. Messages that are not
// command invocations are ignored. Every failure is dispatched as an
// ErrorEvent (or logged when nobody listens) and also returned.
func (h *Handler) ProcessMessage(ctx context.Context, msg Message, data any) error {
	if h.IgnoreBots && msg.AuthorIsBot {
		return nil
	}

	resolve := h.Prefix
	if resolve == nil {
		resolve = StaticPrefix("!")
	}
	candidates, err := resolve(ctx, msg)
	if err != nil {
		err = fmt.Errorf("resolve prefix: %w", err)
		h.fail(ctx, &ErrorEvent{Err: err, Message: msg})
		return err
	}
	prefix, ok := matchPrefix(msg.Content, candidates)
	if !ok {
		return nil
	}

	content := msg.Content[len(prefix):]
	if strings.TrimSpace(content) == "" {
		return nil
	}

	invokedWith, args := argsplit.SplitFirst(content)
	command, err := h.Commands.Get(invokedWith)
	if err != nil {
		h.fail(ctx, &ErrorEvent{Err: err, Message: msg})
		return err
	}

	for len(command.children) > 0 && args != "" {
		next, rest := argsplit.SplitFirst(args)
		sub := h.Commands.Subcommand(command, next)
		if sub == nil {
			break
		}
		command, args = sub, rest
	}

	c := &Context{
		ID:          uuid.Must(uuid.NewV7()).String(),
		Message:     msg,
		Prefix:      prefix,
		InvokedWith: invokedWith,
		Command:     command,
		Data:        data,
		Owners:      h.Owners,
		Responder:   h.Responder,
	}
	h.dispatch(ctx, &InvocationEvent{Context: c})

	result, err := h.run(ctx, command, c, args)
	if err != nil {
		h.fail(ctx, &ErrorEvent{Err: err, Message: msg, Context: c, Command: command})
		return err
	}
	h.dispatch(ctx, &CompletionEvent{Context: c, Result: result})
	return nil
}

// run resolves, checks and invokes command. A panic anywhere in it (hooks,
// converters, checks, the callback) ends this invocation only.
func (h *Handler) run(ctx context.Context, command *Command, c *Context, args string) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERR] [%s] Recovered panic in command %s: %v", c.ID, command.QualifiedName(), r)
			result = nil
			err = &CommandInvocationError{Command: command, TypeName: "panic", Err: fmt.Errorf("%v", r)}
		}
	}()

	if command.BeforeInvoke != nil {
		if err := command.BeforeInvoke(ctx, c); err != nil {
			return nil, wrapInvocationError(command, err)
		}
	}

	positional, kw, err := ResolveArgs(ctx, c, command, args, h.Splitter)
	if err != nil {
		return nil, err
	}
	if err := EvaluateChecks(ctx, command, c, h.Checks...); err != nil {
		return nil, err
	}

	result, err = Invoke(ctx, command, c, positional, kw)
	if err != nil {
		return nil, wrapInvocationError(command, err)
	}

	if command.AfterInvoke != nil {
		if err := command.AfterInvoke(ctx, c); err != nil {
			return nil, wrapInvocationError(command, err)
		}
	}
	return result, nil
}

// wrapInvocationError wraps anything that is not already a CommandError.
func wrapInvocationError(command *Command, err error) error {
	var ce CommandError
	if errors.As(err, &ce) {
		return err
	}
	return &CommandInvocationError{
		Command:  command,
		TypeName: strings.TrimPrefix(fmt.Sprintf("%T", err), "*"),
		Err:      err,
	}
}

func (h *Handler) dispatch(ctx context.Context, ev Event) bool {
	if h.Events == nil {
		return false
	}
	return h.Events.Dispatch(ctx, ev)
}

func (h *Handler) fail(ctx context.Context, ev *ErrorEvent) {
	if h.dispatch(ctx, ev) {
		return
	}
	if ev.Context != nil {
		log.Printf("[ERR] [%s] %s: %v", ev.Context.ID, ev.Command.QualifiedName(), ev.Err)
		return
	}
	log.Printf("[ERR] Message %s: %v", ev.Message.ID, ev.Err)
}
