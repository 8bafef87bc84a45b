package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/keshon/vexilux/pkg/flags"
)

// Arg declares one positional argument.
type Arg struct {
	Name      string
	Converter flags.Converter
	Optional  bool
	Default   any
}

// Required declares a mandatory positional argument.
func Required(name string, conv flags.Converter) Arg {
	return Arg{Name: name, Converter: conv}
}

// Optional declares a positional argument that falls back to def.
func Optional(name string, conv flags.Converter, def any) Arg {
	return Arg{Name: name, Converter: conv, Optional: true, Default: def}
}

// Hook runs before or after a command's callback.
type Hook func(ctx context.Context, c *Context) error

// Command is a prefix command. Build it with New; it must not be modified
// once registered.
type Command struct {
	Name        string
	Aliases     []string
	Description string
	Args        []Arg

	// Rest names the catch-all keyword argument that absorbs the whole
	// remainder when the command declares no flags.
	Rest         string
	RestOptional bool

	// AllowExtra accepts and ignores a remainder nothing else consumes.
	AllowExtra bool

	Checks       []Check
	Cooldown     *CooldownManager
	BeforeInvoke Hook
	AfterInvoke  Hook
	Hidden       bool

	callback   Callback
	middleware []Middleware
	flags      *flags.Registry
	parent     *Command
	children   []*Command
}

// Option configures a Command in New.
type Option func(*Command) error

// New builds a command. Flags and subcommands are validated here so that a
// bad declaration fails at startup rather than on the first message.
func New(name string, callback Callback, opts ...Option) (*Command, error) {
	if name == "" || strings.ContainsFunc(name, unicode.IsSpace) {
		return nil, fmt.Errorf("invalid command name %q", name)
	}

	c := &Command{Name: name, callback: callback, flags: flags.NewRegistry()}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("command %s: %w", name, err)
		}
	}

	if c.callback == nil {
		if len(c.children) == 0 {
			return nil, fmt.Errorf("command %s: no callback and no subcommands", name)
		}
		c.callback = listSubcommands
		c.AllowExtra = true
	}

	optional := false
	for _, a := range c.Args {
		if a.Name == "" {
			return nil, fmt.Errorf("command %s: argument without a name", name)
		}
		if a.Optional {
			optional = true
		} else if optional {
			return nil, fmt.Errorf("command %s: required argument %s follows an optional one", name, a.Name)
		}
	}
	return c, nil
}

// MustNew is New for package-level command tables.
func MustNew(name string, callback Callback, opts ...Option) *Command {
	c, err := New(name, callback, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// NewGroup builds a command whose own callback lists its subcommands.
func NewGroup(name string, children []*Command, opts ...Option) (*Command, error) {
	return New(name, nil, append([]Option{WithSubcommands(children...)}, opts...)...)
}

func WithAliases(aliases ...string) Option {
	return func(c *Command) error {
		c.Aliases = append(c.Aliases, aliases...)
		return nil
	}
}

func WithDescription(desc string) Option {
	return func(c *Command) error {
		c.Description = desc
		return nil
	}
}

func WithArgs(args ...Arg) Option {
	return func(c *Command) error {
		c.Args = append(c.Args, args...)
		return nil
	}
}

// WithRest declares a required catch-all keyword argument.
func WithRest(name string) Option {
	return func(c *Command) error {
		c.Rest = name
		c.RestOptional = false
		return nil
	}
}

// WithOptionalRest declares a catch-all keyword argument that may be empty.
func WithOptionalRest(name string) Option {
	return func(c *Command) error {
		c.Rest = name
		c.RestOptional = true
		return nil
	}
}

// AllowExtraArguments lets a command ignore trailing text.
func AllowExtraArguments() Option {
	return func(c *Command) error {
		c.AllowExtra = true
		return nil
	}
}

func WithChecks(checks ...Check) Option {
	return func(c *Command) error {
		c.Checks = append(c.Checks, checks...)
		return nil
	}
}

// WithCooldown limits the command to uses invocations per period and bucket.
func WithCooldown(uses int, period time.Duration, bucket Bucket) Option {
	return func(c *Command) error {
		if uses < 1 || period <= 0 {
			return fmt.Errorf("invalid cooldown %d per %s", uses, period)
		}
		c.Cooldown = NewCooldown(uses, period, bucket)
		return nil
	}
}

// WithFlag declares a flag. Without options the converter is the identity
// and the flag is not greedy.
func WithFlag(name string, aliases []string, opts ...flags.Option) Option {
	return func(c *Command) error {
		_, err := c.flags.Add(name, aliases, opts...)
		return err
	}
}

// WithSubcommands attaches children. A child keeps its own checks, flags and
// arguments.
func WithSubcommands(children ...*Command) Option {
	return func(c *Command) error {
		for _, child := range children {
			if child.parent != nil && child.parent != c {
				return fmt.Errorf("subcommand %s already belongs to %s", child.Name, child.parent.Name)
			}
			for _, name := range child.names() {
				if c.Subcommand(name) != nil {
					return fmt.Errorf("subcommand name %q: %w", name, ErrDuplicateCommand)
				}
			}
			child.parent = c
			c.children = append(c.children, child)
		}
		return nil
	}
}

// WithMiddleware wraps the callback; the first middleware is the outermost.
func WithMiddleware(mws ...Middleware) Option {
	return func(c *Command) error {
		c.middleware = append(c.middleware, mws...)
		return nil
	}
}

func WithBeforeInvoke(h Hook) Option {
	return func(c *Command) error {
		c.BeforeInvoke = h
		return nil
	}
}

func WithAfterInvoke(h Hook) Option {
	return func(c *Command) error {
		c.AfterInvoke = h
		return nil
	}
}

// Hide keeps the command out of help listings.
func Hide() Option {
	return func(c *Command) error {
		c.Hidden = true
		return nil
	}
}

// Flags returns the command's flag registry. It may be empty but never nil.
func (c *Command) Flags() *flags.Registry { return c.flags }

// HasFlags reports whether at least one flag is declared.
func (c *Command) HasFlags() bool { return c.flags.Len() > 0 }

// Parent returns the group this command belongs to, or nil.
func (c *Command) Parent() *Command { return c.parent }

// Subcommands returns the children in declaration order.
func (c *Command) Subcommands() []*Command {
	out := make([]*Command, len(c.children))
	copy(out, c.children)
	return out
}

// Subcommand returns the child called name (or aliased so), or nil.
func (c *Command) Subcommand(name string) *Command {
	for _, child := range c.children {
		for _, n := range child.names() {
			if n == name {
				return child
			}
		}
	}
	return nil
}

// QualifiedName is the full invocation path, e.g. "dice roll".
func (c *Command) QualifiedName() string {
	if c.parent == nil {
		return c.Name
	}
	return c.parent.QualifiedName() + " " + c.Name
}

// MaximumArguments is the number of positional tokens the command takes.
func (c *Command) MaximumArguments() int { return len(c.Args) }

// MinimumArguments counts required positionals plus a required catch-all.
func (c *Command) MinimumArguments() int {
	n := 0
	for _, a := range c.Args {
		if !a.Optional {
			n++
		}
	}
	if c.Rest != "" && !c.RestOptional {
		n++
	}
	return n
}

// MissingArgs names the required arguments not covered by partial. A
// remainder counts as the catch-all when it is the element after the last
// positional.
func (c *Command) MissingArgs(partial []string) []string {
	var missing []string
	for i, a := range c.Args {
		if i >= len(partial) && !a.Optional {
			missing = append(missing, a.Name)
		}
	}
	if c.Rest != "" && !c.RestOptional && len(partial) <= len(c.Args) {
		missing = append(missing, c.Rest)
	}
	return missing
}

// Signature renders a usage line:
//
//	dice roll <count> [sides=6] -m | --mod [...]
func (c *Command) Signature() string {
	elems := []string{c.QualifiedName()}
	for _, a := range c.Args {
		switch {
		case !a.Optional:
			elems = append(elems, "<"+a.Name+">")
		case a.Default == nil:
			elems = append(elems, "["+a.Name+"]")
		default:
			elems = append(elems, fmt.Sprintf("[%s=%v]", a.Name, a.Default))
		}
	}
	if c.Rest != "" && !c.HasFlags() {
		if c.RestOptional {
			elems = append(elems, "["+c.Rest+"]")
		} else {
			elems = append(elems, "<"+c.Rest+">")
		}
	}
	elems = append(elems, c.flags.Usage()...)
	return strings.Join(elems, " ")
}

func (c *Command) names() []string {
	return append([]string{c.Name}, c.Aliases...)
}

func listSubcommands(ctx context.Context, c *Context, _ *Invocation) (any, error) {
	var names []string
	for _, child := range c.Command.children {
		if !child.Hidden {
			names = append(names, child.Name)
		}
	}
	if len(names) == 0 {
		return nil, errors.New("no subcommands available")
	}
	msg := fmt.Sprintf("Usage: `%s <%s>`", c.Command.QualifiedName(), strings.Join(names, "|"))
	return nil, c.Reply(ctx, msg)
}
