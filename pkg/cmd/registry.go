package cmd

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrDuplicateCommand is returned when a name or alias is already taken.
var ErrDuplicateCommand = errors.New("duplicate command name")

// Registry stores top-level commands by name and alias. It does not dispatch;
// the Handler looks commands up and invokes them. Register everything during
// startup: the registry is read concurrently afterwards and is not locked.
type Registry struct {
	commands        map[string]*Command
	caseInsensitive bool
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// CaseInsensitive makes lookups ignore case.
func CaseInsensitive() RegistryOption {
	return func(r *Registry) { r.caseInsensitive = true }
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{commands: make(map[string]*Command)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a top-level command under its name and aliases.
func (r *Registry) Register(c *Command) error {
	if c.parent != nil {
		return fmt.Errorf("command %s is a subcommand of %s", c.Name, c.parent.Name)
	}
	keys := make([]string, 0, len(c.Aliases)+1)
	for _, n := range c.names() {
		k := r.key(n)
		if existing, ok := r.commands[k]; ok {
			return fmt.Errorf("%q (used by %s): %w", n, existing.Name, ErrDuplicateCommand)
		}
		keys = append(keys, k)
	}
	for _, k := range keys {
		r.commands[k] = c
	}
	return nil
}

// MustRegister registers commands and panics on the first error.
func (r *Registry) MustRegister(cmds ...*Command) {
	for _, c := range cmds {
		if err := r.Register(c); err != nil {
			panic(err)
		}
	}
}

// Get returns the command invoked as name, or *CommandNotFound.
func (r *Registry) Get(name string) (*Command, error) {
	if c, ok := r.commands[r.key(name)]; ok {
		return c, nil
	}
	return nil, &CommandNotFound{Name: name}
}

// Subcommand returns the child of parent invoked as name, following the
// registry's case rule, or nil.
func (r *Registry) Subcommand(parent *Command, name string) *Command {
	if !r.caseInsensitive {
		return parent.Subcommand(name)
	}
	for _, child := range parent.children {
		for _, n := range child.names() {
			if strings.EqualFold(n, name) {
				return child
			}
		}
	}
	return nil
}

// All returns every registered command once, sorted by name.
func (r *Registry) All() []*Command {
	seen := make(map[*Command]bool, len(r.commands))
	list := make([]*Command, 0, len(r.commands))
	for _, c := range r.commands {
		if seen[c] {
			continue
		}
		seen[c] = true
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list
}

// Walk calls fn for every command and subcommand, parents first.
func (r *Registry) Walk(fn func(*Command)) {
	var visit func(*Command)
	visit = func(c *Command) {
		fn(c)
		for _, child := range c.children {
			visit(child)
		}
	}
	for _, c := range r.All() {
		visit(c)
	}
}

func (r *Registry) key(name string) string {
	if r.caseInsensitive {
		return strings.ToLower(name)
	}
	return name
}
