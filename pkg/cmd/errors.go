package cmd

import (
	"fmt"
	"strings"
	"time"
)

// CommandError is implemented by every error the framework raises while
// handling a message.
type CommandError interface {
	error
	commandError()
}

// TooManyArguments means the input left a remainder nothing could consume.
type TooManyArguments struct {
	Command *Command
}

func (e *TooManyArguments) Error() string {
	return fmt.Sprintf("too many arguments given to %s", e.Command.QualifiedName())
}

// NotEnoughArguments means required arguments were not supplied.
type NotEnoughArguments struct {
	Command *Command
	Missing []string
}

func (e *NotEnoughArguments) Error() string {
	if len(e.Missing) == 0 {
		return fmt.Sprintf("not enough arguments given to %s", e.Command.QualifiedName())
	}
	return fmt.Sprintf("%s is missing required arguments: %s",
		e.Command.QualifiedName(), strings.Join(e.Missing, ", "))
}

// CommandSyntaxError means an argument or flag value could not be converted.
type CommandSyntaxError struct {
	Command *Command
	Arg     string // positional or flag name
	Raw     string
	Flag    bool
	Err     error
}

func (e *CommandSyntaxError) Error() string {
	if e.Arg == "" {
		return fmt.Sprintf("invalid input %q: %v", e.Raw, e.Err)
	}
	kind := "argument"
	if e.Flag {
		kind = "flag"
	}
	return fmt.Sprintf("invalid %s %s %q: %v", kind, e.Arg, e.Raw, e.Err)
}

func (e *CommandSyntaxError) Unwrap() error { return e.Err }

// CommandNotFound means no command answers to the invoked name.
type CommandNotFound struct {
	Name string
}

func (e *CommandNotFound) Error() string {
	return fmt.Sprintf("command %q not found", e.Name)
}

// CheckKind classifies a CheckFailure.
type CheckKind int

const (
	CheckCustom CheckKind = iota
	OnlyInGuild
	OnlyInDM
	NotOwner
	MissingPermissions
	OnCooldown
)

func (k CheckKind) String() string {
	switch k {
	case OnlyInGuild:
		return "guild only"
	case OnlyInDM:
		return "dm only"
	case NotOwner:
		return "not owner"
	case MissingPermissions:
		return "missing permissions"
	case OnCooldown:
		return "on cooldown"
	default:
		return "check failed"
	}
}

// CheckFailure means a check refused the invocation.
type CheckFailure struct {
	Kind       CheckKind
	Command    *Command
	Reason     string
	RetryAfter time.Duration // set for OnCooldown
	Err        error
}

func (e *CheckFailure) Error() string {
	switch {
	case e.Kind == OnCooldown:
		return fmt.Sprintf("on cooldown, retry in %s", e.RetryAfter.Round(100*time.Millisecond))
	case e.Reason != "":
		return e.Reason
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *CheckFailure) Unwrap() error { return e.Err }

// CommandInvocationError wraps an error (or recovered panic) escaping a
// command's callback that is not already a CommandError.
type CommandInvocationError struct {
	Command  *Command
	TypeName string
	Err      error
}

func (e *CommandInvocationError) Error() string {
	return fmt.Sprintf("command %s raised %s: %v", e.Command.QualifiedName(), e.TypeName, e.Err)
}

func (e *CommandInvocationError) Unwrap() error { return e.Err }

func (*TooManyArguments) commandError()       {}
func (*NotEnoughArguments) commandError()     {}
func (*CommandSyntaxError) commandError()     {}
func (*CommandNotFound) commandError()        {}
func (*CheckFailure) commandError()           {}
func (*CommandInvocationError) commandError() {}
