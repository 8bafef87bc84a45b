package cmd

import (
	"context"
	"sync"
)

// Event is something the Handler reports while processing a message.
type Event interface {
	event()
}

// InvocationEvent fires once a command has been found, before checks run.
type InvocationEvent struct {
	Context *Context
}

// CompletionEvent fires after a command finished without error.
type CompletionEvent struct {
	Context *Context
	Result  any
}

// ErrorEvent fires for any failure. Context and Command are nil when the
// failure happened before they were known.
type ErrorEvent struct {
	Err     error
	Message Message
	Context *Context
	Command *Command
}

func (*InvocationEvent) event() {}
func (*CompletionEvent) event() {}
func (*ErrorEvent) event()      {}

// Listener receives events synchronously on the goroutine handling the message.
type Listener func(ctx context.Context, ev Event)

// Dispatcher fans events out to listeners.
type Dispatcher struct {
	mu        sync.RWMutex
	listeners []Listener
}

// Subscribe adds a listener.
func (d *Dispatcher) Subscribe(l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, l)
}

// Dispatch delivers ev to every listener and reports whether there was any.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) bool {
	d.mu.RLock()
	ls := d.listeners
	d.mu.RUnlock()

	for _, l := range ls {
		l(ctx, ev)
	}
	return len(ls) > 0
}
