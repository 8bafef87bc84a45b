// Package middleware holds callback wrappers shared by the bundled commands.
package middleware

import (
	"context"
	"time"

	"github.com/keshon/vexilux/pkg/cmd"
)

// WithTimeout bounds how long a callback may run. The callback sees a
// context that is cancelled once d has passed.
func WithTimeout(d time.Duration) cmd.Middleware {
	return func(next cmd.Callback) cmd.Callback {
		return func(ctx context.Context, c *cmd.Context, inv *cmd.Invocation) (any, error) {
			if d <= 0 {
				return next(ctx, c, inv)
			}
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next(ctx, c, inv)
		}
	}
}

// Default is the middleware stack every bundled command gets.
func Default(timeout time.Duration) []cmd.Option {
	return []cmd.Option{cmd.WithMiddleware(WithCommandLogger(), WithTimeout(timeout))}
}
