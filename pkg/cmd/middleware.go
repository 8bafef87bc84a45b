package cmd

// Middleware wraps a callback (logging, timeouts, metrics).
type Middleware func(Callback) Callback

// Apply applies middlewares in order; the first in the list is the outermost.
func Apply(cb Callback, mws ...Middleware) Callback {
	for i := len(mws) - 1; i >= 0; i-- {
		cb = mws[i](cb)
	}
	return cb
}
