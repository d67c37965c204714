// Package middleware holds the http.Handler wrappers shared by the REST and
// websocket endpoints.
package middleware

import "net/http"

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain composes mws so that the first one sees the request first:
// Chain(a, b)(h) serves a(b(h)). With no arguments it returns h unchanged,
// which lets optional middleware such as the rate limiter be switched off.
func Chain(mws ...Middleware) Middleware {
	return func(h http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			h = mws[i](h)
		}
		return h
	}
}
