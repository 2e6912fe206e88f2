// Package httputil provides shared HTTP response/request utilities for handlers.
//
// Every handler should use these helpers instead of writing raw
// http.ResponseWriter calls, so all endpoints share the same JSON envelope.
package httputil
