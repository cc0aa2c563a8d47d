// Package api exposes the generation orchestration core over HTTP.
//
// Handlers translate HTTP requests into scheduler and poller calls and map
// their errors to status codes. Progress and task updates are pushed to
// clients over a websocket event stream, so a client that navigates away and
// reconnects picks up where it left off.
package api
