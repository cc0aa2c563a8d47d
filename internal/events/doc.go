// Package events provides types and interfaces for an event-driven architecture.
//
// The batch scheduler and the task poller emit events without knowing who
// consumes them. Outer surfaces (the HTTP event stream, logging, tests)
// register handlers with an emitter to observe progress without holding a
// run handle or a task binding.
//
// The primary components are:
//   - Event: a typed, JSON-encoded notification
//   - EventHandler: interface for components that can handle events
//   - EventEmitter: interface for components that can emit events
package events
