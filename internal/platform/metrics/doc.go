// Package metrics exposes Prometheus instrumentation for the generation
// orchestration core.
//
// A Collector owns its own registry so that tests and multiple servers in one
// process never collide on metric registration. The batch scheduler and the
// task poller depend on the narrow Recorder interface; Nop satisfies it when
// metrics are not wanted.
package metrics
