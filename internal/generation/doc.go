// Package generation defines the boundary between the orchestration core and
// the remote image/video generation backend. A Client either returns a
// finished Result synchronously or a TaskHandle naming an asynchronous remote
// job whose status is later queried by task id.
package generation
