// Package task polls asynchronous remote generation tasks to completion.
//
// A Poller runs one loop per remote task id. Loops belong to the poller, not
// to any caller, so a screen can go away and come back later to find the
// result already applied or the task still in flight. Callers observe a task
// by binding a sink to its id; updates for a task with no binding are
// dropped without error.
package task
