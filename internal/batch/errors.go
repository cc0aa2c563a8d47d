package batch

import "errors"

var (
	// ErrTargetBusy indicates the target already has a generation call in flight.
	ErrTargetBusy = errors.New("target is already being generated")

	// ErrSchedulerClosed is returned for work submitted after Shutdown.
	ErrSchedulerClosed = errors.New("scheduler is shut down")

	// ErrInvalidBatch indicates a batch request that cannot be scheduled.
	ErrInvalidBatch = errors.New("invalid batch")
)
