package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidAssetType is returned when an asset type is not one of the known collections.
	ErrInvalidAssetType = errors.New("invalid asset type")

	// ErrInvalidStyleKind is returned when a style is neither an image nor a text style.
	ErrInvalidStyleKind = errors.New("invalid style kind")

	// ErrInvalidTaskStatus is returned when a task status is not valid.
	ErrInvalidTaskStatus = errors.New("invalid task status")

	// ErrInvalidTransition is returned when a task status change would violate
	// the submitted -> processing -> terminal ordering.
	ErrInvalidTransition = errors.New("invalid task status transition")

	// ErrEmptyTargetID is returned when a generation target has no id.
	ErrEmptyTargetID = errors.New("target ID cannot be empty")

	// ErrEmptyTaskID is returned when a generation task has no remote task id.
	ErrEmptyTaskID = errors.New("task ID cannot be empty")
)
