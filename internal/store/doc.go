// Package store defines the read-only asset library interfaces consumed by
// the prompt composer, together with an in-memory implementation used for
// development and tests. Database-backed implementations live under
// internal/platform.
package store
