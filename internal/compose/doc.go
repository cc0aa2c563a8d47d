// Package compose turns a generation target into a ready-to-send request:
// it resolves a shot's free-text names against the asset libraries into an
// ordered reference set, applies style precedence, and builds the prompt
// from fixed-order segments. Nothing in this package returns an error;
// unresolved pieces are omitted.
package compose
