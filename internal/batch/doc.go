// Package batch runs generation targets against the remote generation
// service with bounded parallelism.
//
// A run partitions its targets into consecutive chunks of the configured
// width. Each chunk is dispatched concurrently and fully settles before the
// next one starts. Stopping a run is cooperative: the flag is checked at chunk
// boundaries only, so a chunk that has started always drains. One item's
// failure never aborts its siblings; failures are counted and reported in the
// run's final summary.
//
// At most one run is active per asset type. Starting a new run for a type
// stops the previous one. Runs for different types are independent.
package batch
