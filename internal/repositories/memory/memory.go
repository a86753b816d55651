// Package memory provides in-memory implementations of the repository
// interfaces for tests. The implementations mirror the MongoDB semantics
// the services rely on: the (contestId, seatNumber) uniqueness constraint,
// conditional winner stamping, the draw-completed guard and the atomic
// wallet-balance adjustment.
package memory
