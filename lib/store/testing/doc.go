// Package testing provides a reusable conformance suite for store.IStore
// implementations. Implementation packages invoke RunStoreTests from their
// own test files, so every backend is checked against the same contract:
// round-trips, delete counting, key snapshots, list semantics with negative
// indices, WRONGTYPE conditions and concurrent access.
package testing
