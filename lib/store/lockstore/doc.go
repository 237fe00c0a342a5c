// Package lockstore implements the store.IStore interface with a plain map
// guarded by a single sync.RWMutex.
//
// This is the reference implementation of the reader/writer exclusion
// contract: Get, Keys and LRange acquire the lock shared and may run
// concurrently with each other, while Set, Delete and LPush acquire it
// exclusively. A multi-key Delete holds the write lock for the whole batch,
// so a concurrent reader sees either none or all of the batch removed, but
// no rollback is attempted on partial input (absent keys are skipped).
//
// The implementation is intentionally simple and serves as the default
// store for the server. For a lock-free alternative with the same
// single-key semantics see the shardstore package.
package lockstore
