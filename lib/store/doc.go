// Package store provides the key-value storage abstraction shared by all
// server front ends. A store maps string keys to either a string value or an
// ordered list of strings, and enforces a multi-reader/single-writer
// exclusion contract with standardized error reporting.
//
// The package focuses on:
//   - A unified interface (IStore) for key-value operations across different
//     synchronization strategies
//   - Pluggable implementations through the Factory pattern
//
// Key Components:
//
//   - IStore Interface: The core abstraction defining operations for
//     interacting with the store. All implementations share this common
//     interface, allowing the server to switch between synchronization
//     strategies without code changes. Methods return custom Error values
//     that carry typed return codes, so callers can distinguish a type
//     mismatch (WRONGTYPE) from an internal failure.
//
//   - Error System: A structured error reporting mechanism using typed error
//     codes and descriptive messages. User-level conditions like WRONGTYPE
//     are ordinary return values, never process-terminating.
//
// Implementations:
//
//	The package includes two implementations of the IStore interface:
//
//	- Lock Store (lockstore): A map guarded by a single sync.RWMutex. Read
//	  operations share the lock, write operations hold it exclusively. This
//	  is the reference implementation of the exclusion contract.
//	  Available in the "github.com/SherlockGy/linekv/lib/store/lockstore" package.
//
//	- Shard Store (shardstore): A concurrent implementation built on
//	  xsync.MapOf with per-key atomic updates. There is no global lock;
//	  mutations are linearizable at single-key granularity.
//	  Available in the "github.com/SherlockGy/linekv/lib/store/shardstore" package.
package store
