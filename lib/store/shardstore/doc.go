// Package shardstore implements the store.IStore interface on top of the
// sharded concurrent map from github.com/puzpuzpuz/xsync.
//
// Unlike the lockstore package there is no store-wide lock: xsync.MapOf
// shards keys internally and per-key mutations go through its atomic
// Compute primitive. Operations remain linearizable at single-key
// granularity, which is exactly the guarantee the IStore contract asks for;
// only multi-key operations (Delete with several keys, the Keys snapshot)
// lose the batch-level view the lockstore's exclusive lock provides.
//
// Selected with --store=shard on the serve command.
package shardstore
