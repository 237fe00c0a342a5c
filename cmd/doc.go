// Package cmd implements the command-line interface for the linekv server.
// It provides a hierarchical command structure with operations for running
// the server and interacting with it as a client.
//
// The package is organized into several subpackages:
//
//   - kv: Commands for key-value operations (get, set, delete, etc.) and the perf benchmark
//   - serve: Commands for starting and configuring the linekv server
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See linekv -help for a list of all commands.
package cmd
