// Package client implements a small Go client for the line protocol. It is
// used by the kv command-line tool, the perf benchmark and the end-to-end
// tests. The client must be configured with the same protocol variant the
// server speaks; replies of the other variant surface as errors.
package client
