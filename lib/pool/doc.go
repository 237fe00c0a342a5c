// Package pool implements a fixed-size worker pool over a bounded job
// queue. The server uses it to cap the number of connections served in
// parallel: each accepted connection is submitted as one job and handled by
// whichever worker becomes free first.
//
// Failure isolation is per job: a panicking job is logged and counted, the
// worker survives. Shutdown closes the queue so idle workers observe
// closure and exit, then waits for in-flight jobs to finish.
package pool
