// Package server implements the TCP front end: an acceptor that binds the
// listen address and turns each accepted connection into a unit of work, a
// per-connection session loop that reads lines, dispatches them against the
// shared store and writes the rendered reply, and a graceful shutdown path
// that stops accepting, wakes blocked reads and drains the worker pool.
//
// Two scheduling modes implement the same contract: ModePool runs sessions
// as jobs on a fixed-size worker pool (bounded parallelism, excess
// connections queue), ModeSpawn runs each session on its own goroutine.
// The store is the only resource shared between sessions and is always
// accessed through its IStore interface.
package server
