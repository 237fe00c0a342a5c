// Package protocol implements the line-oriented wire protocol: parsing one
// line of client input into a Command, and rendering a command's Result
// into the exact response bytes.
//
// Two reply formats exist behind the IReplyEncoder interface. The plain
// format answers with words (OK, VALUE v, NOT_FOUND, KEYS ..., BYE, ERROR
// unknown command) and serves the base verbs SET, GET, DEL, KEYS and QUIT.
// The typed format answers with sigil-prefixed replies (+OK, $value, $-1,
// :n, *n arrays, -WRONGTYPE, -ERROR ...) and additionally serves LPUSH,
// LRANGE and PING. A server instance is configured for exactly one variant.
//
// Parsing and encoding are pure functions over strings; all I/O and all
// store access happen in the server package.
package protocol
