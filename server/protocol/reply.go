package protocol

import (
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// Result Model
// --------------------------------------------------------------------------

// ResultType enumerates the possible outcomes of executing a command.
type ResultType uint8

const (
	ROK             ResultType = iota // acknowledgement (SET)
	RValue                            // GET hit
	RNotFound                         // GET miss
	RDeleted                          // DEL, carries the removed count
	RKeys                             // KEYS, carries the key snapshot
	RInt                              // integer reply (LPUSH length)
	RList                             // array reply (LRANGE)
	RBye                              // QUIT farewell
	RPong                             // PING
	RUnknownCommand                   // unrecognized input line
	RWrongType                        // operation does not match the value type
	RError                            // internal error, carries a message
)

// Result is the outcome of one command execution, rendered to wire bytes by
// an IReplyEncoder. Only the fields relevant for the given Type are set.
type Result struct {
	Type  ResultType
	Value string   // RValue
	Items []string // RKeys, RList
	N     int      // RDeleted, RInt
	Err   string   // RError
}

// --------------------------------------------------------------------------
// Encoder Interface
// --------------------------------------------------------------------------

// IReplyEncoder renders a Result into the exact newline-terminated wire
// response of one protocol variant. Encoding is pure: no I/O, no locks.
type IReplyEncoder interface {
	// Encode renders the result. The returned bytes always end in '\n'.
	Encode(res Result) []byte
	// GetName returns the name of the encoder's protocol variant.
	GetName() string
}

// NewEncoder creates the reply encoder for the given protocol variant.
func NewEncoder(v Variant) IReplyEncoder {
	if v == VariantTyped {
		return &typedEncoder{}
	}
	return &plainEncoder{}
}

// --------------------------------------------------------------------------
// Plain Encoder
// --------------------------------------------------------------------------

// plainEncoder renders the word-reply format of the base protocol.
type plainEncoder struct{}

func (e *plainEncoder) GetName() string { return "plain" }

func (e *plainEncoder) Encode(res Result) []byte {
	switch res.Type {
	case ROK, RDeleted:
		return []byte("OK\n")
	case RValue:
		return []byte("VALUE " + res.Value + "\n")
	case RNotFound:
		return []byte("NOT_FOUND\n")
	case RKeys:
		if len(res.Items) == 0 {
			return []byte("KEYS (empty)\n")
		}
		return []byte("KEYS " + strings.Join(res.Items, " ") + "\n")
	case RBye:
		return []byte("BYE\n")
	case RPong:
		return []byte("PONG\n")
	case RUnknownCommand:
		return []byte("ERROR unknown command\n")
	case RWrongType:
		return []byte("ERROR wrong type\n")
	default:
		return []byte("ERROR " + res.Err + "\n")
	}
}

// --------------------------------------------------------------------------
// Typed Encoder
// --------------------------------------------------------------------------

// typedEncoder renders the typed-reply format of the extended protocol:
// +simple, $bulk, $-1 null, :integer, *array and -error lines.
type typedEncoder struct{}

func (e *typedEncoder) GetName() string { return "typed" }

func (e *typedEncoder) Encode(res Result) []byte {
	switch res.Type {
	case ROK, RBye:
		return []byte("+OK\n")
	case RPong:
		return []byte("+PONG\n")
	case RValue:
		return []byte("$" + res.Value + "\n")
	case RNotFound:
		return []byte("$-1\n")
	case RDeleted, RInt:
		return []byte(":" + strconv.Itoa(res.N) + "\n")
	case RKeys, RList:
		return encodeArray(res.Items)
	case RUnknownCommand:
		return []byte("-ERROR unknown command\n")
	case RWrongType:
		return []byte("-WRONGTYPE\n")
	default:
		return []byte("-ERROR " + res.Err + "\n")
	}
}

// encodeArray renders *<n> followed by n newline-joined $item lines.
func encodeArray(items []string) []byte {
	var sb strings.Builder
	sb.WriteString("*")
	sb.WriteString(strconv.Itoa(len(items)))
	sb.WriteString("\n")
	for _, item := range items {
		sb.WriteString("$")
		sb.WriteString(item)
		sb.WriteString("\n")
	}
	return []byte(sb.String())
}
