package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// Protocol Variant
// --------------------------------------------------------------------------

// Variant selects one of the two wire formats. A server instance speaks
// exactly one variant; they are never mixed on one connection.
type Variant uint8

const (
	// VariantPlain is the word-reply protocol: OK, VALUE v, NOT_FOUND, ...
	// It serves the base verbs only (SET, GET, DEL, KEYS, QUIT).
	VariantPlain Variant = iota
	// VariantTyped is the typed-reply protocol: +OK, $v, :n, *n, -ERROR ...
	// It additionally serves LPUSH, LRANGE and PING.
	VariantTyped
)

func (v Variant) String() string {
	switch v {
	case VariantPlain:
		return "plain"
	case VariantTyped:
		return "typed"
	default:
		return "unknown"
	}
}

// ParseVariant converts a configuration string to a Variant.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(s) {
	case "plain", "":
		return VariantPlain, nil
	case "typed":
		return VariantTyped, nil
	default:
		return VariantPlain, fmt.Errorf("invalid protocol variant %q (expected plain or typed)", s)
	}
}

// --------------------------------------------------------------------------
// Command Model
// --------------------------------------------------------------------------

// CmdType enumerates the parsed command variants.
type CmdType uint8

const (
	CmdNone         CmdType = iota // empty input line, nothing to dispatch
	CmdUnrecognized                // unknown verb or wrong operand count
	CmdSet
	CmdGet
	CmdDel
	CmdKeys
	CmdQuit
	CmdLPush
	CmdLRange
	CmdPing
)

// String returns the wire verb for known commands and a placeholder for
// the pseudo types. Used for logging and metric labels.
func (t CmdType) String() string {
	switch t {
	case CmdSet:
		return "SET"
	case CmdGet:
		return "GET"
	case CmdDel:
		return "DEL"
	case CmdKeys:
		return "KEYS"
	case CmdQuit:
		return "QUIT"
	case CmdLPush:
		return "LPUSH"
	case CmdLRange:
		return "LRANGE"
	case CmdPing:
		return "PING"
	case CmdNone:
		return "none"
	default:
		return "unrecognized"
	}
}

// Command is one parsed input line. Only the fields the wire grammar
// supplies for the given Type are set.
type Command struct {
	Type  CmdType
	Key   string   // SET, GET, LPUSH, LRANGE
	Value string   // SET: remainder of the line after the key, spaces kept
	Args  []string // DEL: keys, LPUSH: values
	Start int      // LRANGE
	Stop  int      // LRANGE
	Raw   string   // the trimmed input line, for diagnostics
}

// Parse parses one line of client input into a Command. The verb is
// case-insensitive and leading/trailing whitespace is trimmed first. An
// empty line parses to CmdNone; a known verb with the wrong operand count
// and any verb outside the variant's command set parse to CmdUnrecognized.
func Parse(line string, v Variant) Command {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{Type: CmdNone}
	}

	fields := strings.Fields(line)
	verb := strings.ToUpper(fields[0])

	switch verb {
	case "SET":
		// the value is the remainder of the line after the key and may
		// contain spaces, so split on at most two separators
		parts := strings.SplitN(line, " ", 3)
		if len(parts) < 3 {
			return Command{Type: CmdUnrecognized, Raw: line}
		}
		return Command{Type: CmdSet, Key: parts[1], Value: parts[2], Raw: line}

	case "GET":
		if len(fields) != 2 {
			return Command{Type: CmdUnrecognized, Raw: line}
		}
		return Command{Type: CmdGet, Key: fields[1], Raw: line}

	case "DEL":
		if len(fields) < 2 {
			return Command{Type: CmdUnrecognized, Raw: line}
		}
		return Command{Type: CmdDel, Args: fields[1:], Raw: line}

	case "KEYS":
		if len(fields) != 1 {
			return Command{Type: CmdUnrecognized, Raw: line}
		}
		return Command{Type: CmdKeys, Raw: line}

	case "QUIT":
		if len(fields) != 1 {
			return Command{Type: CmdUnrecognized, Raw: line}
		}
		return Command{Type: CmdQuit, Raw: line}

	case "LPUSH":
		if v != VariantTyped {
			return Command{Type: CmdUnrecognized, Raw: line}
		}
		if len(fields) < 3 {
			return Command{Type: CmdUnrecognized, Raw: line}
		}
		return Command{Type: CmdLPush, Key: fields[1], Args: fields[2:], Raw: line}

	case "LRANGE":
		if v != VariantTyped {
			return Command{Type: CmdUnrecognized, Raw: line}
		}
		if len(fields) != 4 {
			return Command{Type: CmdUnrecognized, Raw: line}
		}
		return Command{
			Type:  CmdLRange,
			Key:   fields[1],
			Start: atoiOr(fields[2], 0),
			Stop:  atoiOr(fields[3], -1),
			Raw:   line,
		}

	case "PING":
		if v != VariantTyped || len(fields) != 1 {
			return Command{Type: CmdUnrecognized, Raw: line}
		}
		return Command{Type: CmdPing, Raw: line}

	default:
		return Command{Type: CmdUnrecognized, Raw: line}
	}
}

// atoiOr falls back to def on malformed input. LRANGE treats bad indices
// as the full-range defaults rather than rejecting the command.
func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
