package protocol

import (
	"reflect"
	"testing"
)

func TestParsePlain(t *testing.T) {
	cases := []struct {
		line string
		want Command
	}{
		{"SET name Alice", Command{Type: CmdSet, Key: "name", Value: "Alice"}},
		{"set name Alice", Command{Type: CmdSet, Key: "name", Value: "Alice"}},
		{"SET msg Hello World", Command{Type: CmdSet, Key: "msg", Value: "Hello World"}},
		{"  GET name  ", Command{Type: CmdGet, Key: "name"}},
		{"get name", Command{Type: CmdGet, Key: "name"}},
		{"DEL name", Command{Type: CmdDel, Args: []string{"name"}}},
		{"DEL a b c", Command{Type: CmdDel, Args: []string{"a", "b", "c"}}},
		{"KEYS", Command{Type: CmdKeys}},
		{"keys", Command{Type: CmdKeys}},
		{"QUIT", Command{Type: CmdQuit}},
		{"", Command{Type: CmdNone}},
		{"   ", Command{Type: CmdNone}},

		// wrong operand count is unrecognized, not an error
		{"SET key", Command{Type: CmdUnrecognized}},
		{"GET", Command{Type: CmdUnrecognized}},
		{"GET a b", Command{Type: CmdUnrecognized}},
		{"DEL", Command{Type: CmdUnrecognized}},
		{"KEYS extra", Command{Type: CmdUnrecognized}},
		{"FLY me", Command{Type: CmdUnrecognized}},

		// extended verbs are not part of the plain variant
		{"LPUSH l a", Command{Type: CmdUnrecognized}},
		{"LRANGE l 0 -1", Command{Type: CmdUnrecognized}},
		{"PING", Command{Type: CmdUnrecognized}},
	}

	for _, c := range cases {
		got := Parse(c.line, VariantPlain)
		got.Raw = "" // ignore the echoed raw line
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("Parse(%q) = %+v, want %+v", c.line, got, c.want)
		}
	}
}

func TestParseTyped(t *testing.T) {
	cases := []struct {
		line string
		want Command
	}{
		{"LPUSH mylist a b c", Command{Type: CmdLPush, Key: "mylist", Args: []string{"a", "b", "c"}}},
		{"lpush mylist a", Command{Type: CmdLPush, Key: "mylist", Args: []string{"a"}}},
		{"LRANGE mylist 0 -1", Command{Type: CmdLRange, Key: "mylist", Start: 0, Stop: -1}},
		{"LRANGE mylist 1 3", Command{Type: CmdLRange, Key: "mylist", Start: 1, Stop: 3}},
		{"PING", Command{Type: CmdPing}},
		{"SET name Alice", Command{Type: CmdSet, Key: "name", Value: "Alice"}},

		{"LPUSH mylist", Command{Type: CmdUnrecognized}},
		{"LRANGE mylist 0", Command{Type: CmdUnrecognized}},
		{"LRANGE mylist 0 1 2", Command{Type: CmdUnrecognized}},
	}

	for _, c := range cases {
		got := Parse(c.line, VariantTyped)
		got.Raw = ""
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("Parse(%q) = %+v, want %+v", c.line, got, c.want)
		}
	}
}

func TestParseLRangeBadIndices(t *testing.T) {
	// malformed indices fall back to 0 and -1, full-range
	got := Parse("LRANGE mylist x y", VariantTyped)
	if got.Type != CmdLRange || got.Start != 0 || got.Stop != -1 {
		t.Errorf("expected LRANGE with default indices, got %+v", got)
	}
}

func TestParseVariant(t *testing.T) {
	if v, err := ParseVariant("plain"); err != nil || v != VariantPlain {
		t.Errorf("ParseVariant(plain) = %v, %v", v, err)
	}
	if v, err := ParseVariant("typed"); err != nil || v != VariantTyped {
		t.Errorf("ParseVariant(typed) = %v, %v", v, err)
	}
	if _, err := ParseVariant("resp3"); err == nil {
		t.Error("expected error for unknown variant")
	}
}
