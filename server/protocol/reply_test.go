package protocol

import "testing"

func TestPlainEncoder(t *testing.T) {
	enc := NewEncoder(VariantPlain)

	cases := []struct {
		res  Result
		want string
	}{
		{Result{Type: ROK}, "OK\n"},
		{Result{Type: RValue, Value: "Alice"}, "VALUE Alice\n"},
		{Result{Type: RValue, Value: "Hello World"}, "VALUE Hello World\n"},
		{Result{Type: RNotFound}, "NOT_FOUND\n"},
		{Result{Type: RDeleted, N: 2}, "OK\n"},
		{Result{Type: RKeys, Items: []string{"k1", "k2"}}, "KEYS k1 k2\n"},
		{Result{Type: RKeys}, "KEYS (empty)\n"},
		{Result{Type: RBye}, "BYE\n"},
		{Result{Type: RUnknownCommand}, "ERROR unknown command\n"},
		{Result{Type: RError, Err: "queue full"}, "ERROR queue full\n"},
	}

	for _, c := range cases {
		if got := string(enc.Encode(c.res)); got != c.want {
			t.Errorf("Encode(%+v) = %q, want %q", c.res, got, c.want)
		}
	}
}

func TestTypedEncoder(t *testing.T) {
	enc := NewEncoder(VariantTyped)

	cases := []struct {
		res  Result
		want string
	}{
		{Result{Type: ROK}, "+OK\n"},
		{Result{Type: RBye}, "+OK\n"},
		{Result{Type: RPong}, "+PONG\n"},
		{Result{Type: RValue, Value: "Alice"}, "$Alice\n"},
		{Result{Type: RNotFound}, "$-1\n"},
		{Result{Type: RDeleted, N: 2}, ":2\n"},
		{Result{Type: RInt, N: 3}, ":3\n"},
		{Result{Type: RList, Items: []string{"a", "b", "c"}}, "*3\n$a\n$b\n$c\n"},
		{Result{Type: RList}, "*0\n"},
		{Result{Type: RKeys, Items: []string{"k"}}, "*1\n$k\n"},
		{Result{Type: RUnknownCommand}, "-ERROR unknown command\n"},
		{Result{Type: RWrongType}, "-WRONGTYPE\n"},
		{Result{Type: RError, Err: "boom"}, "-ERROR boom\n"},
	}

	for _, c := range cases {
		if got := string(enc.Encode(c.res)); got != c.want {
			t.Errorf("Encode(%+v) = %q, want %q", c.res, got, c.want)
		}
	}
}
