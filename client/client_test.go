package client

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpectAck(t *testing.T) {
	require.NoError(t, expectAck("OK"))
	require.NoError(t, expectAck("BYE"))
	require.NoError(t, expectAck("+OK"))

	require.Error(t, expectAck("NOT_FOUND"))
	require.Error(t, expectAck("ERROR unknown command"))
}

func TestParseInt(t *testing.T) {
	n, ok := parseInt(":3")
	require.True(t, ok)
	require.Equal(t, 3, n)

	n, ok = parseInt(":-1")
	require.True(t, ok)
	require.Equal(t, -1, n)

	_, ok = parseInt("3")
	require.False(t, ok)
	_, ok = parseInt(":x")
	require.False(t, ok)
}

func TestReplyError(t *testing.T) {
	require.EqualError(t, replyError("-WRONGTYPE"), "server error: WRONGTYPE")
	require.EqualError(t, replyError("ERROR unknown command"), "server error: unknown command")
	require.EqualError(t, replyError("GARBAGE"), `unexpected reply "GARBAGE"`)
}
