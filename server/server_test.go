package server

import (
	"bufio"
	"fmt"
	"net"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/SherlockGy/linekv/client"
	"github.com/stretchr/testify/require"
)

// startTestServer boots a server on an ephemeral port and returns its
// address. The server is shut down when the test finishes.
func startTestServer(t *testing.T, mutate func(*Config)) string {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Port = 0
	if mutate != nil {
		mutate(&cfg)
	}

	s, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, s.Listen())

	go func() {
		if err := s.Serve(); err != nil {
			t.Errorf("Serve returned error: %v", err)
		}
	}()
	t.Cleanup(s.Shutdown)

	return s.Addr().String()
}

// rawSession is a raw TCP connection for asserting exact wire bytes.
type rawSession struct {
	t      *testing.T
	conn   net.Conn
	reader *bufio.Reader
}

func dialRaw(t *testing.T, addr string) *rawSession {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return &rawSession{t: t, conn: conn, reader: bufio.NewReader(conn)}
}

func (r *rawSession) sendLine(line string) {
	r.t.Helper()
	_, err := r.conn.Write([]byte(line + "\n"))
	require.NoError(r.t, err)
}

func (r *rawSession) expect(want string) {
	r.t.Helper()
	require.NoError(r.t, r.conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	got, err := r.reader.ReadString('\n')
	require.NoError(r.t, err)
	require.Equal(r.t, want, got)
}

func (r *rawSession) expectClosed() {
	r.t.Helper()
	require.NoError(r.t, r.conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, err := r.reader.ReadByte()
	require.Error(r.t, err, "expected the server to close the connection")
}

// --------------------------------------------------------------------------
// Protocol scenarios
// --------------------------------------------------------------------------

func TestPlainProtocolScenario(t *testing.T) {
	addr := startTestServer(t, nil)
	c := dialRaw(t, addr)

	c.sendLine("SET name Alice")
	c.expect("OK\n")

	c.sendLine("GET name")
	c.expect("VALUE Alice\n")

	c.sendLine("GET missing")
	c.expect("NOT_FOUND\n")

	c.sendLine("DEL name")
	c.expect("OK\n")

	c.sendLine("GET name")
	c.expect("NOT_FOUND\n")

	// an empty line produces no response and keeps the session alive:
	// the next reply read must belong to the KEYS command
	c.sendLine("")
	c.sendLine("KEYS")
	c.expect("KEYS (empty)\n")

	c.sendLine("QUIT")
	c.expect("BYE\n")
	c.expectClosed()
}

func TestPlainValueWithSpaces(t *testing.T) {
	addr := startTestServer(t, nil)
	c := dialRaw(t, addr)

	c.sendLine("SET msg Hello World")
	c.expect("OK\n")
	c.sendLine("GET msg")
	c.expect("VALUE Hello World\n")
}

func TestPlainUnknownCommandKeepsSession(t *testing.T) {
	addr := startTestServer(t, nil)
	c := dialRaw(t, addr)

	c.sendLine("FLY me to the moon")
	c.expect("ERROR unknown command\n")

	// malformed input never closes the connection by itself
	c.sendLine("SET k v")
	c.expect("OK\n")
}

func TestTypedProtocolScenario(t *testing.T) {
	addr := startTestServer(t, func(cfg *Config) {
		cfg.Proto = "typed"
	})
	c := dialRaw(t, addr)

	c.sendLine("SET name Alice")
	c.expect("+OK\n")

	c.sendLine("GET name")
	c.expect("$Alice\n")

	c.sendLine("GET missing")
	c.expect("$-1\n")

	c.sendLine("LPUSH mylist a b c")
	c.expect(":3\n")

	// left-to-right prepend keeps insertion order
	c.sendLine("LRANGE mylist 0 -1")
	c.expect("*3\n")
	c.expect("$a\n")
	c.expect("$b\n")
	c.expect("$c\n")

	c.sendLine("GET mylist")
	c.expect("-WRONGTYPE\n")

	c.sendLine("LPUSH name x")
	c.expect("-WRONGTYPE\n")

	c.sendLine("DEL name mylist missing")
	c.expect(":2\n")

	c.sendLine("PING")
	c.expect("+PONG\n")

	c.sendLine("QUIT")
	c.expect("+OK\n")
	c.expectClosed()
}

// --------------------------------------------------------------------------
// Concurrency
// --------------------------------------------------------------------------

func TestConcurrentClientsPoolMode(t *testing.T) {
	// more clients than workers: sessions queue on the pool and must all
	// complete exactly once
	addr := startTestServer(t, func(cfg *Config) {
		cfg.Workers = 4
	})

	const clients = 16

	var wg sync.WaitGroup
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			c, err := client.Dial(client.Config{Addr: addr, Proto: "plain", TimeoutSecond: 5})
			if err != nil {
				t.Errorf("client %d: dial failed: %v", i, err)
				return
			}
			if err := c.Set(fmt.Sprintf("key-%d", i), fmt.Sprintf("value-%d", i)); err != nil {
				t.Errorf("client %d: set failed: %v", i, err)
			}
			if err := c.Quit(); err != nil {
				t.Errorf("client %d: quit failed: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	// all writes from all sessions must be visible
	c, err := client.Dial(client.Config{Addr: addr, Proto: "plain", TimeoutSecond: 5})
	require.NoError(t, err)
	defer c.Close()

	keys, err := c.Keys()
	require.NoError(t, err)
	require.Len(t, keys, clients)

	sort.Strings(keys)
	for i := 0; i < clients; i++ {
		value, loaded, err := c.Get(fmt.Sprintf("key-%d", i))
		require.NoError(t, err)
		require.True(t, loaded, "key-%d missing", i)
		require.Equal(t, fmt.Sprintf("value-%d", i), value)
	}
}

func TestConcurrentClientsSpawnMode(t *testing.T) {
	// spawn mode holds all sessions open at the same time
	addr := startTestServer(t, func(cfg *Config) {
		cfg.Mode = ModeSpawn
		cfg.Proto = "typed"
		cfg.StoreImpl = StoreShard
	})

	const clients = 8

	conns := make([]*client.Client, clients)
	for i := range conns {
		c, err := client.Dial(client.Config{Addr: addr, Proto: "typed", TimeoutSecond: 5})
		require.NoError(t, err)
		conns[i] = c
	}

	var wg sync.WaitGroup
	for i, c := range conns {
		wg.Add(1)
		go func(i int, c *client.Client) {
			defer wg.Done()
			if err := c.Set(fmt.Sprintf("key-%d", i), "v"); err != nil {
				t.Errorf("client %d: set failed: %v", i, err)
			}
		}(i, c)
	}
	wg.Wait()

	keys, err := conns[0].Keys()
	require.NoError(t, err)
	require.Len(t, keys, clients)

	for _, c := range conns {
		require.NoError(t, c.Quit())
	}
}

// --------------------------------------------------------------------------
// Lifecycle
// --------------------------------------------------------------------------

func TestShutdownDrainsSessions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Port = 0
	cfg.Workers = 2

	s, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, s.Listen())
	go func() { _ = s.Serve() }()

	addr := s.Addr().String()

	// an idle session blocked in a read must not hang shutdown
	c, err := client.Dial(client.Config{Addr: addr, Proto: "plain", TimeoutSecond: 5})
	require.NoError(t, err)
	require.NoError(t, c.Set("k", "v"))

	done := make(chan struct{})
	go func() {
		s.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Shutdown did not return")
	}
	_ = c.Close()

	// the listener is gone
	_, err = net.DialTimeout("tcp", addr, 500*time.Millisecond)
	require.Error(t, err)
}

func TestZeroWorkersIsFatal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 0

	_, err := New(cfg)
	require.Error(t, err)
}

func TestInvalidConfigRejected(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = "fibers"
	_, err := New(cfg)
	require.Error(t, err)

	cfg = DefaultConfig()
	cfg.StoreImpl = "leveldb"
	_, err = New(cfg)
	require.Error(t, err)

	cfg = DefaultConfig()
	cfg.Proto = "resp3"
	_, err = New(cfg)
	require.Error(t, err)
}
