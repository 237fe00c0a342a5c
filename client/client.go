package client

import (
	"bufio"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/SherlockGy/linekv/server/protocol"
)

// Config holds the client connection parameters.
type Config struct {
	Addr          string // server address, host:port
	Proto         string // protocol variant the server speaks: plain or typed
	TimeoutSecond int    // per-operation deadline, 0 = none
}

// String returns a human readable representation of the config.
func (c Config) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Addr: %s\n", c.Addr))
	sb.WriteString(fmt.Sprintf("Proto: %s\n", c.Proto))
	sb.WriteString(fmt.Sprintf("Timeout: %ds", c.TimeoutSecond))
	return sb.String()
}

// Client is a connection to a linekv server. It is not safe for concurrent
// use; open one client per goroutine.
type Client struct {
	conn    net.Conn
	reader  *bufio.Reader
	variant protocol.Variant
	timeout time.Duration
}

// Dial connects to the server described by cfg.
func Dial(cfg Config) (*Client, error) {
	variant, err := protocol.ParseVariant(cfg.Proto)
	if err != nil {
		return nil, err
	}

	conn, err := net.Dial("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Addr, err)
	}

	return &Client{
		conn:    conn,
		reader:  bufio.NewReader(conn),
		variant: variant,
		timeout: time.Duration(cfg.TimeoutSecond) * time.Second,
	}, nil
}

// Close closes the connection without sending QUIT.
func (c *Client) Close() error {
	return c.conn.Close()
}

// --------------------------------------------------------------------------
// Store Operations
// --------------------------------------------------------------------------

// Set stores value under key.
func (c *Client) Set(key, value string) error {
	reply, err := c.roundTrip("SET " + key + " " + value)
	if err != nil {
		return err
	}
	return expectAck(reply)
}

// Get fetches the value for key. The boolean reports whether the key was
// found.
func (c *Client) Get(key string) (string, bool, error) {
	reply, err := c.roundTrip("GET " + key)
	if err != nil {
		return "", false, err
	}

	if c.variant == protocol.VariantTyped {
		switch {
		case reply == "$-1":
			return "", false, nil
		case strings.HasPrefix(reply, "$"):
			return reply[1:], true, nil
		}
		return "", false, replyError(reply)
	}

	switch {
	case reply == "NOT_FOUND":
		return "", false, nil
	case strings.HasPrefix(reply, "VALUE "):
		return strings.TrimPrefix(reply, "VALUE "), true, nil
	}
	return "", false, replyError(reply)
}

// Del removes the given keys. The typed variant reports how many keys were
// actually removed; the plain variant does not, and removed is -1 there.
func (c *Client) Del(keys ...string) (removed int, err error) {
	reply, err := c.roundTrip("DEL " + strings.Join(keys, " "))
	if err != nil {
		return 0, err
	}

	if c.variant == protocol.VariantTyped {
		if n, ok := parseInt(reply); ok {
			return n, nil
		}
		return 0, replyError(reply)
	}

	if reply != "OK" {
		return 0, replyError(reply)
	}
	return -1, nil
}

// Keys returns all keys on the server, order unspecified.
func (c *Client) Keys() ([]string, error) {
	if c.variant == protocol.VariantTyped {
		return c.arrayRoundTrip("KEYS")
	}

	reply, err := c.roundTrip("KEYS")
	if err != nil {
		return nil, err
	}
	switch {
	case reply == "KEYS (empty)":
		return []string{}, nil
	case strings.HasPrefix(reply, "KEYS "):
		return strings.Fields(strings.TrimPrefix(reply, "KEYS ")), nil
	}
	return nil, replyError(reply)
}

// LPush prepends values to the list at key and returns the new length.
// Only available on the typed variant.
func (c *Client) LPush(key string, values ...string) (int, error) {
	reply, err := c.roundTrip("LPUSH " + key + " " + strings.Join(values, " "))
	if err != nil {
		return 0, err
	}
	if n, ok := parseInt(reply); ok {
		return n, nil
	}
	return 0, replyError(reply)
}

// LRange returns the inclusive range [start, stop] of the list at key.
// Only available on the typed variant.
func (c *Client) LRange(key string, start, stop int) ([]string, error) {
	return c.arrayRoundTrip(fmt.Sprintf("LRANGE %s %d %d", key, start, stop))
}

// Ping checks the connection. Only available on the typed variant.
func (c *Client) Ping() error {
	reply, err := c.roundTrip("PING")
	if err != nil {
		return err
	}
	if reply != "+PONG" {
		return replyError(reply)
	}
	return nil
}

// Quit tells the server to end the session and closes the connection.
func (c *Client) Quit() error {
	reply, err := c.roundTrip("QUIT")
	if err != nil {
		_ = c.conn.Close()
		return err
	}
	if err := expectAck(reply); err != nil {
		_ = c.conn.Close()
		return err
	}
	return c.conn.Close()
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// roundTrip sends one command line and reads one reply line.
func (c *Client) roundTrip(line string) (string, error) {
	if err := c.send(line); err != nil {
		return "", err
	}
	return c.readLine()
}

// arrayRoundTrip sends one command line and reads an array reply:
// a *<n> header followed by n $item lines.
func (c *Client) arrayRoundTrip(line string) ([]string, error) {
	if err := c.send(line); err != nil {
		return nil, err
	}

	header, err := c.readLine()
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(header, "*") {
		return nil, replyError(header)
	}

	n, err := strconv.Atoi(header[1:])
	if err != nil {
		return nil, fmt.Errorf("malformed array header %q", header)
	}

	items := make([]string, 0, n)
	for i := 0; i < n; i++ {
		item, err := c.readLine()
		if err != nil {
			return nil, err
		}
		items = append(items, strings.TrimPrefix(item, "$"))
	}
	return items, nil
}

func (c *Client) send(line string) error {
	if c.timeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
			return err
		}
	}
	_, err := c.conn.Write([]byte(line + "\n"))
	return err
}

func (c *Client) readLine() (string, error) {
	if c.timeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
			return "", err
		}
	}
	line, err := c.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(line, "\n"), nil
}

// expectAck accepts the acknowledgement reply of either variant.
func expectAck(reply string) error {
	if reply == "OK" || reply == "BYE" || reply == "+OK" {
		return nil
	}
	return replyError(reply)
}

// parseInt parses a typed integer reply (:n).
func parseInt(reply string) (int, bool) {
	if !strings.HasPrefix(reply, ":") {
		return 0, false
	}
	n, err := strconv.Atoi(reply[1:])
	if err != nil {
		return 0, false
	}
	return n, true
}

// replyError converts an unexpected or error reply into a Go error.
func replyError(reply string) error {
	switch {
	case strings.HasPrefix(reply, "-"):
		return fmt.Errorf("server error: %s", strings.TrimPrefix(reply, "-"))
	case strings.HasPrefix(reply, "ERROR "):
		return fmt.Errorf("server error: %s", strings.TrimPrefix(reply, "ERROR "))
	default:
		return fmt.Errorf("unexpected reply %q", reply)
	}
}
