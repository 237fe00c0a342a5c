package server

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/SherlockGy/linekv/lib/logging"
	"github.com/SherlockGy/linekv/server/protocol"
	"github.com/VictoriaMetrics/metrics"
)

const (
	// line buffer limits for the per-connection scanner
	initialLineBuffer = 64 * 1024
	maxLineBuffer     = 1024 * 1024
)

// handleConn runs one connection session: read a line, dispatch it against
// the store, write the reply, repeat. The session ends on QUIT, on peer
// close, on an I/O error, or when the server begins shutdown; the
// connection is always closed on exit.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	s.conns.Store(conn, struct{}{})
	defer s.conns.Delete(conn)

	peer := conn.RemoteAddr()
	logging.L().Infof("client connected: %s", peer)
	defer logging.L().Infof("client disconnected: %s", peer)

	timeout := time.Duration(s.config.TimeoutSecond) * time.Second

	sc := bufio.NewScanner(conn)
	sc.Buffer(make([]byte, 0, initialLineBuffer), maxLineBuffer)

	for {
		// a session in flight finishes its current cycle on shutdown and
		// stops before the next read
		if s.inShutdown.Load() {
			return
		}

		if timeout > 0 {
			if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
				return
			}
		}

		// end of stream or read error closes the session
		if !sc.Scan() {
			if err := sc.Err(); err != nil && !s.inShutdown.Load() {
				logging.L().Debugf("read error from %s: %v", peer, err)
			}
			return
		}

		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		cmd := protocol.Parse(line, s.variant)
		res := Execute(cmd, s.store)
		metrics.GetOrCreateCounter(fmt.Sprintf(`linekv_commands_total{verb=%q}`, cmd.Type.String())).Inc()

		if timeout > 0 {
			if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
				return
			}
		}

		if _, err := conn.Write(s.encoder.Encode(res)); err != nil {
			logging.L().Debugf("write error to %s: %v", peer, err)
			return
		}

		// the farewell reply is written before the session closes,
		// whatever the write outcome
		if cmd.Type == protocol.CmdQuit {
			return
		}
	}
}
