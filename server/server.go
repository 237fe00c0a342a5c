package server

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SherlockGy/linekv/lib/logging"
	"github.com/SherlockGy/linekv/lib/pool"
	"github.com/SherlockGy/linekv/lib/store"
	"github.com/SherlockGy/linekv/lib/store/lockstore"
	"github.com/SherlockGy/linekv/lib/store/shardstore"
	"github.com/SherlockGy/linekv/server/protocol"
	"github.com/VictoriaMetrics/metrics"
	"github.com/puzpuzpuz/xsync/v3"
)

var connsAccepted = metrics.NewCounter("linekv_connections_accepted_total")

// Server accepts TCP connections and serves the line protocol over a
// shared store. Each accepted connection becomes one job on the worker
// pool (ModePool) or one goroutine (ModeSpawn); the store is the only
// mutable state shared between sessions.
type Server struct {
	config  Config
	store   store.IStore
	variant protocol.Variant
	encoder protocol.IReplyEncoder
	pool    *pool.Pool // nil in ModeSpawn

	listener   net.Listener
	conns      *xsync.MapOf[net.Conn, struct{}]
	connWG     sync.WaitGroup
	inShutdown atomic.Bool
}

// New creates a server from the given configuration. Configuration usage
// errors (zero workers, unknown mode/store/protocol) are returned rather
// than served around; the caller treats them as fatal.
func New(config Config) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	variant, err := protocol.ParseVariant(config.Proto)
	if err != nil {
		return nil, err
	}

	var st store.IStore
	switch config.StoreImpl {
	case StoreShard:
		st = shardstore.New()
	default:
		st = lockstore.New()
	}

	s := &Server{
		config:  config,
		store:   st,
		variant: variant,
		encoder: protocol.NewEncoder(variant),
		conns:   xsync.NewMapOf[net.Conn, struct{}](),
	}

	if config.Mode == ModePool {
		s.pool = pool.New(config.Workers)
	}

	return s, nil
}

// Listen binds the configured address. Bind failure is returned to the
// caller, which exits the process with a message; nothing is retried.
func (s *Server) Listen() error {
	listener, err := net.Listen("tcp", s.config.Addr())
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", s.config.Addr(), err)
	}
	s.listener = listener

	logging.L().Infof("listening on %s (%s protocol, %s mode)", listener.Addr(), s.encoder.GetName(), s.config.Mode)
	return nil
}

// Addr returns the bound listen address. Only valid after Listen.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve accepts connections until Shutdown closes the listener. Accept
// failures on individual connection attempts are logged and the loop
// continues; only listener closure ends it.
func (s *Server) Serve() error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	s.serveMetrics()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.inShutdown.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			logging.L().Errorf("accept error: %v", err)
			continue
		}

		connsAccepted.Inc()
		s.dispatch(conn)
	}
}

// ListenAndServe binds the listen address and serves until shutdown.
func (s *Server) ListenAndServe() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// Shutdown stops the server gracefully: no new connections are accepted,
// sessions blocked in a read are woken so they observe shutdown after
// finishing their current read/dispatch/write cycle, and the worker pool
// is drained. Shutdown returns once every session has ended.
func (s *Server) Shutdown() {
	if !s.inShutdown.CompareAndSwap(false, true) {
		return
	}

	logging.L().Infof("shutting down")

	if s.listener != nil {
		_ = s.listener.Close()
	}

	// expire blocked reads; an in-flight dispatch/write is not interrupted
	s.conns.Range(func(conn net.Conn, _ struct{}) bool {
		_ = conn.SetReadDeadline(time.Now())
		return true
	})

	if s.pool != nil {
		s.pool.Close()
	}
	s.connWG.Wait()

	logging.L().Infof("server stopped")
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// dispatch hands an accepted connection to the configured scheduler.
func (s *Server) dispatch(conn net.Conn) {
	s.connWG.Add(1)
	job := func() {
		defer s.connWG.Done()
		s.handleConn(conn)
	}

	if s.pool != nil {
		if !s.pool.Submit(job) {
			// pool already closing, the connection cannot be served
			s.connWG.Done()
			_ = conn.Close()
		}
		return
	}

	go job()
}

// serveMetrics exposes the Prometheus endpoint if one is configured.
func (s *Server) serveMetrics() {
	if s.config.MetricsAddr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		metrics.WritePrometheus(w, true)
	})

	go func() {
		logging.L().Infof("metrics endpoint on http://%s/metrics", s.config.MetricsAddr)
		if err := http.ListenAndServe(s.config.MetricsAddr, mux); err != nil {
			logging.L().Errorf("metrics endpoint failed: %v", err)
		}
	}()
}
