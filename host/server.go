package host

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/wfcgen/wfcgen/libs/log"
)

// Config controls the transport's CORS policy and write timeout; the
// fields a host operator would actually want to tune, mirroring how the
// teacher's rpc.Server takes a *config.RPCConfig rather than hardcoding
// these. MetricsRegistry, if set, is scraped at GET /metrics independently
// of any websocket session. MaxSessions is not read by NewServer; the
// session cap is the capacity given to NewManager.
type Config struct {
	CORSAllowedOrigins []string
	MaxSessions        int
	WriteTimeout       time.Duration
	MetricsRegistry    *prometheus.Registry
}

// DefaultConfig returns reasonable transport defaults.
func DefaultConfig() Config {
	return Config{
		CORSAllowedOrigins: []string{"*"},
		MaxSessions:        256,
		WriteTimeout:       10 * time.Second,
	}
}

// Server serves the websocket transport for the Host<->Engine protocol
// plus the read-only introspection routes, the same Addr/Handler/Logger/
// Config shape as the teacher's inspector rpc.Server.
type Server struct {
	Addr    string
	Handler http.Handler
	Logger  log.Logger
	Config  Config
}

// NewServer wires the websocket and introspection handlers behind a CORS
// middleware, returning a ready-to-serve Server.
func NewServer(addr string, mgr *Manager, cfg Config, logger log.Logger) *Server {
	if logger == nil {
		logger = log.NopLogger()
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler(mgr, cfg, logger))
	registerRoutes(mux, mgr)
	if cfg.MetricsRegistry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(cfg.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	return &Server{
		Addr:    addr,
		Handler: addCORSHandler(cfg, mux),
		Logger:  logger,
		Config:  cfg,
	}
}

// ListenAndServe blocks serving s.Handler until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.Addr,
		Handler:      s.Handler,
		WriteTimeout: s.Config.WriteTimeout,
	}
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()
	s.Logger.Info("listening", "addr", s.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("host: serve: %w", err)
	}
	return nil
}

func addCORSHandler(cfg Config, h http.Handler) http.Handler {
	mw := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})
	return mw.Handler(h)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true }, // CORS policy is enforced by addCORSHandler
}

// commandEnvelope is the incoming host->engine wire shape: a discriminator
// plus whichever payload field matches it (spec.md §6).
type commandEnvelope struct {
	Type string       `json:"type"`
	Init *InitMessage `json:"init,omitempty"`
	Step *StepMessage `json:"step,omitempty"`
}

// outEnvelope is the outgoing engine->host wire shape: every Session.Out
// message gets tagged with its kind so an untyped client can dispatch on
// it (spec.md §6).
type outEnvelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func wsHandler(mgr *Manager, cfg Config, logger log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("websocket upgrade failed", "err", err)
			return
		}
		defer conn.Close()

		var sessionID string
		var sess *Session
		ready := make(chan *Session, 1)

		// The write loop and the read loop run concurrently over the same
		// connection; an errgroup ties their lifetimes together so a dead
		// write side (client stopped reading) tears down the read side too,
		// instead of leaking a goroutine blocked on conn.ReadJSON forever.
		var g errgroup.Group
		g.Go(func() error {
			s, ok := <-ready
			if !ok {
				return nil
			}
			for msg := range s.Out() {
				env := outEnvelope{Type: typeTag(msg), Payload: msg}
				if cfg.WriteTimeout > 0 {
					_ = conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
				}
				if err := conn.WriteJSON(env); err != nil {
					_ = conn.Close()
					return fmt.Errorf("host: websocket write: %w", err)
				}
			}
			return nil
		})

		for {
			var cmd commandEnvelope
			if err := conn.ReadJSON(&cmd); err != nil {
				break
			}

			switch cmd.Type {
			case "init":
				if cmd.Init == nil {
					continue
				}
				if sess == nil {
					sessionID, sess, err = mgr.Create(*cmd.Init)
					if err == nil {
						ready <- sess
					}
				} else {
					err = mgr.Reinitialize(sessionID, *cmd.Init)
				}
				if err != nil {
					logger.Error("init failed", "err", err)
				}
			case "run":
				if sess != nil {
					sess.Run()
				}
			case "pause":
				if sess != nil {
					sess.Pause()
				}
			case "step":
				if sess != nil {
					n := 1
					if cmd.Step != nil && cmd.Step.Collapses > 0 {
						n = cmd.Step.Collapses
					}
					sess.Step(n)
				}
			}
		}

		if sessionID != "" {
			mgr.Close(sessionID)
		} else {
			close(ready)
		}
		if err := g.Wait(); err != nil {
			logger.Error("websocket session ended", "session", sessionID, "err", err)
		}
	}
}

func typeTag(msg any) string {
	switch msg.(type) {
	case StateMessage:
		return "state"
	case BatchMessage:
		return "batch"
	case ProgressMessage:
		return "progress"
	case ErrorMessage:
		return "error"
	default:
		return "unknown"
	}
}
