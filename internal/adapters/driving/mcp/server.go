package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/combimatch-cli/internal/core/domain"
	"github.com/custodia-labs/combimatch-cli/internal/logger"
)

const (
	// Version is reported to clients in the initialize handshake.
	Version = "0.1.0"

	shutdownGrace = 5 * time.Second
)

// Server exposes one session over MCP. Tools and resources share the
// session, so every client sees the same pool.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer registers tools and resources against ports. Session is
// required; the other ports switch features on.
func NewServer(ports *Ports) (*Server, error) {
	if ports == nil {
		return nil, fmt.Errorf("validating ports: %w", ErrMissingSessionService)
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports:  ports,
		server: mcp.NewServer(&mcp.Implementation{Name: "combimatch", Version: Version}, nil),
	}
	s.registerTools()
	s.registerResources()
	return s, nil
}

// Run serves over stdio until ctx is cancelled or the client goes away.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler mounts the streamable MCP endpoint at / and, if configured,
// the metrics handler at /metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	if s.ports.Metrics != nil {
		mux.Handle("GET /metrics", s.ports.Metrics)
	}
	mux.Handle("/", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil))
	return mux
}

// RunHTTP listens on addr and serves Handler until ctx is cancelled,
// then drains in-flight requests for up to shutdownGrace.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("MCP server shutdown: %v", err)
		}
	})
	defer stop()

	logger.Info("MCP server listening on %s", ln.Addr())
	if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// currentSettings returns stored settings, or defaults when no settings
// port is configured.
func (s *Server) currentSettings() (domain.AppSettings, error) {
	if s.ports.Settings == nil {
		return domain.DefaultAppSettings(), nil
	}
	settings, err := s.ports.Settings.Get()
	if err != nil {
		return domain.AppSettings{}, fmt.Errorf("getting settings: %w", err)
	}
	return *settings, nil
}
